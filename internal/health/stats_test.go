package health

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ricadh/hospital-api/internal/models"
)

func hr(value float64) models.HealthRecord {
	return models.HealthRecord{Type: models.MetricHeartRate, Value: &value}
}

func bp(systolic, diastolic int) models.HealthRecord {
	return models.HealthRecord{Type: models.MetricBloodPressure, Systolic: &systolic, Diastolic: &diastolic}
}

func TestComputeNoData(t *testing.T) {
	stats := Compute(nil, nil)

	assert.False(t, stats.HasData)
	assert.Equal(t, Trend{Trend: "none"}, stats.HeartRate)
	assert.Equal(t, BPTrend{Trend: "none"}, stats.BloodPressure)
}

func TestComputeNoPreviousWindow(t *testing.T) {
	stats := Compute([]models.HealthRecord{hr(72), hr(74)}, nil)

	assert.True(t, stats.HasData)
	assert.Equal(t, Trend{Average: 73, Trend: "stable"}, stats.HeartRate)
}

func TestComputeHeartRateIncreasing(t *testing.T) {
	recent := []models.HealthRecord{hr(110)}
	previous := []models.HealthRecord{hr(100)}

	stats := Compute(recent, previous)

	assert.Equal(t, Trend{Average: 110, Trend: "increasing", Change: 10}, stats.HeartRate)
}

func TestComputeHeartRateDecreasing(t *testing.T) {
	stats := Compute([]models.HealthRecord{hr(80)}, []models.HealthRecord{hr(100)})

	assert.Equal(t, Trend{Average: 80, Trend: "decreasing", Change: -20}, stats.HeartRate)
}

func TestComputeFivePercentBandIsStable(t *testing.T) {
	// Exactly 5% is still stable; the trend needs a strictly larger move.
	stats := Compute([]models.HealthRecord{hr(105)}, []models.HealthRecord{hr(100)})
	assert.Equal(t, "stable", stats.HeartRate.Trend)
	assert.Equal(t, 5, stats.HeartRate.Change)

	stats = Compute([]models.HealthRecord{hr(95)}, []models.HealthRecord{hr(100)})
	assert.Equal(t, "stable", stats.HeartRate.Trend)
}

func TestComputeBloodPressure(t *testing.T) {
	recent := []models.HealthRecord{bp(130, 85), bp(120, 79)}
	previous := []models.HealthRecord{bp(110, 70)}

	stats := Compute(recent, previous)

	assert.Equal(t, 125, stats.BloodPressure.Systolic)
	assert.Equal(t, 82, stats.BloodPressure.Diastolic)
	assert.Equal(t, "increasing", stats.BloodPressure.Trend)
	assert.Equal(t, 14, stats.BloodPressure.Change)
}

func TestComputeFiltersByMetricType(t *testing.T) {
	weight := 80.0
	recent := []models.HealthRecord{
		hr(70),
		{Type: models.MetricWeight, Value: &weight},
		bp(120, 80),
	}

	stats := Compute(recent, nil)

	assert.Equal(t, 70, stats.HeartRate.Average)
	assert.Equal(t, 120, stats.BloodPressure.Systolic)
	assert.True(t, stats.HasData)
}

func TestComputeHasDataWithOtherMetricsOnly(t *testing.T) {
	weight := 80.0
	stats := Compute([]models.HealthRecord{{Type: models.MetricWeight, Value: &weight}}, nil)

	// Weight records count as data even though neither trend covers them.
	assert.True(t, stats.HasData)
	assert.Equal(t, "none", stats.HeartRate.Trend)
	assert.Equal(t, "none", stats.BloodPressure.Trend)
}
