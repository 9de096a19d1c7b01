// Package health computes trend statistics over self-tracked health records.
package health

import (
	"math"

	"github.com/ricadh/hospital-api/internal/models"
)

// A change of more than 5% between weekly averages counts as a trend.
const trendThresholdPercent = 5

type Trend struct {
	Average int    `json:"average"`
	Trend   string `json:"trend"`
	Change  int    `json:"change"`
}

type BPTrend struct {
	Systolic  int    `json:"systolic"`
	Diastolic int    `json:"diastolic"`
	Trend     string `json:"trend"`
	Change    int    `json:"change"`
}

type Statistics struct {
	HeartRate     Trend   `json:"heartRate"`
	BloodPressure BPTrend `json:"bloodPressure"`
	HasData       bool    `json:"hasData"`
}

// Compute compares the recent window (last 7 days) against the previous one
// (7-14 days ago) for heart rate and blood pressure.
func Compute(recent, previous []models.HealthRecord) Statistics {
	return Statistics{
		HeartRate: heartRateTrend(
			ofType(recent, models.MetricHeartRate),
			ofType(previous, models.MetricHeartRate),
		),
		BloodPressure: bloodPressureTrend(
			ofType(recent, models.MetricBloodPressure),
			ofType(previous, models.MetricBloodPressure),
		),
		HasData: len(recent) > 0,
	}
}

func heartRateTrend(recent, previous []models.HealthRecord) Trend {
	if len(recent) == 0 {
		return Trend{Trend: "none"}
	}

	recentAvg := averageValue(recent)
	if len(previous) == 0 {
		return Trend{Average: round(recentAvg), Trend: "stable"}
	}

	previousAvg := averageValue(previous)
	change := percentChange(recentAvg, previousAvg)
	return Trend{
		Average: round(recentAvg),
		Trend:   classify(change),
		Change:  round(change),
	}
}

func bloodPressureTrend(recent, previous []models.HealthRecord) BPTrend {
	if len(recent) == 0 {
		return BPTrend{Trend: "none"}
	}

	recentSystolic := averageSystolic(recent)
	recentDiastolic := averageDiastolic(recent)
	if len(previous) == 0 {
		return BPTrend{
			Systolic:  round(recentSystolic),
			Diastolic: round(recentDiastolic),
			Trend:     "stable",
		}
	}

	// The trend follows the systolic reading only.
	change := percentChange(recentSystolic, averageSystolic(previous))
	return BPTrend{
		Systolic:  round(recentSystolic),
		Diastolic: round(recentDiastolic),
		Trend:     classify(change),
		Change:    round(change),
	}
}

func classify(changePercent float64) string {
	switch {
	case changePercent > trendThresholdPercent:
		return "increasing"
	case changePercent < -trendThresholdPercent:
		return "decreasing"
	default:
		return "stable"
	}
}

func percentChange(recent, previous float64) float64 {
	return (recent - previous) / previous * 100
}

func ofType(records []models.HealthRecord, metric string) []models.HealthRecord {
	var out []models.HealthRecord
	for _, r := range records {
		if r.Type == metric {
			out = append(out, r)
		}
	}
	return out
}

func averageValue(records []models.HealthRecord) float64 {
	sum := 0.0
	for _, r := range records {
		if r.Value != nil {
			sum += *r.Value
		}
	}
	return sum / float64(len(records))
}

func averageSystolic(records []models.HealthRecord) float64 {
	sum := 0.0
	for _, r := range records {
		if r.Systolic != nil {
			sum += float64(*r.Systolic)
		}
	}
	return sum / float64(len(records))
}

func averageDiastolic(records []models.HealthRecord) float64 {
	sum := 0.0
	for _, r := range records {
		if r.Diastolic != nil {
			sum += float64(*r.Diastolic)
		}
	}
	return sum / float64(len(records))
}

func round(v float64) int {
	return int(math.Round(v))
}
