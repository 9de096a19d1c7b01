package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MetricHeartRate     = "heartRate"
	MetricBloodPressure = "bloodPressure"
	MetricWeight        = "weight"
	MetricTemperature   = "temperature"
)

// HealthRecord is a single self-tracked measurement. Value carries scalar
// metrics; blood pressure uses Systolic/Diastolic instead.
type HealthRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Type      string             `bson:"type" json:"type"`
	Value     *float64           `bson:"value,omitempty" json:"value,omitempty"`
	Systolic  *int               `bson:"systolic,omitempty" json:"systolic,omitempty"`
	Diastolic *int               `bson:"diastolic,omitempty" json:"diastolic,omitempty"`
	Note      string             `bson:"note,omitempty" json:"note,omitempty"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}
