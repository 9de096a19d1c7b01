package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	AppointmentNew    = "new"
	AppointmentReview = "review"
)

// Appointment keeps Date and Time as the wall-clock strings the clinic books
// with ("2006-01-02" and "15:04" or "15:04:05"). Comparisons are done on
// time-of-day only, never on a full timestamp.
type Appointment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PatientID primitive.ObjectID `bson:"patientId" json:"patientId"`
	Date      string             `bson:"date" json:"date"`
	Time      string             `bson:"time" json:"time"`
	Type      string             `bson:"type" json:"type"`
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
}
