package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Consultation is a single visit record. Vitals are optional and stay nil when
// the form leaves them blank. ReviewDate, when set, triggers an auto-scheduled
// follow-up appointment.
type Consultation struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PatientID      primitive.ObjectID `bson:"patientId" json:"patientId"`
	VisitDate      string             `bson:"visitDate" json:"visitDate"`
	PresentHistory string             `bson:"presentHistory,omitempty" json:"presentHistory,omitempty"`
	Diagnosis      string             `bson:"diagnosis,omitempty" json:"diagnosis,omitempty"`
	Treatment      string             `bson:"treatment,omitempty" json:"treatment,omitempty"`
	BP             *string            `bson:"bp,omitempty" json:"bp,omitempty"`
	PR             *int               `bson:"pr,omitempty" json:"pr,omitempty"`
	Temp           *float64           `bson:"temp,omitempty" json:"temp,omitempty"`
	RBS            *int               `bson:"rbs,omitempty" json:"rbs,omitempty"`
	ReviewDate     string             `bson:"reviewDate,omitempty" json:"reviewDate,omitempty"`
}

// ConsultationImage references a file stored on disk for a given visit.
type ConsultationImage struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VisitID  primitive.ObjectID `bson:"visitId" json:"visitId"`
	FilePath string             `bson:"filePath" json:"filePath"`
}
