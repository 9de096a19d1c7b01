// Package store is the persistence layer. Handlers depend on the Store
// interface so the domain logic can be exercised without a running database.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/ricadh/hospital-api/internal/models"
)

var (
	// ErrNotFound is returned when a lookup matches no document.
	ErrNotFound = errors.New("not found")
	// ErrInvalidID is returned when a caller-supplied id is not a valid hex object id.
	ErrInvalidID = errors.New("invalid id")
	// ErrDuplicateEmail is returned when a user with the same email already exists.
	ErrDuplicateEmail = errors.New("email already registered")
)

// AppointmentQuery filters appointment listings. Empty fields are ignored.
type AppointmentQuery struct {
	PatientID string
	Date      string
	Type      string
}

// AppointmentUpdate carries a partial update; nil fields are left untouched.
type AppointmentUpdate struct {
	PatientID *string
	Date      *string
	Time      *string
	Type      *string
	Notes     *string
}

// PatientUpdate carries a partial update; nil fields are left untouched.
type PatientUpdate struct {
	Name            *string
	Age             *int
	Sex             *string
	Address         *string
	Mobile          *string
	Occupation      *string
	DM              *bool
	HT              *bool
	HeartDisease    *bool
	ThyroidDisorder *bool
	Allergy         *bool
	AllergyDetails  *string
	CurrentBPM      *int
}

// Visit is a consultation together with its attached images.
type Visit struct {
	models.Consultation
	Images []models.ConsultationImage `json:"images"`
}

type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	// FindUserByLogin matches either the email or the username.
	FindUserByLogin(ctx context.Context, login string) (models.User, error)
	GetUser(ctx context.Context, id string) (models.User, error)
}

type PatientStore interface {
	CreatePatient(ctx context.Context, patient models.Patient) (models.Patient, error)
	GetPatient(ctx context.Context, id string) (models.Patient, error)
	// FindPatientByUserID resolves the profile linked to a login account.
	FindPatientByUserID(ctx context.Context, userID string) (models.Patient, error)
	ListPatients(ctx context.Context) ([]models.Patient, error)
	UpdatePatient(ctx context.Context, id string, upd PatientUpdate) (models.Patient, error)
	DeletePatient(ctx context.Context, id string) error
}

type AppointmentStore interface {
	// FindAppointmentsByDate returns every appointment on a calendar date,
	// the input set for the booking conflict check.
	FindAppointmentsByDate(ctx context.Context, date string) ([]models.Appointment, error)
	CreateAppointment(ctx context.Context, apt models.Appointment) (models.Appointment, error)
	ListAppointments(ctx context.Context, q AppointmentQuery) ([]models.Appointment, error)
	UpdateAppointment(ctx context.Context, id string, upd AppointmentUpdate) (models.Appointment, error)
	DeleteAppointment(ctx context.Context, id string) error
}

type ConsultationStore interface {
	CreateConsultation(ctx context.Context, visit models.Consultation) (models.Consultation, error)
	// ListVisitsByPatient returns the visit history newest first, images attached.
	ListVisitsByPatient(ctx context.Context, patientID string) ([]Visit, error)
	CreateImage(ctx context.Context, img models.ConsultationImage) (models.ConsultationImage, error)
}

type HealthStore interface {
	CreateHealthRecord(ctx context.Context, rec models.HealthRecord) (models.HealthRecord, error)
	// ListHealthRecords returns the newest records for a user, capped at limit.
	ListHealthRecords(ctx context.Context, userID string, limit int64) ([]models.HealthRecord, error)
	// ListHealthRecordsBetween returns records with from <= timestamp < before.
	// A zero before leaves the range open-ended.
	ListHealthRecordsBetween(ctx context.Context, userID string, from, before time.Time) ([]models.HealthRecord, error)
}

// Store is the full persistence surface consumed by the HTTP handlers.
type Store interface {
	UserStore
	PatientStore
	AppointmentStore
	ConsultationStore
	HealthStore
}
