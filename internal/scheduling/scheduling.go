// Package scheduling holds the appointment booking rules: resolving which
// patient a booking applies to, the same-day time-gap conflict check, and the
// follow-up appointment synthesized from a consultation review date.
package scheduling

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ricadh/hospital-api/internal/models"
	"github.com/ricadh/hospital-api/internal/store"
)

const (
	// ReviewTime is the fixed slot given to auto-scheduled review appointments.
	ReviewTime = "09:00:00"
	// ReviewNotes marks an appointment as created from a consultation.
	ReviewNotes = "Auto-scheduled review from consultation"
)

var (
	ErrPatientIDRequired      = errors.New("Patient ID is required for admin booking")
	ErrPatientProfileNotFound = errors.New("Patient profile not found. Please create a profile first.")
)

// SlotUnavailableError is returned when a candidate time falls inside the
// minimum gap of an existing same-day appointment.
type SlotUnavailableError struct {
	GapMinutes int
}

func (e *SlotUnavailableError) Error() string {
	return fmt.Sprintf("Time slot unavailable. Please allow %d minutes gap between appointments.", e.GapMinutes)
}

// PatientFinder is the single store lookup the booking resolver needs.
// Implementations return an error satisfying errors.Is(err, store.ErrNotFound)
// when no profile is linked to the user.
type PatientFinder interface {
	FindPatientByUserID(ctx context.Context, userID string) (models.Patient, error)
}

// ResolveBookingPatient establishes the patient a booking request applies to.
// Admins book by proxy and must name the patient explicitly; everyone else
// books against the profile linked to their own account.
func ResolveBookingPatient(ctx context.Context, finder PatientFinder, role, userID, patientID string) (string, error) {
	if role == models.RoleAdmin {
		if patientID == "" {
			return "", ErrPatientIDRequired
		}
		return patientID, nil
	}

	patient, err := finder.FindPatientByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrPatientProfileNotFound
		}
		return "", err
	}
	return patient.ID.Hex(), nil
}

// ParseTimeOfDay parses "15:04" or "15:04:05" into seconds since midnight.
func ParseTimeOfDay(s string) (int, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour()*3600 + t.Minute()*60 + t.Second(), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q", s)
}

// CheckSlot decides whether a candidate time is bookable against the
// appointments already on the same date. The slot is rejected when any
// existing time is strictly closer than gapMinutes; a difference of exactly
// gapMinutes is allowed. Existing entries with unparseable times are skipped.
func CheckSlot(existing []models.Appointment, at string, gapMinutes int) error {
	if gapMinutes <= 0 {
		gapMinutes = 10
	}
	candidate, err := ParseTimeOfDay(at)
	if err != nil {
		return err
	}

	for _, apt := range existing {
		booked, err := ParseTimeOfDay(apt.Time)
		if err != nil {
			continue
		}
		if math.Abs(float64(candidate-booked))/60 < float64(gapMinutes) {
			return &SlotUnavailableError{GapMinutes: gapMinutes}
		}
	}
	return nil
}

// ReviewAppointment builds the follow-up appointment cascaded from a
// consultation. It is persisted without a conflict check, so two reviews can
// land on the same 09:00 slot; that matches how the clinic has always
// scheduled reviews.
func ReviewAppointment(patientID primitive.ObjectID, reviewDate string) models.Appointment {
	return models.Appointment{
		PatientID: patientID,
		Date:      reviewDate,
		Time:      ReviewTime,
		Type:      models.AppointmentReview,
		Notes:     ReviewNotes,
	}
}
