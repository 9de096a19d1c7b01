package scheduling

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ricadh/hospital-api/internal/models"
	"github.com/ricadh/hospital-api/internal/store"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		seconds int
		wantErr bool
	}{
		{in: "09:00", seconds: 9 * 3600},
		{in: "09:00:00", seconds: 9 * 3600},
		{in: "23:59:59", seconds: 23*3600 + 59*60 + 59},
		{in: "00:00", seconds: 0},
		{in: "9am", wantErr: true},
		{in: "", wantErr: true},
		{in: "25:00", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseTimeOfDay(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.seconds, got, "input %q", tt.in)
	}
}

func booked(times ...string) []models.Appointment {
	appointments := make([]models.Appointment, len(times))
	for i, at := range times {
		appointments[i] = models.Appointment{
			ID:        primitive.NewObjectID(),
			PatientID: primitive.NewObjectID(),
			Date:      "2025-01-10",
			Time:      at,
			Type:      models.AppointmentNew,
		}
	}
	return appointments
}

func TestCheckSlotEmptyDayIsFree(t *testing.T) {
	assert.NoError(t, CheckSlot(nil, "09:00", 10))
}

func TestCheckSlotRejectsInsideGap(t *testing.T) {
	for _, at := range []string{"09:05", "08:51", "09:09", "09:00", "09:09:59"} {
		err := CheckSlot(booked("09:00"), at, 10)
		var unavailable *SlotUnavailableError
		require.ErrorAs(t, err, &unavailable, "candidate %s", at)
		assert.Equal(t, 10, unavailable.GapMinutes)
		assert.Equal(t, "Time slot unavailable. Please allow 10 minutes gap between appointments.", err.Error())
	}
}

func TestCheckSlotExactGapIsAllowed(t *testing.T) {
	// A difference of exactly the gap is bookable; only strictly closer
	// slots are rejected.
	assert.NoError(t, CheckSlot(booked("09:00"), "09:10", 10))
	assert.NoError(t, CheckSlot(booked("09:00"), "08:50", 10))
}

func TestCheckSlotAgainstSeveralBookings(t *testing.T) {
	existing := booked("09:00", "09:15")

	err := CheckSlot(existing, "09:05", 10)
	var unavailable *SlotUnavailableError
	assert.ErrorAs(t, err, &unavailable)

	assert.NoError(t, CheckSlot(existing, "09:25", 10))
}

func TestCheckSlotSecondPrecision(t *testing.T) {
	// 09:00:30 to 09:10:00 is 9.5 minutes, inside the gap.
	err := CheckSlot(booked("09:00:30"), "09:10", 10)
	var unavailable *SlotUnavailableError
	assert.ErrorAs(t, err, &unavailable)
}

func TestCheckSlotCustomGap(t *testing.T) {
	err := CheckSlot(booked("09:00"), "09:20", 30)
	var unavailable *SlotUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Contains(t, err.Error(), "30 minutes")

	assert.NoError(t, CheckSlot(booked("09:00"), "09:30", 30))
}

func TestCheckSlotSkipsUnparseableBookings(t *testing.T) {
	assert.NoError(t, CheckSlot(booked("garbage"), "09:00", 10))
}

func TestCheckSlotInvalidCandidate(t *testing.T) {
	err := CheckSlot(booked("09:00"), "later", 10)
	require.Error(t, err)
	var unavailable *SlotUnavailableError
	assert.False(t, errors.As(err, &unavailable))
}

type stubFinder struct {
	patient models.Patient
	err     error
}

func (s stubFinder) FindPatientByUserID(context.Context, string) (models.Patient, error) {
	return s.patient, s.err
}

func TestResolveBookingPatientAdminRequiresExplicitID(t *testing.T) {
	_, err := ResolveBookingPatient(context.Background(), stubFinder{}, models.RoleAdmin, "u1", "")
	assert.ErrorIs(t, err, ErrPatientIDRequired)
}

func TestResolveBookingPatientAdminProxy(t *testing.T) {
	id := primitive.NewObjectID().Hex()
	got, err := ResolveBookingPatient(context.Background(), stubFinder{}, models.RoleAdmin, "u1", id)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestResolveBookingPatientSelfService(t *testing.T) {
	patient := models.Patient{ID: primitive.NewObjectID()}
	got, err := ResolveBookingPatient(context.Background(), stubFinder{patient: patient}, models.RoleUser, "u1", "")
	require.NoError(t, err)
	assert.Equal(t, patient.ID.Hex(), got)
}

func TestResolveBookingPatientSelfServiceIgnoresExplicitID(t *testing.T) {
	// A non-admin cannot book for someone else by naming a patient id.
	patient := models.Patient{ID: primitive.NewObjectID()}
	other := primitive.NewObjectID().Hex()
	got, err := ResolveBookingPatient(context.Background(), stubFinder{patient: patient}, models.RoleUser, "u1", other)
	require.NoError(t, err)
	assert.Equal(t, patient.ID.Hex(), got)
}

func TestResolveBookingPatientMissingProfile(t *testing.T) {
	_, err := ResolveBookingPatient(context.Background(), stubFinder{err: store.ErrNotFound}, models.RoleUser, "u1", "")
	assert.ErrorIs(t, err, ErrPatientProfileNotFound)
}

func TestResolveBookingPatientStoreFailure(t *testing.T) {
	boom := errors.New("connection reset")
	_, err := ResolveBookingPatient(context.Background(), stubFinder{err: boom}, models.RoleUser, "u1", "")
	assert.ErrorIs(t, err, boom)
}

func TestReviewAppointment(t *testing.T) {
	patientID := primitive.NewObjectID()
	apt := ReviewAppointment(patientID, "2025-03-01")

	assert.Equal(t, patientID, apt.PatientID)
	assert.Equal(t, "2025-03-01", apt.Date)
	assert.Equal(t, "09:00:00", apt.Time)
	assert.Equal(t, models.AppointmentReview, apt.Type)
	assert.Equal(t, ReviewNotes, apt.Notes)
}
