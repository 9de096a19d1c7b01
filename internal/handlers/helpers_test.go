package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ricadh/hospital-api/internal/config"
	"github.com/ricadh/hospital-api/internal/models"
	"github.com/ricadh/hospital-api/internal/store"
)

// fakeStore implements the subset of store.Store the scheduling endpoints
// touch. Anything unimplemented panics via the embedded nil interface.
type fakeStore struct {
	store.Store

	patients         map[string]models.Patient // keyed by linked user id hex
	appointments     []models.Appointment
	consultations    []models.Consultation
	failAppointments bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{patients: map[string]models.Patient{}}
}

func (f *fakeStore) FindPatientByUserID(_ context.Context, userID string) (models.Patient, error) {
	patient, ok := f.patients[userID]
	if !ok {
		return models.Patient{}, store.ErrNotFound
	}
	return patient, nil
}

func (f *fakeStore) FindAppointmentsByDate(_ context.Context, date string) ([]models.Appointment, error) {
	var sameDay []models.Appointment
	for _, apt := range f.appointments {
		if apt.Date == date {
			sameDay = append(sameDay, apt)
		}
	}
	return sameDay, nil
}

func (f *fakeStore) CreateAppointment(_ context.Context, apt models.Appointment) (models.Appointment, error) {
	if f.failAppointments {
		return models.Appointment{}, errors.New("insert appointment: connection reset")
	}
	apt.ID = primitive.NewObjectID()
	f.appointments = append(f.appointments, apt)
	return apt, nil
}

func (f *fakeStore) ListAppointments(_ context.Context, q store.AppointmentQuery) ([]models.Appointment, error) {
	matched := []models.Appointment{}
	for _, apt := range f.appointments {
		if q.PatientID != "" && apt.PatientID.Hex() != q.PatientID {
			continue
		}
		if q.Date != "" && apt.Date != q.Date {
			continue
		}
		if q.Type != "" && apt.Type != q.Type {
			continue
		}
		matched = append(matched, apt)
	}
	return matched, nil
}

func (f *fakeStore) CreateConsultation(_ context.Context, visit models.Consultation) (models.Consultation, error) {
	visit.ID = primitive.NewObjectID()
	f.consultations = append(f.consultations, visit)
	return visit, nil
}

// newTestRouter wires the routes under test behind a stub identity.
func newTestRouter(s store.Store, userID, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewHandler(s, nil, config.Config{GapMinutes: config.DefaultGapMinutes})

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("userRole", role)
	})
	r.POST("/api/appointments", h.CreateAppointment)
	r.GET("/api/appointments", h.GetAppointments)
	r.POST("/api/consultations", h.CreateConsultation)
	return r
}
