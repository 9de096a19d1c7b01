package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ricadh/hospital-api/internal/models"
	"github.com/ricadh/hospital-api/internal/scheduling"
	"github.com/ricadh/hospital-api/internal/store"
)

type createAppointmentRequest struct {
	PatientID string `json:"patientId"`
	Date      string `json:"date" binding:"required"`
	Time      string `json:"time" binding:"required"`
	Type      string `json:"type" binding:"required,oneof=new review"`
	Notes     string `json:"notes"`
}

// CreateAppointment books a slot. Admins book on behalf of an explicit
// patient; everyone else books against their own linked profile. The slot is
// rejected when it falls inside the configured gap of an existing same-day
// appointment.
func (h *Handler) CreateAppointment(c *gin.Context) {
	var req createAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, use YYYY-MM-DD"})
		return
	}

	userID, role := identity(c)
	ctx := c.Request.Context()

	resolved, err := scheduling.ResolveBookingPatient(ctx, h.Store, role, userID, req.PatientID)
	if err != nil {
		switch {
		case errors.Is(err, scheduling.ErrPatientIDRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, scheduling.ErrPatientProfileNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			log.Error().Err(err).Msg("resolve booking patient")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve patient"})
		}
		return
	}

	patientID, err := primitive.ObjectIDFromHex(resolved)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid patient ID"})
		return
	}

	existing, err := h.Store.FindAppointmentsByDate(ctx, req.Date)
	if err != nil {
		log.Error().Err(err).Str("date", req.Date).Msg("load same-day appointments")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check availability"})
		return
	}

	if err := scheduling.CheckSlot(existing, req.Time, h.Cfg.GapMinutes); err != nil {
		var unavailable *scheduling.SlotUnavailableError
		if errors.As(err, &unavailable) {
			c.JSON(http.StatusBadRequest, gin.H{"error": unavailable.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time, use HH:MM or HH:MM:SS"})
		return
	}

	apt, err := h.Store.CreateAppointment(ctx, models.Appointment{
		PatientID: patientID,
		Date:      req.Date,
		Time:      req.Time,
		Type:      req.Type,
		Notes:     req.Notes,
	})
	if err != nil {
		log.Error().Err(err).Msg("create appointment")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create appointment"})
		return
	}

	c.JSON(http.StatusCreated, apt)
}

// GetAppointments lists appointments, optionally filtered by date and type.
// Non-admin callers only ever see their own patient's bookings.
func (h *Handler) GetAppointments(c *gin.Context) {
	userID, role := identity(c)
	ctx := c.Request.Context()

	q := store.AppointmentQuery{
		Date: c.Query("date"),
		Type: c.Query("type"),
	}

	if role != models.RoleAdmin {
		patient, err := h.Store.FindPatientByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusOK, []models.Appointment{})
				return
			}
			log.Error().Err(err).Msg("find patient for listing")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve appointments"})
			return
		}
		q.PatientID = patient.ID.Hex()
	}

	appointments, err := h.Store.ListAppointments(ctx, q)
	if err != nil {
		log.Error().Err(err).Msg("list appointments")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve appointments"})
		return
	}

	c.JSON(http.StatusOK, appointments)
}

type updateAppointmentRequest struct {
	PatientID *string `json:"patientId,omitempty"`
	Date      *string `json:"date,omitempty"`
	Time      *string `json:"time,omitempty"`
	Type      *string `json:"type,omitempty" binding:"omitempty,oneof=new review"`
	Notes     *string `json:"notes,omitempty"`
}

// UpdateAppointment applies a partial update. The gap rule is only enforced
// at creation time, so a rescheduled time is not re-checked.
func (h *Handler) UpdateAppointment(c *gin.Context) {
	var req updateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.PatientID == nil && req.Date == nil && req.Time == nil && req.Type == nil && req.Notes == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	apt, err := h.Store.UpdateAppointment(c.Request.Context(), c.Param("id"), store.AppointmentUpdate{
		PatientID: req.PatientID,
		Date:      req.Date,
		Time:      req.Time,
		Type:      req.Type,
		Notes:     req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		case errors.Is(err, store.ErrInvalidID):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment ID"})
		default:
			log.Error().Err(err).Msg("update appointment")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update appointment"})
		}
		return
	}

	c.JSON(http.StatusOK, apt)
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	err := h.Store.DeleteAppointment(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		case errors.Is(err, store.ErrInvalidID):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment ID"})
		default:
			log.Error().Err(err).Msg("delete appointment")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete appointment"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
