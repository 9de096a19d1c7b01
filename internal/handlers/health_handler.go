package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ricadh/hospital-api/internal/health"
	"github.com/ricadh/hospital-api/internal/models"
)

// Dashboards only show the most recent measurements.
const healthRecordLimit = 30

// ListHealthRecords returns the caller's latest measurements, newest first.
func (h *Handler) ListHealthRecords(c *gin.Context) {
	userID, _ := identity(c)

	records, err := h.Store.ListHealthRecords(c.Request.Context(), userID, healthRecordLimit)
	if err != nil {
		log.Error().Err(err).Msg("list health records")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve records"})
		return
	}

	c.JSON(http.StatusOK, records)
}

type createHealthRecordRequest struct {
	Type      string   `json:"type" binding:"required,oneof=heartRate bloodPressure weight temperature"`
	Value     *float64 `json:"value"`
	Systolic  *int     `json:"systolic"`
	Diastolic *int     `json:"diastolic"`
	Note      string   `json:"note"`
}

// CreateHealthRecord stores a self-tracked measurement for the caller.
func (h *Handler) CreateHealthRecord(c *gin.Context) {
	var req createHealthRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := identity(c)
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID in token"})
		return
	}

	record, err := h.Store.CreateHealthRecord(c.Request.Context(), models.HealthRecord{
		UserID:    oid,
		Type:      req.Type,
		Value:     req.Value,
		Systolic:  req.Systolic,
		Diastolic: req.Diastolic,
		Note:      req.Note,
		Timestamp: time.Now(),
	})
	if err != nil {
		log.Error().Err(err).Msg("create health record")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add record"})
		return
	}

	c.JSON(http.StatusCreated, record)
}

// GetHealthStatistics compares the last 7 days of measurements against the
// 7 days before that.
func (h *Handler) GetHealthStatistics(c *gin.Context) {
	userID, _ := identity(c)
	ctx := c.Request.Context()

	now := time.Now()
	sevenDaysAgo := now.Add(-7 * 24 * time.Hour)
	fourteenDaysAgo := now.Add(-14 * 24 * time.Hour)

	recent, err := h.Store.ListHealthRecordsBetween(ctx, userID, sevenDaysAgo, time.Time{})
	if err != nil {
		log.Error().Err(err).Msg("load recent health records")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}
	previous, err := h.Store.ListHealthRecordsBetween(ctx, userID, fourteenDaysAgo, sevenDaysAgo)
	if err != nil {
		log.Error().Err(err).Msg("load previous health records")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}

	c.JSON(http.StatusOK, health.Compute(recent, previous))
}
