package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ricadh/hospital-api/internal/models"
	"github.com/ricadh/hospital-api/internal/scheduling"
	"github.com/ricadh/hospital-api/internal/store"
)

type consultationResponse struct {
	models.Consultation
	Warning string `json:"warning,omitempty"`
}

// CreateConsultation records a visit from a multipart form, stores an optional
// image attachment, and, when a review date is given, auto-schedules a
// follow-up appointment. The follow-up write is best-effort: a failure is
// reported in the warning field, never by failing the consultation.
func (h *Handler) CreateConsultation(c *gin.Context) {
	patientHex := c.PostForm("patientId")
	if patientHex == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "patientId is required"})
		return
	}
	patientID, err := primitive.ObjectIDFromHex(patientHex)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid patient ID"})
		return
	}

	visitDate := c.PostForm("visitDate")
	if visitDate == "" {
		visitDate = time.Now().Format("2006-01-02")
	}

	visit := models.Consultation{
		PatientID:      patientID,
		VisitDate:      visitDate,
		PresentHistory: c.PostForm("presentHistory"),
		Diagnosis:      c.PostForm("diagnosis"),
		Treatment:      c.PostForm("treatment"),
		ReviewDate:     c.PostForm("reviewDate"),
	}

	// Blank vitals stay nil; the form posts empty strings for untouched fields.
	if bp := c.PostForm("bp"); bp != "" {
		visit.BP = &bp
	}
	if visit.PR, err = intField(c, "pr"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pr must be a whole number"})
		return
	}
	if visit.RBS, err = intField(c, "rbs"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rbs must be a whole number"})
		return
	}
	if raw := c.PostForm("temp"); raw != "" {
		t, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "temp must be a number"})
			return
		}
		visit.Temp = &t
	}

	ctx := c.Request.Context()
	visit, err = h.Store.CreateConsultation(ctx, visit)
	if err != nil {
		log.Error().Err(err).Msg("create consultation")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create consultation"})
		return
	}

	resp := consultationResponse{Consultation: visit}

	if file, err := c.FormFile("image"); err == nil {
		if _, err := h.saveVisitImage(c, visit.ID, file); err != nil {
			log.Error().Err(err).Str("visitId", visit.ID.Hex()).Msg("store consultation image")
			resp.Warning = "Consultation saved but the image could not be stored"
		}
	}

	// The auto-scheduled review deliberately skips the gap check: reviews
	// have always been stacked on the 09:00 slot.
	if visit.ReviewDate != "" {
		followUp := scheduling.ReviewAppointment(patientID, visit.ReviewDate)
		if _, err := h.Store.CreateAppointment(ctx, followUp); err != nil {
			log.Error().Err(err).Str("reviewDate", visit.ReviewDate).Msg("create follow-up appointment")
			resp.Warning = "Consultation saved but the follow-up appointment could not be scheduled"
		}
	}

	c.JSON(http.StatusCreated, resp)
}

// GetPatientHistory returns a patient's visits, newest first, with images.
func (h *Handler) GetPatientHistory(c *gin.Context) {
	visits, err := h.Store.ListVisitsByPatient(c.Request.Context(), c.Param("patientId"))
	if err != nil {
		if errors.Is(err, store.ErrInvalidID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid patient ID"})
			return
		}
		log.Error().Err(err).Msg("list patient history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve history"})
		return
	}

	c.JSON(http.StatusOK, visits)
}

// UploadImage attaches an image to an existing visit.
func (h *Handler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	visitID, err := primitive.ObjectIDFromHex(c.PostForm("visitId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid visit ID"})
		return
	}

	img, err := h.saveVisitImage(c, visitID, file)
	if err != nil {
		log.Error().Err(err).Str("visitId", visitID.Hex()).Msg("store uploaded image")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
		return
	}

	c.JSON(http.StatusCreated, img)
}

// saveVisitImage writes the uploaded file under the upload dir with a fresh
// uuid name and records it against the visit.
func (h *Handler) saveVisitImage(c *gin.Context, visitID primitive.ObjectID, file *multipart.FileHeader) (models.ConsultationImage, error) {
	name := uuid.NewString() + filepath.Ext(file.Filename)
	dst := filepath.Join(h.Cfg.UploadDir, name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return models.ConsultationImage{}, fmt.Errorf("save upload: %w", err)
	}

	return h.Store.CreateImage(c.Request.Context(), models.ConsultationImage{
		VisitID:  visitID,
		FilePath: dst,
	})
}

func intField(c *gin.Context, field string) (*int, error) {
	raw := c.PostForm(field)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
