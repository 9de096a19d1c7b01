package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ricadh/hospital-api/internal/auth"
	"github.com/ricadh/hospital-api/internal/models"
	"github.com/ricadh/hospital-api/internal/store"
)

type patientRequest struct {
	Name            string `json:"name" binding:"required"`
	Age             int    `json:"age" binding:"required"`
	Sex             string `json:"sex" binding:"required"`
	Address         string `json:"address"`
	Mobile          string `json:"mobile" binding:"required"`
	Occupation      string `json:"occupation"`
	DM              bool   `json:"dm"`
	HT              bool   `json:"ht"`
	HeartDisease    bool   `json:"heartDisease"`
	ThyroidDisorder bool   `json:"thyroidDisorder"`
	Allergy         bool   `json:"allergy"`
	AllergyDetails  string `json:"allergyDetails"`
	CurrentBPM      *int   `json:"currentBpm"`

	// Optional login credentials for admin-created patients. When all three
	// are present a user account is created and linked.
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *patientRequest) patient() models.Patient {
	return models.Patient{
		Name:            r.Name,
		Age:             r.Age,
		Sex:             r.Sex,
		Address:         r.Address,
		Mobile:          r.Mobile,
		Occupation:      r.Occupation,
		DM:              r.DM,
		HT:              r.HT,
		HeartDisease:    r.HeartDisease,
		ThyroidDisorder: r.ThyroidDisorder,
		Allergy:         r.Allergy,
		AllergyDetails:  r.AllergyDetails,
		CurrentBPM:      r.CurrentBPM,
	}
}

// CreatePatient registers a patient. Admins may supply credentials to create
// a linked login account (forced to the "user" role), or none to register a
// patient without one. Non-admin callers always get linked to their own
// account.
func (h *Handler) CreatePatient(c *gin.Context) {
	var req patientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, role := identity(c)
	ctx := c.Request.Context()
	patient := req.patient()

	if role == models.RoleAdmin {
		if req.Username != "" && req.Email != "" && req.Password != "" {
			hashed, err := auth.HashPassword(req.Password)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
				return
			}
			user, err := h.Store.CreateUser(ctx, models.User{
				Username: req.Username,
				Email:    req.Email,
				Password: hashed,
				Role:     models.RoleUser,
			})
			if err != nil {
				if errors.Is(err, store.ErrDuplicateEmail) {
					c.JSON(http.StatusBadRequest, gin.H{"error": "User with this email already exists"})
					return
				}
				log.Error().Err(err).Msg("create patient login")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user account"})
				return
			}
			patient.UserID = &user.ID
		}
	} else {
		oid, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID in token"})
			return
		}
		patient.UserID = &oid
	}

	created, err := h.Store.CreatePatient(ctx, patient)
	if err != nil {
		log.Error().Err(err).Msg("create patient")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create patient"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ListPatients returns all patients for admins, or just the caller's own
// profile for everyone else.
func (h *Handler) ListPatients(c *gin.Context) {
	userID, role := identity(c)
	ctx := c.Request.Context()

	if role == models.RoleAdmin {
		patients, err := h.Store.ListPatients(ctx)
		if err != nil {
			log.Error().Err(err).Msg("list patients")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve patients"})
			return
		}
		c.JSON(http.StatusOK, patients)
		return
	}

	patient, err := h.Store.FindPatientByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusOK, []models.Patient{})
			return
		}
		log.Error().Err(err).Msg("find own patient profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve patients"})
		return
	}
	c.JSON(http.StatusOK, []models.Patient{patient})
}

// GetPatient returns one patient; only admins and the linked user may view it.
func (h *Handler) GetPatient(c *gin.Context) {
	patient, err := h.Store.GetPatient(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.patientLookupError(c, err)
		return
	}

	userID, role := identity(c)
	if role != models.RoleAdmin && !ownedBy(patient, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	c.JSON(http.StatusOK, patient)
}

type patientUpdateRequest struct {
	Name            *string `json:"name,omitempty"`
	Age             *int    `json:"age,omitempty"`
	Sex             *string `json:"sex,omitempty"`
	Address         *string `json:"address,omitempty"`
	Mobile          *string `json:"mobile,omitempty"`
	Occupation      *string `json:"occupation,omitempty"`
	DM              *bool   `json:"dm,omitempty"`
	HT              *bool   `json:"ht,omitempty"`
	HeartDisease    *bool   `json:"heartDisease,omitempty"`
	ThyroidDisorder *bool   `json:"thyroidDisorder,omitempty"`
	Allergy         *bool   `json:"allergy,omitempty"`
	AllergyDetails  *string `json:"allergyDetails,omitempty"`
	CurrentBPM      *int    `json:"currentBpm,omitempty"`
}

func (r *patientUpdateRequest) update() store.PatientUpdate {
	return store.PatientUpdate{
		Name:            r.Name,
		Age:             r.Age,
		Sex:             r.Sex,
		Address:         r.Address,
		Mobile:          r.Mobile,
		Occupation:      r.Occupation,
		DM:              r.DM,
		HT:              r.HT,
		HeartDisease:    r.HeartDisease,
		ThyroidDisorder: r.ThyroidDisorder,
		Allergy:         r.Allergy,
		AllergyDetails:  r.AllergyDetails,
		CurrentBPM:      r.CurrentBPM,
	}
}

// UpdatePatient applies a partial update; only admins and the linked user may
// change a profile.
func (h *Handler) UpdatePatient(c *gin.Context) {
	var req patientUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	patient, err := h.Store.GetPatient(ctx, c.Param("id"))
	if err != nil {
		h.patientLookupError(c, err)
		return
	}

	userID, role := identity(c)
	if role != models.RoleAdmin && !ownedBy(patient, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	updated, err := h.Store.UpdatePatient(ctx, c.Param("id"), req.update())
	if err != nil {
		log.Error().Err(err).Msg("update patient")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to update patient"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeletePatient removes a patient record. Admin only.
func (h *Handler) DeletePatient(c *gin.Context) {
	_, role := identity(c)
	if role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only admins can delete patients"})
		return
	}

	if err := h.Store.DeletePatient(c.Request.Context(), c.Param("id")); err != nil {
		h.patientLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Patient deleted successfully"})
}

// GetMyProfile returns the patient profile linked to the caller's account.
func (h *Handler) GetMyProfile(c *gin.Context) {
	userID, _ := identity(c)

	patient, err := h.Store.FindPatientByUserID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found. Please create your profile."})
			return
		}
		log.Error().Err(err).Msg("get my profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profile"})
		return
	}

	c.JSON(http.StatusOK, patient)
}

// CreateMyProfile creates the caller's own patient profile, once.
func (h *Handler) CreateMyProfile(c *gin.Context) {
	var req patientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := identity(c)
	ctx := c.Request.Context()

	if _, err := h.Store.FindPatientByUserID(ctx, userID); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You already have a profile. Please use update instead."})
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Error().Err(err).Msg("check existing profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create profile"})
		return
	}

	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID in token"})
		return
	}

	patient := req.patient()
	patient.UserID = &oid
	created, err := h.Store.CreatePatient(ctx, patient)
	if err != nil {
		log.Error().Err(err).Msg("create my profile")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create profile"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// UpdateMyProfile updates the caller's own patient profile.
func (h *Handler) UpdateMyProfile(c *gin.Context) {
	var req patientUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := identity(c)
	ctx := c.Request.Context()

	patient, err := h.Store.FindPatientByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		log.Error().Err(err).Msg("find profile to update")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	updated, err := h.Store.UpdatePatient(ctx, patient.ID.Hex(), req.update())
	if err != nil {
		log.Error().Err(err).Msg("update my profile")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *Handler) patientLookupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
	case errors.Is(err, store.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid patient ID"})
	default:
		log.Error().Err(err).Msg("patient lookup")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve patient"})
	}
}

func ownedBy(patient models.Patient, userID string) bool {
	return patient.UserID != nil && patient.UserID.Hex() == userID
}
