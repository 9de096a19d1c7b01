package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ricadh/hospital-api/internal/models"
	"github.com/ricadh/hospital-api/internal/scheduling"
)

func postForm(t *testing.T, r http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)
	return w
}

func TestCreateConsultationWithReviewDateSchedulesFollowUp(t *testing.T) {
	s := newFakeStore()
	r := newTestRouter(s, "admin-1", models.RoleAdmin)
	patientID := primitive.NewObjectID()

	w := postForm(t, r, "/api/consultations", url.Values{
		"patientId":  {patientID.Hex()},
		"diagnosis":  {"viral fever"},
		"treatment":  {"rest, fluids"},
		"reviewDate": {"2025-03-01"},
		"pr":         {"84"},
		"temp":       {"38.2"},
	})

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, s.consultations, 1)
	require.Len(t, s.appointments, 1, "a review date must cascade exactly one appointment")

	followUp := s.appointments[0]
	assert.Equal(t, patientID, followUp.PatientID)
	assert.Equal(t, "2025-03-01", followUp.Date)
	assert.Equal(t, "09:00:00", followUp.Time)
	assert.Equal(t, models.AppointmentReview, followUp.Type)
	assert.Equal(t, scheduling.ReviewNotes, followUp.Notes)

	visit := s.consultations[0]
	require.NotNil(t, visit.PR)
	assert.Equal(t, 84, *visit.PR)
	require.NotNil(t, visit.Temp)
	assert.InDelta(t, 38.2, *visit.Temp, 0.001)
	assert.Nil(t, visit.BP)
	assert.Nil(t, visit.RBS)
	assert.NotEmpty(t, visit.VisitDate, "empty visit date defaults to today")
}

func TestCreateConsultationWithoutReviewDate(t *testing.T) {
	s := newFakeStore()
	r := newTestRouter(s, "admin-1", models.RoleAdmin)

	w := postForm(t, r, "/api/consultations", url.Values{
		"patientId": {primitive.NewObjectID().Hex()},
		"diagnosis": {"routine check"},
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, s.consultations, 1)
	assert.Empty(t, s.appointments, "no review date means no cascade appointment")
}

func TestCascadeSkipsConflictCheck(t *testing.T) {
	// Two consultations with the same review date both land on the 09:00
	// slot; auto-scheduled reviews are never run through the gap check.
	s := newFakeStore()
	r := newTestRouter(s, "admin-1", models.RoleAdmin)

	for i := 0; i < 2; i++ {
		w := postForm(t, r, "/api/consultations", url.Values{
			"patientId":  {primitive.NewObjectID().Hex()},
			"reviewDate": {"2025-03-01"},
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	require.Len(t, s.appointments, 2)
	assert.Equal(t, s.appointments[0].Time, s.appointments[1].Time)
	assert.Equal(t, s.appointments[0].Date, s.appointments[1].Date)
}

func TestCascadeFailureWarnsButKeepsConsultation(t *testing.T) {
	s := newFakeStore()
	s.failAppointments = true
	r := newTestRouter(s, "admin-1", models.RoleAdmin)

	w := postForm(t, r, "/api/consultations", url.Values{
		"patientId":  {primitive.NewObjectID().Hex()},
		"reviewDate": {"2025-03-01"},
	})

	// The consultation write already succeeded; the failed follow-up is
	// reported as a warning, not an error.
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, s.consultations, 1)

	var body struct {
		Warning string `json:"warning"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Warning)
}

func TestCreateConsultationValidation(t *testing.T) {
	s := newFakeStore()
	r := newTestRouter(s, "admin-1", models.RoleAdmin)

	tests := []struct {
		name string
		form url.Values
	}{
		{"missing patient id", url.Values{"diagnosis": {"x"}}},
		{"bad patient id", url.Values{"patientId": {"42"}}},
		{"bad pulse rate", url.Values{"patientId": {primitive.NewObjectID().Hex()}, "pr": {"fast"}}},
		{"bad temperature", url.Values{"patientId": {primitive.NewObjectID().Hex()}, "temp": {"warm"}}},
		{"bad blood sugar", url.Values{"patientId": {primitive.NewObjectID().Hex()}, "rbs": {"high"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postForm(t, r, "/api/consultations", tt.form)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	assert.Empty(t, s.consultations)
}

func TestCreateConsultationKeepsExplicitVisitDate(t *testing.T) {
	s := newFakeStore()
	r := newTestRouter(s, "admin-1", models.RoleAdmin)

	w := postForm(t, r, "/api/consultations", url.Values{
		"patientId": {primitive.NewObjectID().Hex()},
		"visitDate": {"2025-02-14"},
		"bp":        {"120/80"},
	})

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, s.consultations, 1)
	assert.Equal(t, "2025-02-14", s.consultations[0].VisitDate)
	require.NotNil(t, s.consultations[0].BP)
	assert.Equal(t, "120/80", *s.consultations[0].BP)
}
