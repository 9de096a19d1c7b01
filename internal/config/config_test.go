package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"API_PORT", "MONGO_DATABASE", "UPLOAD_DIR", "APPOINTMENT_GAP_MINUTES", "CORS_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "hospital", cfg.MongoDatabase)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, DefaultGapMinutes, cfg.GapMinutes)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("APPOINTMENT_GAP_MINUTES", "15")
	t.Setenv("CORS_ORIGINS", "https://clinic.example.com, https://admin.example.com")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 15, cfg.GapMinutes)
	assert.Equal(t, []string{"https://clinic.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
}

func TestLoadIgnoresBadGap(t *testing.T) {
	t.Setenv("APPOINTMENT_GAP_MINUTES", "soon")
	assert.Equal(t, DefaultGapMinutes, Load().GapMinutes)

	t.Setenv("APPOINTMENT_GAP_MINUTES", "-5")
	assert.Equal(t, DefaultGapMinutes, Load().GapMinutes)
}
