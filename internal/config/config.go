package config

import (
	"os"
	"strconv"
	"strings"
)

// DefaultGapMinutes is the minimum separation enforced between two
// appointments on the same calendar date.
const DefaultGapMinutes = 10

type Config struct {
	Port           string
	MongoURI       string
	MongoDatabase  string
	JWTSecret      string
	UploadDir      string
	MailWebhookURL string
	GapMinutes     int
	CORSOrigins    []string
}

// Load reads the configuration from environment variables, falling back to
// development defaults. JWT_SECRET has no default on purpose; main refuses to
// start without it.
func Load() Config {
	cfg := Config{
		Port:           getenv("API_PORT", "8080"),
		MongoURI:       getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:  getenv("MONGO_DATABASE", "hospital"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		UploadDir:      getenv("UPLOAD_DIR", "uploads"),
		MailWebhookURL: os.Getenv("MAIL_WEBHOOK_URL"),
		GapMinutes:     DefaultGapMinutes,
	}

	if v := os.Getenv("APPOINTMENT_GAP_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.GapMinutes = n
		}
	}

	origins := getenv("CORS_ORIGINS", "http://localhost:3000")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
