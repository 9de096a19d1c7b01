package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ricadh/hospital-api/internal/config"
	"github.com/ricadh/hospital-api/internal/handlers"
	"github.com/ricadh/hospital-api/internal/middleware"
	"github.com/ricadh/hospital-api/internal/services"
	"github.com/ricadh/hospital-api/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, relying on environment variables.")
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	// --- Database Connection ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())
	db := client.Database(cfg.MongoDatabase)

	st := store.NewMongo(db)
	if err := st.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to create indexes")
	}
	log.Info().Str("database", cfg.MongoDatabase).Msg("Connected to MongoDB")

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.UploadDir).Msg("Failed to create upload dir")
	}

	// --- Handlers ---
	mailer := services.NewMailer(cfg.MailWebhookURL)
	h := handlers.NewHandler(st, mailer, cfg)

	// --- Gin Router ---
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/", func(c *gin.Context) {
		c.String(200, "Hospital Management System API")
	})
	r.Static("/uploads", cfg.UploadDir)

	// --- Routes ---
	authRoutes := r.Group("/api/auth")
	{
		authRoutes.POST("/register", h.Register)
		authRoutes.POST("/login", h.Login)
	}

	apiRoutes := r.Group("/api")
	apiRoutes.Use(middleware.RequireAuth([]byte(cfg.JWTSecret)))
	{
		apiRoutes.GET("/user", h.GetCurrentUser)

		// Appointment Routes
		apiRoutes.GET("/appointments", h.GetAppointments)
		apiRoutes.POST("/appointments", h.CreateAppointment)
		apiRoutes.PUT("/appointments/:id", h.UpdateAppointment)
		apiRoutes.DELETE("/appointments/:id", h.DeleteAppointment)

		// Patient Routes
		apiRoutes.GET("/patients", h.ListPatients)
		apiRoutes.POST("/patients", h.CreatePatient)
		apiRoutes.GET("/patients/my-profile", h.GetMyProfile)
		apiRoutes.POST("/patients/my-profile", h.CreateMyProfile)
		apiRoutes.PUT("/patients/my-profile", h.UpdateMyProfile)
		apiRoutes.GET("/patients/:id", h.GetPatient)
		apiRoutes.PUT("/patients/:id", h.UpdatePatient)
		apiRoutes.DELETE("/patients/:id", h.DeletePatient)

		// Consultation Routes
		apiRoutes.POST("/consultations", h.CreateConsultation)
		apiRoutes.GET("/consultations/patient/:patientId", h.GetPatientHistory)
		apiRoutes.POST("/consultations/upload", h.UploadImage)

		// Health Tracking Routes
		apiRoutes.GET("/health/records", h.ListHealthRecords)
		apiRoutes.POST("/health/records", h.CreateHealthRecord)
		apiRoutes.GET("/health/statistics", h.GetHealthStatistics)

		// Support Routes
		apiRoutes.POST("/support/contact", h.ContactSupport)
	}

	log.Info().Str("port", cfg.Port).Msg("Starting server")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}
