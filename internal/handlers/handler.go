package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ricadh/hospital-api/internal/config"
	"github.com/ricadh/hospital-api/internal/services"
	"github.com/ricadh/hospital-api/internal/store"
)

// Handler carries the dependencies every endpoint needs.
type Handler struct {
	Store  store.Store
	Mailer *services.Mailer
	Cfg    config.Config
}

func NewHandler(s store.Store, mailer *services.Mailer, cfg config.Config) *Handler {
	return &Handler{
		Store:  s,
		Mailer: mailer,
		Cfg:    cfg,
	}
}

// identity reads the caller's id and role set by the auth middleware.
func identity(c *gin.Context) (userID, role string) {
	if v, ok := c.Get("userID"); ok {
		userID, _ = v.(string)
	}
	if v, ok := c.Get("userRole"); ok {
		role, _ = v.(string)
	}
	return userID, role
}
