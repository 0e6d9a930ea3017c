package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/projecthub/internal/database"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/dto"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

// NewHealthHandler takes the database pool, or nil when the service runs on
// the in-memory store.
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"message": "API WORKING",
	})
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	overall, dbStatus := "ok", "ok"
	code := fiber.StatusOK
	if h.db == nil {
		dbStatus = "memory"
	} else if err := database.Ping(c.UserContext(), h.db); err != nil {
		overall, dbStatus = "degraded", "unhealthy: "+err.Error()
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(dto.HealthResponse{
		Status:    overall,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
	})
}
