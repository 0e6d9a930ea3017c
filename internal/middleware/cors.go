package middleware

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/projecthub/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func CORS(cfg *config.Config) fiber.Handler {
	// fiber refuses credentials together with a wildcard origin.
	wildcard := strings.Contains(cfg.CORSOrigins, "*")
	return cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: !wildcard,
	})
}
