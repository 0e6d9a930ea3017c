package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/projecthub/internal/config"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	Admin        *handlers.AdminHandler
	Registration *handlers.RegistrationHandler
	Project      *handlers.ProjectHandler
	Health       *handlers.HealthHandler
}

// Limits are requests per minute per client IP.
type Limits struct {
	API  int
	Auth int
}

var DefaultLimits = Limits{API: 60, Auth: 10}

func Setup(app *fiber.App, cfg *config.Config, h Handlers, authService *services.AuthService, limits Limits) {
	app.Get("/", h.Health.Root)
	app.Get("/health", h.Health.Check)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := app.Group("/api/v1")
	api.Use(perIP(limits.API))

	authed := middleware.Authenticated(cfg, authService)
	admin := middleware.RequireAdmin(authService)

	api.Get("/health", h.Health.Check)

	// Auth. Only the credential endpoints carry the stricter limit.
	credentials := perIP(limits.Auth)
	auth := api.Group("/auth")
	auth.Post("/register", credentials, h.Auth.Register)
	auth.Post("/activate-user", credentials, h.Auth.Activate)
	auth.Post("/login", credentials, h.Auth.Login)
	auth.Post("/google", credentials, h.Auth.GoogleSignIn)
	auth.Post("/refresh-token", credentials, h.Auth.Refresh)

	auth.Post("/logout", authed, h.Auth.Logout)
	auth.Get("/me", authed, h.Auth.Me)
	auth.Put("/update", authed, h.Auth.UpdateProfile)
	auth.Get("/all-user", authed, admin, h.Auth.ListUsers)
	auth.Put("/user/role/:id", authed, admin, h.Auth.UpdateRole)

	// Projects
	api.Post("/project-registration", authed, h.Registration.RegisterProject)
	api.Get("/get-registration", authed, admin, h.Registration.ListProjects)
	api.Get("/project-status/:projectId", authed, h.Project.Status)
	api.Put("/project-status/:projectId", authed, admin, h.Project.Advance)
	api.Get("/status-history/:projectId", authed, h.Project.History)
	api.Get("/all-project-status", authed, admin, h.Project.Overview)

	// Internships
	api.Post("/internship-registration", h.Registration.RegisterInternship)
	api.Get("/get-internship", authed, admin, h.Registration.ListInternships)

	// Admin accounts
	adminCredentials := perIP(limits.Auth)
	admins := api.Group("/admin")
	admins.Post("/login", adminCredentials, h.Admin.Login)
	admins.Post("/verify", adminCredentials, h.Admin.Verify)
	admins.Post("/create", authed, admin, h.Admin.Create)
	admins.Get("/all-admin", authed, admin, h.Admin.List)
	admins.Delete("/delete-admin/:adminId", authed, admin, h.Admin.Delete)

	app.Use(handlers.NotFound)
}

func perIP(perMinute int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               perMinute,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many requests, please try again later")
		},
	})
}
