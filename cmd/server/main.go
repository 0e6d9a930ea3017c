package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/projecthub/internal/config"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/database"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/logging"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/mail"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/repository"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/repository/memory"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/routes"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/services"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

type stores struct {
	users       services.UserStore
	admins      services.AdminStore
	projects    services.ProjectStore
	internships services.InternshipStore
}

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.IsProduction())

	if missing := cfg.MissingSecrets(); len(missing) > 0 {
		slog.Error("required configuration missing", "keys", strings.Join(missing, ","))
		os.Exit(1)
	}

	// Storage
	var (
		db     *gorm.DB
		st     stores
		pgLogs *logging.PGHandler
	)
	cleanupDone := make(chan struct{})
	switch cfg.DBDriver {
	case "memory":
		slog.Warn("using in-memory store, data is lost on restart")
		mem := memory.New()
		st = stores{users: mem, admins: mem, projects: mem, internships: mem}
	default:
		var err error
		db, err = database.Connect(cfg)
		if err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		if err := database.Migrate(db); err != nil {
			slog.Error("migration failed", "error", err)
			os.Exit(1)
		}
		st = stores{
			users:       repository.NewUserRepository(db),
			admins:      repository.NewAdminRepository(db),
			projects:    repository.NewProjectRepository(db),
			internships: repository.NewInternshipRepository(db),
		}

		// ERROR+ records are also batched into system_logs.
		pgLogs = logging.NewPGHandler(logging.GormSink{DB: db}, 5*time.Second)
		logging.Setup(cfg.LogLevel, cfg.IsProduction(), pgLogs)
		logging.StartCleanup(db, logging.DefaultRetention, cleanupDone)
	}

	// Challenge replay protection
	var guard services.ReplayGuard
	switch {
	case cfg.RedisURL != "":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rg, err := services.NewRedisReplayGuard(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			slog.Error("redis connection failed", "error", err)
			os.Exit(1)
		}
		defer rg.Close()
		guard = rg
	case cfg.SingleUseChallenges:
		guard = services.NewMemoryReplayGuard()
	}

	// Mail
	renderer, err := mail.NewRenderer()
	if err != nil {
		slog.Error("mail templates failed to load", "error", err)
		os.Exit(1)
	}
	// Production refuses to start without SMTP_HOST, so the log fallback
	// only serves development.
	var mailer mail.Dispatcher = mail.NewLogDispatcher(renderer, nil)
	if cfg.SMTPHost != "" {
		smtp, err := mail.NewSMTPDispatcher(cfg, renderer)
		if err != nil {
			slog.Error("smtp setup failed", "error", err)
			os.Exit(1)
		}
		mailer = smtp
	}

	var google services.GoogleVerifier
	if cfg.GoogleClientID != "" {
		google = services.NewGoogleJWKSClient(cfg.GoogleClientID)
	}

	// Services
	tokens := services.NewTokenService(cfg, guard)
	authService := services.NewAuthService(st.users, tokens, mailer, google, cfg)
	adminService := services.NewAdminService(st.admins, tokens, mailer, cfg)
	registrationService := services.NewRegistrationService(st.projects, st.internships)
	lifecycleService := services.NewLifecycleService(st.projects)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.Metrics())
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, routes.Handlers{
		Auth:         handlers.NewAuthHandler(authService),
		Admin:        handlers.NewAdminHandler(adminService),
		Registration: handlers.NewRegistrationHandler(registrationService),
		Project:      handlers.NewProjectHandler(lifecycleService),
		Health:       handlers.NewHealthHandler(db),
	}, authService, routes.DefaultLimits)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "driver", cfg.DBDriver)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	if pgLogs != nil {
		pgLogs.Stop()
	}

	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				slog.Error("database close error", "error", err)
			}
		}
	}

	slog.Info("server stopped")
}
