package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ahmetcoskunkizilkaya/projecthub/internal/config"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/database"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/dto"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/logging"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/models"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/repository"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/services"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

var flagEmail = &cli.StringFlag{
	Name:     "email",
	Usage:    "Account email address",
	Required: true,
}

var flagPassword = &cli.StringFlag{
	Name:     "password",
	Usage:    "Admin password (8+ chars, upper, lower, digit and one of @$!%*?&)",
	EnvVars:  []string{"ADMINCTL_PASSWORD"},
	Required: true,
}

var flagRole = &cli.StringFlag{
	Name:  "role",
	Value: models.RoleAdmin,
	Usage: "Role to assign: user or admin",
}

func main() {
	app := &cli.App{
		Name:  "adminctl",
		Usage: "Operator tasks for the projecthub database",
		Before: func(cCtx *cli.Context) error {
			cfg := config.Load()
			logging.Setup(cfg.LogLevel, cfg.IsProduction())
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Create or update all tables",
				Action: func(cCtx *cli.Context) error {
					db, _, err := connect()
					if err != nil {
						return err
					}
					if err := database.Migrate(db); err != nil {
						return err
					}
					fmt.Println("migration complete")
					return nil
				},
			},
			{
				Name:  "create-admin",
				Usage: "Create an OTP admin account without an existing admin session",
				Flags: []cli.Flag{flagEmail, flagPassword},
				Action: func(cCtx *cli.Context) error {
					db, cfg, err := connect()
					if err != nil {
						return err
					}
					svc := services.NewAdminService(repository.NewAdminRepository(db), services.NewTokenService(cfg, nil), nil, cfg)
					admin, err := svc.Create(cCtx.Context, &dto.AdminCredentialsRequest{
						Email:    cCtx.String(flagEmail.Name),
						Password: cCtx.String(flagPassword.Name),
					})
					if err != nil {
						return err
					}
					fmt.Printf("admin %s created (%s)\n", admin.Email, admin.ID)
					return nil
				},
			},
			{
				Name:  "promote-user",
				Usage: "Change the role of an existing user account",
				Flags: []cli.Flag{flagEmail, flagRole},
				Action: func(cCtx *cli.Context) error {
					db, cfg, err := connect()
					if err != nil {
						return err
					}
					users := repository.NewUserRepository(db)
					email := emailArg(cCtx)
					user, err := users.FindUserByEmail(cCtx.Context, email)
					if err != nil {
						return fmt.Errorf("find user %s: %w", email, err)
					}
					svc := services.NewAuthService(users, services.NewTokenService(cfg, nil), nil, nil, cfg)
					updated, err := svc.UpdateRole(cCtx.Context, user.ID, cCtx.String(flagRole.Name))
					if err != nil {
						return err
					}
					fmt.Printf("%s is now %s\n", updated.Email, updated.Role)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// emailArg returns --email the way accounts store it: trimmed and lowercased.
func emailArg(cCtx *cli.Context) string {
	return strings.ToLower(strings.TrimSpace(cCtx.String(flagEmail.Name)))
}

func connect() (*gorm.DB, *config.Config, error) {
	cfg := config.Load()
	if cfg.DBDriver != "postgres" {
		return nil, nil, fmt.Errorf("adminctl needs DB_DRIVER=postgres, got %q", cfg.DBDriver)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, err
	}
	return db, cfg, nil
}
