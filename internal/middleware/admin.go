package middleware

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/projecthub/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/models"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var ErrNotAdmin = apperr.Forbidden("Access denied. You are not an admin.")

type RoleLookup interface {
	Role(ctx context.Context, id uuid.UUID) (string, error)
}

// RequireAdmin must run after Authenticated. The role is re-read from the
// store on every request rather than trusted from the identity.
func RequireAdmin(roles RoleLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, err := session.Current(c)
		if err != nil {
			return ErrLoginRequired
		}
		role, err := roles.Role(c.UserContext(), identity.ID)
		if err != nil {
			return err
		}
		if role != models.RoleAdmin {
			return ErrNotAdmin
		}
		return c.Next()
	}
}
