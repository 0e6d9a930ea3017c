package middleware

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/projecthub/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/config"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/session"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrLoginRequired  = apperr.Unauthorized("Please login to access this resource")
	ErrSessionInvalid = apperr.Unauthorized("UnAuthorized Access. Please login again.")
)

// SessionResolver loads the account behind a verified access token.
type SessionResolver interface {
	ResolveSession(ctx context.Context, id uuid.UUID) (session.Identity, error)
}

// Authenticated verifies the bearer access token and attaches the caller's
// identity to the request context. An account without a stored refresh
// token (logged out) is rejected even if the access token has not expired.
func Authenticated(cfg *config.Config, resolver SessionResolver) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{
			JWTAlg: jwtware.HS256,
			Key:    []byte(cfg.AccessTokenSecret),
		},
		SuccessHandler: func(c *fiber.Ctx) error {
			id, err := subject(c)
			if err != nil {
				return ErrSessionInvalid
			}
			identity, err := resolver.ResolveSession(c.UserContext(), id)
			if err != nil {
				return err
			}
			c.SetUserContext(session.WithIdentity(c.UserContext(), identity))
			c.Locals("user_id", identity.ID.String())
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
				return ErrLoginRequired
			}
			return ErrSessionInvalid
		},
	})
}

func subject(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return uuid.Nil, errors.New("no token in context")
	}
	sub, err := token.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(sub)
}
