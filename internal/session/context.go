// Package session carries the authenticated caller's identity on the
// request's context.Context.
package session

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var ErrNoIdentity = errors.New("no authenticated identity in context")

// Identity is the caller as seen by handlers. It never carries credentials
// or token digests.
type Identity struct {
	ID    uuid.UUID
	Name  string
	Email string
	Role  string
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// Current extracts the identity the Authenticated middleware attached to c.
func Current(c *fiber.Ctx) (Identity, error) {
	id, ok := FromContext(c.UserContext())
	if !ok {
		return Identity{}, ErrNoIdentity
	}
	return id, nil
}
