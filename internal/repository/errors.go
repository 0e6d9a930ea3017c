// Package repository holds the GORM-backed stores. Callers see only the
// sentinel errors below, never driver errors.
package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
	// ErrStale means a compare-and-swap lost: the row changed since it was read.
	ErrStale = errors.New("stale write")
)

// ProfileChanges lists the account fields a user may change. Nil fields are
// left untouched.
type ProfileChanges struct {
	Name         *string
	Email        *string
	PasswordHash *string
}

func (p ProfileChanges) Empty() bool {
	return p.Name == nil && p.Email == nil && p.PasswordHash == nil
}

func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
