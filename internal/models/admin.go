package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Admin is a back-office operator that signs in with a password and an
// emailed one-time code. Admins are separate from users with the admin role.
type Admin struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email" validate:"required,email"`
	Password  string    `gorm:"not null" json:"-" validate:"required"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *Admin) BeforeCreate(_ *gorm.DB) error {
	return checkStruct(a)
}
