package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a customer account. It only exists after email activation.
type User struct {
	ID           uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string                `gorm:"size:100;not null" json:"name" validate:"required,max=100"`
	Email        string                `gorm:"size:255;not null;uniqueIndex" json:"email" validate:"required,email"`
	Password     string                `gorm:"not null;default:''" json:"-"`
	Role         string                `gorm:"size:20;not null;default:'user'" json:"role" validate:"oneof=user admin"`
	GoogleID     *string               `gorm:"size:255;uniqueIndex" json:"-"`
	RefreshToken *string               `gorm:"size:64" json:"-"`
	Projects     []ProjectRegistration `gorm:"foreignKey:OwnerID" json:"projectsCreated,omitempty" validate:"-"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt        `gorm:"index" json:"-"`
}

func (u *User) Validate() error {
	return checkStruct(u)
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	return u.Validate()
}

// HasSession reports whether the user currently holds a refresh token.
func (u *User) HasSession() bool {
	return u.RefreshToken != nil && *u.RefreshToken != ""
}
