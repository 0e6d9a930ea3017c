package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InternshipRegistration struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Firstname          string    `gorm:"size:50;not null" json:"firstname" validate:"required,min=2,max=50"`
	Lastname           string    `gorm:"size:50;not null" json:"lastname" validate:"required,min=2,max=50"`
	Email              string    `gorm:"size:255;not null;uniqueIndex" json:"email" validate:"required,email"`
	MobileNumber       string    `gorm:"size:20;not null" json:"mobileNumber" validate:"required,mobile"`
	InternshipField    string    `gorm:"size:50;not null" json:"internshipField" validate:"required,internship_field"`
	Availability       string    `gorm:"size:2;not null" json:"availability" validate:"required,availability"`
	Skills             string    `gorm:"size:500;not null" json:"skills" validate:"required,min=10,max=500"`
	ProjectDescription string    `gorm:"size:1000;not null" json:"projectDescription" validate:"required,min=20,max=1000"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func (i *InternshipRegistration) Validate() error {
	return checkStruct(i)
}

func (i *InternshipRegistration) BeforeCreate(_ *gorm.DB) error {
	return i.Validate()
}
