package models

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/projecthub/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/lifecycle"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRegistration struct {
	ID                   uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID              *uuid.UUID           `gorm:"type:uuid;index" json:"ownerId,omitempty"`
	Firstname            string               `gorm:"size:50;not null" json:"firstname" validate:"required,min=2,max=50"`
	Lastname             string               `gorm:"size:50;not null" json:"lastname" validate:"required,min=2,max=50"`
	Email                string               `gorm:"size:255;not null" json:"email" validate:"required,email"`
	MobileNumber         string               `gorm:"size:20;not null" json:"mobileNumber" validate:"required,mobile"`
	CollegeName          string               `gorm:"size:100" json:"collegeName" validate:"omitempty,min=3,max=100"`
	Degree               string               `gorm:"size:20;not null" json:"degree" validate:"required,degree"`
	Semester             string               `gorm:"size:20;not null" json:"semester" validate:"required,semester"`
	ProjectName          string               `gorm:"size:100;not null" json:"projectName" validate:"required,min=5,max=100"`
	ProjectDescription   string               `gorm:"size:1000;not null" json:"projectDescription" validate:"required,min=20,max=1000"`
	DateGiven            time.Time            `gorm:"not null" json:"dateGiven" validate:"required"`
	Deadline             time.Time            `gorm:"not null" json:"deadline" validate:"required,gtfield=DateGiven"`
	Queries              string               `gorm:"size:500" json:"queries" validate:"max=500"`
	Status               lifecycle.Status     `gorm:"type:varchar(20);not null;index" json:"status"`
	CompletionPercentage int                  `gorm:"not null" json:"completionPercentage" validate:"min=0,max=100"`
	StatusHistory        []StatusHistoryEntry `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"statusHistory" validate:"-"`
	CreatedAt            time.Time            `json:"createdAt"`
	UpdatedAt            time.Time            `json:"updatedAt"`
}

// StatusHistoryEntry records one lifecycle transition. Step is the ordinal of
// Status, and (project_id, step) is unique, so a status can never be recorded
// twice for the same project.
type StatusHistoryEntry struct {
	ID         uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	ProjectID  uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_status_history_project_step" json:"-"`
	Step       int              `gorm:"not null;uniqueIndex:idx_status_history_project_step" json:"-"`
	Status     lifecycle.Status `gorm:"type:varchar(20);not null" json:"status"`
	Percentage int              `gorm:"not null" json:"percentage"`
	Timestamp  time.Time        `gorm:"not null" json:"timestamp"`
}

func NewStatusHistoryEntry(s lifecycle.Status, at time.Time) StatusHistoryEntry {
	return StatusHistoryEntry{
		ID:         uuid.New(),
		Step:       int(s),
		Status:     s,
		Percentage: s.Percentage(),
		Timestamp:  at,
	}
}

// Validate is the store-side check that runs regardless of what the intake
// layer already verified.
func (p *ProjectRegistration) Validate() error {
	if !p.Status.Valid() {
		return apperr.Validation("Please provide a valid project status")
	}
	if p.CompletionPercentage != p.Status.Percentage() {
		return apperr.Validation("Completion percentage does not match the project status")
	}
	return checkStruct(p)
}

func (p *ProjectRegistration) BeforeCreate(_ *gorm.DB) error {
	return p.Validate()
}
