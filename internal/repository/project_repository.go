package repository

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/projecthub/internal/lifecycle"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func orderedHistory(db *gorm.DB) *gorm.DB {
	return db.Order("step ASC")
}

// CreateProject inserts the project together with its initial history.
func (r *ProjectRepository) CreateProject(ctx context.Context, p *models.ProjectRegistration) error {
	return translate(r.db.WithContext(ctx).Create(p).Error, "create project")
}

func (r *ProjectRepository) FindProject(ctx context.Context, id uuid.UUID) (*models.ProjectRegistration, error) {
	var p models.ProjectRegistration
	err := r.db.WithContext(ctx).
		Preload("StatusHistory", orderedHistory).
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "find project")
	}
	return &p, nil
}

func (r *ProjectRepository) ListProjects(ctx context.Context) ([]models.ProjectRegistration, error) {
	var projects []models.ProjectRegistration
	err := r.db.WithContext(ctx).
		Preload("StatusHistory", orderedHistory).
		Order("created_at ASC").
		Find(&projects).Error
	if err != nil {
		return nil, translate(err, "list projects")
	}
	return projects, nil
}

// AdvanceStatus moves the project from `from` to entry.Status and appends
// entry to its history in one transaction. ErrStale is returned when the
// project is no longer in `from`.
func (r *ProjectRepository) AdvanceStatus(ctx context.Context, id uuid.UUID, from lifecycle.Status, entry models.StatusHistoryEntry) (*models.ProjectRegistration, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.ProjectRegistration{}).
			Where("id = ? AND status = ?", id, from).
			Updates(map[string]interface{}{
				"status":                entry.Status,
				"completion_percentage": entry.Percentage,
				"updated_at":            entry.Timestamp,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.ProjectRegistration{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrNotFound
			}
			return ErrStale
		}

		entry.ProjectID = id
		return tx.Create(&entry).Error
	})
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrStale):
		return nil, err
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return nil, ErrStale
	default:
		return nil, translate(err, "advance project status")
	}
	return r.FindProject(ctx, id)
}
