package repository

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/projecthub/internal/models"
	"gorm.io/gorm"
)

type InternshipRepository struct {
	db *gorm.DB
}

func NewInternshipRepository(db *gorm.DB) *InternshipRepository {
	return &InternshipRepository{db: db}
}

func (r *InternshipRepository) CreateInternship(ctx context.Context, i *models.InternshipRegistration) error {
	return translate(r.db.WithContext(ctx).Create(i).Error, "create internship")
}

func (r *InternshipRepository) ListInternships(ctx context.Context) ([]models.InternshipRegistration, error) {
	var out []models.InternshipRegistration
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, translate(err, "list internships")
	}
	return out, nil
}
