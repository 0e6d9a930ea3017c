package repository

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/projecthub/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) CreateAdmin(ctx context.Context, a *models.Admin) error {
	return translate(r.db.WithContext(ctx).Create(a).Error, "create admin")
}

func (r *AdminRepository) FindAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var a models.Admin
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&a).Error; err != nil {
		return nil, translate(err, "find admin")
	}
	return &a, nil
}

func (r *AdminRepository) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	var admins []models.Admin
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&admins).Error; err != nil {
		return nil, translate(err, "list admins")
	}
	return admins, nil
}

func (r *AdminRepository) DeleteAdmin(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Admin{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error, "delete admin")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
