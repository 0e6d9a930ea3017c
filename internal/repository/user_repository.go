package repository

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/projecthub/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, u *models.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error, "create user")
}

func (r *UserRepository) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err, "find user")
	}
	return &u, nil
}

// FindUserWithProjects loads the user and the projects they registered,
// oldest first.
func (r *UserRepository) FindUserWithProjects(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).
		Preload("Projects", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&u, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "find user")
	}
	return &u, nil
}

func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err, "find user by email")
	}
	return &u, nil
}

func (r *UserRepository) FindUserByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("google_id = ?", googleID).First(&u).Error; err != nil {
		return nil, translate(err, "find user by google id")
	}
	return &u, nil
}

func (r *UserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, translate(err, "list users")
	}
	return users, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, changes ProfileChanges) (*models.User, error) {
	updates := map[string]interface{}{"updated_at": time.Now()}
	if changes.Name != nil {
		updates["name"] = *changes.Name
	}
	if changes.Email != nil {
		updates["email"] = *changes.Email
	}
	if changes.PasswordHash != nil {
		updates["password"] = *changes.PasswordHash
	}
	if err := r.update(ctx, id, updates); err != nil {
		return nil, err
	}
	return r.FindUserByID(ctx, id)
}

func (r *UserRepository) SetRole(ctx context.Context, id uuid.UUID, role string) (*models.User, error) {
	if err := r.update(ctx, id, map[string]interface{}{"role": role, "updated_at": time.Now()}); err != nil {
		return nil, err
	}
	return r.FindUserByID(ctx, id)
}

func (r *UserRepository) LinkGoogleID(ctx context.Context, id uuid.UUID, googleID string) error {
	return r.update(ctx, id, map[string]interface{}{"google_id": googleID, "updated_at": time.Now()})
}

// SetRefreshToken overwrites the stored refresh digest. A nil digest ends
// the session.
func (r *UserRepository) SetRefreshToken(ctx context.Context, id uuid.UUID, digest *string) error {
	return r.update(ctx, id, map[string]interface{}{"refresh_token": digest})
}

// SwapRefreshToken replaces old with next only if old is still the stored
// digest, so a refresh token can be redeemed once.
func (r *UserRepository) SwapRefreshToken(ctx context.Context, id uuid.UUID, old, next string) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND refresh_token = ?", id, old).
		Update("refresh_token", next)
	if result.Error != nil {
		return translate(result.Error, "swap refresh token")
	}
	if result.RowsAffected == 0 {
		return ErrStale
	}
	return nil
}

func (r *UserRepository) update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return translate(result.Error, "update user")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
