package services

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/projecthub/internal/lifecycle"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/models"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/repository"
	"github.com/google/uuid"
)

// UserStore is implemented by repository.UserRepository and memory.Store.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindUserWithProjects(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, changes repository.ProfileChanges) (*models.User, error)
	SetRole(ctx context.Context, id uuid.UUID, role string) (*models.User, error)
	LinkGoogleID(ctx context.Context, id uuid.UUID, googleID string) error
	SetRefreshToken(ctx context.Context, id uuid.UUID, digest *string) error
	SwapRefreshToken(ctx context.Context, id uuid.UUID, old, next string) error
}

type AdminStore interface {
	CreateAdmin(ctx context.Context, a *models.Admin) error
	FindAdminByEmail(ctx context.Context, email string) (*models.Admin, error)
	ListAdmins(ctx context.Context) ([]models.Admin, error)
	DeleteAdmin(ctx context.Context, id uuid.UUID) error
}

type ProjectStore interface {
	CreateProject(ctx context.Context, p *models.ProjectRegistration) error
	FindProject(ctx context.Context, id uuid.UUID) (*models.ProjectRegistration, error)
	ListProjects(ctx context.Context) ([]models.ProjectRegistration, error)
	AdvanceStatus(ctx context.Context, id uuid.UUID, from lifecycle.Status, entry models.StatusHistoryEntry) (*models.ProjectRegistration, error)
}

type InternshipStore interface {
	CreateInternship(ctx context.Context, i *models.InternshipRegistration) error
	ListInternships(ctx context.Context) ([]models.InternshipRegistration, error)
}
