package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	ActivationToken string `json:"activationToken"`
}

type ActivateRequest struct {
	ActivationToken string `json:"activation_token"`
	ActivationCode  string `json:"activation_code"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type GoogleSignInRequest struct {
	IDToken string `json:"idToken"`
}

// UpdateProfileRequest lists the only fields a user may change on their own
// account. Unknown keys in the body are ignored.
type UpdateProfileRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ProjectSummary struct {
	ID                   uuid.UUID `json:"id"`
	ProjectName          string    `json:"projectName"`
	ProjectDescription   string    `json:"projectDescription"`
	Status               string    `json:"status"`
	CompletionPercentage int       `json:"completionPercentage"`
}

type ProfileResponse struct {
	UserResponse
	ProjectsCreated []ProjectSummary `json:"projectsCreated"`
}

// AuthResponse is returned by every endpoint that opens a session.
type AuthResponse struct {
	Success      bool         `json:"success"`
	Message      string       `json:"message"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         UserResponse `json:"user"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
