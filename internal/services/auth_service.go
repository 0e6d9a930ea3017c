package services

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/projecthub/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/config"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/dto"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/mail"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/models"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/repository"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/session"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken            = apperr.Conflict("Email Already Exists")
	ErrMissingCredentials    = apperr.Validation("Please Enter Email or Password")
	ErrInvalidCredentials    = apperr.Validation("Invalid Email or Password")
	ErrNameRequired          = apperr.Validation("Please enter your name")
	ErrInvalidEmail          = apperr.Validation("Please enter a valid email address")
	ErrPasswordTooShort      = apperr.Validation("Password must be at least 6 characters long")
	ErrInvalidActivationCode = apperr.Validation("Invalid Activation Code")
	ErrActivationFailed      = apperr.Validation("Activation token is invalid or expired")
	ErrSessionExpired        = apperr.Unauthorized("UnAuthorized Access. Please login again.")
	ErrUserNotFound          = apperr.NotFound("User not found!")
	ErrNoUsers               = apperr.NotFound("No users found!")
	ErrInvalidRole           = apperr.Validation("Role must be either user or admin")
	ErrGoogleDisabled        = apperr.Validation("Google sign-in is not configured")
	ErrGoogleToken           = apperr.Unauthorized("Invalid Google identity token")
)

const minUserPassword = 6

// pendingUser travels inside the activation token until the code is entered.
type pendingUser struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}

type AuthService struct {
	users  UserStore
	tokens *TokenService
	mailer mail.Dispatcher
	google GoogleVerifier
	cfg    *config.Config
}

func NewAuthService(users UserStore, tokens *TokenService, mailer mail.Dispatcher, google GoogleVerifier, cfg *config.Config) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		mailer: mailer,
		google: google,
		cfg:    cfg,
	}
}

// Register validates the sign-up form and mails an activation code. The
// account itself is only written by Activate.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (string, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	switch {
	case name == "":
		return "", ErrNameRequired
	case !validEmail(email):
		return "", ErrInvalidEmail
	case len(req.Password) < minUserPassword:
		return "", ErrPasswordTooShort
	}

	if err := s.ensureEmailFree(ctx, email); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperr.Internal("failed to hash password", err)
	}

	challenge, err := s.tokens.IssueChallenge(
		pendingUser{Name: name, Email: email, PasswordHash: string(hash)},
		s.cfg.ActivationSecret, s.cfg.ActivationTokenExpiry, 4,
	)
	if err != nil {
		return "", apperr.Internal("failed to issue activation token", err)
	}

	err = s.mailer.Send(ctx, mail.Message{
		To:       email,
		Subject:  "Activate Your Account",
		Template: mail.ActivationTemplate,
		Data: map[string]interface{}{
			"Name":           name,
			"ActivationCode": challenge.Code,
			"ExpiresIn":      s.cfg.ActivationTokenExpiry.String(),
		},
	})
	metrics.MailDeliveries.WithLabelValues(mail.ActivationTemplate, metrics.Result(err)).Inc()
	if err != nil {
		slog.ErrorContext(ctx, "activation mail failed", "error", err, "action", "register")
		return "", apperr.Internal("Failed to send activation email. Please try again.", err)
	}
	return challenge.Token, nil
}

func (s *AuthService) Activate(ctx context.Context, req *dto.ActivateRequest) (*models.User, error) {
	var pending pendingUser
	err := s.tokens.VerifyChallenge(ctx, req.ActivationToken, strings.TrimSpace(req.ActivationCode), s.cfg.ActivationSecret, &pending)
	switch {
	case errors.Is(err, ErrInvalidCode):
		return nil, ErrInvalidActivationCode
	case errors.Is(err, ErrChallengeFailed):
		return nil, ErrActivationFailed
	case err != nil:
		return nil, apperr.Internal("failed to verify activation token", err)
	}

	if err := s.ensureEmailFree(ctx, pending.Email); err != nil {
		return nil, err
	}

	user := &models.User{
		ID:       uuid.New(),
		Name:     pending.Name,
		Email:    pending.Email,
		Password: pending.PasswordHash,
		Role:     s.roleFor(pending.Email),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, storeError("failed to create user", err)
	}
	slog.InfoContext(ctx, "user activated", "user_id", user.ID.String(), "role", user.Role)
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.AuthEvents.WithLabelValues("login", "rejected").Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, storeError("failed to load user", err)
	}
	if user.Password == "" || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		metrics.AuthEvents.WithLabelValues("login", "rejected").Inc()
		return nil, ErrInvalidCredentials
	}

	resp, err := s.openSession(ctx, user)
	metrics.AuthEvents.WithLabelValues("login", metrics.Result(err)).Inc()
	return resp, err
}

// Refresh redeems a refresh token for a new pair. The presented token must
// be the one currently stored for the account; redeeming it rotates the
// stored digest so the same token cannot be used twice.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrSessionExpired
	}
	id, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrSessionExpired
	}
	user, err := s.users.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionExpired
		}
		return nil, storeError("failed to load user", err)
	}

	presented := hashToken(refreshToken)
	if !user.HasSession() || *user.RefreshToken != presented {
		metrics.AuthEvents.WithLabelValues("refresh", "rejected").Inc()
		return nil, ErrSessionExpired
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.users.SwapRefreshToken(ctx, user.ID, presented, hashToken(pair.RefreshToken)); err != nil {
		if errors.Is(err, repository.ErrStale) {
			metrics.AuthEvents.WithLabelValues("refresh", "rejected").Inc()
			return nil, ErrSessionExpired
		}
		return nil, storeError("failed to rotate refresh token", err)
	}
	metrics.AuthEvents.WithLabelValues("refresh", "ok").Inc()
	return pair, nil
}

func (s *AuthService) Logout(ctx context.Context, id uuid.UUID) error {
	if err := s.users.SetRefreshToken(ctx, id, nil); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return storeError("failed to clear session", err)
	}
	return nil
}

// ResolveSession turns a verified access-token subject into the caller's
// identity. A logged-out account has no stored refresh digest and is
// rejected even while its access token is unexpired.
func (s *AuthService) ResolveSession(ctx context.Context, id uuid.UUID) (session.Identity, error) {
	user, err := s.users.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return session.Identity{}, ErrSessionExpired
		}
		return session.Identity{}, storeError("failed to load user", err)
	}
	if !user.HasSession() {
		return session.Identity{}, ErrSessionExpired
	}
	return session.Identity{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}, nil
}

// Role re-reads the account role so that a demotion takes effect at once.
func (s *AuthService) Role(ctx context.Context, id uuid.UUID) (string, error) {
	user, err := s.users.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrSessionExpired
		}
		return "", storeError("failed to load user", err)
	}
	return user.Role, nil
}

func (s *AuthService) Me(ctx context.Context, id uuid.UUID) (*dto.ProfileResponse, error) {
	user, err := s.users.FindUserWithProjects(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storeError("failed to load user", err)
	}
	resp := &dto.ProfileResponse{
		UserResponse:    ToUserResponse(user),
		ProjectsCreated: make([]dto.ProjectSummary, 0, len(user.Projects)),
	}
	for _, p := range user.Projects {
		resp.ProjectsCreated = append(resp.ProjectsCreated, dto.ProjectSummary{
			ID:                   p.ID,
			ProjectName:          p.ProjectName,
			ProjectDescription:   p.ProjectDescription,
			Status:               p.Status.String(),
			CompletionPercentage: p.CompletionPercentage,
		})
	}
	return resp, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, id uuid.UUID, req *dto.UpdateProfileRequest) (*models.User, error) {
	var changes repository.ProfileChanges
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		changes.Name = &name
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if !validEmail(email) {
			return nil, ErrInvalidEmail
		}
		existing, err := s.users.FindUserByEmail(ctx, email)
		switch {
		case err == nil && existing.ID != id:
			return nil, ErrEmailTaken
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return nil, storeError("failed to check email", err)
		}
		changes.Email = &email
	}
	if req.Password != nil {
		if len(*req.Password) < minUserPassword {
			return nil, ErrPasswordTooShort
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperr.Internal("failed to hash password", err)
		}
		h := string(hash)
		changes.PasswordHash = &h
	}

	if changes.Empty() {
		return s.findUser(ctx, id)
	}
	user, err := s.users.UpdateProfile(ctx, id, changes)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrUserNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return nil, ErrEmailTaken
	case err != nil:
		return nil, storeError("failed to update user", err)
	}
	return user, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, storeError("Unable to fetch users!", err)
	}
	if len(users) == 0 {
		return nil, ErrNoUsers
	}
	return users, nil
}

func (s *AuthService) UpdateRole(ctx context.Context, id uuid.UUID, role string) (*models.User, error) {
	role = strings.TrimSpace(role)
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, ErrInvalidRole
	}
	user, err := s.users.SetRole(ctx, id, role)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storeError("Unable to update role!", err)
	}
	slog.InfoContext(ctx, "user role updated", "user_id", id.String(), "role", role)
	return user, nil
}

// GoogleSignIn verifies a Google ID token and signs the matching account
// in, linking by email or creating the account on first use.
func (s *AuthService) GoogleSignIn(ctx context.Context, idToken string) (*dto.AuthResponse, error) {
	if s.google == nil {
		return nil, ErrGoogleDisabled
	}
	if idToken == "" {
		return nil, ErrGoogleToken
	}
	claims, err := s.google.Verify(ctx, idToken)
	if err != nil {
		slog.WarnContext(ctx, "google token verification failed", "error", err)
		metrics.AuthEvents.WithLabelValues("google", "rejected").Inc()
		return nil, ErrGoogleToken
	}
	email := normalizeEmail(claims.Email)
	if !claims.EmailVerified || !validEmail(email) {
		return nil, ErrGoogleToken
	}

	user, err := s.users.FindUserByGoogleID(ctx, claims.Subject)
	if errors.Is(err, repository.ErrNotFound) {
		user, err = s.linkOrCreateGoogleUser(ctx, claims.Subject, email, claims.Name)
	}
	if err != nil {
		return nil, storeError("failed to resolve google account", err)
	}

	resp, err := s.openSession(ctx, user)
	metrics.AuthEvents.WithLabelValues("google", metrics.Result(err)).Inc()
	return resp, err
}

func (s *AuthService) linkOrCreateGoogleUser(ctx context.Context, googleID, email, name string) (*models.User, error) {
	user, err := s.users.FindUserByEmail(ctx, email)
	if err == nil {
		if err := s.users.LinkGoogleID(ctx, user.ID, googleID); err != nil {
			return nil, err
		}
		user.GoogleID = &googleID
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.Split(email, "@")[0]
	}
	user = &models.User{
		ID:       uuid.New(),
		Name:     name,
		Email:    email,
		Role:     s.roleFor(email),
		GoogleID: &googleID,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) openSession(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	pair, err := s.issuePair(user.ID)
	if err != nil {
		return nil, err
	}
	digest := hashToken(pair.RefreshToken)
	if err := s.users.SetRefreshToken(ctx, user.ID, &digest); err != nil {
		return nil, storeError("failed to store refresh token", err)
	}
	return &dto.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         ToUserResponse(user),
	}, nil
}

func (s *AuthService) issuePair(id uuid.UUID) (*dto.TokenPair, error) {
	access, err := s.tokens.IssueAccessToken(id)
	if err != nil {
		return nil, apperr.Internal("failed to issue access token", err)
	}
	refresh, err := s.tokens.IssueRefreshToken(id)
	if err != nil {
		return nil, apperr.Internal("failed to issue refresh token", err)
	}
	return &dto.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.users.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		return ErrEmailTaken
	case errors.Is(err, repository.ErrNotFound):
		return nil
	default:
		return storeError("failed to check email", err)
	}
}

func (s *AuthService) findUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storeError("failed to load user", err)
	}
	return user, nil
}

func (s *AuthService) roleFor(email string) string {
	if s.cfg.IsAdminEmail(email) {
		return models.RoleAdmin
	}
	return models.RoleUser
}

func ToUserResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// storeError keeps model validation errors (already classified) and wraps
// everything else as an internal error.
func storeError(msg string, err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperr.Internal(msg, err)
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
