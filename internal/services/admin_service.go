package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/projecthub/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/config"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/dto"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/mail"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/models"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAdminExists             = apperr.Conflict("Admin with this email already exists")
	ErrWeakAdminPassword       = apperr.Validation("Password must be at least 8 characters, contain a lowercase letter, uppercase letter, a number, and a special character")
	ErrInvalidAdminCredentials = apperr.Validation("Invalid email or password")
	ErrAdminNotFound           = apperr.NotFound("Admin not found")
	ErrInvalidOTP              = apperr.Validation("Invalid OTP")
	ErrOTPFailed               = apperr.Validation("OTP verification failed or expired")
)

// otpSubject is the challenge payload for admin login.
type otpSubject struct {
	AdminID uuid.UUID `json:"adminId"`
	Email   string    `json:"email"`
}

type AdminService struct {
	admins AdminStore
	tokens *TokenService
	mailer mail.Dispatcher
	cfg    *config.Config
}

func NewAdminService(admins AdminStore, tokens *TokenService, mailer mail.Dispatcher, cfg *config.Config) *AdminService {
	return &AdminService{admins: admins, tokens: tokens, mailer: mailer, cfg: cfg}
}

func (s *AdminService) Create(ctx context.Context, req *dto.AdminCredentialsRequest) (*models.Admin, error) {
	email := normalizeEmail(req.Email)
	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}

	_, err := s.admins.FindAdminByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrAdminExists
	case !errors.Is(err, repository.ErrNotFound):
		return nil, storeError("failed to check admin", err)
	}

	if !strongAdminPassword(req.Password) {
		return nil, ErrWeakAdminPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	admin := &models.Admin{ID: uuid.New(), Email: email, Password: string(hash)}
	if err := s.admins.CreateAdmin(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAdminExists
		}
		return nil, storeError("failed to create admin", err)
	}
	slog.InfoContext(ctx, "admin created", "admin_id", admin.ID.String())
	return admin, nil
}

// Login checks the password and mails a one-time code. The returned token
// must be presented together with that code to Verify.
func (s *AdminService) Login(ctx context.Context, req *dto.AdminCredentialsRequest) (string, error) {
	email := normalizeEmail(req.Email)
	admin, err := s.admins.FindAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.AuthEvents.WithLabelValues("admin_login", "rejected").Inc()
			return "", ErrInvalidAdminCredentials
		}
		return "", storeError("failed to load admin", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)) != nil {
		metrics.AuthEvents.WithLabelValues("admin_login", "rejected").Inc()
		return "", ErrInvalidAdminCredentials
	}

	challenge, err := s.tokens.IssueChallenge(
		otpSubject{AdminID: admin.ID, Email: admin.Email},
		s.cfg.AdminOTPSecret, s.cfg.OTPTokenExpiry, 6,
	)
	if err != nil {
		return "", apperr.Internal("failed to issue otp token", err)
	}

	err = s.mailer.Send(ctx, mail.Message{
		To:       admin.Email,
		Subject:  "Your OTP for Admin Login",
		Template: mail.OTPTemplate,
		Data: map[string]interface{}{
			"Email":     admin.Email,
			"OTP":       challenge.Code,
			"ExpiresIn": s.cfg.OTPTokenExpiry.String(),
		},
	})
	metrics.MailDeliveries.WithLabelValues(mail.OTPTemplate, metrics.Result(err)).Inc()
	if err != nil {
		slog.ErrorContext(ctx, "otp mail failed", "error", err, "action", "admin_login")
		return "", apperr.Internal("Failed to send OTP. Please try again.", err)
	}
	metrics.AuthEvents.WithLabelValues("admin_login", "ok").Inc()
	return challenge.Token, nil
}

func (s *AdminService) Verify(ctx context.Context, req *dto.AdminVerifyRequest) error {
	var subject otpSubject
	err := s.tokens.VerifyChallenge(ctx, req.OTPToken, strings.TrimSpace(req.EnteredOTP), s.cfg.AdminOTPSecret, &subject)
	switch {
	case errors.Is(err, ErrInvalidCode):
		metrics.AuthEvents.WithLabelValues("admin_verify", "rejected").Inc()
		return ErrInvalidOTP
	case errors.Is(err, ErrChallengeFailed):
		metrics.AuthEvents.WithLabelValues("admin_verify", "rejected").Inc()
		return ErrOTPFailed
	case err != nil:
		return apperr.Internal("failed to verify otp", err)
	}
	metrics.AuthEvents.WithLabelValues("admin_verify", "ok").Inc()
	slog.InfoContext(ctx, "admin login verified", "admin_id", subject.AdminID.String())
	return nil
}

func (s *AdminService) List(ctx context.Context) ([]models.Admin, error) {
	admins, err := s.admins.ListAdmins(ctx)
	if err != nil {
		return nil, storeError("Failed to fetch admins", err)
	}
	return admins, nil
}

func (s *AdminService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.admins.DeleteAdmin(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAdminNotFound
		}
		return storeError("Failed to delete admin", err)
	}
	slog.InfoContext(ctx, "admin deleted", "admin_id", id.String())
	return nil
}

func ToAdminResponse(a *models.Admin) dto.AdminResponse {
	return dto.AdminResponse{ID: a.ID, Email: a.Email, CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt}
}
