package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/projecthub/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/dto"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/mail"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminService(guard ReplayGuard) (*AdminService, *fakeMailer) {
	cfg := testConfig()
	mailer := &fakeMailer{}
	return NewAdminService(memory.New(), NewTokenService(cfg, guard), mailer, cfg), mailer
}

func TestStrongAdminPassword(t *testing.T) {
	assert.True(t, strongAdminPassword("Secr3t!pw"))
	assert.False(t, strongAdminPassword("Sh0rt!"))
	assert.False(t, strongAdminPassword("nouppercase1!"))
	assert.False(t, strongAdminPassword("NOLOWERCASE1!"))
	assert.False(t, strongAdminPassword("NoDigits!!"))
	assert.False(t, strongAdminPassword("NoSpecial123"))
	assert.False(t, strongAdminPassword("Bad#Char123"), "# is outside the allowed set")
}

func TestCreateAdmin(t *testing.T) {
	svc, _ := newAdminService(nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, &dto.AdminCredentialsRequest{Email: "bad", Password: "Secr3t!pw"})
	assert.ErrorIs(t, err, ErrInvalidEmail)
	_, err = svc.Create(ctx, &dto.AdminCredentialsRequest{Email: "root@example.com", Password: "weak"})
	assert.ErrorIs(t, err, ErrWeakAdminPassword)

	admin, err := svc.Create(ctx, &dto.AdminCredentialsRequest{Email: "root@example.com", Password: "Secr3t!pw"})
	require.NoError(t, err)
	assert.NotEqual(t, "Secr3t!pw", admin.Password)

	_, err = svc.Create(ctx, &dto.AdminCredentialsRequest{Email: "ROOT@example.com", Password: "Secr3t!pw"})
	assert.ErrorIs(t, err, ErrAdminExists)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	admins, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, admins, 1)
}

func TestAdminOTPLogin(t *testing.T) {
	svc, mailer := newAdminService(nil)
	ctx := context.Background()
	_, err := svc.Create(ctx, &dto.AdminCredentialsRequest{Email: "root@example.com", Password: "Secr3t!pw"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &dto.AdminCredentialsRequest{Email: "root@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidAdminCredentials)
	_, err = svc.Login(ctx, &dto.AdminCredentialsRequest{Email: "nobody@example.com", Password: "Secr3t!pw"})
	assert.ErrorIs(t, err, ErrInvalidAdminCredentials)

	token, err := svc.Login(ctx, &dto.AdminCredentialsRequest{Email: "root@example.com", Password: "Secr3t!pw"})
	require.NoError(t, err)
	msg := mailer.last()
	assert.Equal(t, mail.OTPTemplate, msg.Template)
	otp := msg.Data["OTP"].(string)
	assert.Len(t, otp, 6)

	wrong := "100000"
	if otp == wrong {
		wrong = "100001"
	}
	assert.ErrorIs(t, svc.Verify(ctx, &dto.AdminVerifyRequest{OTPToken: token, EnteredOTP: wrong}), ErrInvalidOTP)
	assert.ErrorIs(t, svc.Verify(ctx, &dto.AdminVerifyRequest{OTPToken: "bogus", EnteredOTP: otp}), ErrOTPFailed)

	require.NoError(t, svc.Verify(ctx, &dto.AdminVerifyRequest{OTPToken: token, EnteredOTP: otp}))
	// Without a replay guard the same code works again until it expires.
	require.NoError(t, svc.Verify(ctx, &dto.AdminVerifyRequest{OTPToken: token, EnteredOTP: otp}))
}

func TestAdminOTPSingleUseWithGuard(t *testing.T) {
	svc, mailer := newAdminService(NewMemoryReplayGuard())
	ctx := context.Background()
	_, err := svc.Create(ctx, &dto.AdminCredentialsRequest{Email: "root@example.com", Password: "Secr3t!pw"})
	require.NoError(t, err)

	token, err := svc.Login(ctx, &dto.AdminCredentialsRequest{Email: "root@example.com", Password: "Secr3t!pw"})
	require.NoError(t, err)
	otp := mailer.last().Data["OTP"].(string)

	require.NoError(t, svc.Verify(ctx, &dto.AdminVerifyRequest{OTPToken: token, EnteredOTP: otp}))
	assert.ErrorIs(t, svc.Verify(ctx, &dto.AdminVerifyRequest{OTPToken: token, EnteredOTP: otp}), ErrOTPFailed)
}

func TestAdminLoginMailFailure(t *testing.T) {
	svc, mailer := newAdminService(nil)
	ctx := context.Background()
	_, err := svc.Create(ctx, &dto.AdminCredentialsRequest{Email: "root@example.com", Password: "Secr3t!pw"})
	require.NoError(t, err)

	mailer.err = errors.New("smtp down")
	token, err := svc.Login(ctx, &dto.AdminCredentialsRequest{Email: "root@example.com", Password: "Secr3t!pw"})
	require.Error(t, err)
	assert.Empty(t, token)
	assert.Contains(t, err.Error(), "Failed to send OTP. Please try again.")
}

func TestDeleteAdmin(t *testing.T) {
	svc, _ := newAdminService(nil)
	ctx := context.Background()
	admin, err := svc.Create(ctx, &dto.AdminCredentialsRequest{Email: "root@example.com", Password: "Secr3t!pw"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, uuid.New()), ErrAdminNotFound)
	require.NoError(t, svc.Delete(ctx, admin.ID))
	assert.ErrorIs(t, svc.Delete(ctx, admin.ID), ErrAdminNotFound)
}
