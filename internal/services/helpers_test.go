package services

import (
	"context"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/projecthub/internal/config"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/mail"
)

func testConfig() *config.Config {
	return &config.Config{
		AccessTokenSecret:     "access-secret",
		RefreshTokenSecret:    "refresh-secret",
		ActivationSecret:      "activation-secret",
		AdminOTPSecret:        "otp-secret",
		AccessTokenExpiry:     15 * time.Minute,
		RefreshTokenExpiry:    72 * time.Hour,
		ActivationTokenExpiry: 5 * time.Minute,
		OTPTokenExpiry:        10 * time.Minute,
		AdminEmails:           "boss@example.com",
	}
}

// fakeMailer records every message; when err is set Send fails.
type fakeMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) last() mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return mail.Message{}
	}
	return m.sent[len(m.sent)-1]
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}
