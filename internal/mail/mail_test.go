package mail

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderActivation(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	body, err := r.Render(ActivationTemplate, map[string]interface{}{
		"Name":           "<Ada>",
		"ActivationCode": "4821",
		"ExpiresIn":      "5m0s",
	})
	require.NoError(t, err)
	assert.Contains(t, body, "4821")
	assert.Contains(t, body, "&lt;Ada&gt;")
}

func TestRenderUnknownTemplate(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	_, err = r.Render("missing.html", nil)
	assert.Error(t, err)
}

func TestLogDispatcher(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	var buf bytes.Buffer
	d := NewLogDispatcher(r, slog.New(slog.NewTextHandler(&buf, nil)))

	err = d.Send(context.Background(), Message{
		To:       "admin@example.com",
		Subject:  "OTP",
		Template: OTPTemplate,
		Data:     map[string]interface{}{"Email": "admin@example.com", "OTP": "123456", "ExpiresIn": "10m0s"},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "admin@example.com")
	assert.Contains(t, buf.String(), "OTP")
	assert.NotContains(t, buf.String(), "123456")

	buf.Reset()
	err = d.Send(context.Background(), Message{
		To:       "ada@example.com",
		Subject:  "Activate your account",
		Template: ActivationTemplate,
		Data:     map[string]interface{}{"Name": "Ada", "ActivationCode": "4821", "ExpiresIn": "5m0s"},
	})
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "4821")

	assert.ErrorIs(t, d.Send(context.Background(), Message{Template: OTPTemplate}), ErrNoRecipient)
}
