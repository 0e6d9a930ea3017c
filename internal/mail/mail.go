// Package mail renders and delivers the transactional emails: account
// activation codes and admin login codes.
package mail

import (
	"context"
	"errors"
)

const (
	ActivationTemplate = "activation-mail.html"
	OTPTemplate        = "otp-mail.html"
)

var ErrNoRecipient = errors.New("mail: message has no recipient")

type Message struct {
	To       string
	Subject  string
	Template string
	Data     map[string]interface{}
}

// Dispatcher delivers a Message. Implementations render Template with Data.
type Dispatcher interface {
	Send(ctx context.Context, msg Message) error
}
