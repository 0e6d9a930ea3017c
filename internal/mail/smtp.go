package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/projecthub/internal/config"
	gomail "github.com/wneessen/go-mail"
)

// SMTPDispatcher delivers mail over SMTP. A go-mail Client holds a single
// connection and is not safe for concurrent use, so every Send dials with
// its own client.
type SMTPDispatcher struct {
	host     string
	opts     []gomail.Option
	from     string
	renderer *Renderer
}

func NewSMTPDispatcher(cfg *config.Config, renderer *Renderer) (*SMTPDispatcher, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.SMTPPort),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15 * time.Second),
	}
	if cfg.SMTPUser != "" {
		opts = append(opts, gomail.WithSMTPAuth(gomail.SMTPAuthPlain), gomail.WithUsername(cfg.SMTPUser), gomail.WithPassword(cfg.SMTPPassword))
	}
	// Surface bad options at startup rather than on the first send.
	if _, err := gomail.NewClient(cfg.SMTPHost, opts...); err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return &SMTPDispatcher{host: cfg.SMTPHost, opts: opts, from: cfg.SMTPFrom, renderer: renderer}, nil
}

func (d *SMTPDispatcher) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	body, err := d.renderer.Render(msg.Template, msg.Data)
	if err != nil {
		return err
	}

	m := gomail.NewMsg()
	if err := m.From(d.from); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextHTML, body)

	client, err := gomail.NewClient(d.host, d.opts...)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}
