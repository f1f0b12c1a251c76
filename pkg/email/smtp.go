package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	"brittlebones-backend/config"
)

// SMTPSender relays mail through an authenticated SMTP server. A connection
// is dialed per Send; nothing is pooled between requests.
type SMTPSender struct {
	host          string
	port          int
	username      string
	password      string
	implicitTLS   bool
	tlsSkipVerify bool
	timeout       time.Duration
}

// NewSMTPSender creates a sender from the relay settings.
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	return &SMTPSender{
		host:          cfg.Host,
		port:          cfg.Port,
		username:      cfg.Username,
		password:      cfg.Password,
		implicitTLS:   cfg.ImplicitTLS(),
		tlsSkipVerify: cfg.TLSSkipVerify,
		timeout:       cfg.Timeout,
	}
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *SMTPSender) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != ""
}

// ImplicitTLS reports whether connections start with TLS instead of STARTTLS.
func (s *SMTPSender) ImplicitTLS() bool {
	return s.implicitTLS
}

// Send dials the relay, authenticates and delivers msg.
func (s *SMTPSender) Send(ctx context.Context, msg *Message) error {
	if !s.IsConfigured() {
		return ErrNotConfigured
	}

	m, err := buildMsg(msg)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(s.host, s.clientOptions()...)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}
	return nil
}

func (s *SMTPSender) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.username),
		mail.WithPassword(s.password),
		mail.WithTLSConfig(&tls.Config{
			ServerName:         s.host,
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: s.tlsSkipVerify, //nolint:gosec // opt-in via SMTP_TLS_SKIP_VERIFY
		}),
	}
	if s.timeout > 0 {
		opts = append(opts, mail.WithTimeout(s.timeout))
	}

	if s.implicitTLS {
		opts = append(opts, mail.WithSSL(), mail.WithTLSPolicy(mail.NoTLS))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	// Port last so transport options above cannot reset it
	return append(opts, mail.WithPort(s.port))
}

func buildMsg(msg *Message) (*mail.Msg, error) {
	m := mail.NewMsg()

	if err := m.FromFormat(headerSafe(msg.FromName), msg.From); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := m.AddToFormat(headerSafe(msg.ToName), msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	if msg.ReplyTo != "" {
		if err := m.ReplyTo(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("invalid reply-to address: %w", err)
		}
	}

	m.Subject(headerSafe(msg.Subject))
	m.SetDate()
	m.SetMessageID()
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	return m, nil
}
