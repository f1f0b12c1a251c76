// Package email sends transactional HTML email through the configured relay.
//
// Two transports implement Sender: SMTPSender talks to an authenticated SMTP
// relay and ZeptoSender posts to the ZeptoMail HTTP API. NewSender picks one
// from configuration.
package email

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"brittlebones-backend/config"
)

// ErrNotConfigured is returned by a Sender whose relay settings are incomplete.
var ErrNotConfigured = errors.New("email: relay not configured")

// Message is one outbound email.
type Message struct {
	FromName string
	From     string
	To       string
	ToName   string
	ReplyTo  string
	Subject  string
	HTML     string
}

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
	// IsConfigured reports whether the relay settings are complete.
	IsConfigured() bool
}

// NewSender returns the transport named by cfg.Transport.
func NewSender(cfg config.MailConfig) (Sender, error) {
	switch cfg.Transport {
	case "", config.TransportSMTP:
		return NewSMTPSender(cfg), nil
	case config.TransportZeptoMail:
		return NewZeptoSender(cfg, nil), nil
	default:
		return nil, fmt.Errorf("email: unknown MAIL_TRANSPORT %q", cfg.Transport)
	}
}

// headerSafe flattens line breaks so user input cannot add header lines.
func headerSafe(s string) string {
	return strings.Join(strings.Fields(strings.NewReplacer("\r", " ", "\n", " ").Replace(s)), " ")
}
