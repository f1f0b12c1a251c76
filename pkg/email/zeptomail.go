package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"brittlebones-backend/config"
)

// zeptoRequest is the ZeptoMail send-mail payload
type zeptoRequest struct {
	From     zeptoAddress   `json:"from"`
	To       []zeptoTo      `json:"to"`
	ReplyTo  []zeptoAddress `json:"reply_to,omitempty"`
	Subject  string         `json:"subject"`
	HTMLBody string         `json:"htmlbody"`
}

type zeptoAddress struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
}

type zeptoTo struct {
	Email zeptoAddress `json:"email_address"`
}

// ZeptoSender relays mail through the ZeptoMail HTTP API.
type ZeptoSender struct {
	apiURL string
	apiKey string
	client *http.Client
}

// NewZeptoSender creates an API sender. A nil client gets one bounded by the
// configured mail timeout.
func NewZeptoSender(cfg config.MailConfig, client *http.Client) *ZeptoSender {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &ZeptoSender{
		apiURL: cfg.ZeptoAPIURL,
		apiKey: cfg.ZeptoAPIKey,
		client: client,
	}
}

func (s *ZeptoSender) IsConfigured() bool {
	return s.apiURL != "" && s.apiKey != ""
}

// Send posts msg to the API. Anything but 200/201/202 is a failure.
func (s *ZeptoSender) Send(ctx context.Context, msg *Message) error {
	if !s.IsConfigured() {
		return ErrNotConfigured
	}

	payload := zeptoRequest{
		From: zeptoAddress{Address: msg.From, Name: headerSafe(msg.FromName)},
		To: []zeptoTo{
			{Email: zeptoAddress{Address: msg.To, Name: headerSafe(msg.ToName)}},
		},
		Subject:  headerSafe(msg.Subject),
		HTMLBody: msg.HTML,
	}
	if msg.ReplyTo != "" {
		payload.ReplyTo = []zeptoAddress{{Address: msg.ReplyTo}}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	default:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("zeptomail API error: %s: %s", resp.Status, bytes.TrimSpace(detail))
	}
}
