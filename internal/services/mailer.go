package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Mailer forwards support requests to an external mail webhook. Without a
// configured webhook it logs the request and reports success, which is enough
// for local development.
type Mailer struct {
	webhookURL string
	client     *http.Client
}

func NewMailer(webhookURL string) *Mailer {
	return &Mailer{
		webhookURL: webhookURL,
		client:     http.DefaultClient,
	}
}

// SendContactEmail delivers a support message from a visitor.
func (m *Mailer) SendContactEmail(name, email, message string) error {
	if m.webhookURL == "" {
		log.Info().
			Str("name", name).
			Str("email", email).
			Str("message", message).
			Msg("support request received (no mail webhook configured)")
		return nil
	}

	body, err := json.Marshal(map[string]string{
		"name":    name,
		"email":   email,
		"message": message,
	})
	if err != nil {
		return fmt.Errorf("encode mail payload: %w", err)
	}

	resp, err := m.client.Post(m.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post to mail webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("mail webhook returned status %d", resp.StatusCode)
	}

	log.Info().Str("email", email).Msg("support request forwarded")
	return nil
}
