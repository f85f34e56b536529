package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"dinio/internal/config"
)

// Mailer delivers transactional mail through a Resend-compatible HTTP
// API. With no API key configured it logs the links instead, which keeps
// local development working without an account.
type Mailer struct {
	cfg     config.EmailConfig
	baseURL string
	client  *http.Client
}

func NewMailer(cfg config.EmailConfig, baseURL string) *Mailer {
	return &Mailer{
		cfg:     cfg,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (m *Mailer) SendVerificationEmail(ctx context.Context, to, token string) error {
	link := m.baseURL + "/verify?token=" + url.QueryEscape(token)
	html := fmt.Sprintf(
		`<p>Welcome to Dinio!</p><p>Confirm your email address by opening the link below:</p><p><a href="%s">%s</a></p><p>The link expires in one hour.</p>`,
		link, link)
	return m.send(ctx, to, "Confirm your registration", html, link)
}

func (m *Mailer) SendPasswordResetEmail(ctx context.Context, to, token string) error {
	link := m.baseURL + "/reset-password?token=" + url.QueryEscape(token)
	html := fmt.Sprintf(
		`<p>A password reset was requested for your Dinio account.</p><p><a href="%s">Reset your password</a></p><p>If this wasn't you, ignore this email. The link expires in one hour.</p>`,
		link)
	return m.send(ctx, to, "Reset your password", html, link)
}

func (m *Mailer) send(ctx context.Context, to, subject, html, link string) error {
	if m.cfg.APIKey == "" {
		log.Printf("email disabled, would send %q to %s: %s", subject, to, link)
		return nil
	}

	payload := map[string]interface{}{
		"from":    m.cfg.From,
		"to":      []string{to},
		"subject": subject,
		"html":    html,
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.APIBase+"/emails", bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("email API error (%d): %s", resp.StatusCode, apiErr.Message)
	}
	return nil
}
