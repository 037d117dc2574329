package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// EmailService defines the interface for sending emails
type EmailService interface {
	SendPasswordReset(to, resetLink, expiresAt string) error
}

// sender delivers a rendered HTML message.
type sender interface {
	send(to, subject, htmlBody string) error
}

type emailServiceImpl struct {
	portalName string
	sender     sender
	templates  *template.Template
}

// NewEmailService picks SendGrid when an API key is configured and SMTP otherwise.
func NewEmailService(cfg config.EmailConfig) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	var s sender
	if cfg.SendGridAPIKey != "" {
		s = newSendGridSender(cfg.SendGridAPIKey, cfg.FromName, cfg.From)
		slog.Info("Email delivery via SendGrid")
	} else {
		s = newSMTPSender(cfg.SMTP, cfg.FromName, cfg.From)
	}

	return &emailServiceImpl{
		portalName: cfg.FromName,
		sender:     s,
		templates:  tmpl,
	}, nil
}

type passwordResetEmailData struct {
	PortalName string
	ResetLink  string
	ExpiresAt  string
}

// SendPasswordReset sends a password reset email to the user
func (s *emailServiceImpl) SendPasswordReset(to, resetLink, expiresAt string) error {
	data := passwordResetEmailData{
		PortalName: s.portalName,
		ResetLink:  resetLink,
		ExpiresAt:  expiresAt,
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "password_reset.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sender.send(to, "Reset your password", body.String())
}
