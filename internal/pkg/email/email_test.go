package email

import (
	"testing"

	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	to, subject, body string
}

func (r *recordingSender) send(to, subject, htmlBody string) error {
	r.to, r.subject, r.body = to, subject, htmlBody
	return nil
}

func TestSendPasswordReset_RendersTemplate(t *testing.T) {
	svc, err := NewEmailService(config.EmailConfig{FromName: "Faculty Portal", From: "noreply@example.com"})
	require.NoError(t, err)

	rec := &recordingSender{}
	svc.(*emailServiceImpl).sender = rec

	err = svc.SendPasswordReset("staff@example.com", "https://portal.example.com/reset?token=abc", "01 Mar 2024 10:00")
	require.NoError(t, err)

	assert.Equal(t, "staff@example.com", rec.to)
	assert.Equal(t, "Reset your password", rec.subject)
	assert.Contains(t, rec.body, "https://portal.example.com/reset?token=abc")
	assert.Contains(t, rec.body, "Faculty Portal")
}

func TestNewEmailService_PicksSender(t *testing.T) {
	svc, err := NewEmailService(config.EmailConfig{SendGridAPIKey: "SG.key", From: "noreply@example.com"})
	require.NoError(t, err)
	_, ok := svc.(*emailServiceImpl).sender.(*sendGridSender)
	assert.True(t, ok)

	svc, err = NewEmailService(config.EmailConfig{From: "noreply@example.com"})
	require.NoError(t, err)
	_, ok = svc.(*emailServiceImpl).sender.(*smtpSender)
	assert.True(t, ok)
}

func TestSMTPSender_SkipsWhenUnconfigured(t *testing.T) {
	s := newSMTPSender(config.SMTPConfig{}, "Portal", "noreply@example.com")
	assert.NoError(t, s.send("a@b.cd", "subject", "<p>hi</p>"))
}
