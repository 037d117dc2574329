package email

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendGridHost     = "https://api.sendgrid.com"
	sendGridEndpoint = "/v3/mail/send"
)

type sendGridSender struct {
	key  string
	from *sgmail.Email
}

func newSendGridSender(key, fromName, from string) *sendGridSender {
	return &sendGridSender{
		key:  key,
		from: sgmail.NewEmail(fromName, from),
	}
}

func (s *sendGridSender) prepare(to, subject, htmlBody string) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = subject
	p.AddTos(sgmail.NewEmail("", to))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/html", htmlBody))
	return m
}

func (s *sendGridSender) send(to, subject, htmlBody string) error {
	req := sendgrid.GetRequest(s.key, sendGridEndpoint, sendGridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(s.prepare(to, subject, htmlBody))

	res, err := sendgrid.API(req)
	if err != nil {
		return fmt.Errorf("failed to send email via sendgrid: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid rejected email: status %d", res.StatusCode)
	}

	slog.Info("Email sent successfully", "to", to, "subject", subject, "provider", "sendgrid")
	return nil
}
