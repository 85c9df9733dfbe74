package mailer

import (
	"fmt"
	"log/slog"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/nickcheng/taskapp-backend/internal/metrics"
)

// Mailer sends transactional mail through SendGrid. All sends are
// best-effort: failures are logged and never surfaced to the caller.
// With an empty API key every send is a no-op, which is what tests
// and local dev run with.
type Mailer struct {
	client *sendgrid.Client
	from   string
}

func New(apiKey, from string) *Mailer {
	m := &Mailer{from: from}
	if apiKey != "" {
		m.client = sendgrid.NewSendClient(apiKey)
	}
	return m
}

func (m *Mailer) SendWelcome(email, name string) {
	m.send(email, "Welcome to Task App",
		fmt.Sprintf("Welcome to Task App, %s. Let's start!", name))
}

func (m *Mailer) SendCancellation(email, name string) {
	m.send(email, "Thank you for using Task App",
		fmt.Sprintf("Thank you for using Task App, %s. Let us know how we can improve!", name))
}

func (m *Mailer) send(to, subject, body string) {
	if m.client == nil {
		return
	}
	msg := mail.NewSingleEmail(mail.NewEmail("", m.from), subject, mail.NewEmail("", to), body, body)
	if _, err := m.client.Send(msg); err != nil {
		slog.Warn("mail send failed", "to", to, "subject", subject, "err", err)
		return
	}
	metrics.MailSentTotal.Inc()
}
