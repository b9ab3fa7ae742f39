package infra

import (
	"fmt"
	"net/smtp"

	"dinocars/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer wraps SMTP configuration for sending operational alerts.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
	from     string
	breaker  *CircuitBreaker
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		from:     cfg.SMTPUser,
		breaker:  NewCircuitBreaker(SMTPBreakerConfig()),
	}
}

// BreakerState reports whether the SMTP relay is currently considered down.
func (m *Mailer) BreakerState() CBState { return m.breaker.State() }

// SendAlerta sends a plain-text alert, optionally with one attachment.
// While the relay is failing it returns ErrCircuitOpen without dialing.
func (m *Mailer) SendAlerta(to, subject, body, attachmentPath string) error {
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if attachmentPath != "" {
		if _, err := e.AttachFile(attachmentPath); err != nil {
			return fmt.Errorf("mailer: attach file: %w", err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return m.breaker.Execute(func() error {
		return e.Send(m.addr, auth)
	})
}
