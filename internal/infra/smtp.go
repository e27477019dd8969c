package infra

import (
	"fmt"
	"net/smtp"

	"pharmapos/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer wraps SMTP configuration for sending emails with PDF attachments.
// All sends go through a circuit breaker so a dead SMTP relay fast-fails
// instead of blocking the worker pool on timeouts.
type Mailer struct {
	host     string
	port     int
	user     string
	password string
	addr     string
	from     string
	cb       *CircuitBreaker
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		from:     fmt.Sprintf("%s <%s>", cfg.PharmacyName, cfg.SMTPUser),
		cb:       NewCircuitBreaker(DefaultCBConfig()),
	}
}

// BreakerState exposes the circuit state for the health endpoint.
func (m *Mailer) BreakerState() string { return m.cb.State().String() }

// SendReceipt sends a PDF receipt to the customer email.
func (m *Mailer) SendReceipt(to, subject, body, pdfPath string) error {
	return m.cb.Execute(func() error {
		e := email.NewEmail()
		e.From = m.from
		e.To = []string{to}
		e.Subject = subject
		e.Text = []byte(body)

		if pdfPath != "" {
			if _, err := e.AttachFile(pdfPath); err != nil {
				return fmt.Errorf("mailer: attach PDF: %w", err)
			}
		}

		auth := smtp.PlainAuth("", m.user, m.password, m.host)
		return e.Send(m.addr, auth)
	})
}
