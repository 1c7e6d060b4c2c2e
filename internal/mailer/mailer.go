package mailer

import (
	"bytes"
	"fmt"
	"net/smtp"

	"go-ma-automation/internal/config"
)

// Mailer sends plain-text mail over SMTP with STARTTLS auth. No delivery
// guarantee beyond the server accepting the message.
type Mailer struct {
	cfg config.SMTPConfig
}

func New(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) Send(subject, body, recipient string) error {
	headers := map[string]string{
		"From":         m.cfg.From,
		"To":           recipient,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/plain; charset=UTF-8",
	}

	var message bytes.Buffer
	for k, v := range headers {
		fmt.Fprintf(&message, "%s: %s\r\n", k, v)
	}
	message.WriteString("\r\n")
	message.WriteString(body)

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{recipient}, message.Bytes()); err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}
	return nil
}
