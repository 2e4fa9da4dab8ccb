package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPProvider implements the Provider interface over plain SMTP,
// used with Mailhog in development.
type SMTPProvider struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPProvider creates a new SMTP provider
func NewSMTPProvider(host string, port int, username, password, from string) *SMTPProvider {
	return &SMTPProvider{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// Send sends an email over SMTP
func (p *SMTPProvider) Send(ctx context.Context, to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", p.host, p.port)

	msg := strings.Join([]string{
		"From: " + p.from,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	var auth smtp.Auth
	if p.username != "" {
		auth = smtp.PlainAuth("", p.username, p.password, p.host)
	}

	if err := smtp.SendMail(addr, auth, p.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp error: %w", err)
	}
	return nil
}
