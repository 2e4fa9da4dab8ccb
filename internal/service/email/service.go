package email

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Provider defines the interface for email delivery backends
type Provider interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Config holds email service configuration
type Config struct {
	// Provider type: "sendgrid" or "smtp"
	Provider string

	FromEmail string
	FromName  string

	SendGridAPIKey string

	// SMTP configuration (Mailhog in development)
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
}

// DefaultConfig returns a development configuration pointed at Mailhog
func DefaultConfig() *Config {
	return &Config{
		Provider:  "smtp",
		FromEmail: "noreply@crfms.local",
		FromName:  "CRFMS",
		SMTPHost:  "localhost",
		SMTPPort:  1025,
	}
}

// Service sends rental notifications by email
type Service struct {
	config   *Config
	provider Provider
	log      *zap.Logger
}

// NewService creates an email service with the configured provider
func NewService(config *Config, log *zap.Logger) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}

	var provider Provider
	switch config.Provider {
	case "sendgrid":
		if config.SendGridAPIKey == "" {
			return nil, fmt.Errorf("sendgrid provider requires an API key")
		}
		provider = NewSendGridProvider(config.SendGridAPIKey, config.FromEmail, config.FromName)
	case "smtp":
		provider = NewSMTPProvider(config.SMTPHost, config.SMTPPort, config.SMTPUsername, config.SMTPPassword, config.FromEmail)
	default:
		return nil, fmt.Errorf("unknown email provider: %s", config.Provider)
	}

	return &Service{
		config:   config,
		provider: provider,
		log:      log,
	}, nil
}

// Send sends a plain-text email
func (s *Service) Send(ctx context.Context, to, subject, body string) error {
	if err := s.provider.Send(ctx, to, subject, body); err != nil {
		s.log.Error("Failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// Sink adapts the email service to the notification output-sink
// collaborator: rendered lifecycle messages land in the operations inbox.
type Sink struct {
	Service *Service
	To      string
}

func (s *Sink) Write(subscriber, message string) {
	subject := fmt.Sprintf("CRFMS notification (%s)", subscriber)
	if err := s.Service.Send(context.Background(), s.To, subject, message); err != nil {
		s.Service.log.Error("Failed to deliver notification email", zap.Error(err))
	}
}
