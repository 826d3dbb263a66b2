// Package mailer delivers account emails over SMTP.
package mailer

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
	"go.uber.org/zap"

	"fintrack/internal/config"
	"fintrack/internal/logger"
)

// Sender delivers account emails.
type Sender interface {
	SendPasswordReset(to, name, resetURL string, expiresAt time.Time) error
}

// SMTPSender sends emails through the configured SMTP relay.
type SMTPSender struct {
	cfg *config.Config
	log *zap.SugaredLogger
}

// NewSMTPSender creates a Sender for cfg's SMTP settings.
func NewSMTPSender(cfg *config.Config) *SMTPSender {
	return &SMTPSender{cfg: cfg, log: logger.Named("mailer")}
}

// SendPasswordReset mails a password reset link.
func (s *SMTPSender) SendPasswordReset(to, name, resetURL string, expiresAt time.Time) error {
	e := passwordResetEmail(s.cfg.SenderEmail, to, name, resetURL, expiresAt)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := e.Send(addr, auth); err != nil {
		s.log.Errorw("failed to send email", "subject", e.Subject, "error", err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.log.Infow("email sent", "subject", e.Subject)
	return nil
}

func passwordResetEmail(from, to, name, resetURL string, expiresAt time.Time) *email.Email {
	e := email.NewEmail()
	e.From = from
	e.To = []string{to}
	e.Subject = "Reset your FinTrack password"

	greeting := "Hello"
	if name != "" {
		greeting += " " + name
	}
	body := fmt.Sprintf(
		"%s,\n\n"+
			"We received a request to reset your password. Use the link below to choose a new one:\n\n"+
			"%s\n\n"+
			"The link expires at %s UTC and can be used once.\n"+
			"If you did not ask for this, you can ignore this email.\n",
		greeting, resetURL, expiresAt.UTC().Format("2006-01-02 15:04"),
	)
	e.Text = []byte(body)
	return e
}
