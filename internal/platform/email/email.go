package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"peopleops/internal/domain/notifications"
	"peopleops/internal/platform/config"
)

type noopMailer struct{}

func (noopMailer) Send(ctx context.Context, email notifications.Email) error {
	return nil
}

type smtpMailer struct {
	cfg config.Config
}

// New returns an SMTP mailer, or a no-op one when email is disabled so
// callers never have to branch on configuration.
func New(cfg config.Config) notifications.Mailer {
	if !cfg.EmailEnabled || cfg.SMTPHost == "" {
		return noopMailer{}
	}
	return &smtpMailer{cfg: cfg}
}

func (s *smtpMailer) Send(ctx context.Context, email notifications.Email) error {
	recipients := make([]string, 0, len(email.To))
	for _, to := range email.To {
		if strings.TrimSpace(to) != "" {
			recipients = append(recipients, strings.TrimSpace(to))
		}
	}
	if len(recipients) == 0 {
		return nil
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	msg := s.buildMessage(recipients, email)

	dialer := net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.cfg.SMTPHost)
	if err != nil {
		return err
	}
	defer client.Close()

	if s.cfg.SMTPUseTLS {
		tlsConfig := &tls.Config{ServerName: s.cfg.SMTPHost}
		if err := client.StartTLS(tlsConfig); err != nil {
			return err
		}
	}

	if s.cfg.SMTPUser != "" {
		auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPassword, s.cfg.SMTPHost)
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	if err := client.Mail(s.cfg.EmailFrom); err != nil {
		return err
	}
	for _, to := range recipients {
		if err := client.Rcpt(to); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func (s *smtpMailer) buildMessage(recipients []string, email notifications.Email) []byte {
	body := email.Message
	if email.CTAPath != "" {
		body += "\r\n\r\n" + strings.TrimRight(s.cfg.PortalBaseURL, "/") + email.CTAPath
	}
	headers := []string{
		fmt.Sprintf("From: %s", s.cfg.EmailFrom),
		fmt.Sprintf("To: %s", strings.Join(recipients, ", ")),
		fmt.Sprintf("Subject: %s", email.Subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
	}
	return []byte(strings.Join(headers, "\r\n") + "\r\n" + body)
}
