package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"dsar/internal/domain/dsar"
	"dsar/internal/platform/config"
)

type noopNotifier struct{}

func (noopNotifier) NotifyRequester(ctx context.Context, email, name, requestID string) error {
	return nil
}

func (noopNotifier) NotifyAdmin(ctx context.Context, requestID, requesterEmail string) error {
	return nil
}

type smtpNotifier struct {
	cfg config.Config
}

func New(cfg config.Config) dsar.Notifier {
	if !cfg.EmailEnabled || cfg.SMTPHost == "" {
		return noopNotifier{}
	}
	return &smtpNotifier{cfg: cfg}
}

func (s *smtpNotifier) NotifyRequester(ctx context.Context, email, name, requestID string) error {
	subject := "GDPR Data Request Received"
	body := strings.Join([]string{
		fmt.Sprintf("Dear %s,", name),
		"",
		fmt.Sprintf("We have received your GDPR data request. Your request ID is: %s", requestID),
		"We will process your request within 30 days as required by GDPR regulations.",
		"You will receive another email once your request has been processed.",
		"",
		"Best regards,",
		"Compliance Team",
	}, "\r\n")
	return s.send(ctx, email, subject, body)
}

func (s *smtpNotifier) NotifyAdmin(ctx context.Context, requestID, requesterEmail string) error {
	subject := "New GDPR Data Request"
	body := strings.Join([]string{
		"A new data subject access request has been submitted:",
		"",
		fmt.Sprintf("Request ID: %s", requestID),
		fmt.Sprintf("Requester Email: %s", requesterEmail),
		"",
		"Please log in to the admin panel to review and process this request.",
	}, "\r\n")
	return s.send(ctx, s.cfg.AdminAlertEmail, subject, body)
}

func (s *smtpNotifier) send(ctx context.Context, to, subject, body string) error {
	if strings.TrimSpace(to) == "" {
		return nil
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	msg := buildMessage(s.cfg.EmailFrom, to, subject, body)

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
	if err := client.Rcpt(to); err != nil {
		return err
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

func buildMessage(from, to, subject, body string) []byte {
	headers := []string{
		fmt.Sprintf("From: %s", from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
	}
	return []byte(strings.Join(headers, "\r\n") + "\r\n" + body)
}
