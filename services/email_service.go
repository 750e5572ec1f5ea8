package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/ringside/fightcard/config"
	"github.com/ringside/fightcard/models"
)

// EmailService sends transactional mail. Implementations must be safe for
// concurrent use.
type EmailService interface {
	SendRegistrationConfirmation(reg *models.Registration, event *models.Event) error
}

type smtpEmailService struct {
	cfg          *config.Config
	confirmation *template.Template
}

const registrationConfirmationTemplate = `<html>
<body>
<p>Hi {{.FirstName}},</p>
<p>Your {{.RegistrationType}} registration for <b>{{.EventName}}</b> has been received
and is pending review.</p>
<p>Event details: <a href="{{.EventLink}}">{{.EventLink}}</a></p>
</body>
</html>`

func NewSMTPEmailService(cfg *config.Config) EmailService {
	return &smtpEmailService{
		cfg:          cfg,
		confirmation: template.Must(template.New("registration_confirmation").Parse(registrationConfirmationTemplate)),
	}
}

func (s *smtpEmailService) SendRegistrationConfirmation(reg *models.Registration, event *models.Event) error {
	data := struct {
		FirstName        string
		RegistrationType models.RegistrationType
		EventName        string
		EventLink        string
	}{
		FirstName:        reg.FirstName,
		RegistrationType: reg.RegistrationType,
		EventName:        event.Name,
		EventLink:        fmt.Sprintf("%s/events/%d", s.cfg.PublicURL, event.ID),
	}

	var body bytes.Buffer
	if err := s.confirmation.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render confirmation email: %w", err)
	}

	subject := fmt.Sprintf("Registration received for %s", event.Name)
	return s.send([]string{reg.Email}, subject, body.String())
}

func (s *smtpEmailService) send(to []string, subject string, body string) error {
	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)

	msg := []byte("To: " + to[0] + "\r\n" +
		"From: " + s.cfg.SMTPFrom + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\r\n" +
		"\r\n" +
		body + "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	tlsconfig := &tls.Config{
		ServerName: s.cfg.SMTPHost,
	}

	var client *smtp.Client
	if s.cfg.SMTPPort == 465 {
		// Implicit TLS.
		conn, err := tls.Dial("tcp", addr, tlsconfig)
		if err != nil {
			return fmt.Errorf("smtp tls dial failed: %w", err)
		}
		defer conn.Close()
		client, err = smtp.NewClient(conn, s.cfg.SMTPHost)
		if err != nil {
			return fmt.Errorf("smtp client init failed: %w", err)
		}
	} else {
		// STARTTLS (port 587).
		c, err := smtp.Dial(addr)
		if err != nil {
			return fmt.Errorf("smtp dial failed: %w", err)
		}
		client = c
		if err = client.StartTLS(tlsconfig); err != nil {
			client.Close()
			return fmt.Errorf("smtp starttls failed: %w", err)
		}
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth failed: %w", err)
	}
	if err := client.Mail(s.cfg.SMTPFrom); err != nil {
		return fmt.Errorf("smtp MAIL FROM failed: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp RCPT TO failed: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA failed: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("smtp write failed: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("smtp close failed: %w", err)
	}

	return nil
}
