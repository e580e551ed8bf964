package email

import (
	"fmt"

	"salonhub_backend/internal/config"

	"gopkg.in/gomail.v2"
)

// GomailProvider - SMTP реализация Provider поверх gomail
type GomailProvider struct {
	cfg *config.Config
}

func NewGomailProvider(cfg *config.Config) Provider {
	return &GomailProvider{cfg: cfg}
}

func (e *GomailProvider) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", e.cfg.Email.FromEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(
		e.cfg.Email.SMTPHost,
		e.cfg.Email.SMTPPort,
		e.cfg.Email.SMTPUsername,
		e.cfg.Email.SMTPPassword,
	)

	return d.DialAndSend(m)
}

func (e *GomailProvider) SendWelcome(to, name string) error {
	body := fmt.Sprintf(
		"<h2>Welcome, %s!</h2><p>Your account is ready. Complete your profile to start earning credits and badges.</p>",
		name,
	)
	return e.Send(to, "Welcome to SalonHub", body)
}
