package notification

import (
	"fmt"
	"net/smtp"
	"strings"
)

type MailConfig struct {
	Host     string `env:"MAIL_HOST"`
	Port     int64  `env:"MAIL_PORT"`
	Username string `env:"MAIL_USERNAME"`
	Password string `env:"MAIL_PASSWORD"`
	From     string `env:"MAIL_FROM"`
}

type MailNotification struct {
	cfg MailConfig
}

func NewMailNotification(cfg MailConfig) *MailNotification {
	return &MailNotification{cfg: cfg}
}

func (m *MailNotification) enabled() bool {
	return m.cfg.Host != "" && m.cfg.From != ""
}

func (m *MailNotification) send(to, subject, body string) error {
	if !m.enabled() {
		return fmt.Errorf("mail not configured")
	}
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")
	return smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg))
}

func (m *MailNotification) SendWelcomeEmail(to, displayName, verifyURL string) error {
	body := fmt.Sprintf("Hi %s,\n\nWelcome to Voice to Text. Your account is ready.\n\n%s\n", displayName, verifyURL)
	return m.send(to, "Welcome to Voice to Text", body)
}

// SendPasswordResetEmail mails the one-time reset link. The token inside
// the URL expires 24 hours after it was generated.
func (m *MailNotification) SendPasswordResetEmail(to, resetURL string) error {
	body := fmt.Sprintf("A password reset was requested for your account.\n\nReset link (valid for 24 hours):\n%s\n\nIf you did not request this, ignore this email.\n", resetURL)
	return m.send(to, "Password reset request", body)
}
