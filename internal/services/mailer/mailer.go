// Package mailer delivers report download links and contact-form messages
// over SMTP.
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"merchant-portal/internal/config"
)

// Sender is the delivery surface the report executor and contact handler
// depend on.
type Sender interface {
	Send(to []string, subject, htmlBody string) error
}

type SMTPSender struct {
	cfg config.SMTPConfig
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Send(to []string, subject, htmlBody string) error {
	if s.cfg.Host == "" {
		return fmt.Errorf("smtp not configured")
	}
	if len(to) == 0 {
		return fmt.Errorf("no recipients")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	return d.DialAndSend(m)
}

// ReportBody renders the delivery email for a generated report.
func ReportBody(title, downloadURL string) string {
	return fmt.Sprintf(
		`<p>O relatório <strong>%s</strong> foi gerado.</p>
<p><a href="%s">Baixar relatório</a> (link válido por 7 dias)</p>`,
		title, downloadURL)
}
