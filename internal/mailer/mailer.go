package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/ignatzorin/forum-backend/internal/models"
)

// Mailer отправляет служебные письма через SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	admin  string
}

// Config параметры SMTP-подключения.
type Config struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	AdminEmail string
}

// New создаёт Mailer. Возвращает nil, если SMTP не сконфигурирован —
// вызывающий код обязан проверять это перед отправкой.
func New(cfg Config) *Mailer {
	if cfg.Host == "" || cfg.AdminEmail == "" {
		return nil
	}

	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		admin:  cfg.AdminEmail,
	}
}

// SendReportNotice отправляет администратору письмо о новой жалобе.
func (m *Mailer) SendReportNotice(report *models.ContentReport) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.admin)
	msg.SetHeader("Subject", fmt.Sprintf("Новая жалоба на %s", report.ContentType))

	body := fmt.Sprintf(
		"Поступила новая жалоба.\n\nТип контента: %s\nID контента: %s\nПричина: %s\n",
		report.ContentType, report.ContentID, report.Reason,
	)
	if report.Details != nil && *report.Details != "" {
		body += fmt.Sprintf("Детали: %s\n", *report.Details)
	}
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("mailer: send report notice %w", err)
	}

	return nil
}
