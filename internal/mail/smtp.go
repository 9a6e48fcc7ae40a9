package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/pribylovaa/go-tour-booking/internal/config"
	"github.com/pribylovaa/go-tour-booking/pkg/log"
	"github.com/pribylovaa/go-tour-booking/pkg/redact"
)

// SMTPMailer — реализация Mailer поверх net/smtp.
// Если SMTP не сконфигурирован (локальная разработка), отправка
// деградирует в запись лога вместо сетевого вызова.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

// NewSMTP создаёт SMTP-отправителя.
func NewSMTP(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

var _ Mailer = (*SMTPMailer)(nil)

// Send рендерит шаблон и отправляет письмо.
func (m *SMTPMailer) Send(ctx context.Context, to string, templateName string, data Data) error {
	const op = "mail/smtp/Send"

	subject, body, err := render(templateName, data)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if !m.cfg.Enabled() {
		log.From(ctx).Info("mail_skipped_no_smtp",
			slog.String("op", op),
			slog.String("to", redact.Email(to)),
			slog.String("template", templateName),
		)
		return nil
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		m.cfg.From, to, subject, body,
	))

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(m.cfg.Addr(), auth, m.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
