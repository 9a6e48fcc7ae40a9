// mail — почтовый коллаборатор tours-service: welcome-письма при регистрации
// и письма со ссылкой сброса пароля. Ядро сервиса знает только узкий контракт
// Mailer; транспорт (SMTP) и шаблоны — детали этого пакета.
package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"text/template"
)

// Имена шаблонов писем.
const (
	TemplateWelcome = "welcome"
	TemplateReset   = "reset"
)

// ErrUnknownTemplate — запрошен незарегистрированный шаблон письма.
var ErrUnknownTemplate = errors.New("unknown mail template")

// Mailer — контракт отправки письма по имени шаблона.
type Mailer interface {
	Send(ctx context.Context, to string, templateName string, data Data) error
}

// Data — контекст рендеринга шаблона письма.
type Data struct {
	FirstName string
	URL       string
}

type letter struct {
	subject string
	body    *template.Template
}

var letters = map[string]letter{
	TemplateWelcome: {
		subject: "Welcome to the Natours family",
		body: template.Must(template.New(TemplateWelcome).Parse(
			"Hi {{.FirstName}},\n\n" +
				"Welcome to Natours, we're glad to have you!\n" +
				"Visit your account page to get started: {{.URL}}\n",
		)),
	},
	TemplateReset: {
		subject: "Your password reset token (valid for 10 minutes)",
		body: template.Must(template.New(TemplateReset).Parse(
			"Hi {{.FirstName}},\n\n" +
				"Forgot your password? Submit a new one at: {{.URL}}\n" +
				"If you didn't forget your password, please ignore this email.\n",
		)),
	},
}

// render возвращает тему и тело письма по имени шаблона.
func render(templateName string, data Data) (subject, body string, err error) {
	l, ok := letters[templateName]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnknownTemplate, templateName)
	}

	var buf bytes.Buffer
	if err := l.body.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render %q: %w", templateName, err)
	}

	return l.subject, buf.String(), nil
}
