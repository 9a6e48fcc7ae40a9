package mail

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-tour-booking/internal/config"
)

func TestRender(t *testing.T) {
	data := Data{FirstName: "Ada", URL: "http://localhost:8080/api/v1/users/reset-password/tok"}

	t.Run("welcome", func(t *testing.T) {
		subject, body, err := render(TemplateWelcome, data)
		require.NoError(t, err)
		require.Contains(t, subject, "Welcome")
		require.Contains(t, body, "Hi Ada,")
		require.Contains(t, body, data.URL)
	})

	t.Run("reset", func(t *testing.T) {
		subject, body, err := render(TemplateReset, data)
		require.NoError(t, err)
		require.Contains(t, subject, "reset token")
		require.Contains(t, body, data.URL)
	})

	t.Run("unknown template", func(t *testing.T) {
		_, _, err := render("newsletter", data)
		require.ErrorIs(t, err, ErrUnknownTemplate)
	})
}

// Без сконфигурированного SMTP отправка деградирует в запись лога.
func TestSend_NoSMTPIsNoop(t *testing.T) {
	m := NewSMTP(config.SMTPConfig{})

	err := m.Send(context.Background(), "ada@example.com", TemplateWelcome, Data{FirstName: "Ada"})
	require.NoError(t, err)
}

func TestSend_UnknownTemplate(t *testing.T) {
	m := NewSMTP(config.SMTPConfig{})

	err := m.Send(context.Background(), "ada@example.com", "bogus", Data{})
	require.True(t, errors.Is(err, ErrUnknownTemplate))
}
