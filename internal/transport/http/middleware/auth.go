package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/pribylovaa/go-tour-booking/internal/models"
	"github.com/pribylovaa/go-tour-booking/internal/service"
	"github.com/pribylovaa/go-tour-booking/internal/transport/http/apierr"
)

type ctxKeyUser struct{}

// Authenticator — достаточная для мидлвара часть сервиса аутентификации.
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (*models.User, error)
}

// Protect прогоняет запрос через полную цепочку аутентификации:
// извлечение токена (Bearer-заголовок либо cookie) -> проверка подписи
// и срока -> резолв пользователя -> отсечение токенов, выпущенных до
// смены пароля. Пользователь кладётся в контекст (см. UserFrom).
func Protect(auth Authenticator, cookieName, env string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r, cookieName)

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				apierr.WriteError(w, r, env, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUser{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles пропускает только пользователей с одной из перечисленных
// ролей. Ставится строго после Protect.
func RequireRoles(env string, allowed ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFrom(r.Context())
			if !ok {
				apierr.WriteError(w, r, env, fmt.Errorf("role gate without protect: %w", service.ErrUnauthenticated))
				return
			}

			if !service.Authorize(user.Role, allowed...) {
				apierr.WriteError(w, r, env, service.ErrForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// UserFrom возвращает аутентифицированного пользователя из контекста.
func UserFrom(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(ctxKeyUser{}).(*models.User)
	return user, ok && user != nil
}

// extractToken — Bearer-заголовок имеет приоритет над cookie.
func extractToken(r *http.Request, cookieName string) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		const prefix = "Bearer "
		if strings.HasPrefix(auth, prefix) && len(auth) > len(prefix) {
			if token := strings.TrimSpace(auth[len(prefix):]); token != "" {
				return token
			}
		}
	}

	if cookieName != "" {
		if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
			return c.Value
		}
	}

	return ""
}
