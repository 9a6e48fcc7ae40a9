// log прокидывает request-scoped *slog.Logger через context.Context.
// HTTP-мидлвар кладёт логгер с request_id (Into), нижние слои достают
// его через From и пишут в тот же поток атрибутов.
package log

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// Into возвращает контекст с прикреплённым логгером.
func Into(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From достаёт логгер из контекста. Отсутствие логгера (или мусор под
// ключом) — не ошибка: возвращается slog.Default().
func From(ctx context.Context) *slog.Logger {
	l, ok := ctx.Value(ctxKey{}).(*slog.Logger)
	if !ok || l == nil {
		return slog.Default()
	}

	return l
}
