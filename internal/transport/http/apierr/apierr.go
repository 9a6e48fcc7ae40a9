// apierr стандартизирует ответы об ошибках HTTP-слоя tours-service.
// На вход он принимает ошибку сервисного слоя, на выход даёт:
//   - корректный HTTP-статус;
//   - конверт {"status":"error","message":...} без утечки деталей.
//
// Политика раскрытия зависит от окружения: в local/dev наружу уходит
// полная цепочка ошибки, в prod — только сообщения операционных
// (ожидаемых) ошибок; всё нераспознанное сворачивается в общее
// "something went very wrong" и логируется на сервере.
package apierr

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pribylovaa/go-tour-booking/internal/service"
	"github.com/pribylovaa/go-tour-booking/pkg/log"
)

// Окружения с полным раскрытием деталей ошибок.
const (
	EnvLocal = "local"
	EnvDev   = "dev"
)

// genericMessage — единственное сообщение для неоперационных ошибок в prod.
const genericMessage = "something went very wrong"

// ErrorResponse — единый конверт ошибки для клиента.
type ErrorResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ToHTTP конвертирует ошибку сервисного слоя в HTTP-статус, безопасное
// сообщение и признак операционности (ожидаемая ошибка клиентского класса).
//
// err == nil — программная ошибка вызова: 500/generic, чтобы не замаскировать баг.
func ToHTTP(err error) (status int, message string, operational bool) {
	if err == nil {
		return http.StatusInternalServerError, genericMessage, false
	}

	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, err.Error(), true
	case errors.Is(err, service.ErrInvalidID):
		return http.StatusBadRequest, "invalid identifier", true
	case errors.Is(err, service.ErrResetTokenInvalid):
		return http.StatusBadRequest, "token is invalid or has expired", true
	case errors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid argument", true
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized, "you are not logged in", true
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, "invalid token", true
	case errors.Is(err, service.ErrTokenExpired):
		return http.StatusUnauthorized, "token has expired", true
	case errors.Is(err, service.ErrStaleToken):
		return http.StatusUnauthorized, "password was changed recently, please log in again", true
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "incorrect email or password", true
	case errors.Is(err, service.ErrWrongPassword):
		return http.StatusUnauthorized, "current password is wrong", true
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "you do not have permission to perform this action", true
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "resource not found", true
	case errors.Is(err, service.ErrDuplicate):
		return http.StatusConflict, "duplicate value", true
	case errors.Is(err, service.ErrEmailDispatch):
		return http.StatusInternalServerError, "there was an error sending the email, try again later", true
	default:
		// Default-deny: всё нераспознанное считается неоперационным.
		return http.StatusInternalServerError, genericMessage, false
	}
}

// WriteError пишет единый конверт ошибки.
//
// В local/dev наружу уходит полная цепочка (err.Error()); в prod —
// только безопасное сообщение из таблицы, а неоперационные ошибки
// дополнительно логируются с полной цепочкой.
func WriteError(w http.ResponseWriter, r *http.Request, env string, err error) {
	status, message, operational := ToHTTP(err)

	if env == EnvLocal || env == EnvDev {
		if err != nil {
			message = err.Error()
		}
	} else if !operational && err != nil {
		log.From(r.Context()).Error("unexpected_error",
			slog.String("path", r.URL.Path),
			slog.String("err", err.Error()),
		)
	}

	resp := ErrorResponse{
		Status:  "error",
		Message: message,
	}

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
