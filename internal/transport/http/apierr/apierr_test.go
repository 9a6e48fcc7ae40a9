package apierr

// Тесты нормализатора ошибок (internal/transport/http/apierr).
//
// Проверяем:
//  - таблицу маппинга канонических ошибок сервиса в HTTP-статусы;
//  - политику раскрытия: local/dev отдают цепочку, prod — только
//    операционные сообщения, остальное сворачивается в generic;
//  - прокидывание request_id в конверт.

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-tour-booking/internal/service"
)

func TestToHTTP_Table(t *testing.T) {
	cases := []struct {
		name        string
		err         error
		status      int
		operational bool
	}{
		{"validation", service.ErrValidation, http.StatusBadRequest, true},
		{"invalid id", service.ErrInvalidID, http.StatusBadRequest, true},
		{"reset token", service.ErrResetTokenInvalid, http.StatusBadRequest, true},
		{"unauthenticated", service.ErrUnauthenticated, http.StatusUnauthorized, true},
		{"invalid token", service.ErrInvalidToken, http.StatusUnauthorized, true},
		{"expired token", service.ErrTokenExpired, http.StatusUnauthorized, true},
		{"stale token", service.ErrStaleToken, http.StatusUnauthorized, true},
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, true},
		{"wrong password", service.ErrWrongPassword, http.StatusUnauthorized, true},
		{"forbidden", service.ErrForbidden, http.StatusForbidden, true},
		{"not found", service.ErrNotFound, http.StatusNotFound, true},
		{"duplicate", service.ErrDuplicate, http.StatusConflict, true},
		{"email dispatch", service.ErrEmailDispatch, http.StatusInternalServerError, true},
		{"internal", service.ErrInternal, http.StatusInternalServerError, false},
		{"unknown", errors.New("driver exploded"), http.StatusInternalServerError, false},
		{"nil", nil, http.StatusInternalServerError, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, _, operational := ToHTTP(tc.err)
			require.Equal(t, tc.status, status)
			require.Equal(t, tc.operational, operational)
		})
	}
}

// Обёрнутая ошибка маппится по sentinel внутри цепочки.
func TestToHTTP_WrappedSentinel(t *testing.T) {
	err := fmt.Errorf("service/resource/GetByID: %w", service.ErrNotFound)

	status, _, operational := ToHTTP(err)
	require.Equal(t, http.StatusNotFound, status)
	require.True(t, operational)
}

func doWrite(t *testing.T, env string, err error, requestID string) (int, ErrorResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tours", nil)
	if requestID != "" {
		req.Header.Set("X-Request-Id", requestID)
	}

	rec := httptest.NewRecorder()
	WriteError(rec, req, env, err)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	return rec.Code, resp
}

func TestWriteError_DevExposesDetail(t *testing.T) {
	err := fmt.Errorf("storage/mongo/FindByID: %w", service.ErrNotFound)

	code, resp := doWrite(t, EnvDev, err, "")
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "error", resp.Status)
	require.Contains(t, resp.Message, "storage/mongo/FindByID")
}

func TestWriteError_ProdHidesNonOperational(t *testing.T) {
	code, resp := doWrite(t, "prod", errors.New("mongo: connection reset"), "")
	require.Equal(t, http.StatusInternalServerError, code)
	require.Equal(t, genericMessage, resp.Message)
	require.NotContains(t, resp.Message, "mongo")
}

func TestWriteError_ProdKeepsOperationalMessage(t *testing.T) {
	code, resp := doWrite(t, "prod", service.ErrInvalidCredentials, "")
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "incorrect email or password", resp.Message)
}

func TestWriteError_RequestIDPassthrough(t *testing.T) {
	_, resp := doWrite(t, "prod", service.ErrNotFound, "req-123")
	require.Equal(t, "req-123", resp.RequestID)
}
