// handlers содержит HTTP-обработчики tours-service: универсальная
// CRUD-фабрика и доменные эндпойнты (auth, профиль, отзывы, бронирования).
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pribylovaa/go-tour-booking/internal/config"
	"github.com/pribylovaa/go-tour-booking/internal/service"
	"github.com/pribylovaa/go-tour-booking/internal/transport/http/apierr"
)

// Handlers агрегирует зависимости доменных обработчиков.
type Handlers struct {
	Svc *service.Service
	Cfg *config.Config
}

func New(svc *service.Service, cfg *config.Config) *Handlers {
	return &Handlers{Svc: svc, Cfg: cfg}
}

func (h *Handlers) env() string { return h.Cfg.Env }

// successResponse — единый конверт успешного ответа.
// Results присутствует только в list-ответах (количество элементов страницы).
type successResponse struct {
	Status  string `json:"status"`
	Results *int   `json:"results,omitempty"`
	Token   string `json:"token,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierr.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// writeData — успешный ответ с полезной нагрузкой.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, successResponse{Status: "success", Data: data})
}

// writeList — успешный list-ответ с количеством элементов страницы.
func writeList(w http.ResponseWriter, results int, data any) {
	writeJSON(w, http.StatusOK, successResponse{Status: "success", Results: &results, Data: data})
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// decodePatch — частичное обновление приходит произвольным JSON-объектом.
func decodePatch(r *http.Request) (map[string]any, error) {
	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		return nil, err
	}
	return patch, nil
}

// setTokenCookie выставляет access-токен http-only cookie.
func setTokenCookie(w http.ResponseWriter, cfg config.AuthConfig, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// badRequest — локальная ошибка разбора тела запроса.
func badRequest(w http.ResponseWriter, r *http.Request, env string) {
	apierr.WriteError(w, r, env, service.ErrValidation)
}
