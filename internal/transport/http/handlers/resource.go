package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/go-tour-booking/internal/query"
	"github.com/pribylovaa/go-tour-booking/internal/service"
	"github.com/pribylovaa/go-tour-booking/internal/storage"
	"github.com/pribylovaa/go-tour-booking/internal/transport/http/apierr"
)

// ResourceHandlers — универсальная фабрика HTTP-обработчиков CRUD для
// ресурса типа T: Create (201), GetByID (200), Update (200, частичный),
// Delete (204), List (200 + results). Доменные отличия задаются опциями:
// базовый scope list-выборки и ancestor-параметр вложенного маршрута.
type ResourceHandlers[T any] struct {
	res    *service.Resource[T]
	limits query.Limits
	env    string

	baseScope struct {
		field string
		value any
	}
	ancestor struct {
		param string
		field string
		parse func(raw string) (any, error)
	}
}

// ResourceOption — настройка фабрики обработчиков.
type ResourceOption[T any] func(*ResourceHandlers[T])

// WithBaseScope добавляет постоянный предикат list-выборки
// (например, secret=false для каталога туров).
func WithBaseScope[T any](field string, value any) ResourceOption[T] {
	return func(h *ResourceHandlers[T]) {
		h.baseScope.field = field
		h.baseScope.value = value
	}
}

// WithAncestor ограничивает list-выборку родительским ресурсом из URL:
// значение параметра param парсится parse и попадает в scope под field.
func WithAncestor[T any](param, field string, parse func(raw string) (any, error)) ResourceOption[T] {
	return func(h *ResourceHandlers[T]) {
		h.ancestor.param = param
		h.ancestor.field = field
		h.ancestor.parse = parse
	}
}

// NewResource собирает фабрику обработчиков поверх сервисного ресурса.
func NewResource[T any](res *service.Resource[T], limits query.Limits, env string, opts ...ResourceOption[T]) *ResourceHandlers[T] {
	h := &ResourceHandlers[T]{res: res, limits: limits, env: env}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Create — POST: JSON-тело -> валидация -> 201 с сохранённым документом.
func (h *ResourceHandlers[T]) Create(w http.ResponseWriter, r *http.Request) {
	var doc T
	if err := decodeStrict(r, &doc); err != nil {
		apierr.WriteError(w, r, h.env, fmt.Errorf("%w: malformed request body", service.ErrValidation))
		return
	}

	created, err := h.res.Create(r.Context(), &doc)
	if err != nil {
		apierr.WriteError(w, r, h.env, err)
		return
	}

	writeData(w, http.StatusCreated, created)
}

// GetByID — GET /{id}: 200 либо 404; отсутствие записи никогда не
// превращается в успех с null.
func (h *ResourceHandlers[T]) GetByID(w http.ResponseWriter, r *http.Request) {
	doc, err := h.res.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		apierr.WriteError(w, r, h.env, err)
		return
	}

	writeData(w, http.StatusOK, doc)
}

// Update — PATCH /{id}: частичное обновление, 200 с обновлённым документом.
func (h *ResourceHandlers[T]) Update(w http.ResponseWriter, r *http.Request) {
	patch, err := decodePatch(r)
	if err != nil {
		apierr.WriteError(w, r, h.env, fmt.Errorf("%w: malformed request body", service.ErrValidation))
		return
	}

	updated, err := h.res.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		apierr.WriteError(w, r, h.env, err)
		return
	}

	writeData(w, http.StatusOK, updated)
}

// Delete — DELETE /{id}: 204 без тела.
func (h *ResourceHandlers[T]) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.res.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		apierr.WriteError(w, r, h.env, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List — GET: план из query-параметров + scope фабрики, 200 с results.
func (h *ResourceHandlers[T]) List(w http.ResponseWriter, r *http.Request) {
	plan := query.Parse(r.URL.Query(), h.limits)

	scope, err := h.scopeFor(r)
	if err != nil {
		apierr.WriteError(w, r, h.env, err)
		return
	}

	docs, err := h.res.List(r.Context(), plan, scope)
	if err != nil {
		apierr.WriteError(w, r, h.env, err)
		return
	}

	if docs == nil {
		docs = []T{}
	}

	writeList(w, len(docs), docs)
}

func (h *ResourceHandlers[T]) scopeFor(r *http.Request) (storage.Scope, error) {
	scope := storage.Scope{}

	if h.baseScope.field != "" {
		scope[h.baseScope.field] = h.baseScope.value
	}

	if h.ancestor.param != "" {
		raw := chi.URLParam(r, h.ancestor.param)

		value, err := h.ancestor.parse(raw)
		if err != nil {
			return nil, fmt.Errorf("ancestor %s: %w", h.ancestor.param, service.ErrInvalidID)
		}

		scope[h.ancestor.field] = value
	}

	if len(scope) == 0 {
		return nil, nil
	}

	return scope, nil
}
