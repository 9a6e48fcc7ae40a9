package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pribylovaa/go-tour-booking/internal/query"
	"github.com/pribylovaa/go-tour-booking/internal/storage"
	"github.com/pribylovaa/go-tour-booking/pkg/log"
)

// patchRules — правила валидации частичного обновления: ключ патча ->
// validate-тег для значения. Ключи вне таблицы отклоняются (в частности,
// иммутабельные и служебные поля не пропускаются на запись).
type patchRules map[string]string

// Resource — универсальная фабрика CRUD-операций над коллекцией типа T.
// Доменные отличия выражаются явными хуками вместо скрытых хуков модели:
//   - preCreate нормализует/дополняет документ перед вставкой (slug тура);
//   - preUpdate корректирует патч (пересборка slug при смене имени);
//   - expand дополняет документ присоединёнными данными на чтении.
type Resource[T any] struct {
	coll     storage.Collection[T]
	validate *validator.Validate
	rules    patchRules

	preCreate func(doc *T) error
	preUpdate func(patch map[string]any) error
	expand    func(ctx context.Context, doc *T) error
}

func newResource[T any](coll storage.Collection[T], v *validator.Validate, rules patchRules) *Resource[T] {
	return &Resource[T]{
		coll:     coll,
		validate: v,
		rules:    rules,
	}
}

// Create валидирует документ целиком и вставляет его.
// Возвращает сохранённый документ с заполненным ID.
func (r *Resource[T]) Create(ctx context.Context, doc *T) (*T, error) {
	const op = "service/resource/Create"

	if doc == nil {
		return nil, fmt.Errorf("%s: %w: nil document", op, ErrInvalidArgument)
	}

	if r.preCreate != nil {
		if err := r.preCreate(doc); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := r.validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", op, ErrValidation, validationDetail(err))
	}

	created, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	return created, nil
}

// GetByID возвращает документ по идентификатору с read-time expansion.
func (r *Resource[T]) GetByID(ctx context.Context, id string) (*T, error) {
	const op = "service/resource/GetByID"

	doc, err := r.coll.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	if r.expand != nil {
		if err := r.expand(ctx, doc); err != nil {
			// Expansion не блокирует выдачу основного документа.
			log.From(ctx).Warn("resource_expand_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
		}
	}

	return doc, nil
}

// Update применяет частичное обновление. Валидируются только переданные
// поля; неизвестные ключи отклоняются.
func (r *Resource[T]) Update(ctx context.Context, id string, patch map[string]any) (*T, error) {
	const op = "service/resource/Update"

	if len(patch) == 0 {
		return nil, fmt.Errorf("%s: %w: empty patch", op, ErrValidation)
	}

	if err := r.validatePatch(patch); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if r.preUpdate != nil {
		if err := r.preUpdate(patch); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	updated, err := r.coll.UpdateByID(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	return updated, nil
}

// Delete удаляет документ по идентификатору.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	const op = "service/resource/Delete"

	if err := r.coll.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	return nil
}

// List выполняет план выборки под дополнительным scope-предикатом.
func (r *Resource[T]) List(ctx context.Context, plan *query.Plan, scope storage.Scope) ([]T, error) {
	const op = "service/resource/List"

	docs, err := r.coll.FindMany(ctx, plan, scope)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	return docs, nil
}

func (r *Resource[T]) validatePatch(patch map[string]any) error {
	for key, value := range patch {
		tag, ok := r.rules[key]
		if !ok {
			return fmt.Errorf("%w: unknown or immutable field %q", ErrValidation, key)
		}

		if tag == "" {
			continue
		}

		if err := r.validate.Var(value, tag); err != nil {
			return fmt.Errorf("%w: field %q: %s", ErrValidation, key, validationDetail(err))
		}
	}

	return nil
}

// validationDetail собирает человекочитаемую сводку нарушений валидации.
func validationDetail(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}

		parts = append(parts, fmt.Sprintf("%s must satisfy %s", fe.Field(), fe.Tag()))
	}

	return strings.Join(parts, "; ")
}
