package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gosimple/slug"

	"github.com/pribylovaa/go-tour-booking/internal/models"
	"github.com/pribylovaa/go-tour-booking/internal/query"
	"github.com/pribylovaa/go-tour-booking/internal/storage"
)

// defaultRatingsAverage — стартовый рейтинг тура до первого отзыва.
const defaultRatingsAverage = 4.5

// PublicTourScope — list-фильтр каталога: секретные туры не выдаются.
func PublicTourScope() storage.Scope {
	return storage.Scope{"secret": false}
}

// tourPatchRules — допустимые поля частичного обновления тура.
// Рейтинги и slug не патчатся напрямую: первые пересчитываются по отзывам,
// второй пересобирается из имени.
var tourPatchRules = patchRules{
	"name":           "min=5,max=40",
	"duration":       "gt=0",
	"max_group_size": "gt=0",
	"difficulty":     "oneof=easy medium difficult",
	"price":          "gt=0",
	"price_discount": "gte=0",
	"summary":        "required",
	"description":    "",
	"image_cover":    "required",
	"images":         "",
	"start_dates":    "",
	"secret":         "",
	"start_location": "",
	"locations":      "",
	"guide_ids":      "",
}

// tourPreCreate — нормализация тура перед вставкой: slug из имени,
// стартовый рейтинг, штампы времени.
func tourPreCreate(t *models.Tour) error {
	t.Slug = slug.Make(t.Name)

	if t.RatingsAverage == 0 {
		t.RatingsAverage = defaultRatingsAverage
	}

	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	return nil
}

// tourPreUpdate пересобирает slug при смене имени.
func tourPreUpdate(patch map[string]any) error {
	name, ok := patch["name"].(string)
	if !ok {
		return nil
	}

	patch["slug"] = slug.Make(name)

	return nil
}

// expandTour дополняет тур гидами и отзывами на чтении.
func (s *Service) expandTour(ctx context.Context, t *models.Tour) error {
	const op = "service/tours/expandTour"

	if len(t.GuideIDs) > 0 {
		guides, err := s.storage.Tours().UsersByIDs(ctx, t.GuideIDs)
		if err != nil {
			return fmt.Errorf("%s: guides: %w", op, err)
		}

		t.Guides = guides
	}

	plan := query.Parse(nil, query.Limits{
		Default: s.cfg.Limits.Default,
		Max:     s.cfg.Limits.Max,
	})

	reviews, err := s.storage.Reviews().FindMany(ctx, plan, storage.Scope{"tour_id": t.ID})
	if err != nil {
		return fmt.Errorf("%s: reviews: %w", op, err)
	}

	t.Reviews = reviews

	return nil
}
