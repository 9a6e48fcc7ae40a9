package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pribylovaa/go-tour-booking/internal/models"
	"github.com/pribylovaa/go-tour-booking/pkg/log"
)

// reviewPatchRules — допустимые поля частичного обновления отзыва.
// Привязки tour_id/user_id иммутабельны.
var reviewPatchRules = patchRules{
	"review": "required",
	"rating": "gte=1,lte=5",
}

func reviewPreCreate(r *models.Review) error {
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	return nil
}

// expandReview дополняет отзыв автором (имя и фото).
func (s *Service) expandReview(ctx context.Context, r *models.Review) error {
	const op = "service/reviews/expandReview"

	author, err := s.storage.Users().FindByID(ctx, r.UserID.Hex())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	r.Author = author

	return nil
}

// CreateReview создаёт отзыв и пересчитывает рейтинг тура.
// Пара (tour, user) уникальна: повторный отзыв даёт ErrDuplicate.
func (s *Service) CreateReview(ctx context.Context, review *models.Review) (*models.Review, error) {
	const op = "service/reviews/CreateReview"

	created, err := s.reviews.Create(ctx, review)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.recalcRatings(ctx, created.TourID)

	return created, nil
}

// UpdateReview патчит отзыв и пересчитывает рейтинг тура.
func (s *Service) UpdateReview(ctx context.Context, id string, patch map[string]any) (*models.Review, error) {
	const op = "service/reviews/UpdateReview"

	updated, err := s.reviews.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.recalcRatings(ctx, updated.TourID)

	return updated, nil
}

// DeleteReview удаляет отзыв и пересчитывает рейтинг тура.
func (s *Service) DeleteReview(ctx context.Context, id string) error {
	const op = "service/reviews/DeleteReview"

	review, err := s.reviews.coll.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	if err := s.reviews.Delete(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.recalcRatings(ctx, review.TourID)

	return nil
}

// recalcRatings агрегирует отзывы тура и записывает статистику на тур.
// Без отзывов обе метрики обнуляются. Сбой пересчёта не откатывает
// операцию над отзывом: он логируется, рейтинг догонит на следующей мутации.
func (s *Service) recalcRatings(ctx context.Context, tourID primitive.ObjectID) {
	const op = "service/reviews/recalcRatings"

	stats, err := s.storage.Reviews().RatingStats(ctx, tourID)
	if err != nil {
		log.From(ctx).Error("rating_stats_failed",
			slog.String("op", op),
			slog.String("tour_id", tourID.Hex()),
			slog.String("err", err.Error()),
		)

		return
	}

	// Средний рейтинг округляется до одного знака.
	stats.Average = math.Round(stats.Average*10) / 10

	if err := s.storage.Tours().UpdateRatings(ctx, tourID, stats); err != nil {
		log.From(ctx).Error("rating_update_failed",
			slog.String("op", op),
			slog.String("tour_id", tourID.Hex()),
			slog.String("err", err.Error()),
		)
	}
}
