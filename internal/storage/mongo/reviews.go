package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pribylovaa/go-tour-booking/internal/models"
)

// reviewStorage — коллекция отзывов с агрегацией рейтинга.
type reviewStorage struct {
	collection[models.Review]
}

// RatingStats агрегирует отзывы тура в (количество, средний рейтинг).
// Тур без отзывов — нулевая статистика, не ошибка.
func (s *reviewStorage) RatingStats(ctx context.Context, tourID primitive.ObjectID) (models.RatingStats, error) {
	const op = "storage/mongo/RatingStats"

	pipeline := []bson.D{
		{{Key: "$match", Value: bson.D{{Key: "tour_id", Value: tourID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$tour_id"},
			{Key: "quantity", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "average", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
		}}},
	}

	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return models.RatingStats{}, fmt.Errorf("%s: aggregate: %w", op, err)
	}
	defer cur.Close(ctx)

	if cur.Next(ctx) {
		var stats models.RatingStats
		if err := cur.Decode(&stats); err != nil {
			return models.RatingStats{}, fmt.Errorf("%s: decode: %w", op, err)
		}

		return stats, nil
	}

	if err := cur.Err(); err != nil {
		return models.RatingStats{}, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return models.RatingStats{}, nil
}
