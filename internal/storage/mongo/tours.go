package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pribylovaa/go-tour-booking/internal/models"
	"github.com/pribylovaa/go-tour-booking/internal/storage"
)

// tourStorage — коллекция туров с записью агрегированного рейтинга
// и выборкой гидов для read-time expansion.
type tourStorage struct {
	collection[models.Tour]
}

// UpdateRatings записывает агрегированную статистику отзывов на тур.
func (s *tourStorage) UpdateRatings(ctx context.Context, tourID primitive.ObjectID, stats models.RatingStats) error {
	const op = "storage/mongo/UpdateRatings"

	res, err := s.coll.UpdateByID(ctx, tourID, bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "ratings_quantity", Value: stats.Quantity},
			{Key: "ratings_average", Value: stats.Average},
			{Key: "updated_at", Value: time.Now().UTC()},
		}},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// UsersByIDs возвращает активных пользователей по списку идентификаторов
// (гиды тура). Отсутствующие записи молча пропускаются.
func (s *tourStorage) UsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	const op = "storage/mongo/UsersByIDs"

	if len(ids) == 0 {
		return nil, nil
	}

	filter := bson.D{
		{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}},
		{Key: "active", Value: true},
	}

	cur, err := s.coll.Database().Collection(usersCollection).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	var out []models.User
	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}

		out = append(out, u)
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return out, nil
}
