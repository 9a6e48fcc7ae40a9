package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review — отзыв о туре. Пара (tour_id, user_id) уникальна.
// Создание/удаление отзыва инициирует явный пересчёт рейтинга тура.
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Review    string             `bson:"review" json:"review" validate:"required"`
	Rating    float64            `bson:"rating" json:"rating" validate:"required,gte=1,lte=5"`
	TourID    primitive.ObjectID `bson:"tour_id" json:"tour_id" validate:"required"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id" validate:"required"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	// Read-time expansion: автор отзыва (name, photo).
	Author *User `bson:"-" json:"author,omitempty"`
}

// RatingStats — результат агрегации отзывов одного тура.
type RatingStats struct {
	Quantity int64   `bson:"quantity"`
	Average  float64 `bson:"average"`
}
