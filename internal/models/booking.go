package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking — факт бронирования тура (создаётся после оплаты checkout-сессии).
type Booking struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TourID    primitive.ObjectID `bson:"tour_id" json:"tour_id" validate:"required"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id" validate:"required"`
	Price     float64            `bson:"price" json:"price" validate:"required,gt=0"`
	Paid      bool               `bson:"paid" json:"paid"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// CheckoutSession — данные платёжной сессии, отдаваемые клиенту.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
