// Package models содержит доменные сущности tours-service.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Difficulty — допустимые уровни сложности тура.
const (
	DifficultyEasy      = "easy"
	DifficultyMedium    = "medium"
	DifficultyDifficult = "difficult"
)

// Location — географическая точка маршрута (GeoJSON Point).
type Location struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
	Address     string    `bson:"address,omitempty" json:"address,omitempty"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Day         int       `bson:"day,omitempty" json:"day,omitempty"`
}

// Tour — основная сущность каталога.
// Важно:
//   - Slug строится из Name явным pre-create шагом сервисного слоя,
//     а не скрытым хуком хранилища;
//   - RatingsAverage/RatingsQuantity пересчитываются сервисом отзывов
//     по агрегату (см. service.Reviews);
//   - Secret-туры исключаются из list-выдачи явным фильтром.
type Tour struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name" validate:"required,min=5,max=40"`
	Slug            string             `bson:"slug,omitempty" json:"slug,omitempty"`
	Duration        int                `bson:"duration" json:"duration" validate:"required,gt=0"`
	MaxGroupSize    int                `bson:"max_group_size" json:"max_group_size" validate:"required,gt=0"`
	Difficulty      string             `bson:"difficulty" json:"difficulty" validate:"required,oneof=easy medium difficult"`
	RatingsAverage  float64            `bson:"ratings_average" json:"ratings_average" validate:"omitempty,gte=1,lte=5"`
	RatingsQuantity int64              `bson:"ratings_quantity" json:"ratings_quantity"`
	Price           float64            `bson:"price" json:"price" validate:"required,gt=0"`
	PriceDiscount   float64            `bson:"price_discount,omitempty" json:"price_discount,omitempty" validate:"omitempty,gt=0,ltfield=Price"`
	Summary         string             `bson:"summary" json:"summary" validate:"required"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	ImageCover      string             `bson:"image_cover" json:"image_cover" validate:"required"`
	Images          []string           `bson:"images,omitempty" json:"images,omitempty"`
	StartDates      []time.Time        `bson:"start_dates,omitempty" json:"start_dates,omitempty"`
	Secret          bool               `bson:"secret" json:"-"`
	StartLocation   *Location          `bson:"start_location,omitempty" json:"start_location,omitempty"`
	Locations       []Location         `bson:"locations,omitempty" json:"locations,omitempty"`
	GuideIDs        []primitive.ObjectID `bson:"guide_ids,omitempty" json:"guide_ids,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`

	// Read-time expansion (заполняются на GetByID, в БД не пишутся).
	Guides  []User   `bson:"-" json:"guides,omitempty"`
	Reviews []Review `bson:"-" json:"reviews,omitempty"`
}
