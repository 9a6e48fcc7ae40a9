package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/pribylovaa/go-tour-booking/internal/models"
	"github.com/pribylovaa/go-tour-booking/internal/storage"
)

// userStorage — коллекция пользователей с операциями аутентификации
// и жизненного цикла reset-токена.
type userStorage struct {
	collection[models.User]
}

// UserByEmail находит активного пользователя по email.
func (s *userStorage) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage/mongo/UserByEmail"

	filter := bson.D{
		{Key: "email", Value: strings.ToLower(strings.TrimSpace(email))},
		{Key: "active", Value: true},
	}

	var out models.User
	if err := s.coll.FindOne(ctx, filter).Decode(&out); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

// UserByResetToken находит пользователя по хэшу reset-токена с неистёкшим
// сроком. Просроченный или неизвестный токен неразличимы: оба — ErrNotFound.
func (s *userStorage) UserByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error) {
	const op = "storage/mongo/UserByResetToken"

	filter := bson.D{
		{Key: "password_reset_token", Value: tokenHash},
		{Key: "password_reset_expires", Value: bson.D{{Key: "$gt", Value: now.UTC()}}},
		{Key: "active", Value: true},
	}

	var out models.User
	if err := s.coll.FindOne(ctx, filter).Decode(&out); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

// SetResetToken сохраняет хэш reset-токена и срок действия.
func (s *userStorage) SetResetToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expires time.Time) error {
	const op = "storage/mongo/SetResetToken"

	res, err := s.coll.UpdateByID(ctx, id, bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "password_reset_token", Value: tokenHash},
			{Key: "password_reset_expires", Value: expires.UTC()},
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

// ClearResetToken сбрасывает reset-поля. Используется и как компенсация
// при сбое отправки письма, и как очистка после успешного сброса пароля.
func (s *userStorage) ClearResetToken(ctx context.Context, id primitive.ObjectID) error {
	const op = "storage/mongo/ClearResetToken"

	res, err := s.coll.UpdateByID(ctx, id, bson.D{
		{Key: "$unset", Value: bson.D{
			{Key: "password_reset_token", Value: ""},
			{Key: "password_reset_expires", Value: ""},
		}},
		{Key: "$set", Value: bson.D{
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

// UpdatePassword устанавливает новый хэш пароля, штампует
// password_changed_at и сбрасывает reset-поля одним обновлением.
func (s *userStorage) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string, changedAt time.Time) error {
	const op = "storage/mongo/UpdatePassword"

	res, err := s.coll.UpdateByID(ctx, id, bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "password_hash", Value: passwordHash},
			{Key: "password_changed_at", Value: changedAt.UTC()},
			{Key: "updated_at", Value: time.Now().UTC()},
		}},
		{Key: "$unset", Value: bson.D{
			{Key: "password_reset_token", Value: ""},
			{Key: "password_reset_expires", Value: ""},
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

// Deactivate — мягкое удаление пользователя.
func (s *userStorage) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	const op = "storage/mongo/Deactivate"

	res, err := s.coll.UpdateByID(ctx, id, bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "active", Value: false},
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
