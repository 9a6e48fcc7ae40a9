package service

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pribylovaa/go-tour-booking/internal/models"
	"github.com/pribylovaa/go-tour-booking/internal/storage"
)

// userPatchRules — допустимые поля частичного обновления пользователя
// (админские операции). Пароль меняется только через auth-операции.
var userPatchRules = patchRules{
	"name":   "required",
	"email":  "email",
	"role":   "oneof=admin user guide lead-guide",
	"photo":  "",
	"active": "",
}

// UpdateMe патчит профиль текущего пользователя. Разрешены только name и
// email; поля пароля и роли отклоняются как ErrValidation.
func (s *Service) UpdateMe(ctx context.Context, user *models.User, patch map[string]any) (*models.User, error) {
	const op = "service/users/UpdateMe"

	if user == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	for key := range patch {
		switch key {
		case "name", "email":
		case "password", "password_confirm", "password_hash":
			return nil, fmt.Errorf("%s: %w: use the update-password route for password changes", op, ErrValidation)
		default:
			return nil, fmt.Errorf("%s: %w: field %q is not updatable here", op, ErrValidation, key)
		}
	}

	if email, ok := patch["email"].(string); ok {
		patch["email"] = strings.ToLower(strings.TrimSpace(email))
	}

	updated, err := s.users.Update(ctx, user.ID.Hex(), patch)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return updated, nil
}

// DeleteMe — мягкое удаление текущего пользователя (active=false).
func (s *Service) DeleteMe(ctx context.Context, user *models.User) error {
	const op = "service/users/DeleteMe"

	if user == nil {
		return fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	if err := s.storage.Users().Deactivate(ctx, user.ID); err != nil {
		return fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	return nil
}

// PhotoUploadURL выдаёт presigned-URL для загрузки фотографии профиля.
func (s *Service) PhotoUploadURL(ctx context.Context, user *models.User, contentType string, contentLength int64) (*storage.UploadInfo, error) {
	const op = "service/users/PhotoUploadURL"

	if user == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	if s.photos == nil {
		return nil, fmt.Errorf("%s: %w: photo storage is not configured", op, ErrInvalidArgument)
	}

	info, err := s.photos.PhotoUploadURL(ctx, user.ID.Hex(), contentType, contentLength)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	return info, nil
}

// ConfirmPhotoUpload подтверждает загрузку по ключу и сохраняет его
// в профиле пользователя.
func (s *Service) ConfirmPhotoUpload(ctx context.Context, user *models.User, key string) (*models.User, error) {
	const op = "service/users/ConfirmPhotoUpload"

	if user == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	if s.photos == nil {
		return nil, fmt.Errorf("%s: %w: photo storage is not configured", op, ErrInvalidArgument)
	}

	if _, err := s.photos.CheckPhotoUpload(ctx, user.ID.Hex(), key); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	updated, err := s.storage.Users().UpdateByID(ctx, user.ID.Hex(), map[string]any{"photo": key})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	return updated, nil
}

// UserByID возвращает пользователя по идентификатору.
func (s *Service) UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	const op = "service/users/UserByID"

	user, err := s.storage.Users().FindByID(ctx, id.Hex())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	return user, nil
}
