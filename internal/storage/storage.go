// storage задаёт контракты работы tours-service с хранилищами:
// документная БД (коллекции ресурсов) и объектное хранилище фотографий.
package storage

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pribylovaa/go-tour-booking/internal/models"
	"github.com/pribylovaa/go-tour-booking/internal/query"
)

var (
	// ErrNotFound — запись отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (email/name/пара tour+user).
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidID — идентификатор не является корректным ObjectID.
	ErrInvalidID = errors.New("invalid id")
	// ErrInvalidArgument — некорректные аргументы операции хранилища.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Scope — дополнительный предикат list-выборки, накладываемый поверх плана
// (например, ограничение отзывов родительским туром или active=true).
type Scope map[string]any

// Collection — универсальные операции над коллекцией документов типа T.
// Единый контракт для generic-фабрики CRUD-операций сервисного слоя.
type Collection[T any] interface {
	// InsertOne вставляет документ и возвращает его с заполненным ID.
	// Конфликт уникальности -> ErrAlreadyExists.
	InsertOne(ctx context.Context, doc *T) (*T, error)
	// FindByID возвращает документ по идентификатору.
	// Битый id -> ErrInvalidID; отсутствие записи -> ErrNotFound.
	FindByID(ctx context.Context, id string) (*T, error)
	// UpdateByID применяет частичное обновление ($set) и возвращает
	// обновлённый документ. Битый id -> ErrInvalidID; нет записи -> ErrNotFound.
	UpdateByID(ctx context.Context, id string, patch map[string]any) (*T, error)
	// DeleteByID удаляет документ. Битый id -> ErrInvalidID; нет записи -> ErrNotFound.
	DeleteByID(ctx context.Context, id string) error
	// FindMany выполняет план выборки с дополнительным scope-предикатом.
	FindMany(ctx context.Context, plan *query.Plan, scope Scope) ([]T, error)
	// CountMany возвращает количество записей под фильтром плана и scope
	// (без учёта пагинации).
	CountMany(ctx context.Context, plan *query.Plan, scope Scope) (int64, error)
}

// UserStorage — операции над пользователями сверх универсального CRUD.
type UserStorage interface {
	Collection[models.User]

	// UserByEmail находит активного пользователя по email (в нижнем регистре).
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// UserByResetToken находит пользователя по sha256-хэшу reset-токена
	// с неистёкшим сроком (expires > now). Иначе ErrNotFound.
	UserByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error)
	// SetResetToken сохраняет хэш reset-токена и срок его действия.
	SetResetToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expires time.Time) error
	// ClearResetToken сбрасывает reset-поля (компенсация при сбое отправки
	// письма и очистка после успешного сброса).
	ClearResetToken(ctx context.Context, id primitive.ObjectID) error
	// UpdatePassword устанавливает новый хэш пароля, штампует
	// password_changed_at и сбрасывает reset-поля одним обновлением.
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string, changedAt time.Time) error
	// Deactivate — мягкое удаление (active=false).
	Deactivate(ctx context.Context, id primitive.ObjectID) error
}

// ReviewStorage — операции над отзывами сверх универсального CRUD.
type ReviewStorage interface {
	Collection[models.Review]

	// RatingStats агрегирует отзывы тура в (количество, средний рейтинг).
	// Отсутствие отзывов — не ошибка: возвращается нулевая статистика.
	RatingStats(ctx context.Context, tourID primitive.ObjectID) (models.RatingStats, error)
}

// TourStorage — операции над турами сверх универсального CRUD.
type TourStorage interface {
	Collection[models.Tour]

	// UpdateRatings записывает агрегированную статистику отзывов на тур.
	UpdateRatings(ctx context.Context, tourID primitive.ObjectID, stats models.RatingStats) error
	// UsersByIDs возвращает пользователей-гидов для read-time expansion.
	UsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
}

// Storage — корневой контракт документного хранилища.
type Storage interface {
	Tours() TourStorage
	Users() UserStorage
	Reviews() ReviewStorage
	Bookings() Collection[models.Booking]

	Close(ctx context.Context) error
}

// UploadInfo — presigned-URL для загрузки фотографии и сопутствующие данные.
type UploadInfo struct {
	UploadURL      string
	PhotoKey       string
	Expires        time.Duration
	RequiredHeader map[string]string
}

// PhotoStorage — контракт объектного хранилища фотографий пользователей.
type PhotoStorage interface {
	// PhotoUploadURL генерирует presigned PUT URL для загрузки фотографии.
	PhotoUploadURL(ctx context.Context, userID string, contentType string, contentLength int64) (*UploadInfo, error)
	// CheckPhotoUpload подтверждает загрузку по key и возвращает публичный URL
	// (пустая строка, если public base URL не сконфигурирован).
	CheckPhotoUpload(ctx context.Context, userID string, key string) (string, error)
}
