// service содержит бизнес-логику tours-service поверх контрактов storage:
// универсальная фабрика CRUD-ресурсов, аутентификация и выпуск токенов,
// туры, пользователи, отзывы и бронирования.
package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/pribylovaa/go-tour-booking/internal/config"
	"github.com/pribylovaa/go-tour-booking/internal/mail"
	"github.com/pribylovaa/go-tour-booking/internal/models"
	"github.com/pribylovaa/go-tour-booking/internal/payments"
	"github.com/pribylovaa/go-tour-booking/internal/storage"
)

// Канонический набор ошибок сервисного слоя. Транспорт отображает их
// в HTTP-статусы и сообщения единообразно (см. transport/http/apierr).
var (
	// ErrNotFound — запрошенный ресурс не существует.
	ErrNotFound = errors.New("resource not found")
	// ErrValidation — входные данные не прошли валидацию.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicate — нарушение уникальности (email, имя тура, пара tour+user).
	ErrDuplicate = errors.New("duplicate value")
	// ErrInvalidID — идентификатор в пути некорректен.
	ErrInvalidID = errors.New("invalid identifier")
	// ErrUnauthenticated — запрос без учётных данных.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidToken — токен не прошёл проверку подписи или структуры.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired — срок действия токена истёк.
	ErrTokenExpired = errors.New("token expired")
	// ErrStaleToken — пароль менялся после выпуска токена.
	ErrStaleToken = errors.New("stale token")
	// ErrForbidden — роль пользователя не входит в список разрешённых.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidCredentials — неверная пара email/пароль (неразличимо,
	// что именно неверно).
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrWrongPassword — текущий пароль при смене указан неверно.
	ErrWrongPassword = errors.New("wrong current password")
	// ErrResetTokenInvalid — reset-токен не найден или истёк.
	ErrResetTokenInvalid = errors.New("reset token invalid or expired")
	// ErrEmailDispatch — не удалось отправить письмо.
	ErrEmailDispatch = errors.New("email dispatch failed")
	// ErrInvalidArgument — некорректные аргументы операции.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInternal — внутренняя ошибка сервиса.
	ErrInternal = errors.New("internal error")
)

// Service — корневой сервис: хранит зависимости и отдаёт доменные подсервисы.
type Service struct {
	storage  storage.Storage
	photos   storage.PhotoStorage
	mailer   mail.Mailer
	payments payments.Provider
	cfg      *config.Config

	validate *validator.Validate

	tours    *Resource[models.Tour]
	users    *Resource[models.User]
	reviews  *Resource[models.Review]
	bookings *Resource[models.Booking]
}

// New собирает сервис из зависимостей. Все коллаборации обязательны,
// кроме photos (nil допустим, тогда операции с фото вернут ErrInvalidArgument).
func New(st storage.Storage, photos storage.PhotoStorage, mailer mail.Mailer, pay payments.Provider, cfg *config.Config) (*Service, error) {
	if st == nil {
		return nil, fmt.Errorf("service: storage is nil")
	}

	if mailer == nil {
		return nil, fmt.Errorf("service: mailer is nil")
	}

	if pay == nil {
		return nil, fmt.Errorf("service: payments provider is nil")
	}

	if cfg == nil {
		return nil, fmt.Errorf("service: config is nil")
	}

	v := validator.New(validator.WithRequiredStructEnabled())

	s := &Service{
		storage:  st,
		photos:   photos,
		mailer:   mailer,
		payments: pay,
		cfg:      cfg,
		validate: v,
	}

	s.tours = newResource[models.Tour](st.Tours(), v, tourPatchRules)
	s.tours.preCreate = tourPreCreate
	s.tours.preUpdate = tourPreUpdate
	s.tours.expand = s.expandTour

	s.users = newResource[models.User](st.Users(), v, userPatchRules)

	s.reviews = newResource[models.Review](st.Reviews(), v, reviewPatchRules)
	s.reviews.preCreate = reviewPreCreate
	s.reviews.expand = s.expandReview

	s.bookings = newResource[models.Booking](st.Bookings(), v, bookingPatchRules)
	s.bookings.preCreate = bookingPreCreate

	return s, nil
}

// Tours — CRUD-ресурс туров.
func (s *Service) Tours() *Resource[models.Tour] { return s.tours }

// Users — CRUD-ресурс пользователей (админские операции).
func (s *Service) Users() *Resource[models.User] { return s.users }

// Reviews — CRUD-ресурс отзывов.
func (s *Service) Reviews() *Resource[models.Review] { return s.reviews }

// Bookings — CRUD-ресурс бронирований.
func (s *Service) Bookings() *Resource[models.Booking] { return s.bookings }

// mapStorageErr переводит ошибки хранилища в канонические ошибки сервиса.
func mapStorageErr(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, storage.ErrAlreadyExists):
		return ErrDuplicate
	case errors.Is(err, storage.ErrInvalidID):
		return ErrInvalidID
	case errors.Is(err, storage.ErrInvalidArgument):
		return ErrInvalidArgument
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
