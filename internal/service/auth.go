package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pribylovaa/go-tour-booking/internal/mail"
	"github.com/pribylovaa/go-tour-booking/internal/models"
	"github.com/pribylovaa/go-tour-booking/internal/storage"
	"github.com/pribylovaa/go-tour-booking/pkg/log"
	"github.com/pribylovaa/go-tour-booking/pkg/redact"
)

// resetTokenBytes — длина случайной части reset-токена до hex-кодирования.
const resetTokenBytes = 32

// SignUpInput — данные регистрации нового пользователя.
type SignUpInput struct {
	Name            string `validate:"required"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=8"`
	PasswordConfirm string `validate:"required"`
}

// AuthResult — пользователь и выпущенный для него access-токен.
type AuthResult struct {
	User  *models.User
	Token string
}

// SignUp регистрирует пользователя с ролью user и выпускает токен.
// Welcome-письмо отправляется best-effort: сбой отправки логируется,
// но регистрацию не откатывает.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*AuthResult, error) {
	const op = "service/auth/SignUp"

	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", op, ErrValidation, validationDetail(err))
	}

	if in.Password != in.PasswordConfirm {
		return nil, fmt.Errorf("%s: %w: passwords do not match", op, ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInternal, err)
	}

	now := time.Now().UTC()

	user := &models.User{
		Name:         in.Name,
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Role:         models.RoleUser,
		PasswordHash: string(hash),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.storage.Users().InsertOne(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	token, err := s.IssueToken(created.ID.Hex(), now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.mailer.Send(ctx, created.Email, mail.TemplateWelcome, mail.Data{
		FirstName: firstName(created.Name),
		URL:       s.cfg.SMTP.BaseURL + s.cfg.HTTP.BasePath + "/users/me",
	}); err != nil {
		log.From(ctx).Warn("welcome_mail_failed",
			slog.String("op", op),
			slog.String("email", redact.Email(created.Email)),
			slog.String("err", err.Error()),
		)
	}

	return &AuthResult{User: created, Token: token}, nil
}

// LogIn аутентифицирует пару email/пароль и выпускает токен.
// Неизвестный email и неверный пароль неразличимы для вызывающего:
// оба пути возвращают ErrInvalidCredentials.
func (s *Service) LogIn(ctx context.Context, email, password string) (*AuthResult, error) {
	const op = "service/auth/LogIn"

	if email == "" || password == "" {
		return nil, fmt.Errorf("%s: %w: email and password are required", op, ErrValidation)
	}

	user, err := s.storage.Users().UserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return nil, fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := s.IssueToken(user.ID.Hex(), time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Authenticate разбирает и проверяет access-токен, резолвит пользователя
// и отклоняет токены, выпущенные до последней смены пароля.
func (s *Service) Authenticate(ctx context.Context, rawToken string) (*models.User, error) {
	const op = "service/auth/Authenticate"

	if rawToken == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	userID, issuedAt, err := s.VerifyToken(rawToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.storage.Users().FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidID) {
			// Владелец токена больше не существует.
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		return nil, fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	if !user.Active {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if user.ChangedPasswordAfter(issuedAt) {
		return nil, fmt.Errorf("%s: %w", op, ErrStaleToken)
	}

	return user, nil
}

// Authorize — чистая проверка вхождения роли в список разрешённых.
func Authorize(role string, allowed ...string) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}

	return false
}

// ForgotPassword генерирует one-time reset-токен, сохраняет его sha256-хэш
// и отправляет письмо со ссылкой на сброс. Сбой отправки компенсируется
// очисткой reset-полей, чтобы в БД не оставался токен без доставленного письма.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	const op = "service/auth/ForgotPassword"

	if email == "" {
		return fmt.Errorf("%s: %w: email is required", op, ErrValidation)
	}

	user, err := s.storage.Users().UserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	plain, hash, err := newResetToken()
	if err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrInternal, err)
	}

	expires := time.Now().UTC().Add(s.cfg.Auth.ResetTokenTTL)

	if err := s.storage.Users().SetResetToken(ctx, user.ID, hash, expires); err != nil {
		return fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	resetURL := s.cfg.SMTP.BaseURL + s.cfg.HTTP.BasePath + "/users/reset-password/" + plain

	if err := s.mailer.Send(ctx, user.Email, mail.TemplateReset, mail.Data{
		FirstName: firstName(user.Name),
		URL:       resetURL,
	}); err != nil {
		log.From(ctx).Error("reset_mail_failed",
			slog.String("op", op),
			slog.String("email", redact.Email(user.Email)),
			slog.String("err", err.Error()),
		)

		if clearErr := s.storage.Users().ClearResetToken(ctx, user.ID); clearErr != nil {
			log.From(ctx).Error("reset_token_rollback_failed",
				slog.String("op", op),
				slog.String("err", clearErr.Error()),
			)
		}

		return fmt.Errorf("%s: %w", op, ErrEmailDispatch)
	}

	return nil
}

// ResetPassword сбрасывает пароль по plaintext reset-токену и выпускает
// новый access-токен. Токен одноразовый: использованный или истёкший
// даёт ErrResetTokenInvalid.
func (s *Service) ResetPassword(ctx context.Context, token, password, passwordConfirm string) (*AuthResult, error) {
	const op = "service/auth/ResetPassword"

	if token == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrResetTokenInvalid)
	}

	if err := s.validate.Var(password, "required,min=8"); err != nil {
		return nil, fmt.Errorf("%s: %w: password must be at least 8 characters", op, ErrValidation)
	}

	if password != passwordConfirm {
		return nil, fmt.Errorf("%s: %w: passwords do not match", op, ErrValidation)
	}

	sum := sha256.Sum256([]byte(token))
	hash := hex.EncodeToString(sum[:])

	now := time.Now().UTC()

	user, err := s.storage.Users().UserByResetToken(ctx, hash, now)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrResetTokenInvalid)
		}

		return nil, fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInternal, err)
	}

	if err := s.storage.Users().UpdatePassword(ctx, user.ID, string(newHash), now); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	// Токен выпускается после штампа password_changed_at, иначе он
	// немедленно стал бы устаревшим.
	jwtToken, err := s.IssueToken(user.ID.Hex(), now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user.PasswordHash = string(newHash)
	user.PasswordChangedAt = now

	return &AuthResult{User: user, Token: jwtToken}, nil
}

// UpdatePassword меняет пароль аутентифицированного пользователя после
// повторной проверки текущего пароля.
func (s *Service) UpdatePassword(ctx context.Context, user *models.User, current, password, passwordConfirm string) (*AuthResult, error) {
	const op = "service/auth/UpdatePassword"

	if user == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrWrongPassword)
	}

	if err := s.validate.Var(password, "required,min=8"); err != nil {
		return nil, fmt.Errorf("%s: %w: password must be at least 8 characters", op, ErrValidation)
	}

	if password != passwordConfirm {
		return nil, fmt.Errorf("%s: %w: passwords do not match", op, ErrValidation)
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInternal, err)
	}

	now := time.Now().UTC()

	if err := s.storage.Users().UpdatePassword(ctx, user.ID, string(newHash), now); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	token, err := s.IssueToken(user.ID.Hex(), now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user.PasswordHash = string(newHash)
	user.PasswordChangedAt = now

	return &AuthResult{User: user, Token: token}, nil
}

// newResetToken возвращает plaintext reset-токен и его sha256-хэш (hex).
func newResetToken() (plain, hash string, err error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}

	plain = hex.EncodeToString(buf)
	sum := sha256.Sum256([]byte(plain))

	return plain, hex.EncodeToString(sum[:]), nil
}

// firstName — имя до первого пробела (обращение в письмах).
func firstName(full string) string {
	if i := strings.IndexByte(full, ' '); i > 0 {
		return full[:i]
	}

	return full
}
