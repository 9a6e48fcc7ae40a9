package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Роли пользователей. Гейт доступа — чистая функция Authorize в service.
const (
	RoleAdmin     = "admin"
	RoleUser      = "user"
	RoleGuide     = "guide"
	RoleLeadGuide = "lead-guide"
)

// User — модель пользователя.
// Важно:
//   - PasswordHash и reset-поля никогда не сериализуются наружу;
//   - PasswordResetToken хранит только sha256-хэш one-time токена,
//     plaintext за пределы ForgotPassword не persist-ится;
//   - Active=false — мягкое удаление: пользователь исключается из
//     аутентификации и выдач.
type User struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name               string             `bson:"name" json:"name" validate:"required"`
	Email              string             `bson:"email" json:"email" validate:"required,email"`
	Photo              string             `bson:"photo,omitempty" json:"photo,omitempty"`
	Role               string             `bson:"role" json:"role" validate:"omitempty,oneof=admin user guide lead-guide"`
	PasswordHash       string             `bson:"password_hash" json:"-"`
	PasswordChangedAt  time.Time          `bson:"password_changed_at,omitempty" json:"-"`
	PasswordResetToken string             `bson:"password_reset_token,omitempty" json:"-"`
	PasswordResetExp   time.Time          `bson:"password_reset_expires,omitempty" json:"-"`
	Active             bool               `bson:"active" json:"-"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updated_at"`
}

// ChangedPasswordAfter — true, если пароль менялся после момента issuedAt.
// Используется для инвалидации токенов, выпущенных до смены пароля.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt.IsZero() {
		return false
	}

	// Секундная точность: iat в JWT хранится в секундах.
	return u.PasswordChangedAt.Truncate(time.Second).After(issuedAt.Truncate(time.Second))
}
