package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// accessClaims — полезная нагрузка access-токена.
// Идентификатор пользователя хранится в стандартном sub.
type accessClaims struct {
	jwt.RegisteredClaims
}

// IssueToken выпускает подписанный HS256 access-токен для пользователя.
func (s *Service) IssueToken(userID string, now time.Time) (string, error) {
	const op = "service/token/IssueToken"

	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.cfg.Auth.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.Auth.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(s.cfg.Auth.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// VerifyToken проверяет подпись и срок действия токена, возвращает
// subject (ID пользователя) и момент выпуска.
// Истёкший токен -> ErrTokenExpired; прочие дефекты -> ErrInvalidToken.
func (s *Service) VerifyToken(raw string) (userID string, issuedAt time.Time, err error) {
	const op = "service/token/VerifyToken"

	var claims accessClaims

	token, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}

			return []byte(s.cfg.Auth.JWTSecret), nil
		},
		jwt.WithIssuer(s.cfg.Auth.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(5*time.Second),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", time.Time{}, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return "", time.Time{}, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if !token.Valid || claims.Subject == "" || claims.IssuedAt == nil {
		return "", time.Time{}, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return claims.Subject, claims.IssuedAt.Time, nil
}
