package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"auth-gateway/internal/pkg/log"
)

// SessionClaims — полезная нагрузка сессионного токена.
// Токен stateless: валидность определяется только подписью и сроком,
// без серверного реестра сессий.
type SessionClaims struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// issueSessionToken выпускает подписанный HS256-токен со сроком cfg.TokenTTL
// (24 часа по умолчанию) от момента now.
func (s *Service) issueSessionToken(ctx context.Context, uid, email string, now time.Time) (string, error) {
	const op = "service.token.issueSessionToken"

	claims := SessionClaims{
		UID:   uid,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.Issuer,
			Subject:   uid,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		log.From(ctx).Error("session_token_sign_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// verifySessionToken проверяет подпись и срок токена.
// Истёкший токен отличается от структурно некорректного.
func (s *Service) verifySessionToken(tokenStr string) (*SessionClaims, error) {
	const op = "service.token.verifySessionToken"

	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return []byte(s.cfg.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5*time.Second),
		jwt.WithIssuer(s.cfg.Issuer),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return claims, nil
}

// CheckSession проверяет bearer-токен и возвращает его claims.
// Используется для short-circuit "уже залогинен" и guard-проверок
// logout/resend.
func (s *Service) CheckSession(tokenStr string) (*SessionClaims, error) {
	const op = "service.token.CheckSession"

	if tokenStr == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingToken)
	}

	claims, err := s.verifySessionToken(tokenStr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return claims, nil
}
