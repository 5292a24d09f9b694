// service содержит бизнес-логику auth-gateway: пять операций
// (login, register, verify-email, resend-verification, logout),
// выпуск/проверку сессионных токенов и обращения к identity-провайдеру
// через интерфейс identity.Provider.
//
// Основные аспекты:
//   - Service не хранит состояние запроса; экземпляр безопасен для
//     конкурентного использования при потокобезопасном провайдере.
//   - "Состояние" между запросами носит клиент в bearer-токене.
//   - Ошибки возвращаются тегированными (sentinel-переменные ниже либо
//     *identity.ProviderError) и маппятся транспортом в HTTP-статусы
//     единым образом (см. internal/errors).
package service

import (
	"errors"

	"auth-gateway/internal/config"
	"auth-gateway/internal/identity"
)

var (
	// ErrEmailNotVerified — вход с неподтверждённым email.
	// Транспорт: 403, код EMAIL_NOT_VERIFIED.
	ErrEmailNotVerified = errors.New("email not verified")

	// ErrPasswordMismatch — password != confirmPassword при регистрации.
	// Проверяется ДО обращения к провайдеру. Транспорт: 400.
	ErrPasswordMismatch = errors.New("password mismatch")

	// ErrMissingCode — отсутствует oobCode в запросе подтверждения email.
	// Транспорт: 400.
	ErrMissingCode = errors.New("verification code is required")

	// ErrMissingEmail — отсутствует email в теле запроса. Транспорт: 400.
	ErrMissingEmail = errors.New("email is required")

	// ErrMissingToken — отсутствует bearer-токен. Транспорт: 401.
	ErrMissingToken = errors.New("authorization token is required")

	// ErrInvalidToken — токен некорректен по структуре или подписи.
	// Транспорт: 401, сообщение отличается от истёкшего токена.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired — срок действия токена истёк. Транспорт: 401.
	ErrTokenExpired = errors.New("token expired")

	// ErrEmailMismatch — email в токене не совпадает с email запроса.
	// Транспорт: 403.
	ErrEmailMismatch = errors.New("email mismatch")

	// ErrNoActiveSession — у провайдера нет активной сессии. Транспорт: 401.
	ErrNoActiveSession = errors.New("no active session")

	// ErrAlreadyVerified — email уже подтверждён, повторная отправка
	// письма не нужна. Транспорт: 400.
	ErrAlreadyVerified = errors.New("email already verified")
)

// Service описывает бизнес-логику auth-gateway.
type Service struct {
	provider identity.Provider
	cfg      config.AuthConfig
}

// New создаёт новый экземпляр Service.
func New(provider identity.Provider, cfg config.AuthConfig) *Service {
	return &Service{
		provider: provider,
		cfg:      cfg,
	}
}
