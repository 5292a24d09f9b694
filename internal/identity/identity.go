// identity — контракт внешнего identity-провайдера.
//
// Провайдер владеет учётными записями (пароли, статус подтверждения email)
// и является для шлюза непрозрачным внешним сервисом: шлюз зависит только
// от этого интерфейса и от стабильных кодов ошибок ниже.
package identity

import (
	"context"
	"errors"
	"fmt"
)

// Identity — учётная запись у провайдера. Шлюз её только читает.
type Identity struct {
	UID           string
	Email         string
	EmailVerified bool
}

// Provider — узкий capability-интерфейс внешнего сервиса аутентификации.
type Provider interface {
	// SignIn проверяет пару email+пароль и возвращает учётную запись.
	SignIn(ctx context.Context, email, password string) (*Identity, error)
	// SignUp создаёт учётную запись (email ещё не подтверждён).
	SignUp(ctx context.Context, email, password string) (*Identity, error)
	// SendVerificationEmail отправляет письмо с кодом подтверждения.
	SendVerificationEmail(ctx context.Context, user *Identity) error
	// ApplyVerificationCode применяет oobCode из письма.
	ApplyVerificationCode(ctx context.Context, code string) error
	// SignOut завершает текущую сессию на стороне провайдера.
	SignOut(ctx context.Context) error
	// CurrentUser возвращает учётную запись активной сессии провайдера
	// или ErrNoSession, если активной сессии нет.
	CurrentUser(ctx context.Context) (*Identity, error)
}

// ErrNoSession — у провайдера нет активной сессии.
var ErrNoSession = errors.New("no active provider session")

// Стабильные коды ошибок провайдера. Транспорт маппит их в фиксированные
// пользовательские сообщения; неизвестные коды проходят насквозь и попадают
// в дефолтную ветку маппинга.
const (
	CodeUserNotFound      = "user-not-found"
	CodeWrongPassword     = "wrong-password"
	CodeUserDisabled      = "user-disabled"
	CodeTooManyRequests   = "too-many-requests"
	CodeEmailAlreadyInUse = "email-already-in-use"
	CodeExpiredActionCode = "expired-action-code"
	CodeInvalidActionCode = "invalid-action-code"
)

// ProviderError — классифицированная ошибка провайдера.
type ProviderError struct {
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("identity provider: %s", e.Code)
	}

	return fmt.Sprintf("identity provider: %s: %s", e.Code, e.Message)
}
