package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"auth-gateway/internal/identity"
	"auth-gateway/internal/pkg/log"
)

// AuthSession — результат успешного входа или регистрации.
type AuthSession struct {
	Token string
	User  identity.Identity
}

// LogoutResult — результат выхода.
type LogoutResult struct {
	UID         string
	LoggedOutAt time.Time
}

// Login выполняет вход по email+пароль через identity-провайдера
// и выпускает сессионный токен. Вход с неподтверждённым email отклоняется.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthSession, error) {
	const op = "service.auth.Login"

	user, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !user.EmailVerified {
		return nil, fmt.Errorf("%s: %w", op, ErrEmailNotVerified)
	}

	token, err := s.issueSessionToken(ctx, user.UID, user.Email, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &AuthSession{Token: token, User: *user}, nil
}

// Register создаёт учётную запись у провайдера и сразу выпускает сессионный
// токен (email на этом этапе ещё не подтверждён). Несовпадение паролей
// отклоняется до обращения к провайдеру. Письмо подтверждения отправляется
// best-effort: неудача логируется и отражается флагом, но не отменяет
// регистрацию.
func (s *Service) Register(ctx context.Context, email, password, confirmPassword string) (*AuthSession, bool, error) {
	const op = "service.auth.Register"

	if password != confirmPassword {
		return nil, false, fmt.Errorf("%s: %w", op, ErrPasswordMismatch)
	}

	user, err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	verificationSent := true
	if err := s.provider.SendVerificationEmail(ctx, user); err != nil {
		verificationSent = false
		log.From(ctx).Warn("verification_email_send_failed",
			slog.String("op", op),
			slog.String("uid", user.UID),
			slog.String("err", err.Error()),
		)
	}

	token, err := s.issueSessionToken(ctx, user.UID, user.Email, time.Now().UTC())
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	return &AuthSession{Token: token, User: *user}, verificationSent, nil
}

// VerifyEmail применяет oobCode из письма подтверждения.
func (s *Service) VerifyEmail(ctx context.Context, code string) error {
	const op = "service.auth.VerifyEmail"

	if code == "" {
		return fmt.Errorf("%s: %w", op, ErrMissingCode)
	}

	if err := s.provider.ApplyVerificationCode(ctx, code); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ResendVerification повторно отправляет письмо подтверждения.
// Порядок guard-проверок фиксирован: email в теле, bearer-токен,
// совпадение email токена и запроса, активная сессия провайдера,
// email ещё не подтверждён.
func (s *Service) ResendVerification(ctx context.Context, tokenStr, email string) error {
	const op = "service.auth.ResendVerification"

	if email == "" {
		return fmt.Errorf("%s: %w", op, ErrMissingEmail)
	}

	claims, err := s.CheckSession(tokenStr)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if claims.Email != email {
		return fmt.Errorf("%s: %w", op, ErrEmailMismatch)
	}

	user, err := s.provider.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, ErrNoActiveSession)
	}

	if user.EmailVerified {
		return fmt.Errorf("%s: %w", op, ErrAlreadyVerified)
	}

	if err := s.provider.SendVerificationEmail(ctx, user); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Logout проверяет bearer-токен и завершает сессию провайдера.
// Сам сессионный токен при этом не отзывается: он остаётся валидным
// до истечения срока (осознанный компромисс stateless-дизайна).
func (s *Service) Logout(ctx context.Context, tokenStr string) (*LogoutResult, error) {
	const op = "service.auth.Logout"

	claims, err := s.CheckSession(tokenStr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.provider.SignOut(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &LogoutResult{
		UID:         claims.UID,
		LoggedOutAt: time.Now().UTC(),
	}, nil
}
