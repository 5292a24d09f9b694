// Входные/выходные модели REST-слоя auth-gateway.
package models

// LoginRequest — тело POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest — тело POST /register.
type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ResendVerificationRequest — тело POST /resend-email-verification.
type ResendVerificationRequest struct {
	Email string `json:"email"`
}

// AuthUser — публичное представление пользователя из identity-провайдера.
type AuthUser struct {
	UID           string `json:"uid"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
}

// TokenIdentity — личность, раскодированная из сессионного токена
// (токен не несёт статус подтверждения email).
type TokenIdentity struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// SessionData — успешный логин: сессионный токен + пользователь.
type SessionData struct {
	Token string   `json:"token"`
	User  AuthUser `json:"user"`
}

// RegisterData — успешная регистрация; EmailVerificationSent отражает,
// удалось ли отправить письмо с подтверждением (best-effort).
type RegisterData struct {
	Token                 string   `json:"token"`
	User                  AuthUser `json:"user"`
	EmailVerificationSent bool     `json:"emailVerificationSent"`
}

// LogoutData — результат выхода.
type LogoutData struct {
	LoggedOutAt string `json:"loggedOutAt"` // RFC3339 UTC
	UID         string `json:"uid"`
}
