// errors стандартизирует ответы об ошибках HTTP-слоя auth-gateway.
//
// На вход принимается тегированная ошибка бизнес-слоя (sentinel из service,
// validation.Errors либо *identity.ProviderError), на выход — корректный
// HTTP-статус и единый конверт models.APIResponse. Каждый путь выполнения
// пишет ровно один ответ; всё неклассифицированное уходит в 500 с debug-полем.
//
// Маппинг кодов провайдера двухвариантный: у login/register/resend своя
// таблица фиксированных сообщений (401), у verify-email — своя (400).
package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	"auth-gateway/internal/identity"
	"auth-gateway/internal/models"
	"auth-gateway/internal/service"
	"auth-gateway/internal/validation"
)

// authProviderMessages — фиксированные сообщения для ошибок провайдера
// в сценариях аутентификации. Неизвестные коды — generic "Authentication failed".
var authProviderMessages = map[string]string{
	identity.CodeUserNotFound:      "No user found with this email",
	identity.CodeWrongPassword:     "Incorrect password",
	identity.CodeUserDisabled:      "This account has been disabled",
	identity.CodeTooManyRequests:   "Too many failed attempts. Please try again later",
	identity.CodeEmailAlreadyInUse: "Email is already in use",
}

// verifyProviderMessages — фиксированные сообщения для ошибок провайдера
// при подтверждении email.
var verifyProviderMessages = map[string]string{
	identity.CodeExpiredActionCode: "Verification link has expired",
	identity.CodeInvalidActionCode: "Invalid verification link",
	identity.CodeUserDisabled:      "User account has been disabled",
}

// ToHTTP конвертирует ошибку бизнес-слоя в HTTP-статус и конверт ответа.
func ToHTTP(err error) (int, models.APIResponse) {
	if err == nil {
		// Программная ошибка вызова: не маскируем багом вида "200 с телом ошибки".
		return http.StatusInternalServerError, models.APIResponse{
			Success: false,
			Message: "Internal server error",
		}
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return http.StatusBadRequest, models.APIResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  verrs,
		}
	}

	var perr *identity.ProviderError
	if errors.As(err, &perr) {
		msg, ok := authProviderMessages[perr.Code]
		if !ok {
			msg = "Authentication failed"
		}

		return http.StatusUnauthorized, models.APIResponse{
			Success: false,
			Message: msg,
		}
	}

	switch {
	case errors.Is(err, service.ErrPasswordMismatch):
		return http.StatusBadRequest, fail("Password does not match")
	case errors.Is(err, service.ErrMissingCode):
		return http.StatusBadRequest, fail("Verification code is required")
	case errors.Is(err, service.ErrMissingEmail):
		return http.StatusBadRequest, fail("Email is required")
	case errors.Is(err, service.ErrAlreadyVerified):
		return http.StatusBadRequest, fail("Email is already verified")
	case errors.Is(err, service.ErrEmailNotVerified):
		return http.StatusForbidden, models.APIResponse{
			Success: false,
			Message: "Please verify your email before logging in",
			Code:    "EMAIL_NOT_VERIFIED",
		}
	case errors.Is(err, service.ErrEmailMismatch):
		return http.StatusForbidden, fail("Email does not match authenticated user")
	case errors.Is(err, service.ErrMissingToken):
		return http.StatusUnauthorized, fail("Authorization token is required")
	case errors.Is(err, service.ErrTokenExpired):
		return http.StatusUnauthorized, fail("Token has expired")
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, fail("Invalid token")
	case errors.Is(err, service.ErrNoActiveSession):
		return http.StatusUnauthorized, fail("No active session")
	}

	return http.StatusInternalServerError, models.APIResponse{
		Success: false,
		Message: "Internal server error",
		Debug:   err.Error(),
	}
}

// ToHTTPVerify — вариант маппинга для GET /verify-email: коды провайдера
// отвечают 400 со своей таблицей сообщений; у неизвестного кода провайдера —
// generic-сообщение, остальное уходит в общий маппинг (включая дефолтный 500).
func ToHTTPVerify(err error) (int, models.APIResponse) {
	var perr *identity.ProviderError
	if errors.As(err, &perr) {
		msg, ok := verifyProviderMessages[perr.Code]
		if !ok {
			msg = "Email verification failed"
		}

		return http.StatusBadRequest, fail(msg)
	}

	return ToHTTP(err)
}

// WriteError — хелпер для HTTP-хендлеров: статус + конверт.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)
	write(w, status, resp)
}

// WriteVerifyError — аналог WriteError для подтверждения email.
func WriteVerifyError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTPVerify(err)
	write(w, status, resp)
}

func fail(message string) models.APIResponse {
	return models.APIResponse{
		Success: false,
		Message: message,
	}
}

func write(w http.ResponseWriter, status int, resp models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
