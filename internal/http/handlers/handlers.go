package handlers

import (
	"encoding/json"
	"net/http"

	"auth-gateway/internal/models"
	"auth-gateway/internal/service"
)

// Handlers агрегирует зависимости HTTP-слоя.
type Handlers struct {
	Auth *service.Service
}

func New(auth *service.Service) *Handlers {
	return &Handlers{Auth: auth}
}

// writeJSON — единый успешный ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError / WriteVerifyError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeLenient — нестрогий JSON-декодер: неизвестные поля отбрасываются
// (валидатор работает только с задекларированными полями схемы).
func decodeLenient(r *http.Request, value any) error {
	return json.NewDecoder(r.Body).Decode(value)
}

// toAuthUser конвертирует identity-модель в публичный DTO.
func toAuthUser(uid, email string, verified bool) models.AuthUser {
	return models.AuthUser{
		UID:           uid,
		Email:         email,
		EmailVerified: verified,
	}
}
