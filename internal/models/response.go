package models

// APIResponse — единый конверт ответа для всех эндпойнтов.
// Успешные ответы используют Data, ошибки валидации — Errors (список строк).
// Code — короткий стабильный код для машиночитаемой обработки на FE
// (например, EMAIL_NOT_VERIFIED). Debug заполняется только для 500-х.
type APIResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
	Debug   string   `json:"debug,omitempty"`
}
