// validation — структурная валидация тел запросов по декларативным схемам.
//
// Контракт: схема применяется к плоскому набору строковых полей и собирает
// ВСЕ нарушения за один проход (не fail-fast), чтобы клиент получил полный
// список проблем сразу. Неизвестные поля отбрасываются ещё на этапе
// JSON-декодирования в типизированные структуры.
package validation

import (
	"fmt"
	"net/mail"
	"strings"
)

// Errors — список человекочитаемых сообщений о нарушениях.
// Реализует error, чтобы проходить через общий маппинг ошибок транспорта.
type Errors []string

func (e Errors) Error() string {
	return strings.Join(e, "; ")
}

// Rule — ограничения одного поля схемы.
type Rule struct {
	Field    string
	Required bool
	Email    bool
	MinLen   int
	MaxLen   int
}

// LoginSchema — схема тела POST /login.
var LoginSchema = []Rule{
	{Field: "email", Required: true, Email: true},
	{Field: "password", Required: true, MinLen: 6, MaxLen: 128},
}

// RegisterSchema — схема тела POST /register.
var RegisterSchema = []Rule{
	{Field: "email", Required: true, Email: true},
	{Field: "password", Required: true, MinLen: 6, MaxLen: 128},
	{Field: "confirmPassword", Required: true, MinLen: 6, MaxLen: 128},
}

// Validate применяет схему к значениям полей и возвращает все нарушения.
// Пустой результат означает, что payload валиден.
func Validate(schema []Rule, fields map[string]string) Errors {
	var errs Errors

	for _, rule := range schema {
		value := fields[rule.Field]

		if value == "" {
			if rule.Required {
				errs = append(errs, fmt.Sprintf("%q is required", rule.Field))
			}
			continue
		}

		if rule.Email {
			if _, err := mail.ParseAddress(strings.TrimSpace(value)); err != nil {
				errs = append(errs, fmt.Sprintf("%q must be a valid email", rule.Field))
			}
		}

		if rule.MinLen > 0 && len([]rune(value)) < rule.MinLen {
			errs = append(errs, fmt.Sprintf("%q length must be at least %d characters long", rule.Field, rule.MinLen))
		}

		if rule.MaxLen > 0 && len([]rune(value)) > rule.MaxLen {
			errs = append(errs, fmt.Sprintf("%q length must be less than or equal to %d characters long", rule.Field, rule.MaxLen))
		}
	}

	return errs
}
