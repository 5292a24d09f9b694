package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	apierrors "auth-gateway/internal/errors"
	logctx "auth-gateway/internal/pkg/log"
)

// Recover перехватывает panic, конвертирует в 500 и пишет унифицированный
// конверт ответа. Детали паники не утекают на клиент.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logctx.From(r.Context()).
						LogAttrs(r.Context(), slog.LevelError, "panic",
							slog.String("path", r.URL.Path),
							slog.Any("reason", rec),
						)
					apierrors.WriteError(w, r, fmt.Errorf("panic recovered"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
