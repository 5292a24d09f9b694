package handlers

import (
	"log/slog"
	"net/http"
	"time"

	apierrors "auth-gateway/internal/errors"
	"auth-gateway/internal/http/middleware"
	"auth-gateway/internal/models"
	logctx "auth-gateway/internal/pkg/log"
	"auth-gateway/internal/validation"
)

// Login — POST /login.
//
// Валидный bearer-токен в запросе замыкает обработку на "уже залогинен"
// (400) без обращения к провайдеру; непроверяемый токен логируется и
// игнорируется, вход продолжается обычным путём.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if raw, ok := middleware.AuthTokenFrom(r.Context()); ok {
		claims, err := h.Auth.CheckSession(raw)
		if err == nil {
			writeJSON(w, http.StatusBadRequest, models.APIResponse{
				Success: false,
				Message: "You are already logged in",
				Data:    models.TokenIdentity{UID: claims.UID, Email: claims.Email},
			})
			return
		}

		logctx.From(r.Context()).Warn("login_bearer_ignored",
			slog.String("err", err.Error()),
		)
	}

	var in models.LoginRequest
	if err := decodeLenient(r, &in); err != nil {
		apierrors.WriteError(w, r, validation.Errors{"invalid request body"})
		return
	}

	if errs := validation.Validate(validation.LoginSchema, map[string]string{
		"email":    in.Email,
		"password": in.Password,
	}); len(errs) > 0 {
		apierrors.WriteError(w, r, errs)
		return
	}

	sess, err := h.Auth.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, models.APIResponse{
		Success: true,
		Message: "Login successful",
		Data: models.SessionData{
			Token: sess.Token,
			User:  toAuthUser(sess.User.UID, sess.User.Email, sess.User.EmailVerified),
		},
	})
}

// Register — POST /register.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var in models.RegisterRequest
	if err := decodeLenient(r, &in); err != nil {
		apierrors.WriteError(w, r, validation.Errors{"invalid request body"})
		return
	}

	if errs := validation.Validate(validation.RegisterSchema, map[string]string{
		"email":           in.Email,
		"password":        in.Password,
		"confirmPassword": in.ConfirmPassword,
	}); len(errs) > 0 {
		apierrors.WriteError(w, r, errs)
		return
	}

	sess, verificationSent, err := h.Auth.Register(r.Context(), in.Email, in.Password, in.ConfirmPassword)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, models.APIResponse{
		Success: true,
		Message: "Registration successful",
		Data: models.RegisterData{
			Token:                 sess.Token,
			User:                  toAuthUser(sess.User.UID, sess.User.Email, sess.User.EmailVerified),
			EmailVerificationSent: verificationSent,
		},
	})
}

// VerifyEmail — GET /verify-email?oobCode=...
func (h *Handlers) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("oobCode")

	if err := h.Auth.VerifyEmail(r.Context(), code); err != nil {
		apierrors.WriteVerifyError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.APIResponse{
		Success: true,
		Message: "Email verified",
	})
}

// ResendVerification — POST /resend-email-verification.
func (h *Handlers) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var in models.ResendVerificationRequest
	if err := decodeLenient(r, &in); err != nil {
		apierrors.WriteError(w, r, validation.Errors{"invalid request body"})
		return
	}

	raw, _ := middleware.AuthTokenFrom(r.Context())

	if err := h.Auth.ResendVerification(r.Context(), raw, in.Email); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.APIResponse{
		Success: true,
		Message: "Verification email sent",
	})
}

// Logout — POST /logout.
//
// Сессионный токен при выходе не отзывается (stateless-дизайн):
// завершается только сессия на стороне провайдера.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	raw, _ := middleware.AuthTokenFrom(r.Context())

	res, err := h.Auth.Logout(r.Context(), raw)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.APIResponse{
		Success: true,
		Message: "Logout successful",
		Data: models.LogoutData{
			LoggedOutAt: res.LoggedOutAt.Format(time.RFC3339),
			UID:         res.UID,
		},
	})
}
