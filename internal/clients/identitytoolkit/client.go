// identitytoolkit — REST-клиент внешнего identity-провайдера
// (Identity Toolkit v1, "accounts:*" эндпойнты).
//
// Клиент реализует identity.Provider и удерживает текущую сессию провайдера
// (idToken + учётная запись последнего успешного входа). Это единственное
// разделяемое изменяемое состояние процесса, поэтому оно закрыто мьютексом.
package identitytoolkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"auth-gateway/internal/config"
	"auth-gateway/internal/identity"
	"auth-gateway/internal/pkg/log"
)

const defaultEndpoint = "https://identitytoolkit.googleapis.com/v1"

// Client — HTTP-клиент Identity Toolkit API.
type Client struct {
	apiKey   string
	endpoint string
	httpc    *http.Client

	mu      sync.Mutex
	session *session // nil, если активной сессии нет
}

type session struct {
	idToken string
	user    identity.Identity
}

// New создаёт клиент по конфигурации. Endpoint можно переопределить
// в конфиге (в тестах — адрес httptest.Server).
func New(cfg config.IdentityConfig) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		apiKey:   cfg.APIKey,
		endpoint: endpoint,
		httpc:    &http.Client{Timeout: timeout},
	}
}

// Ответы и тела запросов "accounts:*" эндпойнтов.
type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
	IDToken string `json:"idToken"`
}

type lookupRequest struct {
	IDToken string `json:"idToken"`
}

type lookupResponse struct {
	Users []struct {
		LocalID       string `json:"localId"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"emailVerified"`
	} `json:"users"`
}

type sendOobCodeRequest struct {
	RequestType string `json:"requestType"`
	IDToken     string `json:"idToken"`
}

type applyOobCodeRequest struct {
	OobCode string `json:"oobCode"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SignIn выполняет вход по email+пароль и делает lookup, чтобы получить
// актуальный статус подтверждения email.
func (c *Client) SignIn(ctx context.Context, email, password string) (*identity.Identity, error) {
	const op = "identitytoolkit.SignIn"

	var signIn signInResponse
	if err := c.post(ctx, "accounts:signInWithPassword", signInRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}, &signIn); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user := identity.Identity{
		UID:   signIn.LocalID,
		Email: signIn.Email,
	}

	var lookup lookupResponse
	if err := c.post(ctx, "accounts:lookup", lookupRequest{IDToken: signIn.IDToken}, &lookup); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(lookup.Users) > 0 {
		user.EmailVerified = lookup.Users[0].EmailVerified
	}

	c.setSession(signIn.IDToken, user)

	return &user, nil
}

// SignUp создаёт учётную запись; email на этом этапе не подтверждён.
func (c *Client) SignUp(ctx context.Context, email, password string) (*identity.Identity, error) {
	const op = "identitytoolkit.SignUp"

	var signUp signInResponse
	if err := c.post(ctx, "accounts:signUp", signInRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}, &signUp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user := identity.Identity{
		UID:           signUp.LocalID,
		Email:         signUp.Email,
		EmailVerified: false,
	}

	c.setSession(signUp.IDToken, user)

	return &user, nil
}

// SendVerificationEmail отправляет письмо подтверждения для учётной записи
// текущей сессии. Требует активную сессию того же пользователя.
func (c *Client) SendVerificationEmail(ctx context.Context, user *identity.Identity) error {
	const op = "identitytoolkit.SendVerificationEmail"

	c.mu.Lock()
	sess := c.session
	c.mu.Unlock()

	if sess == nil || (user != nil && user.UID != sess.user.UID) {
		return fmt.Errorf("%s: %w", op, identity.ErrNoSession)
	}

	if err := c.post(ctx, "accounts:sendOobCode", sendOobCodeRequest{
		RequestType: "VERIFY_EMAIL",
		IDToken:     sess.idToken,
	}, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ApplyVerificationCode применяет oobCode из письма подтверждения.
func (c *Client) ApplyVerificationCode(ctx context.Context, code string) error {
	const op = "identitytoolkit.ApplyVerificationCode"

	if err := c.post(ctx, "accounts:update", applyOobCodeRequest{OobCode: code}, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SignOut сбрасывает текущую сессию провайдера. Ранее выданные сессионные
// токены шлюза при этом остаются валидными до истечения срока.
func (c *Client) SignOut(_ context.Context) error {
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()

	return nil
}

// CurrentUser возвращает учётную запись активной сессии провайдера.
func (c *Client) CurrentUser(_ context.Context) (*identity.Identity, error) {
	const op = "identitytoolkit.CurrentUser"

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return nil, fmt.Errorf("%s: %w", op, identity.ErrNoSession)
	}

	user := c.session.user

	return &user, nil
}

func (c *Client) setSession(idToken string, user identity.Identity) {
	c.mu.Lock()
	c.session = &session{idToken: idToken, user: user}
	c.mu.Unlock()
}

// post выполняет JSON POST к "accounts:*" эндпойнту и декодирует ответ в out.
// Не-2xx ответы конвертируются в identity.ProviderError со стабильным кодом.
func (c *Client) post(ctx context.Context, method string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s?key=%s", c.endpoint, method, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", method, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response %s: %w", method, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		perr := parseError(raw)
		log.From(ctx).Warn("identity_provider_error",
			slog.String("method", method),
			slog.Int("status", resp.StatusCode),
			slog.String("code", perr.Code),
		)

		return perr
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response %s: %w", method, err)
		}
	}

	return nil
}

// parseError переводит код ошибки API в стабильный код identity.ProviderError.
func parseError(raw []byte) *identity.ProviderError {
	var body apiError
	_ = json.Unmarshal(raw, &body)

	msg := body.Error.Message

	var code string
	switch msg {
	case "EMAIL_NOT_FOUND":
		code = identity.CodeUserNotFound
	case "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS":
		code = identity.CodeWrongPassword
	case "USER_DISABLED":
		code = identity.CodeUserDisabled
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		code = identity.CodeTooManyRequests
	case "EMAIL_EXISTS":
		code = identity.CodeEmailAlreadyInUse
	case "EXPIRED_OOB_CODE":
		code = identity.CodeExpiredActionCode
	case "INVALID_OOB_CODE":
		code = identity.CodeInvalidActionCode
	default:
		// Неизвестный код: отдаём как есть, дефолтная ветка маппинга
		// превратит его в общее сообщение.
		code = msg
	}

	return &identity.ProviderError{Code: code, Message: msg}
}
