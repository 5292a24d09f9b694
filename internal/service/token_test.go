package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"auth-gateway/internal/config"
)

func testCfg() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret: "unit-secret",
		TokenTTL:  24 * time.Hour,
		Issuer:    "auth-gateway",
	}
}

func TestSessionToken_IssueVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	svc := New(nil, testCfg())

	token, err := svc.issueSessionToken(context.Background(), "uid-1", "user@example.com", time.Now().UTC())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.verifySessionToken(token)
	require.NoError(t, err)
	require.Equal(t, "uid-1", claims.UID)
	require.Equal(t, "user@example.com", claims.Email)
	require.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, 2*time.Second)
}

// Токен, выпущенный в момент T, валиден в T+23h59m и невалиден в T+24h01m.
func TestSessionToken_ExpiryBoundary(t *testing.T) {
	t.Parallel()

	svc := New(nil, testCfg())

	// Выпущен 23h59m назад: до истечения ещё минута.
	almostExpired, err := svc.issueSessionToken(context.Background(), "uid-1", "user@example.com",
		time.Now().UTC().Add(-23*time.Hour-59*time.Minute))
	require.NoError(t, err)

	_, err = svc.verifySessionToken(almostExpired)
	require.NoError(t, err)

	// Выпущен 24h01m назад: срок истёк.
	expired, err := svc.issueSessionToken(context.Background(), "uid-1", "user@example.com",
		time.Now().UTC().Add(-24*time.Hour-1*time.Minute))
	require.NoError(t, err)

	_, err = svc.verifySessionToken(expired)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifySessionToken_Garbage(t *testing.T) {
	t.Parallel()

	svc := New(nil, testCfg())

	_, err := svc.verifySessionToken("not-a-jwt")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifySessionToken_WrongSecret(t *testing.T) {
	t.Parallel()

	other := New(nil, config.AuthConfig{JWTSecret: "other-secret", TokenTTL: 24 * time.Hour, Issuer: "auth-gateway"})
	token, err := other.issueSessionToken(context.Background(), "uid-1", "user@example.com", time.Now().UTC())
	require.NoError(t, err)

	svc := New(nil, testCfg())
	_, err = svc.verifySessionToken(token)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifySessionToken_WrongIssuer(t *testing.T) {
	t.Parallel()

	other := New(nil, config.AuthConfig{JWTSecret: "unit-secret", TokenTTL: 24 * time.Hour, Issuer: "someone-else"})
	token, err := other.issueSessionToken(context.Background(), "uid-1", "user@example.com", time.Now().UTC())
	require.NoError(t, err)

	svc := New(nil, testCfg())
	_, err = svc.verifySessionToken(token)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidToken)
}

// Токен с неподдерживаемым алгоритмом подписи отклоняется.
func TestVerifySessionToken_RejectsUnexpectedAlg(t *testing.T) {
	t.Parallel()

	svc := New(nil, testCfg())

	claims := SessionClaims{
		UID:   "uid-1",
		Email: "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "auth-gateway",
		},
	}

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.verifySessionToken(token)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestCheckSession_MissingToken(t *testing.T) {
	t.Parallel()

	svc := New(nil, testCfg())

	_, err := svc.CheckSession("")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrMissingToken)
}
