package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"auth-gateway/internal/identity"
	"auth-gateway/mocks"
)

func newSvc(t *testing.T) (*Service, *mocks.MockProvider, *gomock.Controller) {
	t.Helper()
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	svc := New(provider, testCfg())
	return svc, provider, ctrl
}

func verifiedUser() *identity.Identity {
	return &identity.Identity{
		UID:           "uid-1",
		Email:         "user@example.com",
		EmailVerified: true,
	}
}

func unverifiedUser() *identity.Identity {
	return &identity.Identity{
		UID:           "uid-1",
		Email:         "user@example.com",
		EmailVerified: false,
	}
}

func TestLogin_OK(t *testing.T) {
	t.Parallel()

	svc, provider, ctrl := newSvc(t)
	defer ctrl.Finish()

	provider.EXPECT().SignIn(gomock.Any(), "user@example.com", "secret1").
		Return(verifiedUser(), nil)

	sess, err := svc.Login(context.Background(), "user@example.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, sess.Token)
	require.Equal(t, "uid-1", sess.User.UID)
	require.True(t, sess.User.EmailVerified)

	// Выпущенный токен проходит проверку и несёт те же claims.
	claims, err := svc.CheckSession(sess.Token)
	require.NoError(t, err)
	require.Equal(t, "uid-1", claims.UID)
	require.Equal(t, "user@example.com", claims.Email)
}

func TestLogin_EmailNotVerified(t *testing.T) {
	t.Parallel()

	svc, provider, ctrl := newSvc(t)
	defer ctrl.Finish()

	provider.EXPECT().SignIn(gomock.Any(), "user@example.com", "secret1").
		Return(unverifiedUser(), nil)

	_, err := svc.Login(context.Background(), "user@example.com", "secret1")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrEmailNotVerified)
}

func TestLogin_ProviderErrorPassthrough(t *testing.T) {
	t.Parallel()

	svc, provider, ctrl := newSvc(t)
	defer ctrl.Finish()

	provider.EXPECT().SignIn(gomock.Any(), "user@example.com", "bad-pass").
		Return(nil, &identity.ProviderError{Code: identity.CodeWrongPassword})

	_, err := svc.Login(context.Background(), "user@example.com", "bad-pass")
	require.Error(t, err)

	var perr *identity.ProviderError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, identity.CodeWrongPassword, perr.Code)
}

// Несовпадение паролей не доходит до провайдера (никаких EXPECT на моке).
func TestRegister_PasswordMismatch_NeverCallsProvider(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	_, _, err := svc.Register(context.Background(), "user@example.com", "secret1", "secret2")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrPasswordMismatch)
}

func TestRegister_OK_SendsVerification(t *testing.T) {
	t.Parallel()

	svc, provider, ctrl := newSvc(t)
	defer ctrl.Finish()

	provider.EXPECT().SignUp(gomock.Any(), "user@example.com", "secret1").
		Return(unverifiedUser(), nil)
	provider.EXPECT().SendVerificationEmail(gomock.Any(), gomock.Any()).
		Return(nil)

	sess, sent, err := svc.Register(context.Background(), "user@example.com", "secret1", "secret1")
	require.NoError(t, err)
	require.True(t, sent)
	require.NotEmpty(t, sess.Token)
	require.False(t, sess.User.EmailVerified)
}

// Неудачная отправка письма не отменяет регистрацию.
func TestRegister_SendFailure_StillSucceeds(t *testing.T) {
	t.Parallel()

	svc, provider, ctrl := newSvc(t)
	defer ctrl.Finish()

	provider.EXPECT().SignUp(gomock.Any(), "user@example.com", "secret1").
		Return(unverifiedUser(), nil)
	provider.EXPECT().SendVerificationEmail(gomock.Any(), gomock.Any()).
		Return(errors.New("smtp down"))

	sess, sent, err := svc.Register(context.Background(), "user@example.com", "secret1", "secret1")
	require.NoError(t, err)
	require.False(t, sent)
	require.NotEmpty(t, sess.Token)
}

func TestRegister_ProviderErrorPassthrough(t *testing.T) {
	t.Parallel()

	svc, provider, ctrl := newSvc(t)
	defer ctrl.Finish()

	provider.EXPECT().SignUp(gomock.Any(), "user@example.com", "secret1").
		Return(nil, &identity.ProviderError{Code: identity.CodeEmailAlreadyInUse})

	_, _, err := svc.Register(context.Background(), "user@example.com", "secret1", "secret1")
	require.Error(t, err)

	var perr *identity.ProviderError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, identity.CodeEmailAlreadyInUse, perr.Code)
}

func TestVerifyEmail_MissingCode(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	err := svc.VerifyEmail(context.Background(), "")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrMissingCode)
}

func TestVerifyEmail_OK(t *testing.T) {
	t.Parallel()

	svc, provider, ctrl := newSvc(t)
	defer ctrl.Finish()

	provider.EXPECT().ApplyVerificationCode(gomock.Any(), "oob-123").Return(nil)

	require.NoError(t, svc.VerifyEmail(context.Background(), "oob-123"))
}

func TestVerifyEmail_ProviderErrorPassthrough(t *testing.T) {
	t.Parallel()

	svc, provider, ctrl := newSvc(t)
	defer ctrl.Finish()

	provider.EXPECT().ApplyVerificationCode(gomock.Any(), "oob-123").
		Return(&identity.ProviderError{Code: identity.CodeExpiredActionCode})

	err := svc.VerifyEmail(context.Background(), "oob-123")
	require.Error(t, err)

	var perr *identity.ProviderError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, identity.CodeExpiredActionCode, perr.Code)
}

func TestResendVerification_GuardOrder(t *testing.T) {
	t.Parallel()

	svc, provider, ctrl := newSvc(t)
	defer ctrl.Finish()

	ctx := context.Background()

	token, err := svc.issueSessionToken(ctx, "uid-1", "user@example.com", time.Now().UTC())
	require.NoError(t, err)

	// 1) Нет email в теле.
	err = svc.ResendVerification(ctx, token, "")
	require.ErrorIs(t, err, ErrMissingEmail)

	// 2) Нет токена.
	err = svc.ResendVerification(ctx, "", "user@example.com")
	require.ErrorIs(t, err, ErrMissingToken)

	// 3) Структурно некорректный токен.
	err = svc.ResendVerification(ctx, "garbage", "user@example.com")
	require.ErrorIs(t, err, ErrInvalidToken)

	// 4) Email токена не совпадает с email запроса.
	err = svc.ResendVerification(ctx, token, "other@example.com")
	require.ErrorIs(t, err, ErrEmailMismatch)

	// 5) Нет активной сессии провайдера.
	provider.EXPECT().CurrentUser(gomock.Any()).Return(nil, identity.ErrNoSession)
	err = svc.ResendVerification(ctx, token, "user@example.com")
	require.ErrorIs(t, err, ErrNoActiveSession)

	// 6) Email уже подтверждён.
	provider.EXPECT().CurrentUser(gomock.Any()).Return(verifiedUser(), nil)
	err = svc.ResendVerification(ctx, token, "user@example.com")
	require.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestResendVerification_OK(t *testing.T) {
	t.Parallel()

	svc, provider, ctrl := newSvc(t)
	defer ctrl.Finish()

	ctx := context.Background()

	token, err := svc.issueSessionToken(ctx, "uid-1", "user@example.com", time.Now().UTC())
	require.NoError(t, err)

	provider.EXPECT().CurrentUser(gomock.Any()).Return(unverifiedUser(), nil)
	provider.EXPECT().SendVerificationEmail(gomock.Any(), gomock.Any()).Return(nil)

	require.NoError(t, svc.ResendVerification(ctx, token, "user@example.com"))
}

func TestLogout_MissingOrInvalidToken(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	_, err := svc.Logout(context.Background(), "")
	require.ErrorIs(t, err, ErrMissingToken)

	_, err = svc.Logout(context.Background(), "garbage")
	require.ErrorIs(t, err, ErrInvalidToken)
}

// Выход завершает сессию провайдера, но сам токен остаётся валидным
// до истечения срока (осознанное поведение stateless-дизайна).
func TestLogout_OK_TokenStaysVerifiable(t *testing.T) {
	t.Parallel()

	svc, provider, ctrl := newSvc(t)
	defer ctrl.Finish()

	ctx := context.Background()

	token, err := svc.issueSessionToken(ctx, "uid-1", "user@example.com", time.Now().UTC())
	require.NoError(t, err)

	provider.EXPECT().SignOut(gomock.Any()).Return(nil)

	res, err := svc.Logout(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "uid-1", res.UID)
	require.WithinDuration(t, time.Now().UTC(), res.LoggedOutAt, 2*time.Second)

	_, err = svc.CheckSession(token)
	require.NoError(t, err)
}

func TestLogout_SignOutError_Propagated(t *testing.T) {
	t.Parallel()

	svc, provider, ctrl := newSvc(t)
	defer ctrl.Finish()

	ctx := context.Background()

	token, err := svc.issueSessionToken(ctx, "uid-1", "user@example.com", time.Now().UTC())
	require.NoError(t, err)

	provider.EXPECT().SignOut(gomock.Any()).Return(errors.New("provider down"))

	_, err = svc.Logout(ctx, token)
	require.Error(t, err)
}
