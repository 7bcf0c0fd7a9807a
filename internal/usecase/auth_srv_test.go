package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/noel-mugisha/Freelance-App-Backend/internal/data/entity"
	"github.com/noel-mugisha/Freelance-App-Backend/internal/dto/request"
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func registerReq(username, email string) *request.RegisterRequest {
	return &request.RegisterRequest{
		Username: username,
		Email:    email,
		Password: "pw123456",
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending client account", func(t *testing.T) {
		env := newTestEnv(t)

		user, err := env.svc.Auth.Register(ctx, registerReq("alice", "a@x.com"))
		require.NoError(t, err)
		assert.Equal(t, entity.StatusPendingVerification, user.Status)
		assert.Equal(t, entity.RoleClient, user.Role)

		stored, err := env.repo.User.FindByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.NotEqual(t, "pw123456", stored.PasswordHash)

		assert.NotEmpty(t, env.liveCode(t, "a@x.com"))
	})

	t.Run("freelancer role is kept", func(t *testing.T) {
		env := newTestEnv(t)
		req := registerReq("bob", "b@x.com")
		req.Role = "FREELANCER"

		user, err := env.svc.Auth.Register(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, entity.RoleFreelancer, user.Role)
	})

	t.Run("admin cannot be self-assigned", func(t *testing.T) {
		env := newTestEnv(t)
		req := registerReq("eve", "e@x.com")
		req.Role = "ADMIN"

		_, err := env.svc.Auth.Register(ctx, req)
		assert.ErrorIs(t, err, ErrAdminRole)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("invalid input", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.svc.Auth.Register(ctx, registerReq("al", "not-an-email"))
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "username")
		assert.Contains(t, verr.Fields, "email")
	})

	t.Run("duplicate username", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svc.Auth.Register(ctx, registerReq("alice", "a@x.com"))
		require.NoError(t, err)

		_, err = env.svc.Auth.Register(ctx, registerReq("alice", "other@x.com"))
		assert.ErrorIs(t, err, ErrUsernameTaken)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("duplicate email", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svc.Auth.Register(ctx, registerReq("alice", "a@x.com"))
		require.NoError(t, err)

		_, err = env.svc.Auth.Register(ctx, registerReq("alice2", "a@x.com"))
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("concurrent registrations create one account", func(t *testing.T) {
		env := newTestEnv(t)

		const n = 8
		errs := make([]error, n)
		var g errgroup.Group
		for i := 0; i < n; i++ {
			g.Go(func() error {
				_, errs[i] = env.svc.Auth.Register(ctx, registerReq("alice", fmt.Sprintf("a%d@x.com", i)))
				return nil
			})
		}
		require.NoError(t, g.Wait())

		var ok int
		for _, err := range errs {
			if err == nil {
				ok++
				continue
			}
			assert.ErrorIs(t, err, ErrUsernameTaken)
		}
		assert.Equal(t, 1, ok)
	})
}

func TestAuthService_VerifyOTP(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.svc.Auth.Register(ctx, registerReq("alice", "a@x.com"))
	require.NoError(t, err)
	code := env.liveCode(t, "a@x.com")

	err = env.svc.Auth.VerifyOTP(ctx, &request.VerifyOTPRequest{Email: "nobody@x.com", OTP: code})
	assert.ErrorIs(t, err, ErrAccountNotFound)

	err = env.svc.Auth.VerifyOTP(ctx, &request.VerifyOTPRequest{Email: "a@x.com", OTP: wrongCode(code)})
	assert.ErrorIs(t, err, ErrInvalidOTP)

	user, err := env.repo.User.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPendingVerification, user.Status)

	require.NoError(t, env.svc.Auth.VerifyOTP(ctx, &request.VerifyOTPRequest{Email: "a@x.com", OTP: code}))

	user, err = env.repo.User.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusActive, user.Status)

	otp, err := env.repo.OTP.FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, otp, "a redeemed code is gone")

	assert.NoError(t, env.svc.Auth.VerifyOTP(ctx, &request.VerifyOTPRequest{Email: "a@x.com", OTP: code}),
		"verifying an active account is a no-op")
}

func TestAuthService_VerifyOTPKeepsResetCodeOfActiveAccount(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.svc.Auth.Register(ctx, registerReq("alice", "a@x.com"))
	require.NoError(t, err)
	require.NoError(t, env.svc.Auth.VerifyOTP(ctx, &request.VerifyOTPRequest{
		Email: "a@x.com",
		OTP:   env.liveCode(t, "a@x.com"),
	}))

	require.NoError(t, env.svc.Auth.RequestPasswordReset(ctx, &request.EmailRequest{Email: "a@x.com"}))
	resetCode := env.liveCode(t, "a@x.com")

	require.NoError(t, env.svc.Auth.VerifyOTP(ctx, &request.VerifyOTPRequest{Email: "a@x.com", OTP: resetCode}))
	assert.Equal(t, resetCode, env.liveCode(t, "a@x.com"))

	require.NoError(t, env.svc.Auth.ResetPassword(ctx, &request.ResetPasswordRequest{
		Email:       "a@x.com",
		OTP:         resetCode,
		NewPassword: "newpass1",
	}))
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.svc.Auth.Register(ctx, registerReq("alice", "a@x.com"))
	require.NoError(t, err)

	t.Run("pending account is refused", func(t *testing.T) {
		_, err := env.svc.Auth.Login(ctx, &request.LoginRequest{Email: "a@x.com", Password: "pw123456"})
		assert.ErrorIs(t, err, ErrUnverified)
	})

	t.Run("wrong password on pending account does not reveal status", func(t *testing.T) {
		_, err := env.svc.Auth.Login(ctx, &request.LoginRequest{Email: "a@x.com", Password: "wrong-pass"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email and wrong password look the same", func(t *testing.T) {
		_, errUnknown := env.svc.Auth.Login(ctx, &request.LoginRequest{Email: "nobody@x.com", Password: "pw123456"})
		_, errWrong := env.svc.Auth.Login(ctx, &request.LoginRequest{Email: "a@x.com", Password: "nope-nope"})
		assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
		assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
		assert.Equal(t, errUnknown.Error(), errWrong.Error())
	})

	t.Run("verified account gets tokens", func(t *testing.T) {
		code := env.liveCode(t, "a@x.com")
		require.NoError(t, env.svc.Auth.VerifyOTP(ctx, &request.VerifyOTPRequest{Email: "a@x.com", OTP: code}))

		tokens, err := env.svc.Auth.Login(ctx, &request.LoginRequest{Email: "a@x.com", Password: "pw123456"})
		require.NoError(t, err)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEmpty(t, tokens.RefreshToken)
		assert.Equal(t, "Bearer", tokens.TokenType)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.svc.Auth.Register(ctx, registerReq("alice", "a@x.com"))
	require.NoError(t, err)
	require.NoError(t, env.svc.Auth.VerifyOTP(ctx, &request.VerifyOTPRequest{
		Email: "a@x.com",
		OTP:   env.liveCode(t, "a@x.com"),
	}))

	tokens, err := env.svc.Auth.Login(ctx, &request.LoginRequest{Email: "a@x.com", Password: "pw123456"})
	require.NoError(t, err)

	rotated, err := env.svc.Auth.Refresh(ctx, &request.RefreshRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	_, err = env.svc.Auth.Refresh(ctx, &request.RefreshRequest{RefreshToken: "garbage"})
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_PasswordReset(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.svc.Auth.Register(ctx, registerReq("alice", "a@x.com"))
	require.NoError(t, err)
	require.NoError(t, env.svc.Auth.VerifyOTP(ctx, &request.VerifyOTPRequest{
		Email: "a@x.com",
		OTP:   env.liveCode(t, "a@x.com"),
	}))

	t.Run("unknown email is silently accepted", func(t *testing.T) {
		err := env.svc.Auth.RequestPasswordReset(ctx, &request.EmailRequest{Email: "nobody@x.com"})
		assert.NoError(t, err)
	})

	require.NoError(t, env.svc.Auth.RequestPasswordReset(ctx, &request.EmailRequest{Email: "a@x.com"}))
	code := env.liveCode(t, "a@x.com")

	t.Run("unknown email and bad code fail the same way", func(t *testing.T) {
		err := env.svc.Auth.ResetPassword(ctx, &request.ResetPasswordRequest{Email: "nobody@x.com", OTP: code, NewPassword: "newpass1"})
		assert.ErrorIs(t, err, ErrInvalidOTP)

		err = env.svc.Auth.ResetPassword(ctx, &request.ResetPasswordRequest{Email: "a@x.com", OTP: wrongCode(code), NewPassword: "newpass1"})
		assert.ErrorIs(t, err, ErrInvalidOTP)
	})

	require.NoError(t, env.svc.Auth.ResetPassword(ctx, &request.ResetPasswordRequest{
		Email:       "a@x.com",
		OTP:         code,
		NewPassword: "newpass1",
	}))

	_, err = env.svc.Auth.Login(ctx, &request.LoginRequest{Email: "a@x.com", Password: "pw123456"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.svc.Auth.Login(ctx, &request.LoginRequest{Email: "a@x.com", Password: "newpass1"})
	assert.NoError(t, err)
}

func TestAuthService_ResendVerification(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.svc.Auth.Register(ctx, registerReq("alice", "a@x.com"))
	require.NoError(t, err)
	before := env.liveCode(t, "a@x.com")

	require.NoError(t, env.svc.Auth.ResendVerification(ctx, &request.EmailRequest{Email: "a@x.com"}))
	require.NoError(t, env.svc.Auth.ResendVerification(ctx, &request.EmailRequest{Email: "nobody@x.com"}))

	after := env.liveCode(t, "a@x.com")
	require.NoError(t, env.svc.Auth.VerifyOTP(ctx, &request.VerifyOTPRequest{Email: "a@x.com", OTP: after}))

	if before != after {
		err := env.svc.Auth.VerifyOTP(ctx, &request.VerifyOTPRequest{Email: "a@x.com", OTP: before})
		assert.True(t, errors.Is(err, ErrInvalidOTP))
	}
}

func TestAuthService_SendsMailAsync(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.svc.Auth.Register(ctx, registerReq("alice", "a@x.com"))
	require.NoError(t, err)
	code := env.liveCode(t, "a@x.com")

	assert.Eventually(t, func() bool {
		env.mail.mu.Lock()
		defer env.mail.mu.Unlock()
		for _, m := range env.mail.sent {
			if m.To == "a@x.com" && m.Subject == verificationSubject {
				return strings.Contains(m.Body, code)
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
}

// gatedMailer blocks every Send until release is closed.
type gatedMailer struct {
	recordingMailer
	release chan struct{}
}

func (m *gatedMailer) Send(ctx context.Context, to, subject, body string) error {
	<-m.release
	return m.recordingMailer.Send(ctx, to, subject, body)
}

func TestAuthService_DrainWaitsForQueuedMail(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	mail := &gatedMailer{release: make(chan struct{})}
	otp := NewOTPManager(env.repo.OTP, 10*time.Minute, zap.NewNop())
	auth := NewAuthService(env.repo, otp, token.NewService("test-secret", "test", time.Minute, time.Hour), mail, zap.NewNop())

	_, err := auth.Register(ctx, registerReq("alice", "a@x.com"))
	require.NoError(t, err)

	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, auth.Drain(short), context.DeadlineExceeded)

	close(mail.release)
	require.NoError(t, auth.Drain(ctx))

	mail.mu.Lock()
	defer mail.mu.Unlock()
	require.Len(t, mail.sent, 1)
	assert.Equal(t, verificationSubject, mail.sent[0].Subject)
}
