package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/noel-mugisha/Freelance-App-Backend/internal/data/entity"
	"github.com/noel-mugisha/Freelance-App-Backend/internal/data/repository"
	"github.com/noel-mugisha/Freelance-App-Backend/internal/data/repository/memory"
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/events"
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/token"
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sentMail struct {
	To, Subject, Body string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *recordingMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type testEnv struct {
	repo *repository.Repository
	svc  *Service
	mail *recordingMailer
	pub  *recordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := memory.NewRepository()
	mail := &recordingMailer{}
	pub := &recordingPublisher{}
	config := &utils.Config{OTP: utils.OTPConfig{ExpiryMinutes: 10}}
	tokens := token.NewService("test-secret", "test", 15*time.Minute, time.Hour)

	return &testEnv{
		repo: repo,
		svc:  NewService(repo, config, tokens, mail, pub, zap.NewNop()),
		mail: mail,
		pub:  pub,
	}
}

// seedUser stores an account directly, skipping registration and bcrypt.
func (e *testEnv) seedUser(t *testing.T, username string, role entity.UserRole) entity.Caller {
	t.Helper()

	now := time.Now()
	user := &entity.User{
		Base:         entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "unused",
		Role:         role,
		Status:       entity.StatusActive,
	}
	require.NoError(t, e.repo.User.Create(context.Background(), user))
	return entity.Caller{ID: user.ID, Role: role}
}

// liveCode returns the stored OTP of the account with email.
func (e *testEnv) liveCode(t *testing.T, email string) string {
	t.Helper()

	ctx := context.Background()
	user, err := e.repo.User.FindByEmail(ctx, email)
	require.NoError(t, err)
	require.NotNil(t, user)

	otp, err := e.repo.OTP.FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, otp)
	return otp.Code
}

func wrongCode(code string) string {
	if code == "123456" {
		return "654321"
	}
	return "123456"
}
