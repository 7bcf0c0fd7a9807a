package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/noel-mugisha/Freelance-App-Backend/internal/data/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestOTPManager() (*otpManager, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	repo := memory.NewRepository()
	return newOTPManager(repo.OTP, 10*time.Minute, clock.Now, zap.NewNop()), clock
}

func TestOTPManager_Issue(t *testing.T) {
	m, _ := newTestOTPManager()
	ctx := context.Background()
	userID := uuid.New()

	first, err := m.Issue(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, first, 6)

	second, err := m.Issue(ctx, userID)
	require.NoError(t, err)

	stored, err := m.repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, second, stored.Code, "a new issue replaces the live code")

	if first != second {
		ok, err := m.Validate(ctx, userID, first)
		require.NoError(t, err)
		assert.False(t, ok, "the replaced code is no longer valid")
	}
}

func TestOTPManager_Validate(t *testing.T) {
	ctx := context.Background()

	t.Run("no code", func(t *testing.T) {
		m, _ := newTestOTPManager()
		ok, err := m.Validate(ctx, uuid.New(), "123456")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("wrong code", func(t *testing.T) {
		m, _ := newTestOTPManager()
		userID := uuid.New()
		code, err := m.Issue(ctx, userID)
		require.NoError(t, err)

		ok, err := m.Validate(ctx, userID, wrongCode(code))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("right code is not consumed", func(t *testing.T) {
		m, _ := newTestOTPManager()
		userID := uuid.New()
		code, err := m.Issue(ctx, userID)
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			ok, err := m.Validate(ctx, userID, code)
			require.NoError(t, err)
			assert.True(t, ok)
		}
	})

	t.Run("expired code is rejected and deleted", func(t *testing.T) {
		m, clock := newTestOTPManager()
		userID := uuid.New()
		code, err := m.Issue(ctx, userID)
		require.NoError(t, err)

		clock.Advance(10 * time.Minute)

		ok, err := m.Validate(ctx, userID, code)
		require.NoError(t, err)
		assert.False(t, ok)

		stored, err := m.repo.FindByUserID(ctx, userID)
		require.NoError(t, err)
		assert.Nil(t, stored)
	})
}

func TestOTPManager_Clear(t *testing.T) {
	m, _ := newTestOTPManager()
	ctx := context.Background()
	userID := uuid.New()

	code, err := m.Issue(ctx, userID)
	require.NoError(t, err)

	require.NoError(t, m.Clear(ctx, userID))
	require.NoError(t, m.Clear(ctx, userID), "clear is idempotent")

	ok, err := m.Validate(ctx, userID, code)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOTPManager_Redeem(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds exactly once", func(t *testing.T) {
		m, _ := newTestOTPManager()
		userID := uuid.New()
		code, err := m.Issue(ctx, userID)
		require.NoError(t, err)

		ok, err := m.Redeem(ctx, userID, code)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = m.Redeem(ctx, userID, code)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("wrong code keeps the live one", func(t *testing.T) {
		m, _ := newTestOTPManager()
		userID := uuid.New()
		code, err := m.Issue(ctx, userID)
		require.NoError(t, err)

		ok, err := m.Redeem(ctx, userID, wrongCode(code))
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = m.Redeem(ctx, userID, code)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("expired code fails", func(t *testing.T) {
		m, clock := newTestOTPManager()
		userID := uuid.New()
		code, err := m.Issue(ctx, userID)
		require.NoError(t, err)

		clock.Advance(11 * time.Minute)

		ok, err := m.Redeem(ctx, userID, code)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("concurrent redeems consume once", func(t *testing.T) {
		m, _ := newTestOTPManager()
		userID := uuid.New()
		code, err := m.Issue(ctx, userID)
		require.NoError(t, err)

		var wins atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if ok, err := m.Redeem(ctx, userID, code); err == nil && ok {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), wins.Load())
	})
}
