package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/noel-mugisha/Freelance-App-Backend/internal/data/entity"
	"github.com/noel-mugisha/Freelance-App-Backend/internal/data/repository"
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// openTestDB connects to TEST_DATABASE_URL and applies the migrations. The
// test is skipped when the variable is unset.
func openTestDB(t *testing.T) database.PgxIface {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, url, 20)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, database.Migrate(ctx, db))
	return db
}

func seedUser(t *testing.T, repo *repository.Repository, role entity.UserRole) *entity.User {
	t.Helper()

	now := time.Now()
	id := uuid.New()
	user := &entity.User{
		Base:         entity.Base{ID: id, CreatedAt: now, UpdatedAt: now},
		Username:     "u" + id.String()[:8],
		Email:        id.String()[:8] + "@example.com",
		PasswordHash: "x",
		Role:         role,
		Status:       entity.StatusActive,
	}
	require.NoError(t, repo.User.Create(context.Background(), user))
	return user
}

func TestBidRepository_AcceptRace(t *testing.T) {
	db := openTestDB(t)
	repo := repository.NewRepository(db, zap.NewNop())
	ctx := context.Background()

	owner := seedUser(t, repo, entity.RoleClient)
	now := time.Now()
	task := &entity.Task{
		Base:      entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Title:     "race",
		Budget:    100,
		Status:    entity.TaskStatusOpen,
		CreatedBy: owner.ID,
	}
	require.NoError(t, repo.Task.Create(ctx, task))
	t.Cleanup(func() { _ = repo.Task.Delete(context.Background(), task.ID) })

	const n = 8
	bidIDs := make([]uuid.UUID, n)
	for i := range bidIDs {
		freelancer := seedUser(t, repo, entity.RoleFreelancer)
		bid := &entity.Bid{
			BaseSimple:   entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			TaskID:       task.ID,
			FreelancerID: freelancer.ID,
			Amount:       float64(10 * (i + 1)),
			Status:       entity.BidStatusPending,
		}
		require.NoError(t, repo.Bid.Create(ctx, bid))
		bidIDs[i] = bid.ID
	}

	results := make([]error, n)
	var g errgroup.Group
	for i, id := range bidIDs {
		g.Go(func() error {
			results[i] = repo.Bid.Accept(ctx, task.ID, id)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var succeeded int
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errors.Is(err, repository.ErrBidResolved), fmt.Sprintf("unexpected error: %v", err))
	}
	assert.Equal(t, 1, succeeded)

	bids, err := repo.Bid.FindByTask(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, bids, n)

	var accepted int
	for _, b := range bids {
		if b.Status == entity.BidStatusAccepted {
			accepted++
		} else {
			assert.Equal(t, entity.BidStatusRejected, b.Status)
		}
	}
	assert.Equal(t, 1, accepted)
}

func TestBidRepository_CreateDuplicate(t *testing.T) {
	db := openTestDB(t)
	repo := repository.NewRepository(db, zap.NewNop())
	ctx := context.Background()

	owner := seedUser(t, repo, entity.RoleClient)
	freelancer := seedUser(t, repo, entity.RoleFreelancer)
	now := time.Now()
	task := &entity.Task{
		Base:      entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Title:     "dup",
		Status:    entity.TaskStatusOpen,
		CreatedBy: owner.ID,
	}
	require.NoError(t, repo.Task.Create(ctx, task))
	t.Cleanup(func() { _ = repo.Task.Delete(context.Background(), task.ID) })

	newBid := func() *entity.Bid {
		return &entity.Bid{
			BaseSimple:   entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			TaskID:       task.ID,
			FreelancerID: freelancer.ID,
			Amount:       5,
			Status:       entity.BidStatusPending,
		}
	}

	require.NoError(t, repo.Bid.Create(ctx, newBid()))
	err := repo.Bid.Create(ctx, newBid())
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}
