package usecase

import (
	"context"
	"testing"

	"github.com/noel-mugisha/Freelance-App-Backend/internal/data/entity"
	"github.com/noel-mugisha/Freelance-App-Backend/internal/dto/request"
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMilestoneService(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	client := env.seedUser(t, "client", entity.RoleClient)
	stranger := env.seedUser(t, "stranger", entity.RoleClient)
	task := createTask(t, env, client, 100)

	m, err := env.svc.Milestone.CreateMilestone(ctx, client, task.ID, &request.CreateMilestoneRequest{Title: "Wireframes"})
	require.NoError(t, err)
	assert.Equal(t, entity.MilestoneStatusPending, m.Status)

	t.Run("only the owner creates and lists", func(t *testing.T) {
		_, err := env.svc.Milestone.CreateMilestone(ctx, stranger, task.ID, &request.CreateMilestoneRequest{Title: "x"})
		assert.ErrorIs(t, err, ErrNotTaskOwner)

		_, err = env.svc.Milestone.GetTaskMilestones(ctx, stranger, task.ID)
		assert.ErrorIs(t, err, ErrNotTaskOwner)

		list, err := env.svc.Milestone.GetTaskMilestones(ctx, client, task.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("status is free text", func(t *testing.T) {
		updated, err := env.svc.Milestone.UpdateMilestone(ctx, client, m.ID, &request.UpdateMilestoneRequest{Status: "IN_REVIEW"})
		require.NoError(t, err)
		assert.Equal(t, "IN_REVIEW", updated.Status)
		assert.Equal(t, "Wireframes", updated.Title)
		assert.Contains(t, env.pub.types(), events.MilestoneUpdated)
	})

	t.Run("title can change with status", func(t *testing.T) {
		title := "Final wireframes"
		updated, err := env.svc.Milestone.UpdateMilestone(ctx, client, m.ID, &request.UpdateMilestoneRequest{Title: &title, Status: "DONE"})
		require.NoError(t, err)
		assert.Equal(t, title, updated.Title)
		assert.Equal(t, "DONE", updated.Status)
	})

	t.Run("non-owner cannot update", func(t *testing.T) {
		_, err := env.svc.Milestone.UpdateMilestone(ctx, stranger, m.ID, &request.UpdateMilestoneRequest{Status: "HACKED"})
		assert.ErrorIs(t, err, ErrNotTaskOwner)
	})

	t.Run("missing milestone", func(t *testing.T) {
		_, err := env.svc.Milestone.UpdateMilestone(ctx, client, uuid.NewString(), &request.UpdateMilestoneRequest{Status: "DONE"})
		assert.ErrorIs(t, err, ErrMilestoneNotFound)
	})
}

func TestUserService_Profile(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	caller := env.seedUser(t, "alice", entity.RoleClient)

	profile, err := env.svc.User.GetProfile(ctx, caller)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)

	updated, err := env.svc.User.UpdateProfile(ctx, caller, &request.UpdateProfileRequest{FullName: "Alice A.", Bio: "Designer"})
	require.NoError(t, err)
	assert.Equal(t, "Alice A.", updated.FullName)

	profile, err = env.svc.User.GetProfile(ctx, caller)
	require.NoError(t, err)
	assert.Equal(t, "Designer", profile.Bio)

	_, err = env.svc.User.GetProfile(ctx, entity.Caller{ID: uuid.New()})
	assert.ErrorIs(t, err, ErrAccountNotFound)
}
