package events_test

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/noel-mugisha/Freelance-App-Backend/pkg/events"
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannel(t *testing.T) {
	id := uuid.MustParse("7f1d2c4e-8a1b-4d8e-9b0a-1c2d3e4f5a6b")
	assert.Equal(t, "task:7f1d2c4e-8a1b-4d8e-9b0a-1c2d3e4f5a6b", events.Channel(id))
}

func TestNopPublisher(t *testing.T) {
	var p events.Publisher = events.NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), events.Event{Type: events.BidPlaced}))
	assert.NoError(t, p.Close())
}

func TestRedisPublisher_Publish(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pub, err := events.NewRedis(ctx, utils.RedisConfig{Addr: addr})
	require.NoError(t, err)
	defer pub.Close()

	taskID := uuid.New()
	sub := redisSubscriber(t, addr, events.Channel(taskID))

	require.NoError(t, pub.Publish(ctx, events.Event{
		Type:    events.BidAccepted,
		TaskID:  taskID,
		Payload: map[string]string{"bid_id": "b1"},
	}))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var got events.Event
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	assert.Equal(t, events.BidAccepted, got.Type)
	assert.Equal(t, taskID, got.TaskID)
	assert.False(t, got.OccurredAt.IsZero())
}
