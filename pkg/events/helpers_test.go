package events_test

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func redisSubscriber(t *testing.T, addr, channel string) *redis.PubSub {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })

	sub := client.Subscribe(context.Background(), channel)
	t.Cleanup(func() { sub.Close() })

	// wait for the subscription confirmation so the publish is not missed
	_, err := sub.Receive(context.Background())
	require.NoError(t, err)
	return sub
}
