// Package events publishes marketplace events to subscribers such as the
// chat and notification services.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/noel-mugisha/Freelance-App-Backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	BidPlaced        = "bid.placed"
	BidAccepted      = "bid.accepted"
	MilestoneUpdated = "milestone.updated"
)

type Event struct {
	Type       string    `json:"type"`
	TaskID     uuid.UUID `json:"task_id"`
	Payload    any       `json:"payload,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher delivers events. Delivery is best effort.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Channel is the Pub/Sub channel of one task.
func Channel(taskID uuid.UUID) string {
	return "task:" + taskID.String()
}

type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

// NewRedis connects to cfg.Addr and checks the connection.
func NewRedis(ctx context.Context, cfg utils.RedisConfig) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}

	return NewRedisPublisher(client), nil
}

func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}

	if err := p.client.Publish(ctx, Channel(event.TaskID), payload).Err(); err != nil {
		return fmt.Errorf("publish %s event: %w", event.Type, err)
	}
	return nil
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() error { return nil }
