package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"barberline/internal/models"
)

// RedisSync broadcasts snapshots over a pub/sub channel so every
// running session converges on the latest save. Each sync carries a
// random origin id and ignores its own messages.
type RedisSync struct {
	client  *redis.Client
	channel string
	origin  string
	logger  zerolog.Logger
}

type syncEnvelope struct {
	Origin   string           `json:"origin"`
	Snapshot *models.Snapshot `json:"snapshot"`
}

// NewRedisSync creates a sync publishing on the given channel.
func NewRedisSync(client *redis.Client, channel string, logger zerolog.Logger) *RedisSync {
	if channel == "" {
		channel = "barberline:snapshot"
	}
	return &RedisSync{
		client:  client,
		channel: channel,
		origin:  uuid.NewString(),
		logger:  logger,
	}
}

// Publish sends the snapshot to other sessions.
func (r *RedisSync) Publish(ctx context.Context, s *models.Snapshot) error {
	payload, err := json.Marshal(syncEnvelope{Origin: r.origin, Snapshot: s})
	if err != nil {
		return fmt.Errorf("encode sync message: %w", err)
	}
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish sync message: %w", err)
	}
	return nil
}

// Subscribe delivers foreign snapshots to fn until ctx is cancelled.
func (r *RedisSync) Subscribe(ctx context.Context, fn func(*models.Snapshot)) {
	sub := r.client.Subscribe(ctx, r.channel)

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var env syncEnvelope
				if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
					r.logger.Warn().Err(err).Msg("bad sync message")
					continue
				}
				if env.Origin == r.origin || env.Snapshot == nil {
					continue
				}
				fn(env.Snapshot)
			}
		}
	}()
}
