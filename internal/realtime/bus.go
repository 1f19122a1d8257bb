package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/mindgames/backend/internal/logger"
)

const DefaultChannel = "mindgames:events"

type envelope struct {
	UserID  int64           `json:"user_id"`
	Payload json.RawMessage `json:"payload"`
}

// RedisBus relays events between server instances over Redis pub/sub.
type RedisBus struct {
	rdb     *goredis.Client
	channel string
	log     *logger.Logger
}

// NewRedisBus reuses an existing client; it does not own it.
func NewRedisBus(rdb *goredis.Client, channel string, log *logger.Logger) *RedisBus {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisBus{rdb: rdb, channel: channel, log: log.With("component", "realtime_bus")}
}

func (b *RedisBus) Publish(ctx context.Context, userID int64, payload []byte) error {
	raw, err := json.Marshal(envelope{UserID: userID, Payload: payload})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

// Forward subscribes to the channel and hands each event to the hub's local
// connections until ctx is cancelled.
func (b *RedisBus) Forward(ctx context.Context, h *Hub) error {
	sub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok {
					return
				}
				var env envelope
				if err := json.Unmarshal([]byte(m.Payload), &env); err != nil {
					b.log.Warn("bad bus message", "error", err)
					continue
				}
				h.deliver(env.UserID, env.Payload)
			}
		}
	}()
	return nil
}
