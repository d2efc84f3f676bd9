package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	backend "github.com/redis/go-redis/v9"

	"github.com/iburimskiy/hand-particles/internal/gesture"
	"github.com/iburimskiy/hand-particles/internal/logging"
)

// Redis receives landmark frames from an external detector over Redis
// pub/sub. Each message is one trace line; its timestamp is ignored.
type Redis struct {
	client  *backend.Client
	channel string
	logger  *slog.Logger
}

// NewRedis creates a subscriber for the given address and channel.
func NewRedis(address, password string, db int, channel string, logger *slog.Logger) *Redis {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewRedisFromClient(rdb, channel, logger)
}

// NewRedisFromClient creates a subscriber from an existing client.
func NewRedisFromClient(client *backend.Client, channel string, logger *slog.Logger) *Redis {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Redis{client: client, channel: channel, logger: logger}
}

// Run subscribes and publishes a signal per valid message until ctx is
// canceled. Malformed messages are logged and dropped.
func (r *Redis) Run(ctx context.Context, pub Publisher) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("subscribe %s: %w", r.channel, err)
	}
	r.logger.Info("listening for landmark frames", "channel", r.channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			sig, err := decodeMessage(msg.Payload)
			if err != nil {
				r.logger.Warn("dropping landmark message", "channel", msg.Channel, "error", err)
				continue
			}
			pub.Publish(sig)
		}
	}
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

func decodeMessage(payload string) (gesture.Signal, error) {
	var f TraceFrame
	if err := json.Unmarshal([]byte(payload), &f); err != nil {
		return gesture.Signal{}, fmt.Errorf("decode frame: %w", err)
	}
	return gesture.Interpret(f.Frame)
}
