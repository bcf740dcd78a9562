package redisbroadcaster

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tdex-network/tdex-vault/internal/core/ports"
)

const (
	DefaultChannelPrefix = "tdex-vault:"

	publishTimeout = 5 * time.Second
)

// Broadcaster publishes vault events on redis channels named after their
// topic, so that services outside of the daemon can follow them.
type Broadcaster struct {
	client *redis.Client
	prefix string
}

// NewBroadcaster connects to the redis server at addr, given in the form
// redis://[user:password@]host:port/db.
func NewBroadcaster(addr, channelPrefix string) (*Broadcaster, error) {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	if channelPrefix == "" {
		channelPrefix = DefaultChannelPrefix
	}
	return &Broadcaster{client, channelPrefix}, nil
}

// Channel returns the name of the redis channel for topic.
func (b *Broadcaster) Channel(topic string) string {
	return b.prefix + topic
}

func (b *Broadcaster) Publish(topic, message string) error {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := b.client.Publish(ctx, b.Channel(topic), message).Err(); err != nil {
		return err
	}
	return b.client.Publish(ctx, b.Channel(ports.AnyTopic), message).Err()
}

func (b *Broadcaster) Close() error {
	return b.client.Close()
}
