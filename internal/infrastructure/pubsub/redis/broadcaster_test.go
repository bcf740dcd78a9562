package redisbroadcaster_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	redisbroadcaster "github.com/tdex-network/tdex-vault/internal/infrastructure/pubsub/redis"
)

func TestBroadcaster(t *testing.T) {
	mr := miniredis.RunT(t)
	url := "redis://" + mr.Addr()

	b, err := redisbroadcaster.NewBroadcaster(url, "")
	require.NoError(t, err)
	defer b.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	sub := client.Subscribe(
		ctx, b.Channel("DEPOSIT"), b.Channel("*"),
	)
	defer sub.Close()
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, b.Publish("DEPOSIT", `{"event":"DEPOSIT"}`))

	ch := sub.Channel()
	received := map[string]string{}
	for len(received) < 2 {
		select {
		case msg := <-ch:
			received[msg.Channel] = msg.Payload
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for published messages")
		}
	}
	require.Equal(t, `{"event":"DEPOSIT"}`, received["tdex-vault:DEPOSIT"])
	require.Equal(t, `{"event":"DEPOSIT"}`, received["tdex-vault:*"])
}

func TestNewBroadcasterFailure(t *testing.T) {
	_, err := redisbroadcaster.NewBroadcaster("not-a-url", "")
	require.Error(t, err)

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err = redisbroadcaster.NewBroadcaster("redis://"+addr, "")
	require.Error(t, err)
}
