package clock_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-vault/internal/infrastructure/clock"
)

func TestSystemClock(t *testing.T) {
	ctx := context.Background()
	genesis := time.Now().Add(-10 * time.Second)
	c := clock.NewSystemClock(genesis, time.Second)

	timestamp, slot, err := c.Now(ctx)
	require.NoError(t, err)
	require.InDelta(t, time.Now().Unix(), timestamp, 1)
	require.GreaterOrEqual(t, slot, uint64(10))

	future := clock.NewSystemClock(time.Now().Add(time.Hour), 0)
	_, slot, err = future.Now(ctx)
	require.NoError(t, err)
	require.Zero(t, slot)
}

func TestManualClock(t *testing.T) {
	ctx := context.Background()
	c := clock.NewManualClock(1700000000, 42)

	timestamp, slot, err := c.Now(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1700000000), timestamp)
	require.Equal(t, uint64(42), slot)

	c.Advance(60, 150)
	timestamp, slot, err = c.Now(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1700000060), timestamp)
	require.Equal(t, uint64(192), slot)
}
