package clock

import (
	"context"
	"sync"
	"time"

	"github.com/tdex-network/tdex-vault/internal/core/ports"
)

// DefaultSlotDuration is the time span covered by a single slot.
const DefaultSlotDuration = 400 * time.Millisecond

type systemClock struct {
	genesis      time.Time
	slotDuration time.Duration
}

// NewSystemClock returns a clock reading wall-clock time. Slots are counted
// from genesis, one every slotDuration.
func NewSystemClock(genesis time.Time, slotDuration time.Duration) ports.Clock {
	if slotDuration <= 0 {
		slotDuration = DefaultSlotDuration
	}
	return &systemClock{genesis, slotDuration}
}

func (c *systemClock) Now(_ context.Context) (int64, uint64, error) {
	now := time.Now()

	var slot uint64
	if elapsed := now.Sub(c.genesis); elapsed > 0 {
		slot = uint64(elapsed / c.slotDuration)
	}
	return now.Unix(), slot, nil
}

// ManualClock is a clock moved forward explicitly, used where deterministic
// timestamps are needed.
type ManualClock struct {
	lock      sync.Mutex
	timestamp int64
	slot      uint64
}

// NewManualClock returns a clock set at the given timestamp and slot.
func NewManualClock(timestamp int64, slot uint64) *ManualClock {
	return &ManualClock{timestamp: timestamp, slot: slot}
}

func (c *ManualClock) Now(_ context.Context) (int64, uint64, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.timestamp, c.slot, nil
}

// Advance moves the clock forward by the given seconds and slots.
func (c *ManualClock) Advance(seconds int64, slots uint64) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.timestamp += seconds
	c.slot += slots
}
