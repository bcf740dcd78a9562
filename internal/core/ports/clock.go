package ports

import "context"

// Clock is the source of time for the records logged by the vault program.
type Clock interface {
	// Now returns the current unix timestamp in seconds and slot.
	Now(ctx context.Context) (timestamp int64, slot uint64, err error)
}
