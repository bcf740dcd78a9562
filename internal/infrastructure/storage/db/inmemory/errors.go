package inmemory

import "errors"

var (
	// ErrReadOnlyTransaction is returned when attempting to write within a
	// read-only transaction.
	ErrReadOnlyTransaction = errors.New("cannot write in a read-only transaction")
)
