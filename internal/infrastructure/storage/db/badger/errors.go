package dbbadger

import "errors"

var (
	// ErrInvalidStoredAddress is returned when a stored address is not a
	// valid base58 public key.
	ErrInvalidStoredAddress = errors.New("stored address is not a valid public key")
)
