package domain

import "errors"

var (
	// ErrInvalidAmount is returned when depositing or withdrawing a zero
	// amount.
	ErrInvalidAmount = errors.New("invalid amount: must be greater than 0")
	// ErrInsufficientFunds is returned when a withdrawal exceeds the vault's
	// available balance, that is its balance minus the reserve floor.
	ErrInsufficientFunds = errors.New("insufficient funds in vault")
	// ErrUnauthorized is returned when the caller of an authority-gated
	// operation is not the vault's authority.
	ErrUnauthorized = errors.New(
		"unauthorized: only the vault authority can perform this action",
	)
	// ErrOverflow is returned when a counter or balance would exceed the
	// 64-bit unsigned range.
	ErrOverflow = errors.New("arithmetic overflow")
	// ErrVaultPaused is returned when moving value in or out of a paused
	// vault.
	ErrVaultPaused = errors.New(
		"vault is paused: emergency stop is active, contact the authority",
	)
	// ErrDescriptionTooLong is returned when logging a transaction whose
	// description exceeds MaxDescriptionLength bytes.
	ErrDescriptionTooLong = errors.New("description too long: max 128 characters")

	// ErrVaultAlreadyExists is returned when initializing a vault at an
	// address that is already allocated.
	ErrVaultAlreadyExists = errors.New("vault already exists")
	// ErrVaultNotFound is returned when no vault lives at the given address.
	ErrVaultNotFound = errors.New("vault not found")
	// ErrVaultAddressMismatch is returned when a stored vault cannot be
	// re-derived from its authority and bump.
	ErrVaultAddressMismatch = errors.New("vault address does not match derivation")
	// ErrRecordAlreadyExists is returned when a transaction record address is
	// already allocated.
	ErrRecordAlreadyExists = errors.New("transaction record already exists")
	// ErrRecordNotFound is returned when no transaction record lives at the
	// given address.
	ErrRecordNotFound = errors.New("transaction record not found")
	// ErrInvalidTxType is returned for transaction types outside the known
	// set.
	ErrInvalidTxType = errors.New("unknown transaction type")
	// ErrInsufficientBalance is returned when a ledger account cannot cover a
	// debit.
	ErrInsufficientBalance = errors.New("insufficient account balance")
	// ErrZeroAddress is returned when an address or identity is the zero
	// public key.
	ErrZeroAddress = errors.New("address must not be the zero public key")
)
