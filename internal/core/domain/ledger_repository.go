package domain

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// LedgerRepository is the abstraction for any kind of database intended to
// persist the lamport balances of ledger accounts. Addresses never seen
// before have a zero balance.
type LedgerRepository interface {
	// GetAccount returns the account at the given address.
	GetAccount(ctx context.Context, address solana.PublicKey) (*Account, error)
	// UpdateAccount applies updateFn to the account and persists the result.
	// Nothing is written if updateFn fails.
	UpdateAccount(
		ctx context.Context,
		address solana.PublicKey,
		updateFn func(a *Account) (*Account, error),
	) error
}
