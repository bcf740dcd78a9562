package ports

import (
	"context"

	"github.com/tdex-network/tdex-vault/internal/core/domain"
)

// RepoManager interface defines the methods for vaults, transaction records
// and ledger accounts.
type RepoManager interface {
	VaultRepository() domain.VaultRepository
	TransactionRecordRepository() domain.TransactionRecordRepository
	LedgerRepository() domain.LedgerRepository

	// RunTransaction runs handler within a single atomic transaction. Every
	// repository call made with the ctx given to handler joins the same
	// transaction, that is committed only if handler returns no error.
	RunTransaction(
		ctx context.Context,
		readOnly bool,
		handler func(ctx context.Context) (interface{}, error),
	) (interface{}, error)

	Close()
}
