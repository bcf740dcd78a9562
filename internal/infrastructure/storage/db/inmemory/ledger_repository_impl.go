package inmemory

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
)

type ledgerRepositoryImpl struct {
	store *store
}

// newLedgerRepositoryImpl returns a new in-memory LedgerRepository.
func newLedgerRepositoryImpl(store *store) domain.LedgerRepository {
	return &ledgerRepositoryImpl{store}
}

func (r *ledgerRepositoryImpl) GetAccount(
	ctx context.Context, address solana.PublicKey,
) (*domain.Account, error) {
	var balance uint64
	r.store.read(ctx, func() {
		balance = r.store.balances[address]
	})
	return &domain.Account{Address: address, Balance: balance}, nil
}

func (r *ledgerRepositoryImpl) UpdateAccount(
	ctx context.Context,
	address solana.PublicKey,
	updateFn func(a *domain.Account) (*domain.Account, error),
) error {
	return r.store.write(ctx, func(tx *transaction) error {
		prev, found := r.store.balances[address]

		account, err := updateFn(&domain.Account{Address: address, Balance: prev})
		if err != nil {
			return err
		}

		r.store.balances[address] = account.Balance
		tx.onRollback(func() {
			if !found {
				delete(r.store.balances, address)
				return
			}
			r.store.balances[address] = prev
		})
		return nil
	})
}
