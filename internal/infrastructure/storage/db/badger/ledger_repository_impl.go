package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/gagliardetto/solana-go"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type ledgerRepositoryImpl struct {
	store *badgerhold.Store
}

func newLedgerRepositoryImpl(store *badgerhold.Store) domain.LedgerRepository {
	return ledgerRepositoryImpl{store}
}

func (r ledgerRepositoryImpl) GetAccount(
	ctx context.Context, address solana.PublicKey,
) (*domain.Account, error) {
	var account *domain.Account
	if err := view(ctx, r.store, func(tx *badger.Txn) error {
		a, err := r.getAccount(tx, address)
		if err != nil {
			return err
		}
		account = a
		return nil
	}); err != nil {
		return nil, err
	}
	return account, nil
}

func (r ledgerRepositoryImpl) UpdateAccount(
	ctx context.Context,
	address solana.PublicKey,
	updateFn func(a *domain.Account) (*domain.Account, error),
) error {
	return update(ctx, r.store, func(tx *badger.Txn) error {
		account, err := r.getAccount(tx, address)
		if err != nil {
			return err
		}

		updatedAccount, err := updateFn(account)
		if err != nil {
			return err
		}

		dto := Account{
			Address: address.String(),
			Balance: updatedAccount.Balance,
		}
		return r.store.TxUpsert(tx, dto.Address, &dto)
	})
}

// getAccount returns a zero balance account for addresses never seen.
func (r ledgerRepositoryImpl) getAccount(
	tx *badger.Txn, address solana.PublicKey,
) (*domain.Account, error) {
	var dto Account
	if err := r.store.TxGet(tx, address.String(), &dto); err != nil {
		if err == badgerhold.ErrNotFound {
			return &domain.Account{Address: address}, nil
		}
		return nil, err
	}
	return &domain.Account{Address: address, Balance: dto.Balance}, nil
}
