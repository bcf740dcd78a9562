package application

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
)

// valueLedger moves lamports between ledger accounts. It must be used within
// a RepoManager transaction so that every movement of a call is atomic.
type valueLedger struct {
	repo domain.LedgerRepository
}

func (l valueLedger) balance(
	ctx context.Context, address solana.PublicKey,
) (uint64, error) {
	account, err := l.repo.GetAccount(ctx, address)
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}

func (l valueLedger) credit(
	ctx context.Context, address solana.PublicKey, amount uint64,
) error {
	return l.repo.UpdateAccount(
		ctx, address, func(a *domain.Account) (*domain.Account, error) {
			if err := a.Credit(amount); err != nil {
				return nil, err
			}
			return a, nil
		},
	)
}

func (l valueLedger) debit(
	ctx context.Context, address solana.PublicKey, amount uint64,
) error {
	return l.repo.UpdateAccount(
		ctx, address, func(a *domain.Account) (*domain.Account, error) {
			if err := a.Debit(amount); err != nil {
				return nil, err
			}
			return a, nil
		},
	)
}

func (l valueLedger) transfer(
	ctx context.Context, from, to solana.PublicKey, amount uint64,
) error {
	if amount == 0 || from.Equals(to) {
		return nil
	}
	if err := l.debit(ctx, from, amount); err != nil {
		return err
	}
	return l.credit(ctx, to, amount)
}

// drain moves the whole balance of from to to and returns the amount moved.
func (l valueLedger) drain(
	ctx context.Context, from, to solana.PublicKey,
) (uint64, error) {
	amount, err := l.balance(ctx, from)
	if err != nil {
		return 0, err
	}
	if err := l.transfer(ctx, from, to, amount); err != nil {
		return 0, err
	}
	return amount, nil
}
