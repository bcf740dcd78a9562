package postgresdb

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gagliardetto/solana-go"
	"github.com/jmoiron/sqlx"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
)

const (
	selectAccountQuery          = `SELECT balance FROM account WHERE address = $1`
	selectAccountForUpdateQuery = selectAccountQuery + ` FOR UPDATE`
	upsertAccountQuery          = `INSERT INTO account (address, balance)
VALUES ($1, $2) ON CONFLICT (address) DO UPDATE SET balance = EXCLUDED.balance`
)

type ledgerRepositoryImpl struct {
	rm *repoManager
}

func (r ledgerRepositoryImpl) GetAccount(
	ctx context.Context, address solana.PublicKey,
) (*domain.Account, error) {
	return r.getAccount(ctx, r.rm.querier(ctx), selectAccountQuery, address)
}

func (r ledgerRepositoryImpl) UpdateAccount(
	ctx context.Context,
	address solana.PublicKey,
	updateFn func(a *domain.Account) (*domain.Account, error),
) error {
	_, err := r.rm.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			q := r.rm.querier(ctx)

			account, err := r.getAccount(ctx, q, selectAccountForUpdateQuery, address)
			if err != nil {
				return nil, err
			}

			updatedAccount, err := updateFn(account)
			if err != nil {
				return nil, err
			}

			_, err = q.ExecContext(
				ctx, upsertAccountQuery,
				address.String(), numeric(updatedAccount.Balance),
			)
			return nil, err
		},
	)
	return err
}

// getAccount returns a zero balance account for addresses never seen.
func (r ledgerRepositoryImpl) getAccount(
	ctx context.Context, q querier, query string, address solana.PublicKey,
) (*domain.Account, error) {
	var balance uint64
	if err := sqlx.GetContext(ctx, q, &balance, query, address.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.Account{Address: address}, nil
		}
		return nil, err
	}
	return &domain.Account{Address: address, Balance: balance}, nil
}
