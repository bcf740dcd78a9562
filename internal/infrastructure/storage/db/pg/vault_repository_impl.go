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
	insertVaultQuery = `INSERT INTO vault (address, authority, total_deposited,
total_withdrawn, tx_count, bump, paused, reserve_floor)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	selectVaultQuery = `SELECT address, authority, total_deposited,
total_withdrawn, tx_count, bump, paused, reserve_floor FROM vault
WHERE address = $1`
	selectVaultForUpdateQuery = selectVaultQuery + ` FOR UPDATE`
	updateVaultQuery          = `UPDATE vault SET total_deposited = $2,
total_withdrawn = $3, tx_count = $4, paused = $5 WHERE address = $1`
	deleteVaultQuery = `DELETE FROM vault WHERE address = $1`
	listVaultsQuery  = `SELECT address, authority, total_deposited,
total_withdrawn, tx_count, bump, paused, reserve_floor FROM vault
ORDER BY address`
)

type vaultRepositoryImpl struct {
	rm *repoManager
}

func (r vaultRepositoryImpl) AddVault(
	ctx context.Context, vault *domain.Vault,
) error {
	if _, err := r.rm.querier(ctx).ExecContext(
		ctx, insertVaultQuery,
		vault.Address.String(), vault.Authority.String(),
		numeric(vault.TotalDeposited), numeric(vault.TotalWithdrawn),
		numeric(vault.TxCount), int16(vault.Bump), vault.IsPaused(),
		numeric(vault.ReserveFloor),
	); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrVaultAlreadyExists
		}
		return err
	}
	return nil
}

func (r vaultRepositoryImpl) GetVault(
	ctx context.Context, address solana.PublicKey,
) (*domain.Vault, error) {
	return r.getVault(ctx, r.rm.querier(ctx), selectVaultQuery, address)
}

func (r vaultRepositoryImpl) UpdateVault(
	ctx context.Context,
	address solana.PublicKey,
	updateFn func(v *domain.Vault) (*domain.Vault, error),
) error {
	_, err := r.rm.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			q := r.rm.querier(ctx)

			vault, err := r.getVault(ctx, q, selectVaultForUpdateQuery, address)
			if err != nil {
				return nil, err
			}

			updatedVault, err := updateFn(vault)
			if err != nil {
				return nil, err
			}

			_, err = q.ExecContext(
				ctx, updateVaultQuery, address.String(),
				numeric(updatedVault.TotalDeposited),
				numeric(updatedVault.TotalWithdrawn),
				numeric(updatedVault.TxCount), updatedVault.IsPaused(),
			)
			return nil, err
		},
	)
	return err
}

func (r vaultRepositoryImpl) DeleteVault(
	ctx context.Context, address solana.PublicKey,
) error {
	res, err := r.rm.querier(ctx).ExecContext(
		ctx, deleteVaultQuery, address.String(),
	)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return domain.ErrVaultNotFound
	}
	return nil
}

func (r vaultRepositoryImpl) ListVaults(
	ctx context.Context,
) ([]domain.Vault, error) {
	var rows []vaultRow
	if err := sqlx.SelectContext(
		ctx, r.rm.querier(ctx), &rows, listVaultsQuery,
	); err != nil {
		return nil, err
	}

	vaults := make([]domain.Vault, 0, len(rows))
	for _, row := range rows {
		vault, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		vaults = append(vaults, *vault)
	}
	return vaults, nil
}

func (r vaultRepositoryImpl) getVault(
	ctx context.Context, q querier, query string, address solana.PublicKey,
) (*domain.Vault, error) {
	var row vaultRow
	if err := sqlx.GetContext(ctx, q, &row, query, address.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVaultNotFound
		}
		return nil, err
	}
	return row.toDomain()
}
