package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/tdex-network/tdex-vault/internal/core/ports"
)

func TestRunTransaction(t *testing.T) {
	managers := createRepoManagers(t)

	for i := range managers {
		m := managers[i]

		t.Run(m.Name, func(t *testing.T) {
			t.Run("commit", func(t *testing.T) {
				testTransactionCommit(t, m.Manager)
			})
			t.Run("rollback", func(t *testing.T) {
				testTransactionRollback(t, m.Manager)
			})
		})
	}
}

func testTransactionCommit(t *testing.T, repoManager ports.RepoManager) {
	ctx := context.Background()
	vault := makeRandomVault(t)

	result, err := repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			if err := repoManager.VaultRepository().AddVault(ctx, vault); err != nil {
				return nil, err
			}
			if err := creditAccount(ctx, repoManager, vault, 1000); err != nil {
				return nil, err
			}

			// Writes are visible within the same transaction.
			account, err := repoManager.LedgerRepository().GetAccount(
				ctx, vault.Address,
			)
			if err != nil {
				return nil, err
			}
			return account.Balance, nil
		},
	)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), result)

	_, err = repoManager.VaultRepository().GetVault(ctx, vault.Address)
	require.NoError(t, err)

	account, err := repoManager.LedgerRepository().GetAccount(ctx, vault.Address)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), account.Balance)
}

func testTransactionRollback(t *testing.T, repoManager ports.RepoManager) {
	ctx := context.Background()
	vault := makeRandomVault(t)
	records := makeRandomRecords(t, vault, 1)
	errAbort := errors.New("abort")

	_, err := repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			if err := repoManager.VaultRepository().AddVault(ctx, vault); err != nil {
				return nil, err
			}
			if err := creditAccount(ctx, repoManager, vault, 1000); err != nil {
				return nil, err
			}
			if err := repoManager.TransactionRecordRepository().AddRecord(
				ctx, &records[0],
			); err != nil {
				return nil, err
			}

			// Nested transactions join the outer one.
			return repoManager.RunTransaction(
				ctx, false, func(ctx context.Context) (interface{}, error) {
					if err := repoManager.VaultRepository().UpdateVault(
						ctx, vault.Address,
						func(v *domain.Vault) (*domain.Vault, error) {
							v.TxCount++
							return v, nil
						},
					); err != nil {
						return nil, err
					}
					return nil, errAbort
				},
			)
		},
	)
	require.ErrorIs(t, err, errAbort)

	_, err = repoManager.VaultRepository().GetVault(ctx, vault.Address)
	require.ErrorIs(t, err, domain.ErrVaultNotFound)

	_, err = repoManager.TransactionRecordRepository().GetRecord(
		ctx, records[0].Address,
	)
	require.ErrorIs(t, err, domain.ErrRecordNotFound)

	account, err := repoManager.LedgerRepository().GetAccount(ctx, vault.Address)
	require.NoError(t, err)
	require.Zero(t, account.Balance)
}

func creditAccount(
	ctx context.Context, repoManager ports.RepoManager,
	vault *domain.Vault, amount uint64,
) error {
	return repoManager.LedgerRepository().UpdateAccount(
		ctx, vault.Address, func(a *domain.Account) (*domain.Account, error) {
			if err := a.Credit(amount); err != nil {
				return nil, err
			}
			return a, nil
		},
	)
}
