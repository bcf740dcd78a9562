package db_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
)

func TestVaultRepositoryImplementations(t *testing.T) {
	managers := createRepoManagers(t)

	for i := range managers {
		m := managers[i]

		t.Run(m.Name, func(t *testing.T) {
			t.Run("add_and_get_vault", func(t *testing.T) {
				testAddAndGetVault(t, m.Manager.VaultRepository())
			})
			t.Run("update_vault", func(t *testing.T) {
				testUpdateVault(t, m.Manager.VaultRepository())
			})
			t.Run("delete_vault", func(t *testing.T) {
				testDeleteVault(t, m.Manager.VaultRepository())
			})
		})
	}
}

func testAddAndGetVault(t *testing.T, repo domain.VaultRepository) {
	ctx := context.Background()
	vault := makeRandomVault(t)

	_, err := repo.GetVault(ctx, vault.Address)
	require.ErrorIs(t, err, domain.ErrVaultNotFound)

	err = repo.AddVault(ctx, vault)
	require.NoError(t, err)

	err = repo.AddVault(ctx, vault)
	require.ErrorIs(t, err, domain.ErrVaultAlreadyExists)

	gotVault, err := repo.GetVault(ctx, vault.Address)
	require.NoError(t, err)
	require.Exactly(t, *vault, *gotVault)

	other := makeRandomVault(t)
	err = repo.AddVault(ctx, other)
	require.NoError(t, err)

	vaults, err := repo.ListVaults(ctx)
	require.NoError(t, err)
	require.Len(t, vaults, 2)
	require.True(t, vaults[0].Address.String() < vaults[1].Address.String())
}

func testUpdateVault(t *testing.T, repo domain.VaultRepository) {
	ctx := context.Background()
	vault := makeRandomVault(t)

	err := repo.UpdateVault(
		ctx, vault.Address, func(v *domain.Vault) (*domain.Vault, error) {
			return v, nil
		},
	)
	require.ErrorIs(t, err, domain.ErrVaultNotFound)

	err = repo.AddVault(ctx, vault)
	require.NoError(t, err)

	err = repo.UpdateVault(
		ctx, vault.Address, func(v *domain.Vault) (*domain.Vault, error) {
			v.TotalDeposited = math.MaxUint64
			v.TotalWithdrawn = 10
			v.TxCount = 2
			v.Status = domain.VaultStatusPaused
			return v, nil
		},
	)
	require.NoError(t, err)

	gotVault, err := repo.GetVault(ctx, vault.Address)
	require.NoError(t, err)
	require.Equal(t, uint64(math.MaxUint64), gotVault.TotalDeposited)
	require.Equal(t, uint64(10), gotVault.TotalWithdrawn)
	require.Equal(t, uint64(2), gotVault.TxCount)
	require.True(t, gotVault.IsPaused())

	err = repo.UpdateVault(
		ctx, vault.Address, func(v *domain.Vault) (*domain.Vault, error) {
			v.TxCount = 100
			return nil, domain.ErrOverflow
		},
	)
	require.ErrorIs(t, err, domain.ErrOverflow)

	notUpdatedVault, err := repo.GetVault(ctx, vault.Address)
	require.NoError(t, err)
	require.Exactly(t, *gotVault, *notUpdatedVault)
}

func testDeleteVault(t *testing.T, repo domain.VaultRepository) {
	ctx := context.Background()
	vault := makeRandomVault(t)

	err := repo.DeleteVault(ctx, vault.Address)
	require.ErrorIs(t, err, domain.ErrVaultNotFound)

	err = repo.AddVault(ctx, vault)
	require.NoError(t, err)

	err = repo.DeleteVault(ctx, vault.Address)
	require.NoError(t, err)

	_, err = repo.GetVault(ctx, vault.Address)
	require.ErrorIs(t, err, domain.ErrVaultNotFound)

	// A closed vault address can be allocated again.
	err = repo.AddVault(ctx, vault)
	require.NoError(t, err)
}
