package inmemory

import (
	"context"
	"sort"

	"github.com/gagliardetto/solana-go"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
)

type vaultRepositoryImpl struct {
	store *store
}

// newVaultRepositoryImpl returns a new in-memory VaultRepository.
func newVaultRepositoryImpl(store *store) domain.VaultRepository {
	return &vaultRepositoryImpl{store}
}

func (r *vaultRepositoryImpl) AddVault(
	ctx context.Context, vault *domain.Vault,
) error {
	return r.store.write(ctx, func(tx *transaction) error {
		address := vault.Address
		if _, ok := r.store.vaults[address]; ok {
			return domain.ErrVaultAlreadyExists
		}

		r.store.vaults[address] = *vault
		tx.onRollback(func() { delete(r.store.vaults, address) })
		return nil
	})
}

func (r *vaultRepositoryImpl) GetVault(
	ctx context.Context, address solana.PublicKey,
) (*domain.Vault, error) {
	var (
		vault domain.Vault
		ok    bool
	)
	r.store.read(ctx, func() {
		vault, ok = r.store.vaults[address]
	})
	if !ok {
		return nil, domain.ErrVaultNotFound
	}
	return &vault, nil
}

func (r *vaultRepositoryImpl) UpdateVault(
	ctx context.Context,
	address solana.PublicKey,
	updateFn func(v *domain.Vault) (*domain.Vault, error),
) error {
	return r.store.write(ctx, func(tx *transaction) error {
		prev, ok := r.store.vaults[address]
		if !ok {
			return domain.ErrVaultNotFound
		}

		vault := prev
		updatedVault, err := updateFn(&vault)
		if err != nil {
			return err
		}

		r.store.vaults[address] = *updatedVault
		tx.onRollback(func() { r.store.vaults[address] = prev })
		return nil
	})
}

func (r *vaultRepositoryImpl) DeleteVault(
	ctx context.Context, address solana.PublicKey,
) error {
	return r.store.write(ctx, func(tx *transaction) error {
		prev, ok := r.store.vaults[address]
		if !ok {
			return domain.ErrVaultNotFound
		}

		delete(r.store.vaults, address)
		tx.onRollback(func() { r.store.vaults[address] = prev })
		return nil
	})
}

func (r *vaultRepositoryImpl) ListVaults(
	ctx context.Context,
) ([]domain.Vault, error) {
	vaults := make([]domain.Vault, 0)
	r.store.read(ctx, func() {
		for _, v := range r.store.vaults {
			vaults = append(vaults, v)
		}
	})

	sort.SliceStable(vaults, func(i, j int) bool {
		return vaults[i].Address.String() < vaults[j].Address.String()
	})
	return vaults, nil
}
