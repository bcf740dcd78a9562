package dbbadger

import (
	"context"
	"sort"

	"github.com/dgraph-io/badger/v3"
	"github.com/gagliardetto/solana-go"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type vaultRepositoryImpl struct {
	store *badgerhold.Store
}

func newVaultRepositoryImpl(store *badgerhold.Store) domain.VaultRepository {
	return vaultRepositoryImpl{store}
}

func (r vaultRepositoryImpl) AddVault(
	ctx context.Context, vault *domain.Vault,
) error {
	dto := fromDomainVault(*vault)

	return update(ctx, r.store, func(tx *badger.Txn) error {
		if err := r.store.TxInsert(tx, dto.Address, &dto); err != nil {
			if err == badgerhold.ErrKeyExists {
				return domain.ErrVaultAlreadyExists
			}
			return err
		}
		return nil
	})
}

func (r vaultRepositoryImpl) GetVault(
	ctx context.Context, address solana.PublicKey,
) (*domain.Vault, error) {
	var vault *domain.Vault

	if err := view(ctx, r.store, func(tx *badger.Txn) error {
		v, err := r.getVault(tx, address.String())
		if err != nil {
			return err
		}
		vault = v
		return nil
	}); err != nil {
		return nil, err
	}

	return vault, nil
}

func (r vaultRepositoryImpl) UpdateVault(
	ctx context.Context,
	address solana.PublicKey,
	updateFn func(v *domain.Vault) (*domain.Vault, error),
) error {
	key := address.String()

	return update(ctx, r.store, func(tx *badger.Txn) error {
		vault, err := r.getVault(tx, key)
		if err != nil {
			return err
		}

		updatedVault, err := updateFn(vault)
		if err != nil {
			return err
		}

		dto := fromDomainVault(*updatedVault)
		return r.store.TxUpdate(tx, key, &dto)
	})
}

func (r vaultRepositoryImpl) DeleteVault(
	ctx context.Context, address solana.PublicKey,
) error {
	return update(ctx, r.store, func(tx *badger.Txn) error {
		if err := r.store.TxDelete(tx, address.String(), Vault{}); err != nil {
			if err == badgerhold.ErrNotFound {
				return domain.ErrVaultNotFound
			}
			return err
		}
		return nil
	})
}

func (r vaultRepositoryImpl) ListVaults(
	ctx context.Context,
) ([]domain.Vault, error) {
	var dtos []Vault
	if err := view(ctx, r.store, func(tx *badger.Txn) error {
		return r.store.TxFind(tx, &dtos, nil)
	}); err != nil {
		return nil, err
	}

	vaults := make([]domain.Vault, 0, len(dtos))
	for _, dto := range dtos {
		vault, err := dto.toDomain()
		if err != nil {
			return nil, err
		}
		vaults = append(vaults, *vault)
	}

	sort.SliceStable(vaults, func(i, j int) bool {
		return vaults[i].Address.String() < vaults[j].Address.String()
	})
	return vaults, nil
}

func (r vaultRepositoryImpl) getVault(
	tx *badger.Txn, key string,
) (*domain.Vault, error) {
	var dto Vault
	if err := r.store.TxGet(tx, key, &dto); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrVaultNotFound
		}
		return nil, err
	}
	return dto.toDomain()
}
