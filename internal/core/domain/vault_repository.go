package domain

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// VaultRepository is the abstraction for any kind of database intended to
// persist Vaults.
type VaultRepository interface {
	// AddVault stores a new vault. It fails with ErrVaultAlreadyExists if a
	// vault already lives at the same address.
	AddVault(ctx context.Context, vault *Vault) error
	// GetVault returns the vault at the given address or ErrVaultNotFound.
	GetVault(ctx context.Context, address solana.PublicKey) (*Vault, error)
	// UpdateVault applies updateFn to the stored vault and persists the
	// result. Nothing is written if updateFn fails.
	UpdateVault(
		ctx context.Context,
		address solana.PublicKey,
		updateFn func(v *Vault) (*Vault, error),
	) error
	// DeleteVault removes the vault at the given address.
	DeleteVault(ctx context.Context, address solana.PublicKey) error
	// ListVaults returns all the stored vaults.
	ListVaults(ctx context.Context) ([]Vault, error)
}
