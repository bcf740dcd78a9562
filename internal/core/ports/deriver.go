package ports

import "github.com/gagliardetto/solana-go"

// AddressDeriver derives the deterministic addresses of vaults and
// transaction records owned by the vault program.
type AddressDeriver interface {
	ProgramID() solana.PublicKey
	VaultAddress(authority solana.PublicKey) (solana.PublicKey, uint8, error)
	VerifyVaultAddress(address, authority solana.PublicKey, bump uint8) bool
	TransactionRecordAddress(
		vault solana.PublicKey, txCount uint64,
	) (solana.PublicKey, uint8, error)
}
