package domain

import (
	"github.com/gagliardetto/solana-go"
	"github.com/tdex-network/tdex-vault/pkg/mathutil"
)

// Vault is the custodial account holding value on behalf of its authority.
type Vault struct {
	Address        solana.PublicKey
	Authority      solana.PublicKey
	TotalDeposited uint64
	TotalWithdrawn uint64
	TxCount        uint64
	Bump           uint8
	Status         VaultStatus
	// ReserveFloor is the rent reserve locked at initialization. Withdrawals
	// never dip below it, close releases it.
	ReserveFloor uint64
}

// NewVault returns an active Vault with zeroed counters for the given
// derived address and bump.
func NewVault(
	address, authority solana.PublicKey, bump uint8, reserveFloor uint64,
) (*Vault, error) {
	if address.IsZero() || authority.IsZero() {
		return nil, ErrZeroAddress
	}
	return &Vault{
		Address:   address,
		Authority: authority,
		Bump:         bump,
		Status:       VaultStatusActive,
		ReserveFloor: reserveFloor,
	}, nil
}

// IsPaused returns whether the kill switch is engaged.
func (v *Vault) IsPaused() bool {
	return v.Status == VaultStatusPaused
}

// IsAuthority returns whether caller controls the vault.
func (v *Vault) IsAuthority(caller solana.PublicKey) bool {
	return v.Authority.Equals(caller)
}

// NetDeposited returns the value held on behalf of the authority, excluding
// the reserve floor.
func (v *Vault) NetDeposited() uint64 {
	return mathutil.SaturatingSub(v.TotalDeposited, v.TotalWithdrawn)
}

// Deposit accounts for amount being moved into the vault. Anybody can
// deposit. The vault is left untouched if any check fails.
func (v *Vault) Deposit(amount uint64) error {
	if !v.Status.Permits(OperationDeposit) {
		return ErrVaultPaused
	}
	if amount == 0 {
		return ErrInvalidAmount
	}

	totalDeposited, err := mathutil.SafeAdd(v.TotalDeposited, amount)
	if err != nil {
		return ErrOverflow
	}
	txCount, err := mathutil.SafeAdd(v.TxCount, 1)
	if err != nil {
		return ErrOverflow
	}

	v.TotalDeposited = totalDeposited
	v.TxCount = txCount
	return nil
}

// Withdraw accounts for amount being released to the authority. available is
// the custodial balance minus the reserve floor, as known by the ledger.
// The vault is left untouched if any check fails.
func (v *Vault) Withdraw(
	caller solana.PublicKey, amount, available uint64,
) error {
	if !v.IsAuthority(caller) {
		return ErrUnauthorized
	}
	if !v.Status.Permits(OperationWithdraw) {
		return ErrVaultPaused
	}
	if amount == 0 {
		return ErrInvalidAmount
	}
	if amount > available {
		return ErrInsufficientFunds
	}

	totalWithdrawn, err := mathutil.SafeAdd(v.TotalWithdrawn, amount)
	if err != nil {
		return ErrOverflow
	}
	txCount, err := mathutil.SafeAdd(v.TxCount, 1)
	if err != nil {
		return ErrOverflow
	}

	v.TotalWithdrawn = totalWithdrawn
	v.TxCount = txCount
	return nil
}

// Pause engages the kill switch. Pausing a paused vault is not an error so
// that retries under duress are always safe.
func (v *Vault) Pause(caller solana.PublicKey) error {
	if !v.IsAuthority(caller) {
		return ErrUnauthorized
	}
	v.Status = VaultStatusPaused
	return nil
}

// Resume releases the kill switch. Like Pause, it is idempotent.
func (v *Vault) Resume(caller solana.PublicKey) error {
	if !v.IsAuthority(caller) {
		return ErrUnauthorized
	}
	v.Status = VaultStatusActive
	return nil
}

// Close checks that caller is allowed to close the vault. Deleting the
// vault and releasing its balance are up to the caller.
func (v *Vault) Close(caller solana.PublicKey) error {
	if !v.IsAuthority(caller) {
		return ErrUnauthorized
	}
	return nil
}

// LogTransaction validates a log request and bumps the transaction counter.
// It returns the counter value before the increment, which is the index the
// new record address is derived from.
func (v *Vault) LogTransaction(
	caller solana.PublicKey, txType TxType, description string,
) (uint64, error) {
	if !v.IsAuthority(caller) {
		return 0, ErrUnauthorized
	}
	if len(description) > MaxDescriptionLength {
		return 0, ErrDescriptionTooLong
	}
	if !txType.IsValid() {
		return 0, ErrInvalidTxType
	}

	index := v.TxCount
	txCount, err := mathutil.SafeAdd(v.TxCount, 1)
	if err != nil {
		return 0, ErrOverflow
	}

	v.TxCount = txCount
	return index, nil
}
