package domain

import (
	"github.com/gagliardetto/solana-go"
	"github.com/tdex-network/tdex-vault/pkg/mathutil"
)

// Account is the lamport balance held by an address on the ledger. Wallets,
// vaults and transaction records all own one.
type Account struct {
	Address solana.PublicKey
	Balance uint64
}

// Credit adds amount to the balance.
func (a *Account) Credit(amount uint64) error {
	balance, err := mathutil.SafeAdd(a.Balance, amount)
	if err != nil {
		return ErrOverflow
	}
	a.Balance = balance
	return nil
}

// Debit subtracts amount from the balance.
func (a *Account) Debit(amount uint64) error {
	balance, err := mathutil.SafeSub(a.Balance, amount)
	if err != nil {
		return ErrInsufficientBalance
	}
	a.Balance = balance
	return nil
}
