package domain

import (
	"strings"

	"github.com/gagliardetto/solana-go"
)

// TxType is the kind of action described by a transaction record.
type TxType uint8

const (
	TxTypeDeposit TxType = iota
	TxTypeWithdraw
	TxTypeSwap
	TxTypeBundle
	TxTypeTransfer
)

var (
	txTypeToString = map[TxType]string{
		TxTypeDeposit:  "DEPOSIT",
		TxTypeWithdraw: "WITHDRAW",
		TxTypeSwap:     "SWAP",
		TxTypeBundle:   "BUNDLE",
		TxTypeTransfer: "TRANSFER",
	}
	stringToTxType = map[string]TxType{
		"DEPOSIT":  TxTypeDeposit,
		"WITHDRAW": TxTypeWithdraw,
		"SWAP":     TxTypeSwap,
		"BUNDLE":   TxTypeBundle,
		"TRANSFER": TxTypeTransfer,
	}
)

// TxTypeFromString parses a case-insensitive transaction type label.
func TxTypeFromString(str string) (TxType, error) {
	txType, ok := stringToTxType[strings.ToUpper(strings.TrimSpace(str))]
	if !ok {
		return 0, ErrInvalidTxType
	}
	return txType, nil
}

// IsValid returns whether t is one of the known transaction types.
func (t TxType) IsValid() bool {
	_, ok := txTypeToString[t]
	return ok
}

func (t TxType) String() string {
	str, ok := txTypeToString[t]
	if !ok {
		return "UNKNOWN"
	}
	return str
}

// TransactionRecord is an immutable audit entry describing one logged action
// against a vault.
type TransactionRecord struct {
	Address     solana.PublicKey
	Vault       solana.PublicKey
	Authority   solana.PublicKey
	Index       uint64
	TxType      TxType
	Amount      uint64
	Description string
	Timestamp   int64
	Slot        uint64
}

// NewTransactionRecord returns a record logged by authority against vault.
// index is the vault's transaction counter the address was derived from.
func NewTransactionRecord(
	address, vault, authority solana.PublicKey, index uint64,
	txType TxType, amount uint64, description string,
	timestamp int64, slot uint64,
) (*TransactionRecord, error) {
	if address.IsZero() || vault.IsZero() || authority.IsZero() {
		return nil, ErrZeroAddress
	}
	if !txType.IsValid() {
		return nil, ErrInvalidTxType
	}
	if len(description) > MaxDescriptionLength {
		return nil, ErrDescriptionTooLong
	}

	return &TransactionRecord{
		Address:     address,
		Vault:       vault,
		Authority:   authority,
		Index:       index,
		TxType:      txType,
		Amount:      amount,
		Description: description,
		Timestamp:   timestamp,
		Slot:        slot,
	}, nil
}
