package dbbadger

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
)

// Vault is the storage representation of a domain.Vault. Addresses are
// stored base58 encoded so that they can be queried.
type Vault struct {
	Address        string
	Authority      string `badgerhold:"index"`
	TotalDeposited uint64
	TotalWithdrawn uint64
	TxCount        uint64
	Bump           uint8
	Paused         bool
	ReserveFloor   uint64
}

// TransactionRecord is the storage representation of a
// domain.TransactionRecord.
type TransactionRecord struct {
	Address     string
	Vault       string `badgerhold:"index"`
	Authority   string
	Index       uint64
	TxType      uint8
	Amount      uint64
	Description string
	Timestamp   int64
	Slot        uint64
}

// Account is the storage representation of a domain.Account.
type Account struct {
	Address string
	Balance uint64
}

func fromDomainVault(v domain.Vault) Vault {
	return Vault{
		Address:        v.Address.String(),
		Authority:      v.Authority.String(),
		TotalDeposited: v.TotalDeposited,
		TotalWithdrawn: v.TotalWithdrawn,
		TxCount:        v.TxCount,
		Bump:           v.Bump,
		Paused:         v.IsPaused(),
		ReserveFloor:   v.ReserveFloor,
	}
}

func (v Vault) toDomain() (*domain.Vault, error) {
	address, err := parseAddress(v.Address)
	if err != nil {
		return nil, err
	}
	authority, err := parseAddress(v.Authority)
	if err != nil {
		return nil, err
	}

	status := domain.VaultStatusActive
	if v.Paused {
		status = domain.VaultStatusPaused
	}

	return &domain.Vault{
		Address:        address,
		Authority:      authority,
		TotalDeposited: v.TotalDeposited,
		TotalWithdrawn: v.TotalWithdrawn,
		TxCount:        v.TxCount,
		Bump:           v.Bump,
		Status:         status,
		ReserveFloor:   v.ReserveFloor,
	}, nil
}

func fromDomainRecord(r domain.TransactionRecord) TransactionRecord {
	return TransactionRecord{
		Address:     r.Address.String(),
		Vault:       r.Vault.String(),
		Authority:   r.Authority.String(),
		Index:       r.Index,
		TxType:      uint8(r.TxType),
		Amount:      r.Amount,
		Description: r.Description,
		Timestamp:   r.Timestamp,
		Slot:        r.Slot,
	}
}

func (r TransactionRecord) toDomain() (*domain.TransactionRecord, error) {
	address, err := parseAddress(r.Address)
	if err != nil {
		return nil, err
	}
	vault, err := parseAddress(r.Vault)
	if err != nil {
		return nil, err
	}
	authority, err := parseAddress(r.Authority)
	if err != nil {
		return nil, err
	}

	return &domain.TransactionRecord{
		Address:     address,
		Vault:       vault,
		Authority:   authority,
		Index:       r.Index,
		TxType:      domain.TxType(r.TxType),
		Amount:      r.Amount,
		Description: r.Description,
		Timestamp:   r.Timestamp,
		Slot:        r.Slot,
	}, nil
}

func parseAddress(str string) (solana.PublicKey, error) {
	key, err := solana.PublicKeyFromBase58(str)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %s", ErrInvalidStoredAddress, str)
	}
	return key, nil
}
