package postgresdb

import (
	"fmt"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
)

type vaultRow struct {
	Address        string `db:"address"`
	Authority      string `db:"authority"`
	TotalDeposited uint64 `db:"total_deposited"`
	TotalWithdrawn uint64 `db:"total_withdrawn"`
	TxCount        uint64 `db:"tx_count"`
	Bump           uint8  `db:"bump"`
	Paused         bool   `db:"paused"`
	ReserveFloor   uint64 `db:"reserve_floor"`
}

func (v vaultRow) toDomain() (*domain.Vault, error) {
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

type transactionRecordRow struct {
	Address     string `db:"address"`
	Vault       string `db:"vault"`
	Authority   string `db:"authority"`
	Index       uint64 `db:"idx"`
	TxType      uint8  `db:"tx_type"`
	Amount      uint64 `db:"amount"`
	Description string `db:"description"`
	Timestamp   int64  `db:"timestamp"`
	Slot        uint64 `db:"slot"`
}

func (r transactionRecordRow) toDomain() (*domain.TransactionRecord, error) {
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
		return solana.PublicKey{}, fmt.Errorf("invalid stored address %s: %w", str, err)
	}
	return key, nil
}

// numeric formats n as a NUMERIC parameter. database/sql rejects uint64
// values with the high bit set.
func numeric(n uint64) string {
	return strconv.FormatUint(n, 10)
}
