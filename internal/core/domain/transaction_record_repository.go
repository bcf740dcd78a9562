package domain

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// TransactionRecordRepository is the abstraction for any kind of database
// intended to persist TransactionRecords. Records are append-only.
type TransactionRecordRepository interface {
	// AddRecord stores a new record. It fails with ErrRecordAlreadyExists if a
	// record already lives at the same address.
	AddRecord(ctx context.Context, record *TransactionRecord) error
	// GetRecord returns the record at the given address or ErrRecordNotFound.
	GetRecord(
		ctx context.Context, address solana.PublicKey,
	) (*TransactionRecord, error)
	// GetRecordsForVault returns the records of a vault sorted by index. A nil
	// page returns all of them.
	GetRecordsForVault(
		ctx context.Context, vault solana.PublicKey, page *Page,
	) ([]TransactionRecord, error)
}
