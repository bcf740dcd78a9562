package inmemory

import (
	"context"
	"sort"

	"github.com/gagliardetto/solana-go"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
)

type transactionRecordRepositoryImpl struct {
	store *store
}

// newTransactionRecordRepositoryImpl returns a new in-memory
// TransactionRecordRepository.
func newTransactionRecordRepositoryImpl(
	store *store,
) domain.TransactionRecordRepository {
	return &transactionRecordRepositoryImpl{store}
}

func (r *transactionRecordRepositoryImpl) AddRecord(
	ctx context.Context, record *domain.TransactionRecord,
) error {
	return r.store.write(ctx, func(tx *transaction) error {
		address := record.Address
		if _, ok := r.store.records[address]; ok {
			return domain.ErrRecordAlreadyExists
		}

		r.store.records[address] = *record
		tx.onRollback(func() { delete(r.store.records, address) })
		return nil
	})
}

func (r *transactionRecordRepositoryImpl) GetRecord(
	ctx context.Context, address solana.PublicKey,
) (*domain.TransactionRecord, error) {
	var (
		record domain.TransactionRecord
		ok     bool
	)
	r.store.read(ctx, func() {
		record, ok = r.store.records[address]
	})
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return &record, nil
}

func (r *transactionRecordRepositoryImpl) GetRecordsForVault(
	ctx context.Context, vault solana.PublicKey, page *domain.Page,
) ([]domain.TransactionRecord, error) {
	records := make([]domain.TransactionRecord, 0)
	r.store.read(ctx, func() {
		for _, record := range r.store.records {
			if record.Vault.Equals(vault) {
				records = append(records, record)
			}
		}
	})

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Index < records[j].Index
	})

	from, to := paginate(len(records), page)
	return records[from:to], nil
}
