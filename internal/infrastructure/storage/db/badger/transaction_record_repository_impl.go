package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/gagliardetto/solana-go"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type transactionRecordRepositoryImpl struct {
	store *badgerhold.Store
}

func newTransactionRecordRepositoryImpl(
	store *badgerhold.Store,
) domain.TransactionRecordRepository {
	return transactionRecordRepositoryImpl{store}
}

func (r transactionRecordRepositoryImpl) AddRecord(
	ctx context.Context, record *domain.TransactionRecord,
) error {
	dto := fromDomainRecord(*record)

	return update(ctx, r.store, func(tx *badger.Txn) error {
		if err := r.store.TxInsert(tx, dto.Address, &dto); err != nil {
			if err == badgerhold.ErrKeyExists {
				return domain.ErrRecordAlreadyExists
			}
			return err
		}
		return nil
	})
}

func (r transactionRecordRepositoryImpl) GetRecord(
	ctx context.Context, address solana.PublicKey,
) (*domain.TransactionRecord, error) {
	var dto TransactionRecord
	if err := view(ctx, r.store, func(tx *badger.Txn) error {
		return r.store.TxGet(tx, address.String(), &dto)
	}); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}

	return dto.toDomain()
}

func (r transactionRecordRepositoryImpl) GetRecordsForVault(
	ctx context.Context, vault solana.PublicKey, page *domain.Page,
) ([]domain.TransactionRecord, error) {
	query := badgerhold.Where("Vault").Eq(vault.String()).Index("Vault").
		SortBy("Index")
	query = paginate(query, page)

	var dtos []TransactionRecord
	if err := view(ctx, r.store, func(tx *badger.Txn) error {
		return r.store.TxFind(tx, &dtos, query)
	}); err != nil {
		return nil, err
	}

	records := make([]domain.TransactionRecord, 0, len(dtos))
	for _, dto := range dtos {
		record, err := dto.toDomain()
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, nil
}
