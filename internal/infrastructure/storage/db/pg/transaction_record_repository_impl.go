package postgresdb

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gagliardetto/solana-go"
	"github.com/jmoiron/sqlx"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
)

const (
	insertRecordQuery = `INSERT INTO transaction_record (address, vault,
authority, idx, tx_type, amount, description, timestamp, slot)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	selectRecordColumns = `SELECT address, vault, authority, idx, tx_type,
amount, description, timestamp, slot FROM transaction_record`
	selectRecordQuery          = selectRecordColumns + ` WHERE address = $1`
	selectRecordsForVaultQuery = selectRecordColumns +
		` WHERE vault = $1 ORDER BY idx`
)

type transactionRecordRepositoryImpl struct {
	rm *repoManager
}

func (r transactionRecordRepositoryImpl) AddRecord(
	ctx context.Context, record *domain.TransactionRecord,
) error {
	if _, err := r.rm.querier(ctx).ExecContext(
		ctx, insertRecordQuery,
		record.Address.String(), record.Vault.String(),
		record.Authority.String(), numeric(record.Index),
		int16(record.TxType), numeric(record.Amount), record.Description,
		record.Timestamp, numeric(record.Slot),
	); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrRecordAlreadyExists
		}
		return err
	}
	return nil
}

func (r transactionRecordRepositoryImpl) GetRecord(
	ctx context.Context, address solana.PublicKey,
) (*domain.TransactionRecord, error) {
	var row transactionRecordRow
	if err := sqlx.GetContext(
		ctx, r.rm.querier(ctx), &row, selectRecordQuery, address.String(),
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	return row.toDomain()
}

func (r transactionRecordRepositoryImpl) GetRecordsForVault(
	ctx context.Context, vault solana.PublicKey, page *domain.Page,
) ([]domain.TransactionRecord, error) {
	var rows []transactionRecordRow
	if err := sqlx.SelectContext(
		ctx, r.rm.querier(ctx), &rows,
		selectRecordsForVaultQuery+paginate(page), vault.String(),
	); err != nil {
		return nil, err
	}

	records := make([]domain.TransactionRecord, 0, len(rows))
	for _, row := range rows {
		record, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, nil
}
