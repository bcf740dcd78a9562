package postgresdb

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/tdex-network/tdex-vault/internal/core/ports"
)

const (
	postgresDriver             = "postgres"
	insecureDataSourceTemplate = "postgresql://%s:%s@%s:%d/%s?sslmode=disable"

	uniqueViolation      = "23505"
	serializationFailure = "40001"

	// maxTxRetries is the number of times a transaction aborted because of a
	// concurrent one is re-run before giving up.
	maxTxRetries = 5
)

//go:embed migration/*.sql
var migrations embed.FS

type txContextKey struct{}

// querier is satisfied by both *sqlx.DB and *sqlx.Tx.
type querier interface {
	sqlx.QueryerContext
	sqlx.ExecerContext
}

type DbConfig struct {
	DbUser     string
	DbPassword string
	DbHost     string
	DbPort     int
	DbName     string
	// DataSourceURL, if defined, takes precedence over the other fields.
	DataSourceURL string
}

func (c DbConfig) dataSource() string {
	if c.DataSourceURL != "" {
		return c.DataSourceURL
	}
	return fmt.Sprintf(
		insecureDataSourceTemplate,
		c.DbUser, c.DbPassword, c.DbHost, c.DbPort, c.DbName,
	)
}

type repoManager struct {
	db *sqlx.DB

	vaultRepository  domain.VaultRepository
	recordRepository domain.TransactionRecordRepository
	ledgerRepository domain.LedgerRepository
}

// NewRepoManager connects to the postgres database and brings its schema up
// to date.
func NewRepoManager(dbConfig DbConfig) (ports.RepoManager, error) {
	dataSource := dbConfig.dataSource()

	db, err := sqlx.Connect(postgresDriver, dataSource)
	if err != nil {
		return nil, fmt.Errorf("connecting to db: %w", err)
	}

	if err := migrateDb(dataSource); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating db: %w", err)
	}

	return newRepoManager(db), nil
}

func newRepoManager(db *sqlx.DB) *repoManager {
	rm := &repoManager{db: db}
	rm.vaultRepository = vaultRepositoryImpl{rm}
	rm.recordRepository = transactionRecordRepositoryImpl{rm}
	rm.ledgerRepository = ledgerRepositoryImpl{rm}
	return rm
}

func (r *repoManager) VaultRepository() domain.VaultRepository {
	return r.vaultRepository
}

func (r *repoManager) TransactionRecordRepository() domain.TransactionRecordRepository {
	return r.recordRepository
}

func (r *repoManager) LedgerRepository() domain.LedgerRepository {
	return r.ledgerRepository
}

// RunTransaction runs handler within a serializable transaction. Handlers
// aborted because of a concurrent transaction are re-run up to maxTxRetries
// times.
func (r *repoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	// Nested calls join the outer transaction.
	if _, ok := ctx.Value(txContextKey{}).(*sqlx.Tx); ok {
		return handler(ctx)
	}

	for attempt := 0; ; attempt++ {
		result, err := r.execTx(ctx, readOnly, handler)
		if err != nil {
			if isSerializationFailure(err) && attempt < maxTxRetries {
				log.Debugf(
					"transaction conflict, retrying (%d/%d)", attempt+1, maxTxRetries,
				)
				continue
			}
			return nil, err
		}
		return result, nil
	}
}

func (r *repoManager) Close() {
	r.db.Close()
}

func (r *repoManager) execTx(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{
		Isolation: sql.LevelSerializable,
		ReadOnly:  readOnly,
	})
	if err != nil {
		return nil, err
	}

	// Rollback is a no-op if the tx is already committed.
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			log.Errorf("unable to rollback db tx: %v", err)
		}
	}()

	result, err := handler(context.WithValue(ctx, txContextKey{}, tx))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}

// querier returns the transaction carried by ctx, if any, or the db handle.
func (r *repoManager) querier(ctx context.Context) querier {
	if tx, ok := ctx.Value(txContextKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return r.db
}

func migrateDb(dataSource string) error {
	source, err := iofs.New(migrations, "migration")
	if err != nil {
		return err
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dataSource)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == serializationFailure
}

func paginate(page *domain.Page) string {
	if page == nil {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", page.Size, page.Offset())
}
