package dbbadger

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/tdex-network/tdex-vault/internal/core/ports"
	"github.com/timshannon/badgerhold/v4"
)

const (
	// maxTxRetries is the number of times a transaction conflicting with a
	// concurrent one is re-run before giving up.
	maxTxRetries = 5
	gcInterval   = 30 * time.Minute
)

type txContextKey struct{}

type repoManager struct {
	store *badgerhold.Store

	vaultRepository  domain.VaultRepository
	recordRepository domain.TransactionRecordRepository
	ledgerRepository domain.LedgerRepository
}

// NewRepoManager opens (or creates if not exists) the badger store on disk.
// It expects a base data dir and an optional logger. An empty data dir makes
// the store live in memory.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, "main")
	}

	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening main db: %w", err)
	}

	return &repoManager{
		store:            store,
		vaultRepository:  newVaultRepositoryImpl(store),
		recordRepository: newTransactionRecordRepositoryImpl(store),
		ledgerRepository: newLedgerRepositoryImpl(store),
	}, nil
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

// RunTransaction runs handler within a badger transaction. Handlers of
// read-write transactions conflicting with concurrent ones are re-run up to
// maxTxRetries times.
func (r *repoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	// Nested calls join the outer transaction.
	if _, ok := ctx.Value(txContextKey{}).(*badger.Txn); ok {
		return handler(ctx)
	}

	for attempt := 0; ; attempt++ {
		tx := r.store.Badger().NewTransaction(!readOnly)
		result, err := handler(context.WithValue(ctx, txContextKey{}, tx))
		if err != nil {
			tx.Discard()
			return nil, err
		}

		if readOnly {
			tx.Discard()
			return result, nil
		}

		if err := tx.Commit(); err != nil {
			if errors.Is(err, badger.ErrConflict) && attempt < maxTxRetries {
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
	r.store.Close()
}

// view runs fn with the transaction carried by ctx, if any, or with a new
// read-only one.
func view(
	ctx context.Context, store *badgerhold.Store, fn func(tx *badger.Txn) error,
) error {
	if tx, ok := ctx.Value(txContextKey{}).(*badger.Txn); ok {
		return fn(tx)
	}
	return store.Badger().View(fn)
}

// update runs fn with the transaction carried by ctx, if any, or with a new
// read-write one.
func update(
	ctx context.Context, store *badgerhold.Store, fn func(tx *badger.Txn) error,
) error {
	if tx, ok := ctx.Value(txContextKey{}).(*badger.Txn); ok {
		return fn(tx)
	}
	return store.Badger().Update(fn)
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	db, err := badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, err
	}

	if !isInMemory {
		ticker := time.NewTicker(gcInterval)

		go func() {
			for {
				<-ticker.C
				if err := db.Badger().RunValueLogGC(0.5); err != nil &&
					err != badger.ErrNoRewrite {
					log.Error(err)
				}
			}
		}()
	}

	return db, nil
}

func paginate(query *badgerhold.Query, page *domain.Page) *badgerhold.Query {
	if page == nil {
		return query
	}
	return query.Skip(page.Offset()).Limit(page.Size)
}
