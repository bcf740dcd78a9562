package inmemory

import (
	"context"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/tdex-network/tdex-vault/internal/core/ports"
)

type txContextKey struct{}

// transaction keeps track of how to revert the writes made within a
// RunTransaction handler.
type transaction struct {
	readOnly bool
	undo     []func()
}

func (tx *transaction) onRollback(fn func()) {
	if tx == nil {
		return
	}
	tx.undo = append(tx.undo, fn)
}

func (tx *transaction) rollback() {
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.undo = nil
}

// store holds all the in-memory collections behind a single lock. A
// transaction holds the lock for its whole lifetime, repositories called
// outside of a transaction hold it for a single operation.
type store struct {
	lock *sync.RWMutex

	vaults   map[solana.PublicKey]domain.Vault
	records  map[solana.PublicKey]domain.TransactionRecord
	balances map[solana.PublicKey]uint64
}

func newStore() *store {
	return &store{
		lock:     &sync.RWMutex{},
		vaults:   make(map[solana.PublicKey]domain.Vault),
		records:  make(map[solana.PublicKey]domain.TransactionRecord),
		balances: make(map[solana.PublicKey]uint64),
	}
}

func (s *store) read(ctx context.Context, fn func()) {
	if _, ok := ctx.Value(txContextKey{}).(*transaction); ok {
		fn()
		return
	}

	s.lock.RLock()
	defer s.lock.RUnlock()
	fn()
}

func (s *store) write(ctx context.Context, fn func(tx *transaction) error) error {
	if tx, ok := ctx.Value(txContextKey{}).(*transaction); ok {
		if tx.readOnly {
			return ErrReadOnlyTransaction
		}
		return fn(tx)
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	return fn(nil)
}

type repoManager struct {
	store *store

	vaultRepository  domain.VaultRepository
	recordRepository domain.TransactionRecordRepository
	ledgerRepository domain.LedgerRepository
}

// NewRepoManager returns a RepoManager keeping everything in memory.
func NewRepoManager() ports.RepoManager {
	store := newStore()

	return &repoManager{
		store:            store,
		vaultRepository:  newVaultRepositoryImpl(store),
		recordRepository: newTransactionRecordRepositoryImpl(store),
		ledgerRepository: newLedgerRepositoryImpl(store),
	}
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

func (r *repoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	// Nested calls join the outer transaction.
	if _, ok := ctx.Value(txContextKey{}).(*transaction); ok {
		return handler(ctx)
	}

	if readOnly {
		r.store.lock.RLock()
		defer r.store.lock.RUnlock()
	} else {
		r.store.lock.Lock()
		defer r.store.lock.Unlock()
	}

	tx := &transaction{readOnly: readOnly}
	result, err := handler(context.WithValue(ctx, txContextKey{}, tx))
	if err != nil {
		tx.rollback()
		return nil, err
	}
	return result, nil
}

func (r *repoManager) Close() {}

func paginate(size int, page *domain.Page) (int, int) {
	if page == nil {
		return 0, size
	}
	from := page.Offset()
	if from > size {
		from = size
	}
	to := from + page.Size
	if to > size {
		to = size
	}
	return from, to
}
