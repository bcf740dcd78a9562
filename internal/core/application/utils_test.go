package application_test

import (
	"context"
	"sync"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-vault/internal/core/application"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/tdex-network/tdex-vault/internal/core/ports"
	"github.com/tdex-network/tdex-vault/internal/infrastructure/clock"
	"github.com/tdex-network/tdex-vault/internal/infrastructure/storage/db/inmemory"
	"github.com/tdex-network/tdex-vault/pkg/derivation"
)

const oneSol = uint64(1_000_000_000)

var (
	ctx         = context.Background()
	rent        = domain.DefaultRentSchedule()
	vaultFloor  = rent.MinimumBalance(domain.VaultSpace)
	recordFloor = rent.MinimumBalance(domain.TransactionRecordSpace)
)

type testEnv struct {
	repo     ports.RepoManager
	deriver  ports.AddressDeriver
	clock    *clock.ManualClock
	events   *eventRecorder
	vaultSvc application.VaultService
	txlogSvc application.TransactionLogService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	deriver, err := derivation.NewDeriver(solana.NewWallet().PublicKey())
	require.NoError(t, err)

	repo := inmemory.NewRepoManager()
	clk := clock.NewManualClock(1_700_000_000, 250_000_000)
	events := &eventRecorder{}
	pubsub := application.NewPubSubService(nil, events)

	vaultSvc, err := application.NewVaultService(repo, deriver, clk, rent, pubsub)
	require.NoError(t, err)
	txlogSvc, err := application.NewTransactionLogService(
		repo, deriver, clk, rent, pubsub,
	)
	require.NoError(t, err)

	return &testEnv{repo, deriver, clk, events, vaultSvc, txlogSvc}
}

func (e *testEnv) fund(t *testing.T, address solana.PublicKey, amount uint64) {
	t.Helper()
	err := e.repo.LedgerRepository().UpdateAccount(
		ctx, address, func(a *domain.Account) (*domain.Account, error) {
			if err := a.Credit(amount); err != nil {
				return nil, err
			}
			return a, nil
		},
	)
	require.NoError(t, err)
}

func (e *testEnv) balance(t *testing.T, address solana.PublicKey) uint64 {
	t.Helper()
	account, err := e.repo.LedgerRepository().GetAccount(ctx, address)
	require.NoError(t, err)
	return account.Balance
}

// newFundedVault returns the address of a new vault and the keys of its
// authority, that is left with 10 SOL after paying for the reserve floor.
func (e *testEnv) newFundedVault(t *testing.T) (solana.PublicKey, solana.PublicKey) {
	t.Helper()
	authority := newPublicKey()
	e.fund(t, authority, 10*oneSol+vaultFloor)

	info, err := e.vaultSvc.InitializeVault(ctx, authority)
	require.NoError(t, err)
	return info.Address, authority
}

func (e *testEnv) requireConservation(t *testing.T, vault solana.PublicKey) {
	t.Helper()
	info, err := e.vaultSvc.GetVault(ctx, vault)
	require.NoError(t, err)
	require.Equal(t, info.NetDeposited(), info.Balance-info.ReserveFloor)
	require.Equal(t, info.NetDeposited(), info.Available)
}

func newPublicKey() solana.PublicKey {
	return solana.NewWallet().PublicKey()
}

type eventRecorder struct {
	lock     sync.Mutex
	messages []ports.Message
}

func (r *eventRecorder) Publish(topic, message string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.messages = append(r.messages, ports.Message{Topic: topic, Payload: message})
	return nil
}

func (r *eventRecorder) topics() []string {
	r.lock.Lock()
	defer r.lock.Unlock()
	topics := make([]string, 0, len(r.messages))
	for _, m := range r.messages {
		topics = append(topics, m.Topic)
	}
	return topics
}

func (r *eventRecorder) last() ports.Message {
	r.lock.Lock()
	defer r.lock.Unlock()
	if len(r.messages) == 0 {
		return ports.Message{}
	}
	return r.messages[len(r.messages)-1]
}

func (r *eventRecorder) count() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.messages)
}
