package application_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
)

func TestVaultLifecycle(t *testing.T) {
	env := newTestEnv(t)
	x, y := newPublicKey(), newPublicKey()
	env.fund(t, x, oneSol)
	env.fund(t, y, oneSol)

	info, err := env.vaultSvc.InitializeVault(ctx, x)
	require.NoError(t, err)
	vault := info.Address

	info, err = env.vaultSvc.Deposit(ctx, vault, y, 1_000_000)
	require.NoError(t, err)
	require.Equal(t, uint64(1_000_000), info.TotalDeposited)
	require.Equal(t, uint64(1), info.TxCount)
	availableBefore := info.Available
	env.requireConservation(t, vault)

	info, err = env.vaultSvc.Withdraw(ctx, vault, x, 400_000)
	require.NoError(t, err)
	require.Equal(t, uint64(400_000), info.TotalWithdrawn)
	require.Equal(t, uint64(2), info.TxCount)
	require.Equal(t, availableBefore-400_000, info.Available)
	env.requireConservation(t, vault)

	_, err = env.vaultSvc.EmergencyPause(ctx, vault, x)
	require.NoError(t, err)
	before, err := env.vaultSvc.GetVault(ctx, vault)
	require.NoError(t, err)
	_, err = env.vaultSvc.Deposit(ctx, vault, y, 500)
	require.ErrorIs(t, err, domain.ErrVaultPaused)
	after, err := env.vaultSvc.GetVault(ctx, vault)
	require.NoError(t, err)
	require.Equal(t, *before, *after)

	_, err = env.vaultSvc.ResumeVault(ctx, vault, x)
	require.NoError(t, err)
	info, err = env.vaultSvc.Deposit(ctx, vault, y, 500)
	require.NoError(t, err)
	require.Equal(t, uint64(1_000_500), info.TotalDeposited)
	require.Equal(t, uint64(3), info.TxCount)

	record, err := env.txlogSvc.LogTransaction(
		ctx, vault, x, domain.TxTypeSwap, 200_000, "swap note",
	)
	require.NoError(t, err)
	require.Equal(t, uint64(3), record.Index)
	expectedAddress, _, err := env.deriver.TransactionRecordAddress(vault, 3)
	require.NoError(t, err)
	require.Equal(t, expectedAddress, record.Address)

	info, err = env.vaultSvc.GetVault(ctx, vault)
	require.NoError(t, err)
	require.Equal(t, uint64(4), info.TxCount)
	env.requireConservation(t, vault)

	xBalance := env.balance(t, x)
	closed, err := env.vaultSvc.CloseVault(ctx, vault, x)
	require.NoError(t, err)
	require.Equal(t, vaultFloor+600_500, closed.Released)
	require.Equal(t, xBalance+closed.Released, env.balance(t, x))
	require.Zero(t, env.balance(t, vault))

	_, err = env.vaultSvc.GetVault(ctx, vault)
	require.ErrorIs(t, err, domain.ErrVaultNotFound)

	require.Equal(t, []string{
		"VAULT_CREATED", "DEPOSIT", "WITHDRAW", "VAULT_PAUSED", "VAULT_RESUMED",
		"DEPOSIT", "TRANSACTION_LOGGED",
	}, env.events.topics())
}
