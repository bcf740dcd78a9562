package postgresdb

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gagliardetto/solana-go"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
)

var vaultColumns = []string{
	"address", "authority", "total_deposited", "total_withdrawn", "tx_count",
	"bump", "paused", "reserve_floor",
}

func TestVaultRepository(t *testing.T) {
	ctx := context.Background()
	address, authority := newPublicKey(t), newPublicKey(t)

	t.Run("get_not_found", func(t *testing.T) {
		rm, mock := newMockRepoManager(t)

		mock.ExpectQuery(regexp.QuoteMeta("FROM vault WHERE address = $1")).
			WithArgs(address.String()).
			WillReturnRows(sqlmock.NewRows(vaultColumns))

		_, err := rm.VaultRepository().GetVault(ctx, address)
		require.ErrorIs(t, err, domain.ErrVaultNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("get", func(t *testing.T) {
		rm, mock := newMockRepoManager(t)

		mock.ExpectQuery(regexp.QuoteMeta("FROM vault WHERE address = $1")).
			WithArgs(address.String()).
			WillReturnRows(sqlmock.NewRows(vaultColumns).AddRow(
				address.String(), authority.String(), "18446744073709551615",
				"400000", "3", int64(254), true, "1350240",
			))

		vault, err := rm.VaultRepository().GetVault(ctx, address)
		require.NoError(t, err)
		require.Equal(t, address, vault.Address)
		require.Equal(t, authority, vault.Authority)
		require.Equal(t, uint64(18446744073709551615), vault.TotalDeposited)
		require.Equal(t, uint64(400000), vault.TotalWithdrawn)
		require.Equal(t, uint64(3), vault.TxCount)
		require.Equal(t, uint8(254), vault.Bump)
		require.True(t, vault.IsPaused())
		require.Equal(t, uint64(1350240), vault.ReserveFloor)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("add_duplicate", func(t *testing.T) {
		rm, mock := newMockRepoManager(t)
		vault, err := domain.NewVault(address, authority, 254, 1350240)
		require.NoError(t, err)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO vault")).
			WillReturnError(&pq.Error{Code: uniqueViolation})

		err = rm.VaultRepository().AddVault(ctx, vault)
		require.ErrorIs(t, err, domain.ErrVaultAlreadyExists)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update_rolls_back_on_error", func(t *testing.T) {
		rm, mock := newMockRepoManager(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
			WithArgs(address.String()).
			WillReturnRows(sqlmock.NewRows(vaultColumns).AddRow(
				address.String(), authority.String(), "0", "0", "0",
				int64(254), true, "0",
			))
		mock.ExpectRollback()

		err := rm.VaultRepository().UpdateVault(
			ctx, address, func(v *domain.Vault) (*domain.Vault, error) {
				return nil, domain.ErrVaultPaused
			},
		)
		require.ErrorIs(t, err, domain.ErrVaultPaused)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete_not_found", func(t *testing.T) {
		rm, mock := newMockRepoManager(t)

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM vault")).
			WithArgs(address.String()).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := rm.VaultRepository().DeleteVault(ctx, address)
		require.ErrorIs(t, err, domain.ErrVaultNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRunTransactionRetriesOnSerializationFailure(t *testing.T) {
	ctx := context.Background()
	rm, mock := newMockRepoManager(t)
	address := newPublicKey(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO account")).
		WillReturnError(&pq.Error{Code: serializationFailure})
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO account")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	attempts := 0
	_, err := rm.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			attempts++
			_, err := rm.querier(ctx).ExecContext(
				ctx, upsertAccountQuery, address.String(), numeric(10),
			)
			return nil, err
		},
	)
	require.NoError(t, err)
	require.Equal(t, 2, attempts)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPaginate(t *testing.T) {
	require.Empty(t, paginate(nil))

	page := domain.NewPage(3, 5)
	require.Equal(t, " LIMIT 5 OFFSET 10", paginate(&page))
}

func newMockRepoManager(t *testing.T) (*repoManager, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	rm := newRepoManager(sqlx.NewDb(db, postgresDriver))
	t.Cleanup(rm.Close)
	return rm, mock
}

func newPublicKey(t *testing.T) solana.PublicKey {
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return key.PublicKey()
}
