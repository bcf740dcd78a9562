package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
)

func TestTransactionRecordRepositoryImplementations(t *testing.T) {
	managers := createRepoManagers(t)

	for i := range managers {
		m := managers[i]

		t.Run(m.Name, func(t *testing.T) {
			t.Run("add_and_get_records", func(t *testing.T) {
				testAddAndGetRecords(t, m.Manager.TransactionRecordRepository())
			})
		})
	}
}

func testAddAndGetRecords(
	t *testing.T, repo domain.TransactionRecordRepository,
) {
	ctx := context.Background()
	vault := makeRandomVault(t)
	records := makeRandomRecords(t, vault, 20)

	_, err := repo.GetRecord(ctx, records[0].Address)
	require.ErrorIs(t, err, domain.ErrRecordNotFound)

	allRecords, err := repo.GetRecordsForVault(ctx, vault.Address, nil)
	require.NoError(t, err)
	require.Empty(t, allRecords)

	// Insert in reverse order to check that listing sorts by index.
	for i := len(records) - 1; i >= 0; i-- {
		record := records[i]
		err := repo.AddRecord(ctx, &record)
		require.NoError(t, err)
	}

	err = repo.AddRecord(ctx, &records[0])
	require.ErrorIs(t, err, domain.ErrRecordAlreadyExists)

	gotRecord, err := repo.GetRecord(ctx, records[3].Address)
	require.NoError(t, err)
	require.Exactly(t, records[3], *gotRecord)

	allRecords, err = repo.GetRecordsForVault(ctx, vault.Address, nil)
	require.NoError(t, err)
	require.Exactly(t, records, allRecords)

	// Getting all 20 records in 4 pages of 5 items must match the
	// non-paginated list item per item.
	allPagedRecords := make([]domain.TransactionRecord, 0)
	for i := 1; i < 5; i++ {
		page := domain.NewPage(i, 5)
		pagedRecords, err := repo.GetRecordsForVault(ctx, vault.Address, &page)
		require.NoError(t, err)
		require.Len(t, pagedRecords, 5)
		allPagedRecords = append(allPagedRecords, pagedRecords...)
	}
	require.Exactly(t, allRecords, allPagedRecords)

	page := domain.NewPage(5, 5)
	pagedRecords, err := repo.GetRecordsForVault(ctx, vault.Address, &page)
	require.NoError(t, err)
	require.Empty(t, pagedRecords)

	otherVault := makeRandomVault(t)
	otherRecords, err := repo.GetRecordsForVault(ctx, otherVault.Address, nil)
	require.NoError(t, err)
	require.Empty(t, otherRecords)
}
