package mathutil_test

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-vault/pkg/mathutil"
)

func TestSafeAdd(t *testing.T) {
	sum, err := mathutil.SafeAdd(1, 2)
	require.NoError(t, err)
	require.Equal(t, uint64(3), sum)

	sum, err = mathutil.SafeAdd(math.MaxUint64-1, 1)
	require.NoError(t, err)
	require.Equal(t, uint64(math.MaxUint64), sum)

	_, err = mathutil.SafeAdd(math.MaxUint64, 1)
	require.ErrorIs(t, err, mathutil.ErrOverflow)
}

func TestSafeSub(t *testing.T) {
	diff, err := mathutil.SafeSub(10, 4)
	require.NoError(t, err)
	require.Equal(t, uint64(6), diff)

	_, err = mathutil.SafeSub(4, 10)
	require.ErrorIs(t, err, mathutil.ErrOverflow)

	require.Zero(t, mathutil.SaturatingSub(4, 10))
	require.Equal(t, uint64(6), mathutil.SaturatingSub(10, 4))
}

func TestLamportsConversion(t *testing.T) {
	tests := []struct {
		lamports uint64
		sol      string
	}{
		{0, "0"},
		{1, "0.000000001"},
		{1_500_000_000, "1.5"},
		{math.MaxUint64, "18446744073.709551615"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.sol, mathutil.LamportsToSol(tt.lamports).String())

		lamports, err := mathutil.SolToLamports(decimal.RequireFromString(tt.sol))
		require.NoError(t, err)
		require.Equal(t, tt.lamports, lamports)
	}

	_, err := mathutil.SolToLamports(decimal.NewFromInt(-1))
	require.ErrorIs(t, err, mathutil.ErrOverflow)
}
