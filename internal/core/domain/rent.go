package domain

import (
	"math"

	"github.com/shopspring/decimal"
	"github.com/tdex-network/tdex-vault/pkg/mathutil"
)

const (
	// AccountStorageOverhead is the number of bytes every account is charged
	// for on top of its data.
	AccountStorageOverhead = 128
	// DefaultLamportsPerByteYear is the default rent rate.
	DefaultLamportsPerByteYear = 3480
	// DefaultExemptionThreshold is the default number of years of rent an
	// account must hold to be exempt.
	DefaultExemptionThreshold = 2.0
)

// RentSchedule computes the reserve floor an account of a given size must
// keep to remain valid storage.
type RentSchedule struct {
	LamportsPerByteYear uint64
	ExemptionThreshold  decimal.Decimal
}

// DefaultRentSchedule returns the schedule with default rates.
func DefaultRentSchedule() RentSchedule {
	return RentSchedule{
		LamportsPerByteYear: DefaultLamportsPerByteYear,
		ExemptionThreshold:  decimal.NewFromFloat(DefaultExemptionThreshold),
	}
}

// MinimumBalance returns the reserve floor for an account holding space
// bytes of data.
func (r RentSchedule) MinimumBalance(space int) uint64 {
	bytes := mathutil.NewDecimal(uint64(AccountStorageOverhead + space))
	rate := mathutil.NewDecimal(r.LamportsPerByteYear)

	floor, err := mathutil.DecimalToUint64(
		mathutil.MulDecimal(mathutil.MulDecimal(bytes, rate), r.ExemptionThreshold),
	)
	if err != nil {
		return math.MaxUint64
	}
	return floor
}
