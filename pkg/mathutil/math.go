package mathutil

import (
	"errors"
	"math/big"
	"math/bits"

	"github.com/shopspring/decimal"
)

// ErrOverflow is returned when an unsigned 64-bit operation would wrap.
var ErrOverflow = errors.New("uint64 overflow")

// SafeAdd returns x + y or ErrOverflow if the sum does not fit in 64 bits.
func SafeAdd(x, y uint64) (uint64, error) {
	sum, carry := bits.Add64(x, y, 0)
	if carry != 0 {
		return 0, ErrOverflow
	}
	return sum, nil
}

// SafeSub returns x - y or ErrOverflow if y is greater than x.
func SafeSub(x, y uint64) (uint64, error) {
	diff, borrow := bits.Sub64(x, y, 0)
	if borrow != 0 {
		return 0, ErrOverflow
	}
	return diff, nil
}

// SaturatingSub returns x - y, or 0 if y is greater than x.
func SaturatingSub(x, y uint64) uint64 {
	if y > x {
		return 0
	}
	return x - y
}

// NewDecimal converts an uint64 into a decimal.Decimal without going through
// int64, so that values above math.MaxInt64 are preserved.
func NewDecimal(x uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(x), 0)
}

// MulDecimal takes two decimal.Decimal numbers and multiply them x * y and returns the result as decimal.Decimal
func MulDecimal(X, Y decimal.Decimal) (z decimal.Decimal) {
	z = X.Mul(Y)
	return
}

// DecimalToUint64 truncates d and returns it as uint64, or ErrOverflow if it
// is negative or does not fit in 64 bits.
func DecimalToUint64(d decimal.Decimal) (uint64, error) {
	i := d.Truncate(0).BigInt()
	if i.Sign() < 0 || !i.IsUint64() {
		return 0, ErrOverflow
	}
	return i.Uint64(), nil
}
