package common

import (
	"errors"

	"github.com/holiman/uint256"
)

// BpsDenominator is the basis-point scale: 10000 bps = 100%.
const BpsDenominator = 10_000

var ErrBpsOverflow = errors.New("common: bps product does not fit in 64 bits")

// MulBps computes floor(amount * bps / 10000) through a 256-bit
// intermediate so the product can never overflow before the divide.
// Rounding is always toward zero; callers accept the resulting dust.
func MulBps(amount, bps uint64) (uint64, error) {
	product := new(uint256.Int).Mul(uint256.NewInt(amount), uint256.NewInt(bps))
	product.Div(product, uint256.NewInt(BpsDenominator))
	if !product.IsUint64() {
		return 0, ErrBpsOverflow
	}
	return product.Uint64(), nil
}
