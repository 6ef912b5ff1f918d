package utils

import (
	"github.com/holiman/uint256"
)

// ScaleBpsHalfUp computes amount*bps/10000 rounded half up. ok is false
// when the intermediate product overflows 256 bits.
func ScaleBpsHalfUp(amount *uint256.Int, bps uint32) (*uint256.Int, bool) {
	product, overflow := new(uint256.Int).MulOverflow(amount, uint256.NewInt(uint64(bps)))
	if overflow {
		return nil, false
	}
	product, overflow = product.AddOverflow(product, uint256.NewInt(5000))
	if overflow {
		return nil, false
	}
	return product.Div(product, uint256.NewInt(10000)), true
}

// StakeReward computes floor(amount * rateBps * durationDays / (10000*365))
// as one fused integer expression, so no precision is lost to intermediate
// rounding. ok is false when the product overflows 256 bits.
func StakeReward(amount *uint256.Int, rateBps uint32, durationDays uint32) (*uint256.Int, bool) {
	product, overflow := new(uint256.Int).MulOverflow(amount, uint256.NewInt(uint64(rateBps)))
	if overflow {
		return nil, false
	}
	product, overflow = product.MulOverflow(product, uint256.NewInt(uint64(durationDays)))
	if overflow {
		return nil, false
	}
	return product.Div(product, uint256.NewInt(3650000)), true
}
