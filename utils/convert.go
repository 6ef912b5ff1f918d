package utils

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// ToBaseUnit converts a human-readable decimal amount ("12.5", "1_000") to
// integer minor units for a currency with the given number of decimals.
func ToBaseUnit(amount string, decimals int32) (*uint256.Int, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(amount), "_", "")
	if cleaned == "" {
		return nil, fmt.Errorf("empty amount")
	}

	dec, err := decimal.NewFromString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if dec.IsNegative() {
		return nil, fmt.Errorf("amount %q is negative", amount)
	}

	scaled := dec.Shift(decimals)
	if !scaled.IsInteger() {
		return nil, fmt.Errorf("amount %q has more than %d decimal places", amount, decimals)
	}

	value, overflow := uint256.FromBig(scaled.BigInt())
	if overflow {
		return nil, fmt.Errorf("amount %q overflows 256 bits", amount)
	}
	return value, nil
}

// FromBaseUnit renders minor units as a human-readable decimal string
func FromBaseUnit(amount *uint256.Int, decimals int32) string {
	if amount == nil {
		return "0"
	}
	return decimal.NewFromBigInt(amount.ToBig(), -decimals).String()
}
