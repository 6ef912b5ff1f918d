package utils

import (
	"strings"
	"testing"

	"github.com/holiman/uint256"
)

func TestScaleBpsHalfUp(t *testing.T) {
	tests := []struct {
		name   string
		amount uint64
		bps    uint32
		want   uint64
	}{
		{"five percent of 10000", 10000, 500, 500},
		{"rounds half up", 99, 500, 5},     // 4.95 -> 5
		{"rounds down below half", 9, 500, 0}, // 0.45 -> 0
		{"exact half rounds up", 10, 500, 1},  // 0.50 -> 1
		{"zero bps", 12345, 0, 0},
		{"full 10000 bps is identity", 12345, 10000, 12345},
		{"zero amount", 0, 500, 0},
		{"ten percent penalty", 1000, 1000, 100},
		{"one minor unit at 1 bps", 1, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ScaleBpsHalfUp(uint256.NewInt(tt.amount), tt.bps)
			if !ok {
				t.Fatalf("Expected ok for %d * %d bps, got overflow", tt.amount, tt.bps)
			}
			if got.Uint64() != tt.want {
				t.Errorf("Expected %d, got %s", tt.want, got.String())
			}
		})
	}
}

func TestScaleBpsHalfUpOverflow(t *testing.T) {
	max := new(uint256.Int).SetAllOne()
	if _, ok := ScaleBpsHalfUp(max, 10000); ok {
		t.Error("Expected overflow for max uint256 amount")
	}
	// 2 bps keeps the product within 256 bits even for max/2.
	half := new(uint256.Int).Rsh(max, 1)
	if _, ok := ScaleBpsHalfUp(half, 1); !ok {
		t.Error("Expected no overflow for half-range amount at 1 bps")
	}
}

func TestStakeReward(t *testing.T) {
	tests := []struct {
		name         string
		amount       uint64
		rateBps      uint32
		durationDays uint32
		want         uint64
	}{
		{"90 day stake at 950 bps", 1000, 950, 90, 23},
		{"one year at 1200 bps", 10000, 1200, 365, 1200},
		{"30 days at 850 bps", 50000, 850, 30, 349},
		{"180 days at 1050 bps", 200000, 1050, 180, 10356},
		{"zero amount", 0, 950, 90, 0},
		{"zero duration", 1000, 950, 0, 0},
		{"tiny stake floors to zero", 10, 600, 7, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := StakeReward(uint256.NewInt(tt.amount), tt.rateBps, tt.durationDays)
			if !ok {
				t.Fatalf("Expected ok for %d at %d bps over %d days, got overflow", tt.amount, tt.rateBps, tt.durationDays)
			}
			if got.Uint64() != tt.want {
				t.Errorf("Expected %d, got %s", tt.want, got.String())
			}
		})
	}
}

func TestStakeRewardFusedPrecision(t *testing.T) {
	// floor(1000*950*90/3650000) = floor(23.42...) = 23. Rounding the rate
	// first would give floor(1000*0.095)*90/365 = 23 as well, but rounding
	// the per-day reward first would give floor(95*90/365) with 95/365
	// truncated per day = 0. The fused form must not lose the fraction.
	got, ok := StakeReward(uint256.NewInt(1000), 950, 90)
	if !ok {
		t.Fatal("Expected ok, got overflow")
	}
	if got.Uint64() != 23 {
		t.Errorf("Expected 23, got %s", got.String())
	}
}

func TestStakeRewardOverflow(t *testing.T) {
	max := new(uint256.Int).SetAllOne()
	if _, ok := StakeReward(max, 1200, 365); ok {
		t.Error("Expected overflow for max uint256 principal")
	}
}

func TestScaleBpsHalfUpLargeAmount(t *testing.T) {
	// A comfortably huge but in-range amount survives the scaled product.
	amount, err := uint256.FromDecimal(strings.Repeat("9", 60))
	if err != nil {
		t.Fatalf("Failed to build amount: %v", err)
	}
	got, ok := ScaleBpsHalfUp(amount, 500)
	if !ok {
		t.Fatal("Expected ok for 60-digit amount at 500 bps")
	}
	if got.IsZero() {
		t.Error("Expected non-zero cut")
	}
}
