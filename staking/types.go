package staking

import (
	"time"

	"github.com/holiman/uint256"
)

type StakeStatus string

const (
	StatusActive         StakeStatus = "ACTIVE"
	StatusMaturedClaimed StakeStatus = "MATURED_CLAIMED"
	StatusWithdrawnEarly StakeStatus = "WITHDRAWN_EARLY"
)

// Finalized reports whether the status is terminal. Finalized stakes never
// change again.
func (s StakeStatus) Finalized() bool {
	return s == StatusMaturedClaimed || s == StatusWithdrawnEarly
}

// StakeRecord is one locked principal position. Amount is in CCOIN minor
// units and is excluded from the owner's spendable balance while the stake
// is ACTIVE.
type StakeRecord struct {
	StakeID       string       `json:"stake_id"`
	Address       string       `json:"address"`
	Amount        *uint256.Int `json:"amount"`
	StartTime     time.Time    `json:"start_time"`
	MaturityTime  time.Time    `json:"maturity_time"`
	DurationDays  uint32       `json:"duration_days"`
	AnnualRateBps uint32       `json:"annual_rate_bps"`
	Status        StakeStatus  `json:"status"`

	// Set when the stake is finalized
	Reward      *uint256.Int `json:"reward,omitempty"`
	Penalty     *uint256.Int `json:"penalty,omitempty"`
	FinalTxID   string       `json:"final_tx_id,omitempty"`
	FinalizedAt *time.Time   `json:"finalized_at,omitempty"`
}

// Matured reports whether the lock period has elapsed at the given time.
// Maturity is inclusive: claiming exactly at MaturityTime succeeds.
func (r *StakeRecord) Matured(at time.Time) bool {
	return !at.Before(r.MaturityTime)
}

func (r *StakeRecord) Clone() *StakeRecord {
	cp := *r
	if r.Amount != nil {
		cp.Amount = new(uint256.Int).Set(r.Amount)
	}
	if r.Reward != nil {
		cp.Reward = new(uint256.Int).Set(r.Reward)
	}
	if r.Penalty != nil {
		cp.Penalty = new(uint256.Int).Set(r.Penalty)
	}
	if r.FinalizedAt != nil {
		t := *r.FinalizedAt
		cp.FinalizedAt = &t
	}
	return &cp
}
