package transaction

import (
	"time"

	"github.com/holiman/uint256"
)

// Kind classifies a ledger transaction
type Kind string

const (
	KindTransfer           Kind = "TRANSFER"
	KindMint               Kind = "MINT"
	KindFeeSplit           Kind = "FEE_SPLIT"
	KindStakeLock          Kind = "STAKE_LOCK"
	KindStakeClaim         Kind = "STAKE_CLAIM"
	KindStakeEarlyWithdraw Kind = "STAKE_EARLY_WITHDRAW"
)

// Direction marks which side of a participant entry the amount sits on
type Direction string

const (
	DirectionDebit  Direction = "DR"
	DirectionCredit Direction = "CR"
)

// Well-known metadata keys
const (
	MetaRequestID = "requestId"
	MetaReason    = "reason"
	MetaStakeID   = "stakeId"
	MetaOriginTx  = "originTxId"
)

// Participant is one balance movement inside a transaction. Amounts are
// unsigned minor units; Direction carries the sign.
type Participant struct {
	Address   string       `json:"address"`
	Currency  string       `json:"currency"`
	Direction Direction    `json:"direction"`
	Amount    *uint256.Int `json:"amount"`
}

// Transaction is one applied ledger operation. Records are immutable once
// appended; Seq is assigned by the transaction log at append time.
type Transaction struct {
	TxID         string            `json:"tx_id"`
	Seq          uint64            `json:"seq"`
	Kind         Kind              `json:"kind"`
	Timestamp    time.Time         `json:"timestamp"`
	Participants []Participant     `json:"participants"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// New builds a transaction record. Participants are copied, metadata is
// copied, so later caller mutation cannot reach the record.
func New(txID string, kind Kind, ts time.Time, participants []Participant, metadata map[string]string) *Transaction {
	tx := &Transaction{
		TxID:         txID,
		Kind:         kind,
		Timestamp:    ts,
		Participants: make([]Participant, len(participants)),
		Metadata:     copyMetadata(metadata),
	}
	for i, p := range participants {
		tx.Participants[i] = Participant{
			Address:   p.Address,
			Currency:  p.Currency,
			Direction: p.Direction,
			Amount:    new(uint256.Int).Set(p.Amount),
		}
	}
	return tx
}

// Clone returns a deep copy of the transaction
func (tx *Transaction) Clone() *Transaction {
	cp := New(tx.TxID, tx.Kind, tx.Timestamp, tx.Participants, tx.Metadata)
	cp.Seq = tx.Seq
	return cp
}

// RequestID returns the caller-supplied idempotency key, empty if absent
func (tx *Transaction) RequestID() string {
	return tx.Metadata[MetaRequestID]
}

// StakeID returns the stake a STAKE_* transaction opened or finalized,
// empty for other kinds
func (tx *Transaction) StakeID() string {
	return tx.Metadata[MetaStakeID]
}

// Touches reports whether addr appears among the participants
func (tx *Transaction) Touches(addr string) bool {
	for _, p := range tx.Participants {
		if p.Address == addr {
			return true
		}
	}
	return false
}

// Deltas sums the participant entries per currency and returns the credit
// and debit totals. For conserving kinds (TRANSFER, FEE_SPLIT) the two maps
// match exactly.
func (tx *Transaction) Deltas() (credits, debits map[string]*uint256.Int) {
	credits = make(map[string]*uint256.Int)
	debits = make(map[string]*uint256.Int)
	for _, p := range tx.Participants {
		target := credits
		if p.Direction == DirectionDebit {
			target = debits
		}
		if cur, ok := target[p.Currency]; ok {
			cur.Add(cur, p.Amount)
		} else {
			target[p.Currency] = new(uint256.Int).Set(p.Amount)
		}
	}
	return credits, debits
}

// Conserves reports whether credits equal debits for every currency touched
func (tx *Transaction) Conserves() bool {
	credits, debits := tx.Deltas()
	if len(credits) != len(debits) {
		return false
	}
	for currency, credit := range credits {
		debit, ok := debits[currency]
		if !ok || credit.Cmp(debit) != 0 {
			return false
		}
	}
	return true
}

func copyMetadata(metadata map[string]string) map[string]string {
	if len(metadata) == 0 {
		return nil
	}
	cp := make(map[string]string, len(metadata))
	for k, v := range metadata {
		cp[k] = v
	}
	return cp
}
