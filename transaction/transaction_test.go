package transaction

import (
	"testing"
	"time"

	"github.com/holiman/uint256"
)

func TestNewCopiesInputs(t *testing.T) {
	amount := uint256.NewInt(100)
	participants := []Participant{
		{Address: "alice", Currency: "CCOIN", Direction: DirectionDebit, Amount: amount},
		{Address: "bob", Currency: "CCOIN", Direction: DirectionCredit, Amount: uint256.NewInt(100)},
	}
	metadata := map[string]string{MetaRequestID: "req-1"}

	tx := New("tx-1", KindTransfer, time.Now(), participants, metadata)

	amount.SetUint64(999)
	metadata[MetaRequestID] = "mutated"
	participants[1].Address = "mallory"

	if tx.Participants[0].Amount.Uint64() != 100 {
		t.Errorf("Expected participant amount insulated from caller mutation, got %s", tx.Participants[0].Amount.String())
	}
	if tx.Participants[1].Address != "bob" {
		t.Errorf("Expected participant address insulated from caller mutation, got %s", tx.Participants[1].Address)
	}
	if tx.RequestID() != "req-1" {
		t.Errorf("Expected request id req-1, got %s", tx.RequestID())
	}
}

func TestRequestIDAbsent(t *testing.T) {
	tx := New("tx-1", KindMint, time.Now(), nil, nil)
	if tx.RequestID() != "" {
		t.Errorf("Expected empty request id, got %s", tx.RequestID())
	}
}

func TestTouches(t *testing.T) {
	tx := New("tx-1", KindTransfer, time.Now(), []Participant{
		{Address: "alice", Currency: "CCOIN", Direction: DirectionDebit, Amount: uint256.NewInt(5)},
		{Address: "bob", Currency: "CCOIN", Direction: DirectionCredit, Amount: uint256.NewInt(5)},
	}, nil)

	if !tx.Touches("alice") || !tx.Touches("bob") {
		t.Error("Expected both participants to be touched")
	}
	if tx.Touches("carol") {
		t.Error("Expected carol not to be touched")
	}
}

func TestDeltasAndConserves(t *testing.T) {
	feeSplit := New("tx-1", KindFeeSplit, time.Now(), []Participant{
		{Address: "fan", Currency: "USDC", Direction: DirectionDebit, Amount: uint256.NewInt(10000)},
		{Address: "creator", Currency: "USDC", Direction: DirectionCredit, Amount: uint256.NewInt(9500)},
		{Address: "platform", Currency: "USDC", Direction: DirectionCredit, Amount: uint256.NewInt(500)},
	}, nil)

	credits, debits := feeSplit.Deltas()
	if credits["USDC"].Uint64() != 10000 {
		t.Errorf("Expected 10000 credited, got %s", credits["USDC"].String())
	}
	if debits["USDC"].Uint64() != 10000 {
		t.Errorf("Expected 10000 debited, got %s", debits["USDC"].String())
	}
	if !feeSplit.Conserves() {
		t.Error("Expected fee split to conserve supply")
	}

	mint := New("tx-2", KindMint, time.Now(), []Participant{
		{Address: "alice", Currency: "CCOIN", Direction: DirectionCredit, Amount: uint256.NewInt(100)},
	}, nil)
	if mint.Conserves() {
		t.Error("Expected mint not to conserve supply")
	}

	burnOnly := New("tx-3", KindStakeEarlyWithdraw, time.Now(), []Participant{
		{Address: "alice", Currency: "CCOIN", Direction: DirectionDebit, Amount: uint256.NewInt(10)},
	}, nil)
	if burnOnly.Conserves() {
		t.Error("Expected pure burn not to conserve supply")
	}
}

func TestConservesPerCurrency(t *testing.T) {
	tx := New("tx-1", KindTransfer, time.Now(), []Participant{
		{Address: "alice", Currency: "CCOIN", Direction: DirectionDebit, Amount: uint256.NewInt(5)},
		{Address: "bob", Currency: "USDC", Direction: DirectionCredit, Amount: uint256.NewInt(5)},
	}, nil)
	if tx.Conserves() {
		t.Error("Expected cross-currency movement not to conserve")
	}
}

func TestClone(t *testing.T) {
	tx := New("tx-1", KindTransfer, time.Now(), []Participant{
		{Address: "alice", Currency: "CCOIN", Direction: DirectionDebit, Amount: uint256.NewInt(5)},
	}, map[string]string{MetaReason: "test"})
	tx.Seq = 42

	cp := tx.Clone()
	if cp.Seq != 42 || cp.TxID != "tx-1" {
		t.Errorf("Expected clone to keep seq and id, got seq=%d id=%s", cp.Seq, cp.TxID)
	}

	cp.Participants[0].Amount.SetUint64(999)
	cp.Metadata[MetaReason] = "mutated"
	if tx.Participants[0].Amount.Uint64() != 5 {
		t.Error("Expected clone mutation not to reach the original participants")
	}
	if tx.Metadata[MetaReason] != "test" {
		t.Error("Expected clone mutation not to reach the original metadata")
	}
}
