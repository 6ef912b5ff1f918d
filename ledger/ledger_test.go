package ledger

import (
	"fmt"
	"testing"
	"time"

	"github.com/holiman/uint256"

	"github.com/ch0002ic/creatorcoin-ai/config"
	"github.com/ch0002ic/creatorcoin-ai/db"
	"github.com/ch0002ic/creatorcoin-ai/errors"
	"github.com/ch0002ic/creatorcoin-ai/events"
	"github.com/ch0002ic/creatorcoin-ai/store"
	"github.com/ch0002ic/creatorcoin-ai/transaction"
	"github.com/ch0002ic/creatorcoin-ai/types"
	"github.com/ch0002ic/creatorcoin-ai/utils"
)

func newTestEngine(t *testing.T) (*Engine, store.TxLogStore) {
	t.Helper()
	return newTestEngineWithConfig(t, config.DefaultLedgerConfig())
}

func newTestEngineWithConfig(t *testing.T, cfg *config.LedgerConfig) (*Engine, store.TxLogStore) {
	t.Helper()
	provider := db.NewMemoryProvider()
	accounts, err := store.NewGenericAccountStore(provider)
	if err != nil {
		t.Fatalf("Failed to create account store: %v", err)
	}
	txLog, err := store.NewGenericTxLogStore(provider)
	if err != nil {
		t.Fatalf("Failed to create tx log store: %v", err)
	}
	clock := types.NewManualClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	return NewEngine(cfg, accounts, txLog, events.NewEventBus(), clock), txLog
}

func mustMint(t *testing.T, e *Engine, addr string, amount uint64) {
	t.Helper()
	if _, err := e.Mint(addr, config.CurrencyCCOIN, uint256.NewInt(amount), "test seed", nil); err != nil {
		t.Fatalf("Failed to mint %d CCOIN to %s: %v", amount, addr, err)
	}
}

func balanceOf(t *testing.T, e *Engine, addr, currency string) uint64 {
	t.Helper()
	bal, err := e.Balance(addr, currency)
	if err != nil {
		t.Fatalf("Failed to read balance of %s: %v", addr, err)
	}
	return bal.Uint64()
}

func TestTransfer(t *testing.T) {
	e, _ := newTestEngine(t)
	mustMint(t, e, "alice", 1000)

	tx, err := e.Transfer("alice", "bob", config.CurrencyCCOIN, uint256.NewInt(400), nil)
	if err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}

	if got := balanceOf(t, e, "alice", config.CurrencyCCOIN); got != 600 {
		t.Errorf("Expected alice balance 600, got %d", got)
	}
	if got := balanceOf(t, e, "bob", config.CurrencyCCOIN); got != 400 {
		t.Errorf("Expected bob balance 400, got %d", got)
	}

	if tx.Kind != transaction.KindTransfer {
		t.Errorf("Expected kind TRANSFER, got %s", tx.Kind)
	}
	if tx.Seq != 2 {
		t.Errorf("Expected seq 2 after seed mint, got %d", tx.Seq)
	}
	if len(tx.Participants) != 2 {
		t.Fatalf("Expected 2 participants, got %d", len(tx.Participants))
	}
	if tx.Participants[0].Address != "alice" || tx.Participants[0].Direction != transaction.DirectionDebit {
		t.Errorf("Expected first participant to debit alice, got %+v", tx.Participants[0])
	}
	if tx.Participants[1].Address != "bob" || tx.Participants[1].Direction != transaction.DirectionCredit {
		t.Errorf("Expected second participant to credit bob, got %+v", tx.Participants[1])
	}
	if !tx.Conserves() {
		t.Error("Expected transfer to conserve supply")
	}
}

func TestTransferInsufficientFunds(t *testing.T) {
	e, _ := newTestEngine(t)
	mustMint(t, e, "alice", 100)

	_, err := e.Transfer("alice", "bob", config.CurrencyCCOIN, uint256.NewInt(101), nil)
	if !errors.IsCode(err, errors.ErrCodeInsufficientFunds) {
		t.Fatalf("Expected insufficient_funds, got %v", err)
	}

	if got := balanceOf(t, e, "alice", config.CurrencyCCOIN); got != 100 {
		t.Errorf("Expected alice balance unchanged at 100, got %d", got)
	}
	if got := balanceOf(t, e, "bob", config.CurrencyCCOIN); got != 0 {
		t.Errorf("Expected bob balance unchanged at 0, got %d", got)
	}
	if e.LatestSeq() != 1 {
		t.Errorf("Expected log untouched at seq 1, got %d", e.LatestSeq())
	}
}

func TestTransferValidation(t *testing.T) {
	e, _ := newTestEngine(t)
	mustMint(t, e, "alice", 1000)

	one := uint256.NewInt(1)
	tests := []struct {
		name     string
		from     string
		to       string
		currency string
		amount   *uint256.Int
		wantCode errors.LedgerErrorCode
	}{
		{"empty sender", "", "bob", config.CurrencyCCOIN, one, errors.ErrCodeInvalidAddress},
		{"empty recipient", "alice", "  ", config.CurrencyCCOIN, one, errors.ErrCodeInvalidAddress},
		{"self transfer", "alice", "alice", config.CurrencyCCOIN, one, errors.ErrCodeInvalidOperation},
		{"zero amount", "alice", "bob", config.CurrencyCCOIN, uint256.NewInt(0), errors.ErrCodeInvalidAmount},
		{"nil amount", "alice", "bob", config.CurrencyCCOIN, nil, errors.ErrCodeInvalidAmount},
		{"unknown currency", "alice", "bob", "DOGE", one, errors.ErrCodeUnsupportedCurrency},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Transfer(tt.from, tt.to, tt.currency, tt.amount, nil)
			if !errors.IsCode(err, tt.wantCode) {
				t.Errorf("Expected %s, got %v", tt.wantCode, err)
			}
		})
	}

	if e.LatestSeq() != 1 {
		t.Errorf("Expected no rejected operation in the log, latest seq %d", e.LatestSeq())
	}
}

func TestTransferCreatesRecipientLazily(t *testing.T) {
	e, _ := newTestEngine(t)
	mustMint(t, e, "alice", 50)

	exists, err := e.AccountExists("bob")
	if err != nil {
		t.Fatalf("Exists check failed: %v", err)
	}
	if exists {
		t.Fatal("Expected bob to not exist before first touch")
	}

	if _, err := e.Transfer("alice", "bob", config.CurrencyCCOIN, uint256.NewInt(50), nil); err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}

	exists, err = e.AccountExists("bob")
	if err != nil {
		t.Fatalf("Exists check failed: %v", err)
	}
	if !exists {
		t.Error("Expected bob to exist after receiving a transfer")
	}
}

func TestTransferTrimsAddresses(t *testing.T) {
	e, _ := newTestEngine(t)
	mustMint(t, e, "alice", 100)

	if _, err := e.Transfer(" alice ", "\tbob\n", config.CurrencyCCOIN, uint256.NewInt(40), nil); err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}
	if got := balanceOf(t, e, "bob", config.CurrencyCCOIN); got != 40 {
		t.Errorf("Expected trimmed recipient balance 40, got %d", got)
	}
}

func TestBalanceUnknownAddress(t *testing.T) {
	e, _ := newTestEngine(t)

	bal, err := e.Balance("ghost", config.CurrencyCCOIN)
	if err != nil {
		t.Fatalf("Expected zero balance read to succeed, got %v", err)
	}
	if !bal.IsZero() {
		t.Errorf("Expected zero, got %s", bal.String())
	}

	balances, err := e.Balances("ghost")
	if err != nil {
		t.Fatalf("Balances failed: %v", err)
	}
	if len(balances) != 3 {
		t.Errorf("Expected one entry per configured currency, got %d", len(balances))
	}
	for code, bal := range balances {
		if !bal.IsZero() {
			t.Errorf("Expected zero %s, got %s", code, bal.String())
		}
	}
}

func TestBalanceUnknownCurrency(t *testing.T) {
	e, _ := newTestEngine(t)
	bal, err := e.Balance("alice", "DOGE")
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	if !bal.IsZero() {
		t.Errorf("Expected zero balance for unconfigured currency, got %s", bal)
	}
}

func TestMint(t *testing.T) {
	e, _ := newTestEngine(t)

	tx, err := e.Mint("alice", config.CurrencyCCOIN, uint256.NewInt(500), "signup bonus", nil)
	if err != nil {
		t.Fatalf("Mint failed: %v", err)
	}
	if got := balanceOf(t, e, "alice", config.CurrencyCCOIN); got != 500 {
		t.Errorf("Expected balance 500, got %d", got)
	}
	if len(tx.Participants) != 1 {
		t.Fatalf("Expected single participant, got %d", len(tx.Participants))
	}
	if tx.Participants[0].Direction != transaction.DirectionCredit {
		t.Errorf("Expected credit, got %s", tx.Participants[0].Direction)
	}
	if tx.Metadata[transaction.MetaReason] != "signup bonus" {
		t.Errorf("Expected reason in metadata, got %q", tx.Metadata[transaction.MetaReason])
	}
	if tx.Conserves() {
		t.Error("Expected mint not to conserve supply")
	}

	// Second mint accumulates.
	if _, err := e.Mint("alice", "ccoin", uint256.NewInt(250), "", nil); err != nil {
		t.Fatalf("Mint failed: %v", err)
	}
	if got := balanceOf(t, e, "alice", config.CurrencyCCOIN); got != 750 {
		t.Errorf("Expected balance 750, got %d", got)
	}
}

func TestMintRejectsNonMintable(t *testing.T) {
	e, _ := newTestEngine(t)

	for _, currency := range []string{config.CurrencyUSDC, config.CurrencySOL} {
		_, err := e.Mint("alice", currency, uint256.NewInt(100), "", nil)
		if !errors.IsCode(err, errors.ErrCodeUnsupportedCurrency) {
			t.Errorf("Expected unsupported_currency for %s, got %v", currency, err)
		}
	}
	if e.LatestSeq() != 0 {
		t.Errorf("Expected empty log, got seq %d", e.LatestSeq())
	}
}

func TestMintValidation(t *testing.T) {
	e, _ := newTestEngine(t)

	if _, err := e.Mint("", config.CurrencyCCOIN, uint256.NewInt(1), "", nil); !errors.IsCode(err, errors.ErrCodeInvalidAddress) {
		t.Errorf("Expected invalid_address, got %v", err)
	}
	if _, err := e.Mint("alice", config.CurrencyCCOIN, uint256.NewInt(0), "", nil); !errors.IsCode(err, errors.ErrCodeInvalidAmount) {
		t.Errorf("Expected invalid_amount, got %v", err)
	}
	if _, err := e.Mint("alice", "DOGE", uint256.NewInt(1), "", nil); !errors.IsCode(err, errors.ErrCodeUnsupportedCurrency) {
		t.Errorf("Expected unsupported_currency, got %v", err)
	}
}

func TestFeeSplit(t *testing.T) {
	cfg := config.DefaultLedgerConfig()
	cfg.GenesisAllocations = []config.GenesisAllocation{
		{Address: "fan", Currency: config.CurrencyUSDC, Amount: "100"},
	}
	e, _ := newTestEngineWithConfig(t, cfg)
	if err := e.InitGenesis(); err != nil {
		t.Fatalf("Genesis failed: %v", err)
	}

	// 30.00 USDC gross at the default 500 bps platform fee.
	gross := uint256.NewInt(30000000)
	tx, err := e.FeeSplit("fan", "creator", "platform", config.CurrencyUSDC, gross, 500, nil)
	if err != nil {
		t.Fatalf("FeeSplit failed: %v", err)
	}

	if got := balanceOf(t, e, "fan", config.CurrencyUSDC); got != 70000000 {
		t.Errorf("Expected fan balance 70000000, got %d", got)
	}
	if got := balanceOf(t, e, "creator", config.CurrencyUSDC); got != 28500000 {
		t.Errorf("Expected creator balance 28500000, got %d", got)
	}
	if got := balanceOf(t, e, "platform", config.CurrencyUSDC); got != 1500000 {
		t.Errorf("Expected platform balance 1500000, got %d", got)
	}

	if len(tx.Participants) != 3 {
		t.Fatalf("Expected 3 participants, got %d", len(tx.Participants))
	}
	if tx.Participants[0].Address != "fan" || tx.Participants[0].Direction != transaction.DirectionDebit {
		t.Errorf("Expected first participant to debit the source, got %+v", tx.Participants[0])
	}
	if tx.Participants[1].Address != "creator" || tx.Participants[1].Amount.Uint64() != 28500000 {
		t.Errorf("Expected second participant to credit the creator cut, got %+v", tx.Participants[1])
	}
	if tx.Participants[2].Address != "platform" || tx.Participants[2].Amount.Uint64() != 1500000 {
		t.Errorf("Expected third participant to credit the platform cut, got %+v", tx.Participants[2])
	}
	if !tx.Conserves() {
		t.Error("Expected fee split to conserve supply")
	}
}

func TestFeeSplitRounding(t *testing.T) {
	tests := []struct {
		gross        uint64
		feeBps       uint32
		wantPlatform uint64
	}{
		{10000, 500, 500},
		{999, 500, 50}, // 49.95 rounds up
		{10, 500, 1},   // exact half rounds up
		{9, 500, 0},    // 0.45 rounds down
		{1001, 250, 25},
		{1, 10000, 1},
		{1, 1, 0},
		{3, 3333, 1},
		{7, 0, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d@%dbps", tt.gross, tt.feeBps), func(t *testing.T) {
			e, _ := newTestEngine(t)
			mustMint(t, e, "src", tt.gross)

			tx, err := e.FeeSplit("src", "creator", "platform", config.CurrencyCCOIN, uint256.NewInt(tt.gross), tt.feeBps, nil)
			if err != nil {
				t.Fatalf("FeeSplit failed: %v", err)
			}
			platformCut := tx.Participants[2].Amount.Uint64()
			creatorCut := tx.Participants[1].Amount.Uint64()
			if platformCut != tt.wantPlatform {
				t.Errorf("Expected platform cut %d, got %d", tt.wantPlatform, platformCut)
			}
			if creatorCut+platformCut != tt.gross {
				t.Errorf("Expected cuts to sum to gross %d, got %d", tt.gross, creatorCut+platformCut)
			}
		})
	}
}

func TestFeeSplitExactnessSweep(t *testing.T) {
	e, _ := newTestEngine(t)
	mustMint(t, e, "src", 10000000)

	for _, feeBps := range []uint32{0, 1, 250, 500, 9999, 10000} {
		for gross := uint64(1); gross <= 97; gross += 3 {
			tx, err := e.FeeSplit("src", "creator", "platform", config.CurrencyCCOIN, uint256.NewInt(gross), feeBps, nil)
			if err != nil {
				t.Fatalf("FeeSplit %d at %d bps failed: %v", gross, feeBps, err)
			}
			sum := new(uint256.Int).Add(tx.Participants[1].Amount, tx.Participants[2].Amount)
			if sum.Uint64() != gross {
				t.Fatalf("Expected cuts of %d at %d bps to sum exactly, got %s", gross, feeBps, sum.String())
			}
		}
	}

	// Nothing was created or destroyed across the whole sweep.
	total := uint64(0)
	for _, addr := range []string{"src", "creator", "platform"} {
		total += balanceOf(t, e, addr, config.CurrencyCCOIN)
	}
	if total != 10000000 {
		t.Errorf("Expected total supply 10000000 after sweep, got %d", total)
	}
}

func TestFeeSplitSharedCreatorPlatform(t *testing.T) {
	e, _ := newTestEngine(t)
	mustMint(t, e, "src", 1000)

	tx, err := e.FeeSplit("src", "studio", "studio", config.CurrencyCCOIN, uint256.NewInt(999), 500, nil)
	if err != nil {
		t.Fatalf("FeeSplit failed: %v", err)
	}
	if got := balanceOf(t, e, "studio", config.CurrencyCCOIN); got != 999 {
		t.Errorf("Expected studio to receive the whole gross, got %d", got)
	}
	if !tx.Conserves() {
		t.Error("Expected fee split to conserve supply")
	}
}

func TestFeeSplitRejects(t *testing.T) {
	e, _ := newTestEngine(t)
	mustMint(t, e, "src", 1000)

	one := uint256.NewInt(1)
	tests := []struct {
		name     string
		source   string
		creator  string
		platform string
		gross    *uint256.Int
		feeBps   uint32
		wantCode errors.LedgerErrorCode
	}{
		{"source is creator", "src", "src", "platform", one, 500, errors.ErrCodeInvalidOperation},
		{"source is platform", "src", "creator", "src", one, 500, errors.ErrCodeInvalidOperation},
		{"fee above 10000", "src", "creator", "platform", one, 10001, errors.ErrCodeInvalidOperation},
		{"zero gross", "src", "creator", "platform", uint256.NewInt(0), 500, errors.ErrCodeInvalidAmount},
		{"empty source", " ", "creator", "platform", one, 500, errors.ErrCodeInvalidAddress},
		{"insufficient funds", "pauper", "creator", "platform", uint256.NewInt(5), 500, errors.ErrCodeInsufficientFunds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.FeeSplit(tt.source, tt.creator, tt.platform, config.CurrencyCCOIN, tt.gross, tt.feeBps, nil)
			if !errors.IsCode(err, tt.wantCode) {
				t.Errorf("Expected %s, got %v", tt.wantCode, err)
			}
		})
	}
	if e.LatestSeq() != 1 {
		t.Errorf("Expected only the seed mint in the log, got seq %d", e.LatestSeq())
	}
}

func TestIdempotentRetry(t *testing.T) {
	e, _ := newTestEngine(t)
	mustMint(t, e, "alice", 1000)

	meta := map[string]string{transaction.MetaRequestID: "req-1"}
	first, err := e.Transfer("alice", "bob", config.CurrencyCCOIN, uint256.NewInt(400), meta)
	if err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}

	retry, err := e.Transfer("alice", "bob", config.CurrencyCCOIN, uint256.NewInt(400), meta)
	if err != nil {
		t.Fatalf("Retry failed: %v", err)
	}
	if retry.TxID != first.TxID || retry.Seq != first.Seq {
		t.Errorf("Expected replay of tx %s seq %d, got %s seq %d", first.TxID, first.Seq, retry.TxID, retry.Seq)
	}

	if got := balanceOf(t, e, "alice", config.CurrencyCCOIN); got != 600 {
		t.Errorf("Expected transfer applied once, alice balance %d", got)
	}
	if e.LatestSeq() != 2 {
		t.Errorf("Expected 2 log entries, got %d", e.LatestSeq())
	}
}

func TestIdempotentRetryIgnoresChangedArgs(t *testing.T) {
	e, _ := newTestEngine(t)
	mustMint(t, e, "alice", 1000)

	meta := map[string]string{transaction.MetaRequestID: "req-1"}
	first, err := e.Transfer("alice", "bob", config.CurrencyCCOIN, uint256.NewInt(100), meta)
	if err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}

	// A retry with a different amount still resolves to the stored result.
	retry, err := e.Transfer("alice", "bob", config.CurrencyCCOIN, uint256.NewInt(999), meta)
	if err != nil {
		t.Fatalf("Retry failed: %v", err)
	}
	if retry.TxID != first.TxID {
		t.Errorf("Expected stored tx %s, got %s", first.TxID, retry.TxID)
	}
	if got := balanceOf(t, e, "alice", config.CurrencyCCOIN); got != 900 {
		t.Errorf("Expected only the first transfer applied, alice balance %d", got)
	}
}

func TestIdempotentRetryKindMismatch(t *testing.T) {
	e, _ := newTestEngine(t)
	mustMint(t, e, "alice", 1000)

	meta := map[string]string{transaction.MetaRequestID: "req-1"}
	if _, err := e.Transfer("alice", "bob", config.CurrencyCCOIN, uint256.NewInt(100), meta); err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}

	_, err := e.Mint("alice", config.CurrencyCCOIN, uint256.NewInt(100), "", meta)
	if !errors.IsCode(err, errors.ErrCodeInvalidOperation) {
		t.Errorf("Expected invalid_operation for reused request id, got %v", err)
	}
}

func TestStakeLock(t *testing.T) {
	e, _ := newTestEngine(t)
	mustMint(t, e, "alice", 1000)

	tx, err := e.StakeLock("alice", config.CurrencyCCOIN, uint256.NewInt(400), "stake-1", nil)
	if err != nil {
		t.Fatalf("StakeLock failed: %v", err)
	}
	if got := balanceOf(t, e, "alice", config.CurrencyCCOIN); got != 600 {
		t.Errorf("Expected spendable balance 600 after lock, got %d", got)
	}
	if len(tx.Participants) != 1 || tx.Participants[0].Direction != transaction.DirectionDebit {
		t.Errorf("Expected single debit participant, got %+v", tx.Participants)
	}
	if tx.Metadata[transaction.MetaStakeID] != "stake-1" {
		t.Errorf("Expected stake id in metadata, got %q", tx.Metadata[transaction.MetaStakeID])
	}

	_, err = e.StakeLock("alice", config.CurrencyCCOIN, uint256.NewInt(601), "stake-2", nil)
	if !errors.IsCode(err, errors.ErrCodeInsufficientFunds) {
		t.Errorf("Expected insufficient_funds for over-lock, got %v", err)
	}
}

func TestStakeClaim(t *testing.T) {
	e, _ := newTestEngine(t)
	mustMint(t, e, "alice", 1000)
	if _, err := e.StakeLock("alice", config.CurrencyCCOIN, uint256.NewInt(400), "stake-1", nil); err != nil {
		t.Fatalf("StakeLock failed: %v", err)
	}

	tx, err := e.StakeClaim("alice", config.CurrencyCCOIN, uint256.NewInt(400), uint256.NewInt(23), "stake-1", nil)
	if err != nil {
		t.Fatalf("StakeClaim failed: %v", err)
	}
	if got := balanceOf(t, e, "alice", config.CurrencyCCOIN); got != 1023 {
		t.Errorf("Expected principal plus reward back, balance %d", got)
	}
	if tx.Participants[0].Amount.Uint64() != 423 {
		t.Errorf("Expected credit of 423, got %s", tx.Participants[0].Amount.String())
	}
}

func TestStakeEarlyWithdraw(t *testing.T) {
	e, _ := newTestEngine(t)
	mustMint(t, e, "alice", 1000)
	if _, err := e.StakeLock("alice", config.CurrencyCCOIN, uint256.NewInt(400), "stake-1", nil); err != nil {
		t.Fatalf("StakeLock failed: %v", err)
	}

	tx, err := e.StakeEarlyWithdraw("alice", config.CurrencyCCOIN, uint256.NewInt(400), uint256.NewInt(40), "stake-1", nil)
	if err != nil {
		t.Fatalf("StakeEarlyWithdraw failed: %v", err)
	}
	if got := balanceOf(t, e, "alice", config.CurrencyCCOIN); got != 960 {
		t.Errorf("Expected 960 after burned penalty, got %d", got)
	}
	if tx.Participants[0].Amount.Uint64() != 360 {
		t.Errorf("Expected credit of 360, got %s", tx.Participants[0].Amount.String())
	}

	_, err = e.StakeEarlyWithdraw("alice", config.CurrencyCCOIN, uint256.NewInt(10), uint256.NewInt(11), "stake-2", nil)
	if !errors.IsCode(err, errors.ErrCodeInvalidOperation) {
		t.Errorf("Expected invalid_operation when penalty exceeds principal, got %v", err)
	}
}

func TestInitGenesis(t *testing.T) {
	cfg := config.DefaultLedgerConfig()
	cfg.GenesisAllocations = []config.GenesisAllocation{
		{Address: "alice", Currency: config.CurrencyUSDC, Amount: "100"},
		{Address: "treasury", Currency: config.CurrencyCCOIN, Amount: "1000.5"},
	}
	e, _ := newTestEngineWithConfig(t, cfg)

	if err := e.InitGenesis(); err != nil {
		t.Fatalf("Genesis failed: %v", err)
	}
	if got := balanceOf(t, e, "alice", config.CurrencyUSDC); got != 100000000 {
		t.Errorf("Expected alice 100000000 minor units, got %d", got)
	}
	if got := balanceOf(t, e, "treasury", config.CurrencyCCOIN); got != 1000500000 {
		t.Errorf("Expected treasury 1000500000 minor units, got %d", got)
	}

	// Re-running does not double the allocations.
	if err := e.InitGenesis(); err != nil {
		t.Fatalf("Repeat genesis failed: %v", err)
	}
	if got := balanceOf(t, e, "alice", config.CurrencyUSDC); got != 100000000 {
		t.Errorf("Expected allocation applied once, got %d", got)
	}

	// Once the log has entries, genesis is a no-op even for new addresses.
	mustMint(t, e, "bob", 10)
	cfg.GenesisAllocations = append(cfg.GenesisAllocations, config.GenesisAllocation{
		Address: "carol", Currency: config.CurrencyUSDC, Amount: "5",
	})
	if err := e.InitGenesis(); err != nil {
		t.Fatalf("Post-activity genesis failed: %v", err)
	}
	if got := balanceOf(t, e, "carol", config.CurrencyUSDC); got != 0 {
		t.Errorf("Expected no late allocation, got %d", got)
	}
}

func TestInitGenesisRejectsBadAllocations(t *testing.T) {
	cfg := config.DefaultLedgerConfig()
	cfg.GenesisAllocations = []config.GenesisAllocation{
		{Address: "alice", Currency: config.CurrencyUSDC, Amount: "not-a-number"},
	}
	e, _ := newTestEngineWithConfig(t, cfg)
	if err := e.InitGenesis(); err == nil {
		t.Error("Expected error for malformed genesis amount")
	}
}

func TestEndToEndScenario(t *testing.T) {
	cfg := config.DefaultLedgerConfig()
	cfg.GenesisAllocations = []config.GenesisAllocation{
		{Address: "accountA", Currency: config.CurrencyUSDC, Amount: "100"},
	}
	e, _ := newTestEngineWithConfig(t, cfg)
	if err := e.InitGenesis(); err != nil {
		t.Fatalf("Genesis failed: %v", err)
	}

	amount, err := utils.ToBaseUnit("30", 6)
	if err != nil {
		t.Fatalf("Failed to parse amount: %v", err)
	}
	if _, err := e.Transfer("accountA", "accountB", config.CurrencyUSDC, amount, nil); err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}
	if got := balanceOf(t, e, "accountA", config.CurrencyUSDC); got != 70000000 {
		t.Errorf("Expected accountA 70.00 USDC, got %d minor units", got)
	}
	if got := balanceOf(t, e, "accountB", config.CurrencyUSDC); got != 30000000 {
		t.Errorf("Expected accountB 30.00 USDC, got %d minor units", got)
	}
	if e.LatestSeq() != 1 {
		t.Fatalf("Expected exactly one logged transaction, got %d", e.LatestSeq())
	}

	over, err := utils.ToBaseUnit("100", 6)
	if err != nil {
		t.Fatalf("Failed to parse amount: %v", err)
	}
	_, err = e.Transfer("accountA", "accountB", config.CurrencyUSDC, over, nil)
	if !errors.IsCode(err, errors.ErrCodeInsufficientFunds) {
		t.Fatalf("Expected insufficient_funds, got %v", err)
	}
	if got := balanceOf(t, e, "accountA", config.CurrencyUSDC); got != 70000000 {
		t.Errorf("Expected accountA unchanged, got %d", got)
	}
	if e.LatestSeq() != 1 {
		t.Errorf("Expected log still at one transaction, got %d", e.LatestSeq())
	}
}

func TestGetTxByID(t *testing.T) {
	e, _ := newTestEngine(t)
	mustMint(t, e, "alice", 100)

	tx, err := e.Transfer("alice", "bob", config.CurrencyCCOIN, uint256.NewInt(10), nil)
	if err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}

	loaded, err := e.GetTxByID(tx.TxID)
	if err != nil {
		t.Fatalf("GetTxByID failed: %v", err)
	}
	if loaded.TxID != tx.TxID || loaded.Seq != tx.Seq || loaded.Kind != tx.Kind {
		t.Errorf("Expected stored tx to round trip, got %+v", loaded)
	}

	_, err = e.GetTxByID("01JUNKJUNKJUNKJUNKJUNKJUNK")
	if !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("Expected not_found, got %v", err)
	}
}

func TestGetHistoryPagination(t *testing.T) {
	e, _ := newTestEngine(t)
	for i := 0; i < 10; i++ {
		mustMint(t, e, "alice", 10)
	}

	total, page, err := e.GetHistory("alice", 3, 0)
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if total != 10 {
		t.Errorf("Expected total 10, got %d", total)
	}
	if len(page) != 3 {
		t.Fatalf("Expected 3 transactions, got %d", len(page))
	}
	for i, tx := range page {
		if tx.Seq != uint64(i+1) {
			t.Errorf("Expected seq %d at position %d, got %d", i+1, i, tx.Seq)
		}
	}

	_, page, err = e.GetHistory("alice", 5, 8)
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(page) != 2 {
		t.Errorf("Expected tail page of 2, got %d", len(page))
	}

	total, page, err = e.GetHistory("alice", 5, 50)
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if total != 10 || len(page) != 0 {
		t.Errorf("Expected empty page beyond the end with total 10, got total %d len %d", total, len(page))
	}

	total, page, err = e.GetHistory("stranger", 5, 0)
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if total != 0 || len(page) != 0 {
		t.Errorf("Expected empty history for unknown account, got total %d len %d", total, len(page))
	}
}

func TestLogReplayReproducesBalances(t *testing.T) {
	e, txLog := newTestEngine(t)
	mustMint(t, e, "alice", 10000)
	mustMint(t, e, "bob", 5000)
	if _, err := e.Transfer("alice", "bob", config.CurrencyCCOIN, uint256.NewInt(1234), nil); err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}
	if _, err := e.FeeSplit("bob", "creator", "platform", config.CurrencyCCOIN, uint256.NewInt(999), 500, nil); err != nil {
		t.Fatalf("FeeSplit failed: %v", err)
	}
	if _, err := e.Transfer("creator", "alice", config.CurrencyCCOIN, uint256.NewInt(100), nil); err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}

	txs, err := txLog.All()
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}

	replayed := make(map[string]*uint256.Int)
	for _, tx := range txs {
		for _, p := range tx.Participants {
			bal, ok := replayed[p.Address]
			if !ok {
				bal = uint256.NewInt(0)
				replayed[p.Address] = bal
			}
			if p.Direction == transaction.DirectionCredit {
				bal.Add(bal, p.Amount)
			} else {
				bal.Sub(bal, p.Amount)
			}
		}
	}

	for addr, want := range replayed {
		got, err := e.Balance(addr, config.CurrencyCCOIN)
		if err != nil {
			t.Fatalf("Failed to read balance of %s: %v", addr, err)
		}
		if got.Cmp(want) != 0 {
			t.Errorf("Expected replayed balance %s for %s, got %s", want.String(), addr, got.String())
		}
	}
}
