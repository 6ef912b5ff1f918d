package migration

import (
	"strings"
	"testing"
	"time"

	"github.com/holiman/uint256"

	"github.com/ch0002ic/creatorcoin-ai/config"
	"github.com/ch0002ic/creatorcoin-ai/db"
	"github.com/ch0002ic/creatorcoin-ai/events"
	"github.com/ch0002ic/creatorcoin-ai/ledger"
	"github.com/ch0002ic/creatorcoin-ai/store"
	"github.com/ch0002ic/creatorcoin-ai/types"
)

// Base58 fixture addresses, 32 chars each.
var (
	legacyAddrA = "A" + strings.Repeat("1", 31)
	legacyAddrB = "B" + strings.Repeat("1", 31)
)

func newTestImporterEngine(t *testing.T) (*ledger.Engine, store.TxLogStore) {
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
	return ledger.NewEngine(config.DefaultLedgerConfig(), accounts, txLog, events.NewEventBus(), clock), txLog
}

func TestImporterRunMintsBalances(t *testing.T) {
	engine, txLog := newTestImporterEngine(t)
	importer := NewImporter(engine, Config{})

	report, err := importer.Run([]LegacyBalance{
		{UserID: 1, Address: legacyAddrA, Amount: "12.5"},
		{UserID: 2, Address: legacyAddrB, Amount: "3"},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.Total != 2 || report.Minted != 2 || report.Skipped != 0 || report.Failed != 0 {
		t.Errorf("Unexpected report: %+v", report)
	}

	balance, err := engine.Balance(legacyAddrA, config.CurrencyCCOIN)
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	if balance.Cmp(uint256.NewInt(12_500_000)) != 0 {
		t.Errorf("Expected 12500000 base units, got %s", balance)
	}

	// Migrated supply enters the log as ordinary mints with migration
	// metadata.
	txs, err := txLog.All()
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("Expected 2 logged transactions, got %d", len(txs))
	}
	if got := txs[0].Metadata["source"]; got != MintReason {
		t.Errorf("Expected source %s, got %s", MintReason, got)
	}
	if got := txs[0].Metadata["legacyUserId"]; got != "1" {
		t.Errorf("Expected legacyUserId 1, got %s", got)
	}
}

func TestImporterDryRun(t *testing.T) {
	engine, txLog := newTestImporterEngine(t)
	importer := NewImporter(engine, Config{DryRun: true})

	report, err := importer.Run([]LegacyBalance{
		{UserID: 1, Address: legacyAddrA, Amount: "12.5"},
		{UserID: 2, Address: "bogus", Amount: "3"},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.Minted != 1 || report.Skipped != 1 {
		t.Errorf("Unexpected report: %+v", report)
	}

	// Dry runs must not touch the ledger.
	if seq := txLog.LatestSeq(); seq != 0 {
		t.Errorf("Expected empty log after dry run, got seq %d", seq)
	}
	balance, err := engine.Balance(legacyAddrA, config.CurrencyCCOIN)
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	if !balance.IsZero() {
		t.Errorf("Expected zero balance after dry run, got %s", balance)
	}
}

func TestImporterSkipsBadRows(t *testing.T) {
	engine, _ := newTestImporterEngine(t)
	importer := NewImporter(engine, Config{})

	report, err := importer.Run([]LegacyBalance{
		{UserID: 1, Address: "tooshort", Amount: "10"},
		{UserID: 2, Address: legacyAddrA, Amount: "0"},
		{UserID: 3, Address: legacyAddrA, Amount: "-5"},
		{UserID: 4, Address: legacyAddrA, Amount: "not-a-number"},
		{UserID: 5, Address: legacyAddrB, Amount: "7"},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.Total != 5 || report.Minted != 1 || report.Skipped != 4 || report.Failed != 0 {
		t.Errorf("Unexpected report: %+v", report)
	}

	balance, err := engine.Balance(legacyAddrB, config.CurrencyCCOIN)
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	if balance.Cmp(uint256.NewInt(7_000_000)) != 0 {
		t.Errorf("Expected 7000000 base units, got %s", balance)
	}
}

func TestImporterRejectsNonMintableCurrency(t *testing.T) {
	engine, _ := newTestImporterEngine(t)
	importer := NewImporter(engine, Config{Currency: config.CurrencyUSDC})

	if _, err := importer.Run(nil); err == nil {
		t.Fatal("Expected error for non-mintable currency")
	}
}

func TestImporterRejectsUnknownCurrency(t *testing.T) {
	engine, _ := newTestImporterEngine(t)
	importer := NewImporter(engine, Config{Currency: "DOGE"})

	if _, err := importer.Run(nil); err == nil {
		t.Fatal("Expected error for unconfigured currency")
	}
}

func TestNewImporterDefaults(t *testing.T) {
	engine, _ := newTestImporterEngine(t)
	importer := NewImporter(engine, Config{})

	if importer.cfg.Currency != config.CurrencyCCOIN {
		t.Errorf("Expected default currency %s, got %s", config.CurrencyCCOIN, importer.cfg.Currency)
	}
	if importer.cfg.BatchSize != 100 {
		t.Errorf("Expected default batch size 100, got %d", importer.cfg.BatchSize)
	}
}
