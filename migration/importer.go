package migration

import (
	"fmt"
	"strconv"

	"github.com/ch0002ic/creatorcoin-ai/config"
	"github.com/ch0002ic/creatorcoin-ai/ledger"
	"github.com/ch0002ic/creatorcoin-ai/logx"
	"github.com/ch0002ic/creatorcoin-ai/security/validation"
	"github.com/ch0002ic/creatorcoin-ai/utils"
)

// MintReason marks migrated supply in transaction metadata
const MintReason = "migration"

type Config struct {
	Currency  string
	BatchSize int
	DryRun    bool
}

// Report summarizes one importer run
type Report struct {
	Total   int
	Minted  int
	Skipped int
	Failed  int
}

// Importer replays legacy balances as mint operations on a local engine.
// It runs against a stopped node; every grant is an ordinary MINT with
// source=migration metadata, so imported supply is visible in the log.
type Importer struct {
	engine *ledger.Engine
	cfg    Config
}

func NewImporter(engine *ledger.Engine, cfg Config) *Importer {
	if cfg.Currency == "" {
		cfg.Currency = config.CurrencyCCOIN
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	return &Importer{engine: engine, cfg: cfg}
}

// Run mints every legacy balance. Rows with invalid addresses or amounts
// are skipped; engine rejections count as failures but do not stop the run.
func (im *Importer) Run(balances []LegacyBalance) (*Report, error) {
	cur, ok := im.engine.Config().Currency(im.cfg.Currency)
	if !ok {
		return nil, fmt.Errorf("currency %q is not configured", im.cfg.Currency)
	}
	if !cur.Mintable {
		return nil, fmt.Errorf("currency %s is not mintable; migrated balances must enter as mint operations", cur.Code)
	}

	report := &Report{Total: len(balances)}
	for i, row := range balances {
		if !validation.ValidateAddress(row.Address) {
			logx.Warn("MIGRATION", fmt.Sprintf("Skipping user %d: invalid address %q", row.UserID, row.Address))
			report.Skipped++
			continue
		}
		amount, err := utils.ToBaseUnit(row.Amount, cur.Decimals)
		if err != nil || amount.IsZero() {
			logx.Warn("MIGRATION", fmt.Sprintf("Skipping user %d: unusable balance %q", row.UserID, row.Amount))
			report.Skipped++
			continue
		}

		if im.cfg.DryRun {
			report.Minted++
		} else {
			meta := map[string]string{
				"source":       MintReason,
				"legacyUserId": strconv.FormatInt(row.UserID, 10),
			}
			if _, err := im.engine.Mint(row.Address, cur.Code, amount, MintReason, meta); err != nil {
				logx.Error("MIGRATION", fmt.Sprintf("Mint for user %d failed:", row.UserID), err)
				report.Failed++
				continue
			}
			report.Minted++
		}

		if (i+1)%im.cfg.BatchSize == 0 {
			logx.Info("MIGRATION", fmt.Sprintf("Progress: %d/%d rows", i+1, len(balances)))
		}
	}

	mode := "imported"
	if im.cfg.DryRun {
		mode = "validated (dry run)"
	}
	logx.Info("MIGRATION", fmt.Sprintf("%s %d of %d balances (%d skipped, %d failed)",
		mode, report.Minted, report.Total, report.Skipped, report.Failed))
	return report, nil
}
