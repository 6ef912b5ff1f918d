package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ch0002ic/creatorcoin-ai/config"
	"github.com/ch0002ic/creatorcoin-ai/events"
	"github.com/ch0002ic/creatorcoin-ai/ledger"
	"github.com/ch0002ic/creatorcoin-ai/logx"
	"github.com/ch0002ic/creatorcoin-ai/migration"
)

var (
	migrateDatabaseURL      string
	migrateQuery            string
	migrateCurrency         string
	migrateBatchSize        int
	migrateDryRun           bool
	migrateNodeConfigPath   string
	migrateLedgerConfigPath string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [flags]",
	Short: "Import legacy balances from a Postgres database",
	Long: `One-shot importer: reads wallet balances from the legacy Postgres
database and replays them as mint operations on the local ledger, with
source=migration metadata. Run against a stopped node.

Examples:
  # Validate without writing
  ccledger migrate --database-url postgres://app@legacy/creatorcoin --dry-run

  # Import for real
  ccledger migrate --database-url postgres://app@legacy/creatorcoin`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runMigrate(); err != nil {
			logx.Error("MIGRATE CLI", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().StringVar(&migrateDatabaseURL, "database-url", "", "legacy Postgres connection URL")
	migrateCmd.Flags().StringVar(&migrateQuery, "query", "", "override the legacy balance query")
	migrateCmd.Flags().StringVarP(&migrateCurrency, "currency", "c", config.CurrencyCCOIN, "currency to mint")
	migrateCmd.Flags().IntVar(&migrateBatchSize, "batch-size", 100, "rows per progress report")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "validate rows without writing")
	migrateCmd.Flags().StringVar(&migrateNodeConfigPath, "config", "", "path to node.ini")
	migrateCmd.Flags().StringVar(&migrateLedgerConfigPath, "ledger-config", "", "path to ledger.yml")
}

func runMigrate() error {
	if migrateDatabaseURL == "" {
		return fmt.Errorf("--database-url is required")
	}

	legacyDB, err := migration.ConnectDatabase(migrateDatabaseURL)
	if err != nil {
		return err
	}
	defer legacyDB.Close()

	balances, err := migration.FetchBalances(legacyDB, migrateQuery)
	if err != nil {
		return err
	}
	if len(balances) == 0 {
		fmt.Println("No legacy balances to import")
		return nil
	}

	provider, accountStore, txLog, _, err := openStores(migrateNodeConfigPath)
	if err != nil {
		return err
	}
	defer provider.Close()

	ledgerCfg, err := loadLedgerConfigOrDefault(migrateLedgerConfigPath)
	if err != nil {
		return err
	}
	engine := ledger.NewEngine(ledgerCfg, accountStore, txLog, events.NewEventBus(), nil)
	if err := engine.InitGenesis(); err != nil {
		return err
	}

	importer := migration.NewImporter(engine, migration.Config{
		Currency:  migrateCurrency,
		BatchSize: migrateBatchSize,
		DryRun:    migrateDryRun,
	})
	report, err := importer.Run(balances)
	if err != nil {
		return err
	}

	fmt.Printf("Migration finished: %d minted, %d skipped, %d failed of %d rows\n",
		report.Minted, report.Skipped, report.Failed, report.Total)
	return nil
}
