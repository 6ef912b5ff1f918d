package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ch0002ic/creatorcoin-ai/config"
	"github.com/ch0002ic/creatorcoin-ai/db"
	"github.com/ch0002ic/creatorcoin-ai/logx"
	"github.com/ch0002ic/creatorcoin-ai/snapshot"
	"github.com/ch0002ic/creatorcoin-ai/staking"
	"github.com/ch0002ic/creatorcoin-ai/store"
)

var (
	snapshotNodeConfigPath string
	snapshotDir            string
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Export and import ledger state checkpoints",
	Long: `Snapshots capture every account balance and stake record plus the
log sequence head, with a sha256 state hash that import verifies. Run
these against a stopped node; the commands open the database directly.`,
}

var snapshotExportCmd = &cobra.Command{
	Use:   "export [flags]",
	Short: "Write a state snapshot to a JSON file",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSnapshotExport(); err != nil {
			logx.Error("SNAPSHOT CLI", err)
		}
	},
}

var snapshotImportCmd = &cobra.Command{
	Use:   "import <snapshot-file> [flags]",
	Short: "Restore a state snapshot into an empty database",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSnapshotImport(args[0]); err != nil {
			logx.Error("SNAPSHOT CLI", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotExportCmd, snapshotImportCmd)

	snapshotCmd.PersistentFlags().StringVarP(&snapshotNodeConfigPath, "config", "c", "", "path to node.ini")
	snapshotExportCmd.Flags().StringVarP(&snapshotDir, "out", "o", "", "output directory (default <data_dir>/snapshots)")
}

func openStores(configPath string) (db.DatabaseProvider, store.AccountStore, store.TxLogStore, staking.StakeStore, error) {
	nodeCfg, err := loadNodeConfigOrDefault(configPath)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	provider, err := db.NewProvider(db.Backend(nodeCfg.DB.Backend), dbTargetFor(nodeCfg))
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("open db backend %q: %w", nodeCfg.DB.Backend, err)
	}
	accountStore, err := store.NewGenericAccountStore(provider)
	if err != nil {
		provider.Close()
		return nil, nil, nil, nil, err
	}
	txLog, err := store.NewGenericTxLogStore(provider)
	if err != nil {
		provider.Close()
		return nil, nil, nil, nil, err
	}
	stakeStore, err := staking.NewGenericStakeStore(provider)
	if err != nil {
		provider.Close()
		return nil, nil, nil, nil, err
	}
	return provider, accountStore, txLog, stakeStore, nil
}

func runSnapshotExport() error {
	provider, accountStore, txLog, stakeStore, err := openStores(snapshotNodeConfigPath)
	if err != nil {
		return err
	}
	defer provider.Close()

	accounts, err := accountStore.GetAll()
	if err != nil {
		return fmt.Errorf("read accounts: %w", err)
	}
	stakes, err := stakeStore.ListAll()
	if err != nil {
		return fmt.Errorf("read stakes: %w", err)
	}

	dir := snapshotDir
	if dir == "" {
		nodeCfg, err := loadNodeConfigOrDefault(snapshotNodeConfigPath)
		if err != nil {
			return err
		}
		dir = filepath.Join(nodeCfg.Server.DataDir, "snapshots")
	}

	path, err := snapshot.Export(dir, accounts, stakes, txLog.LatestSeq())
	if err != nil {
		return err
	}
	fmt.Printf("Snapshot written to %s (%d accounts, %d stakes, seq %d)\n", path, len(accounts), len(stakes), txLog.LatestSeq())
	return nil
}

func runSnapshotImport(path string) error {
	s, err := snapshot.Read(path)
	if err != nil {
		return err
	}

	provider, accountStore, txLog, stakeStore, err := openStores(snapshotNodeConfigPath)
	if err != nil {
		return err
	}
	defer provider.Close()

	if txLog.LatestSeq() > 0 {
		return fmt.Errorf("target database already has %d transactions; import requires an empty database", txLog.LatestSeq())
	}
	existing, err := accountStore.GetAll()
	if err != nil {
		return fmt.Errorf("inspect target database: %w", err)
	}
	if len(existing) > 0 {
		return fmt.Errorf("target database already has %d accounts; import requires an empty database", len(existing))
	}

	if err := snapshot.Restore(s, provider, accountStore, stakeStore); err != nil {
		return err
	}
	fmt.Printf("Snapshot restored: %d accounts, %d stakes, log continues at seq %d\n", len(s.Accounts), len(s.Stakes), s.Meta.LatestSeq)
	return nil
}

func dbTargetFor(nodeCfg *config.NodeConfig) string {
	if db.Backend(nodeCfg.DB.Backend) == db.BackendRedis {
		return nodeCfg.DB.RedisAddr
	}
	if nodeCfg.DB.Path != "" {
		return nodeCfg.DB.Path
	}
	return filepath.Join(nodeCfg.Server.DataDir, "db")
}
