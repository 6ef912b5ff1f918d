package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ch0002ic/creatorcoin-ai/logx"
	"github.com/ch0002ic/creatorcoin-ai/service"
)

var (
	serveNodeConfigPath   string
	serveLedgerConfigPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the ledger node",
	Long: `Starts a ledger node serving JSON-RPC and REST over HTTP.

Node settings (listen addresses, db backend, logging) come from node.ini,
ledger settings (currencies, fees, stake tiers, genesis) from ledger.yml.
Missing files fall back to built-in defaults with an in-process leveldb.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(); err != nil {
			logx.Error("SERVE", "Node failed:", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveNodeConfigPath, "config", "c", "", "path to node.ini")
	serveCmd.Flags().StringVar(&serveLedgerConfigPath, "ledger-config", "", "path to ledger.yml")
}

func runServe() error {
	nodeCfg, err := loadNodeConfigOrDefault(serveNodeConfigPath)
	if err != nil {
		return err
	}
	ledgerCfg, err := loadLedgerConfigOrDefault(serveLedgerConfigPath)
	if err != nil {
		return err
	}

	node, err := service.NewNode(nodeCfg, ledgerCfg)
	if err != nil {
		return err
	}
	node.Start()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	received := <-sig
	logx.Info("SERVE", "Received", received.String(), "- shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	node.Stop(ctx)
	return nil
}
