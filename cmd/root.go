package cmd

import (
	"os"

	"github.com/ch0002ic/creatorcoin-ai/logx"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ccledger",
	Short: "CreatorCoin ledger node CLI",
	Long:  "Command line interface for running and managing a CreatorCoin account ledger node.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logx.Error("CMD", "Command execution failed:", err)
		os.Exit(1)
	}
}
