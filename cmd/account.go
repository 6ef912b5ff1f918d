package cmd

import (
	"crypto/rand"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/spf13/cobra"

	"github.com/ch0002ic/creatorcoin-ai/logx"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Account utilities",
}

var accountNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Generate a fresh account address",
	Long: `Generates a random base58 account address. Accounts do not need
registration; the address exists on the ledger the moment it first
receives value.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runAccountNew(); err != nil {
			logx.Error("ACCOUNT CLI", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.AddCommand(accountNewCmd)
}

func runAccountNew() error {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("could not gather entropy: %w", err)
	}
	fmt.Println(base58.Encode(raw))
	return nil
}
