package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ch0002ic/creatorcoin-ai/logx"
)

var (
	balanceAddress  string
	balanceCurrency string
	balanceNodeURL  string
)

// balanceCmd represents the balance command
var balanceCmd = &cobra.Command{
	Use:   "balance [flags]",
	Short: "Show account balances",
	Long: `Prints the balance of an account in every configured currency, or a
single currency with --currency. Unknown accounts read as zero.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runBalance(); err != nil {
			logx.Error("BALANCE CLI", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)

	balanceCmd.Flags().StringVar(&balanceAddress, "address", "", "account address")
	balanceCmd.Flags().StringVarP(&balanceCurrency, "currency", "c", "", "restrict to one currency")
	balanceCmd.Flags().StringVarP(&balanceNodeURL, "node-url", "u", "http://localhost:9000", "ledger node RPC URL")
}

func runBalance() error {
	c := newClient(balanceNodeURL)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := c.GetBalance(ctx, balanceAddress, balanceCurrency)
	if err != nil {
		return fmt.Errorf("balance lookup failed: %s", explainRPCError(err))
	}

	fmt.Printf("Account %s\n", res.Address)
	for _, entry := range res.Balances {
		fmt.Printf("  %-6s %s\n", entry.Currency, entry.Amount)
	}
	return nil
}
