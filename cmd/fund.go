package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ch0002ic/creatorcoin-ai/logx"
)

var (
	fundRequestID string
	fundMeta      []string
	fundNodeURL   string
)

// fundCmd represents the fund command
var fundCmd = &cobra.Command{
	Use:   "fund <address> [flags]",
	Short: "Request development funding for an account",
	Long: `Asks the node's funding service to grant the configured CCOIN amount
to the given address. Each address can be funded once per cooldown window;
the node rejects requests inside the window with cooldown_active.

Examples:
  ccledger fund CCALICE...`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runFund(args[0]); err != nil {
			logx.Error("FUND CLI", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(fundCmd)

	fundCmd.Flags().StringVar(&fundRequestID, "request-id", "", "idempotency key")
	fundCmd.Flags().StringArrayVar(&fundMeta, "meta", nil, "metadata entry key=value (repeatable)")
	fundCmd.Flags().StringVarP(&fundNodeURL, "node-url", "u", "http://localhost:9000", "ledger node RPC URL")
}

func runFund(address string) error {
	meta, err := parseMetadata(fundMeta)
	if err != nil {
		return err
	}
	meta = withRequestID(meta, fundRequestID)

	c := newClient(fundNodeURL)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := c.RequestFunding(ctx, address, meta)
	if err != nil {
		return fmt.Errorf("funding request failed: %s", explainRPCError(err))
	}

	logx.Info("FUND CLI", fmt.Sprintf("Granted %s %s to %s (tx %s, seq %d)",
		res.Amount, res.Currency, address, res.TxID, res.Seq))
	return nil
}
