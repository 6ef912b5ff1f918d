package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ch0002ic/creatorcoin-ai/logx"
)

var (
	historyAddress string
	historyLimit   uint32
	historyOffset  uint32
	historyNodeURL string
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history [flags]",
	Short: "List transactions touching an account",
	Long: `Prints the transactions an account participated in, oldest first,
with pagination via --limit and --offset.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runHistory(); err != nil {
			logx.Error("HISTORY CLI", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyAddress, "address", "", "account address")
	historyCmd.Flags().Uint32Var(&historyLimit, "limit", 20, "page size")
	historyCmd.Flags().Uint32Var(&historyOffset, "offset", 0, "page offset")
	historyCmd.Flags().StringVarP(&historyNodeURL, "node-url", "u", "http://localhost:9000", "ledger node RPC URL")
}

func runHistory() error {
	c := newClient(historyNodeURL)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := c.GetHistory(ctx, historyAddress, historyLimit, historyOffset)
	if err != nil {
		return fmt.Errorf("history lookup failed: %s", explainRPCError(err))
	}

	fmt.Printf("Account %s: %d transactions total, showing %d from offset %d\n",
		res.Address, res.Total, len(res.Txs), historyOffset)
	for _, tx := range res.Txs {
		when := time.Unix(int64(tx.Timestamp), 0).UTC().Format(time.RFC3339)
		fmt.Printf("  seq %-6d %-22s %s  %s\n", tx.Seq, tx.Kind, when, tx.TxID)
		for _, p := range tx.Participants {
			fmt.Printf("    %-2s %-6s %-14s %s\n", p.Direction, p.Currency, p.Amount, p.Address)
		}
	}
	return nil
}
