package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ch0002ic/creatorcoin-ai/client"
	"github.com/ch0002ic/creatorcoin-ai/config"
	"github.com/ch0002ic/creatorcoin-ai/logx"
)

type TransferConfig struct {
	From      string
	To        string
	Amount    string
	Currency  string
	RequestID string
	Meta      []string
	NodeURL   string
}

var transferConfig TransferConfig

// transferCmd represents the transfer command
var transferCmd = &cobra.Command{
	Use:   "transfer [flags]",
	Short: "Move value between two accounts",
	Long: `Sends an amount from one account to another in the given currency.
Amounts are human-readable decimals ("12.5", "1_000") and are converted
using the currency's configured decimals on the node side.

Examples:
  # Send 100 USDC
  ccledger transfer --from CCALICE... --to CCBOB... -a 100 -c USDC

  # Retry-safe transfer with an idempotency key
  ccledger transfer --from CCALICE... --to CCBOB... -a 5 -c CCOIN --request-id pay-2026-001`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runTransfer(transferConfig); err != nil {
			logx.Error("TRANSFER CLI", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(transferCmd)

	transferCmd.Flags().StringVar(&transferConfig.From, "from", "", "sender address")
	transferCmd.Flags().StringVarP(&transferConfig.To, "to", "t", "", "recipient address")
	transferCmd.Flags().StringVarP(&transferConfig.Amount, "amount", "a", "", "amount in major units")
	transferCmd.Flags().StringVarP(&transferConfig.Currency, "currency", "c", config.CurrencyCCOIN, "currency code")
	transferCmd.Flags().StringVar(&transferConfig.RequestID, "request-id", "", "idempotency key")
	transferCmd.Flags().StringArrayVar(&transferConfig.Meta, "meta", nil, "metadata entry key=value (repeatable)")
	transferCmd.Flags().StringVarP(&transferConfig.NodeURL, "node-url", "u", "http://localhost:9000", "ledger node RPC URL")
}

func runTransfer(cfg TransferConfig) error {
	meta, err := parseMetadata(cfg.Meta)
	if err != nil {
		return err
	}
	meta = withRequestID(meta, cfg.RequestID)

	c := newClient(cfg.NodeURL)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := c.Transfer(ctx, client.TransferRequest{
		Sender:    cfg.From,
		Recipient: cfg.To,
		Currency:  cfg.Currency,
		Amount:    cfg.Amount,
		Metadata:  meta,
	})
	if err != nil {
		return fmt.Errorf("transfer failed: %s", explainRPCError(err))
	}

	logx.Info("TRANSFER CLI", fmt.Sprintf("Applied tx %s (seq %d): %s %s from %s to %s",
		res.TxID, res.Seq, cfg.Amount, cfg.Currency, cfg.From, cfg.To))
	return nil
}
