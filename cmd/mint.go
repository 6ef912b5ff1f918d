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

type MintConfig struct {
	To        string
	Amount    string
	Currency  string
	Reason    string
	RequestID string
	Meta      []string
	NodeURL   string
}

var mintConfig MintConfig

// mintCmd represents the mint command
var mintCmd = &cobra.Command{
	Use:   "mint [flags]",
	Short: "Create new supply of a mintable currency",
	Long: `Credits freshly minted units to the recipient. Only currencies
configured as mintable accept this; balances of non-mintable currencies
can only enter through genesis allocations.

Examples:
  # Mint 250 CCOIN as an engagement reward
  ccledger mint -t CCBOB... -a 250 --reason engagement_reward`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runMint(mintConfig); err != nil {
			logx.Error("MINT CLI", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(mintCmd)

	mintCmd.Flags().StringVarP(&mintConfig.To, "to", "t", "", "recipient address")
	mintCmd.Flags().StringVarP(&mintConfig.Amount, "amount", "a", "", "amount in major units")
	mintCmd.Flags().StringVarP(&mintConfig.Currency, "currency", "c", config.CurrencyCCOIN, "currency code")
	mintCmd.Flags().StringVar(&mintConfig.Reason, "reason", "", "mint reason recorded in metadata")
	mintCmd.Flags().StringVar(&mintConfig.RequestID, "request-id", "", "idempotency key")
	mintCmd.Flags().StringArrayVar(&mintConfig.Meta, "meta", nil, "metadata entry key=value (repeatable)")
	mintCmd.Flags().StringVarP(&mintConfig.NodeURL, "node-url", "u", "http://localhost:9000", "ledger node RPC URL")
}

func runMint(cfg MintConfig) error {
	meta, err := parseMetadata(cfg.Meta)
	if err != nil {
		return err
	}
	meta = withRequestID(meta, cfg.RequestID)

	c := newClient(cfg.NodeURL)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := c.Mint(ctx, client.MintRequest{
		Recipient: cfg.To,
		Currency:  cfg.Currency,
		Amount:    cfg.Amount,
		Reason:    cfg.Reason,
		Metadata:  meta,
	})
	if err != nil {
		return fmt.Errorf("mint failed: %s", explainRPCError(err))
	}

	logx.Info("MINT CLI", fmt.Sprintf("Applied tx %s (seq %d): minted %s %s to %s",
		res.TxID, res.Seq, cfg.Amount, cfg.Currency, cfg.To))
	return nil
}
