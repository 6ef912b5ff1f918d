package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ch0002ic/creatorcoin-ai/client"
	"github.com/ch0002ic/creatorcoin-ai/logx"
)

type StakeCLIConfig struct {
	Address      string
	Amount       string
	DurationDays uint32
	StakeID      string
	RequestID    string
	Meta         []string
	NodeURL      string
}

var stakeCLIConfig StakeCLIConfig

var stakeCmd = &cobra.Command{
	Use:   "stake",
	Short: "Manage CCOIN stakes",
	Long: `Create, finalize and inspect time-locked CCOIN stakes. Locked
principal leaves the spendable balance until maturity; claiming at or
after maturity pays principal plus the tiered reward, withdrawing early
returns principal minus the penalty.`,
}

var stakeCreateCmd = &cobra.Command{
	Use:   "create [flags]",
	Short: "Lock CCOIN for a fixed duration",
	Long: `Locks the given amount of CCOIN for a number of days. The annual
reward rate is fixed from the tier table at lock time.

Examples:
  # Stake 1000 CCOIN for 90 days
  ccledger stake create --address CCALICE... -a 1_000 -d 90`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runStakeCreate(stakeCLIConfig); err != nil {
			logx.Error("STAKE CLI", err)
		}
	},
}

var stakeClaimCmd = &cobra.Command{
	Use:   "claim <stake-id> [flags]",
	Short: "Claim a matured stake",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runStakeClaim(args[0], stakeCLIConfig); err != nil {
			logx.Error("STAKE CLI", err)
		}
	},
}

var stakeWithdrawCmd = &cobra.Command{
	Use:   "withdraw <stake-id> [flags]",
	Short: "Withdraw a stake before maturity, forfeiting the penalty",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runStakeWithdraw(args[0], stakeCLIConfig); err != nil {
			logx.Error("STAKE CLI", err)
		}
	},
}

var stakeListCmd = &cobra.Command{
	Use:   "list [flags]",
	Short: "List an account's stakes",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runStakeList(stakeCLIConfig); err != nil {
			logx.Error("STAKE CLI", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(stakeCmd)
	stakeCmd.AddCommand(stakeCreateCmd, stakeClaimCmd, stakeWithdrawCmd, stakeListCmd)

	stakeCmd.PersistentFlags().StringVarP(&stakeCLIConfig.NodeURL, "node-url", "u", "http://localhost:9000", "ledger node RPC URL")
	stakeCmd.PersistentFlags().StringVar(&stakeCLIConfig.RequestID, "request-id", "", "idempotency key")
	stakeCmd.PersistentFlags().StringArrayVar(&stakeCLIConfig.Meta, "meta", nil, "metadata entry key=value (repeatable)")

	stakeCreateCmd.Flags().StringVar(&stakeCLIConfig.Address, "address", "", "staking account address")
	stakeCreateCmd.Flags().StringVarP(&stakeCLIConfig.Amount, "amount", "a", "", "CCOIN amount in major units")
	stakeCreateCmd.Flags().Uint32VarP(&stakeCLIConfig.DurationDays, "days", "d", 30, "lock duration in days")

	stakeListCmd.Flags().StringVar(&stakeCLIConfig.Address, "address", "", "account address")
}

func runStakeCreate(cfg StakeCLIConfig) error {
	meta, err := parseMetadata(cfg.Meta)
	if err != nil {
		return err
	}
	meta = withRequestID(meta, cfg.RequestID)

	c := newClient(cfg.NodeURL)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := c.Stake(ctx, client.StakeRequest{
		Address:      cfg.Address,
		Amount:       cfg.Amount,
		DurationDays: cfg.DurationDays,
		Metadata:     meta,
	})
	if err != nil {
		return fmt.Errorf("stake create failed: %s", explainRPCError(err))
	}

	logx.Info("STAKE CLI", fmt.Sprintf("Stake %s opened: %s CCOIN for %d days at %d bps, matures %s (tx %s)",
		res.Stake.StakeID, res.Stake.Amount, res.Stake.DurationDays, res.Stake.AnnualRateBps,
		time.Unix(int64(res.Stake.MaturityTime), 0).UTC().Format(time.RFC3339), res.TxID))
	return nil
}

func runStakeClaim(stakeID string, cfg StakeCLIConfig) error {
	meta, err := parseMetadata(cfg.Meta)
	if err != nil {
		return err
	}
	meta = withRequestID(meta, cfg.RequestID)

	c := newClient(cfg.NodeURL)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := c.Claim(ctx, stakeID, meta)
	if err != nil {
		return fmt.Errorf("stake claim failed: %s", explainRPCError(err))
	}

	logx.Info("STAKE CLI", fmt.Sprintf("Stake %s claimed: principal %s + reward %s CCOIN (tx %s)",
		res.Stake.StakeID, res.Stake.Amount, res.Stake.Reward, res.TxID))
	return nil
}

func runStakeWithdraw(stakeID string, cfg StakeCLIConfig) error {
	meta, err := parseMetadata(cfg.Meta)
	if err != nil {
		return err
	}
	meta = withRequestID(meta, cfg.RequestID)

	c := newClient(cfg.NodeURL)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := c.WithdrawEarly(ctx, stakeID, meta)
	if err != nil {
		return fmt.Errorf("stake withdraw failed: %s", explainRPCError(err))
	}

	logx.Info("STAKE CLI", fmt.Sprintf("Stake %s withdrawn early: principal %s - penalty %s CCOIN (tx %s)",
		res.Stake.StakeID, res.Stake.Amount, res.Stake.Penalty, res.TxID))
	return nil
}

func runStakeList(cfg StakeCLIConfig) error {
	c := newClient(cfg.NodeURL)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := c.ListStakes(ctx, cfg.Address)
	if err != nil {
		return fmt.Errorf("stake list failed: %s", explainRPCError(err))
	}

	fmt.Printf("Account %s: %d stakes\n", res.Address, len(res.Stakes))
	for _, stake := range res.Stakes {
		matures := time.Unix(int64(stake.MaturityTime), 0).UTC().Format(time.RFC3339)
		fmt.Printf("  %s  %-16s %12s CCOIN  %3dd @ %4d bps  matures %s\n",
			stake.StakeID, stake.Status, stake.Amount, stake.DurationDays, stake.AnnualRateBps, matures)
	}
	return nil
}
