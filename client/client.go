package client

import (
	"context"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/jhttp"

	"github.com/ch0002ic/creatorcoin-ai/errors"
	"github.com/ch0002ic/creatorcoin-ai/jsonx"
)

type Config struct {
	Endpoint string
}

// LedgerClient talks to a ledger node over its JSON-RPC HTTP endpoint
type LedgerClient struct {
	cfg Config
	ch  *jhttp.Channel
	rpc *jrpc2.Client
}

func NewClient(cfg Config) *LedgerClient {
	ch := jhttp.NewChannel(cfg.Endpoint, nil)
	return &LedgerClient{
		cfg: cfg,
		ch:  ch,
		rpc: jrpc2.NewClient(ch, nil),
	}
}

func (c *LedgerClient) CheckHealth(ctx context.Context) (*HealthResult, error) {
	var res HealthResult
	if err := c.rpc.CallResult(ctx, MethodHealthCheck, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *LedgerClient) Transfer(ctx context.Context, req TransferRequest) (*TxResult, error) {
	var res TxResult
	if err := c.rpc.CallResult(ctx, MethodLedgerTransfer, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *LedgerClient) Mint(ctx context.Context, req MintRequest) (*TxResult, error) {
	var res TxResult
	if err := c.rpc.CallResult(ctx, MethodLedgerMint, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *LedgerClient) FeeSplit(ctx context.Context, req FeeSplitRequest) (*FeeSplitResult, error) {
	var res FeeSplitResult
	if err := c.rpc.CallResult(ctx, MethodLedgerFeeSplit, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *LedgerClient) GetBalance(ctx context.Context, address, currency string) (*BalanceResult, error) {
	params := map[string]string{"address": address}
	if currency != "" {
		params["currency"] = currency
	}
	var res BalanceResult
	if err := c.rpc.CallResult(ctx, MethodLedgerGetBalance, params, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *LedgerClient) GetHistory(ctx context.Context, address string, limit, offset uint32) (*HistoryResult, error) {
	params := map[string]interface{}{"address": address, "limit": limit, "offset": offset}
	var res HistoryResult
	if err := c.rpc.CallResult(ctx, MethodLedgerGetHistory, params, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *LedgerClient) GetTx(ctx context.Context, txID string) (*TxResult, error) {
	var res TxResult
	if err := c.rpc.CallResult(ctx, MethodLedgerGetTx, map[string]string{"tx_id": txID}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *LedgerClient) Stake(ctx context.Context, req StakeRequest) (*StakeResult, error) {
	var res StakeResult
	if err := c.rpc.CallResult(ctx, MethodStakingStake, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *LedgerClient) Claim(ctx context.Context, stakeID string, metadata map[string]string) (*StakeResult, error) {
	params := map[string]interface{}{"stake_id": stakeID, "metadata": metadata}
	var res StakeResult
	if err := c.rpc.CallResult(ctx, MethodStakingClaim, params, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *LedgerClient) WithdrawEarly(ctx context.Context, stakeID string, metadata map[string]string) (*StakeResult, error) {
	params := map[string]interface{}{"stake_id": stakeID, "metadata": metadata}
	var res StakeResult
	if err := c.rpc.CallResult(ctx, MethodStakingWithdrawEarly, params, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *LedgerClient) GetStake(ctx context.Context, stakeID string) (*StakeInfo, error) {
	var res StakeInfo
	if err := c.rpc.CallResult(ctx, MethodStakingGetStake, map[string]string{"stake_id": stakeID}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *LedgerClient) ListStakes(ctx context.Context, address string) (*ListStakesResult, error) {
	var res ListStakesResult
	if err := c.rpc.CallResult(ctx, MethodStakingListStakes, map[string]string{"address": address}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *LedgerClient) RequestFunding(ctx context.Context, address string, metadata map[string]string) (*FundingResult, error) {
	params := map[string]interface{}{"address": address, "metadata": metadata}
	var res FundingResult
	if err := c.rpc.CallResult(ctx, MethodFundingRequest, params, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Close shuts down the underlying RPC client and HTTP channel
func (c *LedgerClient) Close() error {
	return c.rpc.Close()
}

// DecodeError extracts the ledger error carried in a JSON-RPC error's data
// payload. Returns nil when the error did not originate from the ledger.
func DecodeError(err error) *errors.LedgerError {
	rpcErr, ok := err.(*jrpc2.Error)
	if !ok || len(rpcErr.Data) == 0 {
		return nil
	}
	var ledgerErr errors.LedgerError
	if jsonx.Unmarshal(rpcErr.Data, &ledgerErr) != nil || ledgerErr.Code == "" {
		return nil
	}
	return &ledgerErr
}
