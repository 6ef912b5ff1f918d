package client

// JSON-RPC method names exposed by the ledger node. Kept here so the client
// carries its own copy of the wire contract.
const (
	MethodLedgerTransfer   = "ledger.transfer"
	MethodLedgerMint       = "ledger.mint"
	MethodLedgerFeeSplit   = "ledger.feesplit"
	MethodLedgerGetBalance = "ledger.getbalance"
	MethodLedgerGetHistory = "ledger.gethistory"
	MethodLedgerGetTx      = "ledger.gettx"

	MethodStakingStake         = "staking.stake"
	MethodStakingClaim         = "staking.claim"
	MethodStakingWithdrawEarly = "staking.withdrawearly"
	MethodStakingGetStake      = "staking.getstake"
	MethodStakingListStakes    = "staking.liststakes"

	MethodFundingRequest = "funding.request"
	MethodHealthCheck    = "health.check"
)

type TransferRequest struct {
	Sender    string            `json:"sender"`
	Recipient string            `json:"recipient"`
	Currency  string            `json:"currency"`
	Amount    string            `json:"amount"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type MintRequest struct {
	Recipient string            `json:"recipient"`
	Currency  string            `json:"currency"`
	Amount    string            `json:"amount"`
	Reason    string            `json:"reason,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type FeeSplitRequest struct {
	Source   string            `json:"source"`
	Creator  string            `json:"creator"`
	Platform string            `json:"platform,omitempty"`
	Currency string            `json:"currency"`
	Amount   string            `json:"amount"`
	FeeBps   *uint32           `json:"fee_bps,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type StakeRequest struct {
	Address      string            `json:"address"`
	Amount       string            `json:"amount"`
	DurationDays uint32            `json:"duration_days"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

type Participant struct {
	Address   string `json:"address"`
	Currency  string `json:"currency"`
	Direction string `json:"direction"`
	Amount    string `json:"amount"`
}

type TxResult struct {
	TxID         string            `json:"tx_id"`
	Seq          uint64            `json:"seq"`
	Kind         string            `json:"kind"`
	Timestamp    uint64            `json:"timestamp"`
	Participants []Participant     `json:"participants"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

type FeeSplitResult struct {
	TxID        string `json:"tx_id"`
	Seq         uint64 `json:"seq"`
	Timestamp   uint64 `json:"timestamp"`
	Currency    string `json:"currency"`
	Gross       string `json:"gross"`
	FeeBps      uint32 `json:"fee_bps"`
	PlatformCut string `json:"platform_cut"`
	CreatorCut  string `json:"creator_cut"`
}

type BalanceEntry struct {
	Currency string `json:"currency"`
	Amount   string `json:"amount"`
	Decimals int32  `json:"decimals"`
}

type BalanceResult struct {
	Address  string         `json:"address"`
	Balances []BalanceEntry `json:"balances"`
}

type HistoryResult struct {
	Address string      `json:"address"`
	Total   uint32      `json:"total"`
	Txs     []*TxResult `json:"txs"`
}

type StakeInfo struct {
	StakeID       string `json:"stake_id"`
	Address       string `json:"address"`
	Currency      string `json:"currency"`
	Amount        string `json:"amount"`
	StartTime     uint64 `json:"start_time"`
	MaturityTime  uint64 `json:"maturity_time"`
	DurationDays  uint32 `json:"duration_days"`
	AnnualRateBps uint32 `json:"annual_rate_bps"`
	Status        string `json:"status"`
	Reward        string `json:"reward,omitempty"`
	Penalty       string `json:"penalty,omitempty"`
	FinalTxID     string `json:"final_tx_id,omitempty"`
}

type StakeResult struct {
	Stake *StakeInfo `json:"stake"`
	TxID  string     `json:"tx_id"`
	Seq   uint64     `json:"seq"`
}

type ListStakesResult struct {
	Address string       `json:"address"`
	Stakes  []*StakeInfo `json:"stakes"`
}

type FundingResult struct {
	TxID     string `json:"tx_id"`
	Seq      uint64 `json:"seq"`
	Currency string `json:"currency"`
	Amount   string `json:"amount"`
}

type HealthResult struct {
	Status    string `json:"status"`
	LatestSeq uint64 `json:"latest_seq"`
}
