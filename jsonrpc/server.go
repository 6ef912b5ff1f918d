package jsonrpc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/holiman/uint256"

	"github.com/ch0002ic/creatorcoin-ai/config"
	"github.com/ch0002ic/creatorcoin-ai/errors"
	"github.com/ch0002ic/creatorcoin-ai/exception"
	"github.com/ch0002ic/creatorcoin-ai/funding"
	"github.com/ch0002ic/creatorcoin-ai/jsonx"
	"github.com/ch0002ic/creatorcoin-ai/ledger"
	"github.com/ch0002ic/creatorcoin-ai/logx"
	"github.com/ch0002ic/creatorcoin-ai/monitoring"
	"github.com/ch0002ic/creatorcoin-ai/ratelimit"
	"github.com/ch0002ic/creatorcoin-ai/security/validation"
	"github.com/ch0002ic/creatorcoin-ai/staking"
	"github.com/ch0002ic/creatorcoin-ai/transaction"
	"github.com/ch0002ic/creatorcoin-ai/utils"
)

// --- Error type used by handlers ---

type rpcError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Numeric JSON-RPC codes per ledger error code. The string code travels in
// the error data so clients can switch on it without parsing messages.
var rpcCodes = map[errors.LedgerErrorCode]int{
	errors.ErrCodeInternal:            -32000,
	errors.ErrCodeInvalidRequest:      -32001,
	errors.ErrCodeInvalidAddress:      -32002,
	errors.ErrCodeInvalidAmount:       -32003,
	errors.ErrCodeInvalidMetadata:     -32004,
	errors.ErrCodeInsufficientFunds:   -32010,
	errors.ErrCodeInvalidOperation:    -32011,
	errors.ErrCodeUnsupportedCurrency: -32012,
	errors.ErrCodeAlreadyFinalized:    -32013,
	errors.ErrCodeNotFound:            -32014,
	errors.ErrCodeRateLimited:         -32020,
	errors.ErrCodeCooldownActive:      -32021,
}

func asRPCError(err error) *rpcError {
	if err == nil {
		return nil
	}
	if ledgerErr, ok := err.(*errors.LedgerError); ok {
		code, found := rpcCodes[ledgerErr.Code]
		if !found {
			code = rpcCodes[errors.ErrCodeInternal]
		}
		return &rpcError{Code: code, Message: ledgerErr.Message, Data: ledgerErr}
	}
	return &rpcError{Code: rpcCodes[errors.ErrCodeInternal], Message: err.Error()}
}

func toJRPC2Error(e *rpcError) error {
	if e == nil {
		return nil
	}
	if e.Data != nil {
		return jrpc2.Errorf(jrpc2.Code(e.Code), "%s", e.Message).WithData(e.Data)
	}
	return jrpc2.Errorf(jrpc2.Code(e.Code), "%s", e.Message)
}

// --- Params/Results ---

// Ledger
type transferParams struct {
	Sender    string            `json:"sender"`
	Recipient string            `json:"recipient"`
	Currency  string            `json:"currency"`
	Amount    string            `json:"amount"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type mintParams struct {
	Recipient string            `json:"recipient"`
	Currency  string            `json:"currency"`
	Amount    string            `json:"amount"`
	Reason    string            `json:"reason,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type feeSplitParams struct {
	Source   string            `json:"source"`
	Creator  string            `json:"creator"`
	Platform string            `json:"platform,omitempty"`
	Currency string            `json:"currency"`
	Amount   string            `json:"amount"`
	FeeBps   *uint32           `json:"fee_bps,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type participantInfo struct {
	Address   string `json:"address"`
	Currency  string `json:"currency"`
	Direction string `json:"direction"`
	Amount    string `json:"amount"`
}

type txResult struct {
	TxID         string            `json:"tx_id"`
	Seq          uint64            `json:"seq"`
	Kind         string            `json:"kind"`
	Timestamp    uint64            `json:"timestamp"`
	Participants []participantInfo `json:"participants"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

type feeSplitResult struct {
	TxID        string `json:"tx_id"`
	Seq         uint64 `json:"seq"`
	Timestamp   uint64 `json:"timestamp"`
	Currency    string `json:"currency"`
	Gross       string `json:"gross"`
	FeeBps      uint32 `json:"fee_bps"`
	PlatformCut string `json:"platform_cut"`
	CreatorCut  string `json:"creator_cut"`
}

type getBalanceParams struct {
	Address  string `json:"address"`
	Currency string `json:"currency,omitempty"`
}

type balanceEntry struct {
	Currency string `json:"currency"`
	Amount   string `json:"amount"`
	Decimals int32  `json:"decimals"`
}

type getBalanceResult struct {
	Address  string         `json:"address"`
	Balances []balanceEntry `json:"balances"`
}

type getHistoryParams struct {
	Address string `json:"address"`
	Limit   uint32 `json:"limit,omitempty"`
	Offset  uint32 `json:"offset,omitempty"`
}

type getHistoryResult struct {
	Address string      `json:"address"`
	Total   uint32      `json:"total"`
	Txs     []*txResult `json:"txs"`
}

type getTxParams struct {
	TxID string `json:"tx_id"`
}

// Staking
type stakeParams struct {
	Address      string            `json:"address"`
	Amount       string            `json:"amount"`
	DurationDays uint32            `json:"duration_days"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

type stakeActionParams struct {
	StakeID  string            `json:"stake_id"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type getStakeParams struct {
	StakeID string `json:"stake_id"`
}

type listStakesParams struct {
	Address string `json:"address"`
}

type stakeInfo struct {
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

type stakeResult struct {
	Stake *stakeInfo `json:"stake"`
	TxID  string     `json:"tx_id"`
	Seq   uint64     `json:"seq"`
}

type listStakesResult struct {
	Address string       `json:"address"`
	Stakes  []*stakeInfo `json:"stakes"`
}

// Funding
type fundingRequestParams struct {
	Address  string            `json:"address"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type fundingResult struct {
	TxID     string `json:"tx_id"`
	Seq      uint64 `json:"seq"`
	Currency string `json:"currency"`
	Amount   string `json:"amount"`
}

// Health
type healthResult struct {
	Status    string `json:"status"`
	LatestSeq uint64 `json:"latest_seq"`
}

// --- Server ---

type Server struct {
	addr       string
	cfg        *config.LedgerConfig
	engine     *ledger.Engine
	tracker    *staking.StakeTracker
	funding    *funding.Service
	limiter    *ratelimit.GlobalRateLimiter
	corsConfig CORSConfig
	httpSrv    *http.Server
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int
}

func NewServer(addr string, engine *ledger.Engine, tracker *staking.StakeTracker, fundingSvc *funding.Service, limiter *ratelimit.GlobalRateLimiter) *Server {
	return &Server{
		addr:    addr,
		cfg:     engine.Config(),
		engine:  engine,
		tracker: tracker,
		funding: fundingSvc,
		limiter: limiter,
		corsConfig: CORSConfig{
			AllowedOrigins: []string{},
			AllowedMethods: []string{},
			AllowedHeaders: []string{},
			MaxAge:         0,
		},
	}
}

// SetCORSConfig allows configuring CORS settings
func (s *Server) SetCORSConfig(config CORSConfig) {
	s.corsConfig = config
}

// Handler returns the full HTTP handler: the jrpc2 bridge wrapped with
// CORS, body limits and rate limiting.
func (s *Server) Handler() http.Handler {
	methods := s.buildMethodMap()
	jh := jhttp.NewBridge(methods, &jhttp.BridgeOptions{Server: &jrpc2.ServerOptions{}})
	return s.wrapHTTP(jh)
}

func (s *Server) Start() {
	s.httpSrv = &http.Server{Addr: s.addr, Handler: s.Handler()}
	exception.SafeGoWithPanic("jsonrpc-server", func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Error("JSONRPC", "Server stopped", err)
		}
	})
	logx.Info("JSONRPC", fmt.Sprintf("JSON-RPC server listening on %s", s.addr))
}

func (s *Server) Stop(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// wrapHTTP applies CORS, body size limits and rate limiting in front of the
// jrpc2 bridge, and records request durations per method.
func (s *Server) wrapHTTP(jh http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.setCORSHeaders(w, r)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, validation.DefaultRequestBodyLimit+1))
		r.Body.Close()
		if err != nil {
			http.Error(w, "cannot read request body", http.StatusBadRequest)
			return
		}
		if len(body) > validation.DefaultRequestBodyLimit {
			http.Error(w, fmt.Sprintf(errors.ErrMsgRequestBodyTooLarge, validation.DefaultRequestBodyLimit), http.StatusRequestEntityTooLarge)
			return
		}

		req := parseJSONRPCRequest(body)
		clientIP := extractClientIPFromRequest(r)
		if s.limiter != nil && !s.limiter.AllowAll(clientIP, accountKeyOf(req)) {
			writeRateLimited(w, req)
			return
		}

		start := time.Now()
		r.Body = io.NopCloser(bytes.NewReader(body))
		jh.ServeHTTP(w, r)
		monitoring.ObserveRequestDuration(routeLabel(req), time.Since(start))
	})
}

func writeRateLimited(w http.ResponseWriter, req *jsonRPCRequest) {
	var id interface{}
	if req != nil {
		id = req.ID
	}
	resp := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"error": rpcError{
			Code:    rpcCodes[errors.ErrCodeRateLimited],
			Message: errors.ErrMsgRateLimited,
			Data:    errors.NewError(errors.ErrCodeRateLimited, errors.ErrMsgRateLimited),
		},
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	if err := jsonx.NewEncoder(w).Encode(resp); err != nil {
		logx.Error("JSONRPC", "Failed to write rate limit response", err)
	}
}

func (s *Server) setCORSHeaders(w http.ResponseWriter, r *http.Request) {
	if len(s.corsConfig.AllowedOrigins) > 0 {
		if s.corsConfig.AllowedOrigins[0] == "*" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			origin := r.Header.Get("Origin")
			for _, allowedOrigin := range s.corsConfig.AllowedOrigins {
				if origin == allowedOrigin {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
	}
	if len(s.corsConfig.AllowedMethods) > 0 {
		w.Header().Set("Access-Control-Allow-Methods", strings.Join(s.corsConfig.AllowedMethods, ", "))
	}
	if len(s.corsConfig.AllowedHeaders) > 0 {
		w.Header().Set("Access-Control-Allow-Headers", strings.Join(s.corsConfig.AllowedHeaders, ", "))
	}
	if s.corsConfig.MaxAge > 0 {
		w.Header().Set("Access-Control-Max-Age", fmt.Sprintf("%d", s.corsConfig.MaxAge))
	}
}

// Build jrpc2 method map
func (s *Server) buildMethodMap() handler.Map {
	return handler.Map{
		MethodLedgerTransfer: handler.New(func(ctx context.Context, p transferParams) (*txResult, error) {
			res, err := s.rpcTransfer(p)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res.(*txResult), nil
		}),
		MethodLedgerMint: handler.New(func(ctx context.Context, p mintParams) (*txResult, error) {
			res, err := s.rpcMint(p)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res.(*txResult), nil
		}),
		MethodLedgerFeeSplit: handler.New(func(ctx context.Context, p feeSplitParams) (*feeSplitResult, error) {
			res, err := s.rpcFeeSplit(p)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res.(*feeSplitResult), nil
		}),
		MethodLedgerGetBalance: handler.New(func(ctx context.Context, p getBalanceParams) (*getBalanceResult, error) {
			res, err := s.rpcGetBalance(p)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res.(*getBalanceResult), nil
		}),
		MethodLedgerGetHistory: handler.New(func(ctx context.Context, p getHistoryParams) (*getHistoryResult, error) {
			res, err := s.rpcGetHistory(p)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res.(*getHistoryResult), nil
		}),
		MethodLedgerGetTx: handler.New(func(ctx context.Context, p getTxParams) (*txResult, error) {
			res, err := s.rpcGetTx(p)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res.(*txResult), nil
		}),
		MethodStakingStake: handler.New(func(ctx context.Context, p stakeParams) (*stakeResult, error) {
			res, err := s.rpcStake(p)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res.(*stakeResult), nil
		}),
		MethodStakingClaim: handler.New(func(ctx context.Context, p stakeActionParams) (*stakeResult, error) {
			res, err := s.rpcClaim(p)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res.(*stakeResult), nil
		}),
		MethodStakingWithdrawEarly: handler.New(func(ctx context.Context, p stakeActionParams) (*stakeResult, error) {
			res, err := s.rpcWithdrawEarly(p)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res.(*stakeResult), nil
		}),
		MethodStakingGetStake: handler.New(func(ctx context.Context, p getStakeParams) (*stakeInfo, error) {
			res, err := s.rpcGetStake(p)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res.(*stakeInfo), nil
		}),
		MethodStakingListStakes: handler.New(func(ctx context.Context, p listStakesParams) (*listStakesResult, error) {
			res, err := s.rpcListStakes(p)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res.(*listStakesResult), nil
		}),
		MethodFundingRequest: handler.New(func(ctx context.Context, p fundingRequestParams) (*fundingResult, error) {
			res, err := s.rpcFundingRequest(p)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res.(*fundingResult), nil
		}),
		MethodHealthCheck: handler.New(func(ctx context.Context) (*healthResult, error) {
			return &healthResult{Status: "ok", LatestSeq: s.engine.LatestSeq()}, nil
		}),
	}
}

// --- RPC method implementations ---

func (s *Server) rpcTransfer(p transferParams) (interface{}, *rpcError) {
	if err := s.checkAddresses(p.Sender, p.Recipient); err != nil {
		return nil, asRPCError(err)
	}
	if err := validation.ValidateMetadata(p.Metadata); err != nil {
		return nil, asRPCError(err)
	}
	amount, err := s.parseAmount(p.Currency, p.Amount)
	if err != nil {
		return nil, asRPCError(err)
	}
	tx, err := s.engine.Transfer(p.Sender, p.Recipient, p.Currency, amount, p.Metadata)
	if err != nil {
		return nil, asRPCError(err)
	}
	return s.txResultOf(tx), nil
}

func (s *Server) rpcMint(p mintParams) (interface{}, *rpcError) {
	if err := s.checkAddresses(p.Recipient); err != nil {
		return nil, asRPCError(err)
	}
	if err := validation.ValidateMetadata(p.Metadata); err != nil {
		return nil, asRPCError(err)
	}
	if err := validation.ValidateShortTextLength(validation.ReasonField, p.Reason); err != nil {
		return nil, asRPCError(err)
	}
	amount, err := s.parseAmount(p.Currency, p.Amount)
	if err != nil {
		return nil, asRPCError(err)
	}
	tx, err := s.engine.Mint(p.Recipient, p.Currency, amount, p.Reason, p.Metadata)
	if err != nil {
		return nil, asRPCError(err)
	}
	return s.txResultOf(tx), nil
}

func (s *Server) rpcFeeSplit(p feeSplitParams) (interface{}, *rpcError) {
	platform := p.Platform
	if platform == "" {
		platform = s.cfg.PlatformAddress
	}
	feeBps := s.cfg.PlatformFeeBps
	if p.FeeBps != nil {
		feeBps = *p.FeeBps
	}
	if err := s.checkAddresses(p.Source, p.Creator, platform); err != nil {
		return nil, asRPCError(err)
	}
	if err := validation.ValidateMetadata(p.Metadata); err != nil {
		return nil, asRPCError(err)
	}
	gross, err := s.parseAmount(p.Currency, p.Amount)
	if err != nil {
		return nil, asRPCError(err)
	}
	tx, err := s.engine.FeeSplit(p.Source, p.Creator, platform, p.Currency, gross, feeBps, p.Metadata)
	if err != nil {
		return nil, asRPCError(err)
	}

	res := &feeSplitResult{
		TxID:      tx.TxID,
		Seq:       tx.Seq,
		Timestamp: uint64(tx.Timestamp.Unix()),
		Currency:  tx.Participants[0].Currency,
		Gross:     s.displayAmount(tx.Participants[0].Currency, tx.Participants[0].Amount),
		FeeBps:    feeBps,
	}
	// Participant order is fixed: source debit, creator credit, platform credit.
	res.CreatorCut = s.displayAmount(tx.Participants[1].Currency, tx.Participants[1].Amount)
	res.PlatformCut = s.displayAmount(tx.Participants[2].Currency, tx.Participants[2].Amount)
	return res, nil
}

func (s *Server) rpcGetBalance(p getBalanceParams) (interface{}, *rpcError) {
	if err := s.checkAddresses(p.Address); err != nil {
		return nil, asRPCError(err)
	}
	res := &getBalanceResult{Address: p.Address, Balances: []balanceEntry{}}

	if p.Currency != "" {
		cur, ok := s.cfg.Currency(p.Currency)
		if !ok {
			return nil, asRPCError(errors.NewError(errors.ErrCodeUnsupportedCurrency, errors.ErrMsgUnsupportedCurrency))
		}
		balance, err := s.engine.Balance(p.Address, cur.Code)
		if err != nil {
			return nil, asRPCError(err)
		}
		res.Balances = append(res.Balances, balanceEntry{Currency: cur.Code, Amount: utils.FromBaseUnit(balance, cur.Decimals), Decimals: cur.Decimals})
		return res, nil
	}

	balances, err := s.engine.Balances(p.Address)
	if err != nil {
		return nil, asRPCError(err)
	}
	for _, cur := range s.cfg.Currencies {
		res.Balances = append(res.Balances, balanceEntry{Currency: cur.Code, Amount: utils.FromBaseUnit(balances[cur.Code], cur.Decimals), Decimals: cur.Decimals})
	}
	return res, nil
}

func (s *Server) rpcGetHistory(p getHistoryParams) (interface{}, *rpcError) {
	if err := s.checkAddresses(p.Address); err != nil {
		return nil, asRPCError(err)
	}
	total, txs, err := s.engine.GetHistory(p.Address, p.Limit, p.Offset)
	if err != nil {
		return nil, asRPCError(err)
	}
	res := &getHistoryResult{Address: p.Address, Total: total, Txs: make([]*txResult, 0, len(txs))}
	for _, tx := range txs {
		res.Txs = append(res.Txs, s.txResultOf(tx))
	}
	return res, nil
}

func (s *Server) rpcGetTx(p getTxParams) (interface{}, *rpcError) {
	if p.TxID == "" {
		return nil, asRPCError(errors.NewError(errors.ErrCodeInvalidRequest, errors.ErrMsgInvalidRequest))
	}
	tx, err := s.engine.GetTxByID(p.TxID)
	if err != nil {
		return nil, asRPCError(err)
	}
	return s.txResultOf(tx), nil
}

func (s *Server) rpcStake(p stakeParams) (interface{}, *rpcError) {
	if err := s.checkAddresses(p.Address); err != nil {
		return nil, asRPCError(err)
	}
	if err := validation.ValidateMetadata(p.Metadata); err != nil {
		return nil, asRPCError(err)
	}
	amount, err := s.parseAmount(config.CurrencyCCOIN, p.Amount)
	if err != nil {
		return nil, asRPCError(err)
	}
	record, tx, err := s.tracker.Stake(p.Address, amount, p.DurationDays, p.Metadata)
	if err != nil {
		return nil, asRPCError(err)
	}
	return &stakeResult{Stake: s.stakeInfoOf(record), TxID: tx.TxID, Seq: tx.Seq}, nil
}

func (s *Server) rpcClaim(p stakeActionParams) (interface{}, *rpcError) {
	if err := validation.ValidateMetadata(p.Metadata); err != nil {
		return nil, asRPCError(err)
	}
	record, tx, err := s.tracker.Claim(p.StakeID, p.Metadata)
	if err != nil {
		return nil, asRPCError(err)
	}
	return &stakeResult{Stake: s.stakeInfoOf(record), TxID: tx.TxID, Seq: tx.Seq}, nil
}

func (s *Server) rpcWithdrawEarly(p stakeActionParams) (interface{}, *rpcError) {
	if err := validation.ValidateMetadata(p.Metadata); err != nil {
		return nil, asRPCError(err)
	}
	record, tx, err := s.tracker.WithdrawEarly(p.StakeID, p.Metadata)
	if err != nil {
		return nil, asRPCError(err)
	}
	return &stakeResult{Stake: s.stakeInfoOf(record), TxID: tx.TxID, Seq: tx.Seq}, nil
}

func (s *Server) rpcGetStake(p getStakeParams) (interface{}, *rpcError) {
	record, err := s.tracker.Get(p.StakeID)
	if err != nil {
		return nil, asRPCError(err)
	}
	return s.stakeInfoOf(record), nil
}

func (s *Server) rpcListStakes(p listStakesParams) (interface{}, *rpcError) {
	if err := s.checkAddresses(p.Address); err != nil {
		return nil, asRPCError(err)
	}
	records, err := s.tracker.ListByAccount(p.Address)
	if err != nil {
		return nil, asRPCError(err)
	}
	res := &listStakesResult{Address: p.Address, Stakes: make([]*stakeInfo, 0, len(records))}
	for _, record := range records {
		res.Stakes = append(res.Stakes, s.stakeInfoOf(record))
	}
	return res, nil
}

func (s *Server) rpcFundingRequest(p fundingRequestParams) (interface{}, *rpcError) {
	if err := s.checkAddresses(p.Address); err != nil {
		return nil, asRPCError(err)
	}
	if err := validation.ValidateMetadata(p.Metadata); err != nil {
		return nil, asRPCError(err)
	}
	tx, err := s.funding.Request(p.Address, p.Metadata)
	if err != nil {
		return nil, asRPCError(err)
	}
	currency := s.cfg.Funding.Currency
	return &fundingResult{
		TxID:     tx.TxID,
		Seq:      tx.Seq,
		Currency: currency,
		Amount:   s.displayAmount(currency, tx.Participants[0].Amount),
	}, nil
}

// --- Helpers ---

func (s *Server) checkAddresses(addrs ...string) error {
	for _, addr := range addrs {
		if !validation.ValidateAddress(addr) {
			return errors.NewError(errors.ErrCodeInvalidAddress, errors.ErrMsgInvalidAddress)
		}
	}
	return nil
}

func (s *Server) parseAmount(currency, amount string) (*uint256.Int, error) {
	cur, ok := s.cfg.Currency(currency)
	if !ok {
		return nil, errors.NewError(errors.ErrCodeUnsupportedCurrency, errors.ErrMsgUnsupportedCurrency)
	}
	value, err := utils.ToBaseUnit(amount, cur.Decimals)
	if err != nil {
		return nil, errors.NewError(errors.ErrCodeInvalidAmount, fmt.Sprintf("Amount %q is not a valid %s amount", amount, cur.Code))
	}
	return value, nil
}

func (s *Server) displayAmount(currency string, amount *uint256.Int) string {
	if cur, ok := s.cfg.Currency(currency); ok {
		return utils.FromBaseUnit(amount, cur.Decimals)
	}
	if amount == nil {
		return "0"
	}
	return amount.Dec()
}

func (s *Server) txResultOf(tx *transaction.Transaction) *txResult {
	res := &txResult{
		TxID:         tx.TxID,
		Seq:          tx.Seq,
		Kind:         string(tx.Kind),
		Timestamp:    uint64(tx.Timestamp.Unix()),
		Participants: make([]participantInfo, 0, len(tx.Participants)),
		Metadata:     tx.Metadata,
	}
	for _, p := range tx.Participants {
		res.Participants = append(res.Participants, participantInfo{
			Address:   p.Address,
			Currency:  p.Currency,
			Direction: string(p.Direction),
			Amount:    s.displayAmount(p.Currency, p.Amount),
		})
	}
	return res
}

func (s *Server) stakeInfoOf(record *staking.StakeRecord) *stakeInfo {
	ccoin, _ := s.cfg.Currency(config.CurrencyCCOIN)
	info := &stakeInfo{
		StakeID:       record.StakeID,
		Address:       record.Address,
		Currency:      ccoin.Code,
		Amount:        utils.FromBaseUnit(record.Amount, ccoin.Decimals),
		StartTime:     uint64(record.StartTime.Unix()),
		MaturityTime:  uint64(record.MaturityTime.Unix()),
		DurationDays:  record.DurationDays,
		AnnualRateBps: record.AnnualRateBps,
		Status:        string(record.Status),
		FinalTxID:     record.FinalTxID,
	}
	if record.Reward != nil {
		info.Reward = utils.FromBaseUnit(record.Reward, ccoin.Decimals)
	}
	if record.Penalty != nil {
		info.Penalty = utils.FromBaseUnit(record.Penalty, ccoin.Decimals)
	}
	return info
}
