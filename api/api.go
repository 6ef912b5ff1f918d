package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	_ "net/http/pprof"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
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

// Server is the REST surface. Writes go through the same engine and tracker
// as the JSON-RPC surface; this layer only shapes requests and responses.
type Server struct {
	addr           string
	cfg            *config.LedgerConfig
	engine         *ledger.Engine
	tracker        *staking.StakeTracker
	funding        *funding.Service
	limiter        *ratelimit.GlobalRateLimiter
	allowedOrigins []string
	httpSrv        *http.Server
}

func NewServer(addr string, engine *ledger.Engine, tracker *staking.StakeTracker, fundingSvc *funding.Service, limiter *ratelimit.GlobalRateLimiter, allowedOrigins []string) *Server {
	return &Server{
		addr:           addr,
		cfg:            engine.Config(),
		engine:         engine,
		tracker:        tracker,
		funding:        fundingSvc,
		limiter:        limiter,
		allowedOrigins: allowedOrigins,
	}
}

// Handler wraps the route table with CORS handling. CORS sits outside the
// router so preflight requests are answered even for method-bound routes.
func (s *Server) Handler() http.Handler {
	router := s.Router()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.setCORSHeaders(w, r)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		router.ServeHTTP(w, r)
	})
}

// Router builds the full route table
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.rateLimitMiddleware, s.metricsMiddleware)

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/accounts/{address}/balance", s.handleGetBalance).Methods(http.MethodGet)
	v1.HandleFunc("/accounts/{address}/history", s.handleGetHistory).Methods(http.MethodGet)
	v1.HandleFunc("/accounts/{address}/stakes", s.handleListStakes).Methods(http.MethodGet)
	v1.HandleFunc("/stakes", s.handleCreateStake).Methods(http.MethodPost)
	v1.HandleFunc("/stakes/{id}", s.handleGetStake).Methods(http.MethodGet)
	v1.HandleFunc("/stakes/{id}/claim", s.handleClaimStake).Methods(http.MethodPost)
	v1.HandleFunc("/stakes/{id}/withdraw-early", s.handleWithdrawEarly).Methods(http.MethodPost)
	v1.HandleFunc("/funding/requests", s.handleFundingRequest).Methods(http.MethodPost)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", monitoring.Handler()).Methods(http.MethodGet)
	// pprof registers itself on the default mux
	r.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)
	return r
}

func (s *Server) Start() {
	s.httpSrv = &http.Server{Addr: s.addr, Handler: s.Handler()}
	exception.SafeGoWithPanic("rest-server", func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Error("API", "Server stopped", err)
		}
	})
	logx.Info("API", fmt.Sprintf("REST server listening on %s", s.addr))
}

func (s *Server) Stop(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// --- Middleware ---

func (s *Server) setCORSHeaders(w http.ResponseWriter, r *http.Request) {
	if len(s.allowedOrigins) == 0 {
		return
	}
	if s.allowedOrigins[0] == "*" {
		w.Header().Set("Access-Control-Allow-Origin", "*")
	} else {
		origin := r.Header.Get("Origin")
		for _, allowed := range s.allowedOrigins {
			if origin == allowed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				break
			}
		}
	}
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.AllowAll(clientIP(r), "") {
			writeError(w, errors.NewError(errors.ErrCodeRateLimited, errors.ErrMsgRateLimited))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		route := "unknown"
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		monitoring.ObserveRequestDuration(route, time.Since(start))
	})
}

// --- Request/response shapes ---

type balanceView struct {
	Currency string `json:"currency"`
	Amount   string `json:"amount"`
	Decimals int32  `json:"decimals"`
}

type balancesResponse struct {
	Address  string        `json:"address"`
	Balances []balanceView `json:"balances"`
}

type participantView struct {
	Address   string `json:"address"`
	Currency  string `json:"currency"`
	Direction string `json:"direction"`
	Amount    string `json:"amount"`
}

type txView struct {
	TxID         string            `json:"tx_id"`
	Seq          uint64            `json:"seq"`
	Kind         string            `json:"kind"`
	Timestamp    time.Time         `json:"timestamp"`
	Participants []participantView `json:"participants"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

type historyResponse struct {
	Address string    `json:"address"`
	Total   uint32    `json:"total"`
	Limit   uint32    `json:"limit"`
	Offset  uint32    `json:"offset"`
	Txs     []*txView `json:"txs"`
}

type createStakeRequest struct {
	Address      string            `json:"address"`
	Amount       string            `json:"amount"`
	DurationDays uint32            `json:"duration_days"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

type stakeActionRequest struct {
	Metadata map[string]string `json:"metadata,omitempty"`
}

type stakeView struct {
	StakeID       string     `json:"stake_id"`
	Address       string     `json:"address"`
	Currency      string     `json:"currency"`
	Amount        string     `json:"amount"`
	StartTime     time.Time  `json:"start_time"`
	MaturityTime  time.Time  `json:"maturity_time"`
	DurationDays  uint32     `json:"duration_days"`
	AnnualRateBps uint32     `json:"annual_rate_bps"`
	Status        string     `json:"status"`
	Reward        string     `json:"reward,omitempty"`
	Penalty       string     `json:"penalty,omitempty"`
	FinalTxID     string     `json:"final_tx_id,omitempty"`
	FinalizedAt   *time.Time `json:"finalized_at,omitempty"`
}

type stakeResponse struct {
	Stake *stakeView `json:"stake"`
	TxID  string     `json:"tx_id,omitempty"`
	Seq   uint64     `json:"seq,omitempty"`
}

type listStakesResponse struct {
	Address string       `json:"address"`
	Stakes  []*stakeView `json:"stakes"`
}

type fundingRequest struct {
	Address  string            `json:"address"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type fundingResponse struct {
	TxID     string `json:"tx_id"`
	Seq      uint64 `json:"seq"`
	Currency string `json:"currency"`
	Amount   string `json:"amount"`
}

type healthResponse struct {
	Status    string `json:"status"`
	LatestSeq uint64 `json:"latest_seq"`
}

type errorResponse struct {
	Error *errors.LedgerError `json:"error"`
}

// --- Handlers ---

func (s *Server) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	addr := mux.Vars(r)["address"]
	if !validation.ValidateAddress(addr) {
		writeError(w, errors.NewError(errors.ErrCodeInvalidAddress, errors.ErrMsgInvalidAddress))
		return
	}

	resp := &balancesResponse{Address: addr, Balances: []balanceView{}}
	if code := r.URL.Query().Get("currency"); code != "" {
		cur, ok := s.cfg.Currency(code)
		if !ok {
			writeError(w, errors.NewError(errors.ErrCodeUnsupportedCurrency, errors.ErrMsgUnsupportedCurrency))
			return
		}
		balance, err := s.engine.Balance(addr, cur.Code)
		if err != nil {
			writeError(w, err)
			return
		}
		resp.Balances = append(resp.Balances, balanceView{Currency: cur.Code, Amount: utils.FromBaseUnit(balance, cur.Decimals), Decimals: cur.Decimals})
		writeJSON(w, http.StatusOK, resp)
		return
	}

	balances, err := s.engine.Balances(addr)
	if err != nil {
		writeError(w, err)
		return
	}
	for _, cur := range s.cfg.Currencies {
		resp.Balances = append(resp.Balances, balanceView{Currency: cur.Code, Amount: utils.FromBaseUnit(balances[cur.Code], cur.Decimals), Decimals: cur.Decimals})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	addr := mux.Vars(r)["address"]
	if !validation.ValidateAddress(addr) {
		writeError(w, errors.NewError(errors.ErrCodeInvalidAddress, errors.ErrMsgInvalidAddress))
		return
	}
	limit := queryUint32(r, "limit", 50)
	offset := queryUint32(r, "offset", 0)

	total, txs, err := s.engine.GetHistory(addr, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := &historyResponse{Address: addr, Total: total, Limit: limit, Offset: offset, Txs: make([]*txView, 0, len(txs))}
	for _, tx := range txs {
		resp.Txs = append(resp.Txs, s.txViewOf(tx))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListStakes(w http.ResponseWriter, r *http.Request) {
	addr := mux.Vars(r)["address"]
	if !validation.ValidateAddress(addr) {
		writeError(w, errors.NewError(errors.ErrCodeInvalidAddress, errors.ErrMsgInvalidAddress))
		return
	}
	records, err := s.tracker.ListByAccount(addr)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := &listStakesResponse{Address: addr, Stakes: make([]*stakeView, 0, len(records))}
	for _, record := range records {
		resp.Stakes = append(resp.Stakes, s.stakeViewOf(record))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateStake(w http.ResponseWriter, r *http.Request) {
	var req createStakeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if !validation.ValidateAddress(req.Address) {
		writeError(w, errors.NewError(errors.ErrCodeInvalidAddress, errors.ErrMsgInvalidAddress))
		return
	}
	if err := validation.ValidateMetadata(req.Metadata); err != nil {
		writeError(w, err)
		return
	}
	amount, err := s.parseAmount(config.CurrencyCCOIN, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	record, tx, err := s.tracker.Stake(req.Address, amount, req.DurationDays, req.Metadata)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, &stakeResponse{Stake: s.stakeViewOf(record), TxID: tx.TxID, Seq: tx.Seq})
}

func (s *Server) handleGetStake(w http.ResponseWriter, r *http.Request) {
	record, err := s.tracker.Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &stakeResponse{Stake: s.stakeViewOf(record)})
}

func (s *Server) handleClaimStake(w http.ResponseWriter, r *http.Request) {
	s.finalizeStake(w, r, s.tracker.Claim)
}

func (s *Server) handleWithdrawEarly(w http.ResponseWriter, r *http.Request) {
	s.finalizeStake(w, r, s.tracker.WithdrawEarly)
}

func (s *Server) finalizeStake(w http.ResponseWriter, r *http.Request, action func(string, map[string]string) (*staking.StakeRecord, *transaction.Transaction, error)) {
	var req stakeActionRequest
	if r.ContentLength != 0 {
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, err)
			return
		}
	}
	if err := validation.ValidateMetadata(req.Metadata); err != nil {
		writeError(w, err)
		return
	}
	record, tx, err := action(mux.Vars(r)["id"], req.Metadata)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &stakeResponse{Stake: s.stakeViewOf(record), TxID: tx.TxID, Seq: tx.Seq})
}

func (s *Server) handleFundingRequest(w http.ResponseWriter, r *http.Request) {
	var req fundingRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if !validation.ValidateAddress(req.Address) {
		writeError(w, errors.NewError(errors.ErrCodeInvalidAddress, errors.ErrMsgInvalidAddress))
		return
	}
	if err := validation.ValidateMetadata(req.Metadata); err != nil {
		writeError(w, err)
		return
	}
	tx, err := s.funding.Request(req.Address, req.Metadata)
	if err != nil {
		writeError(w, err)
		return
	}
	currency := s.cfg.Funding.Currency
	writeJSON(w, http.StatusCreated, &fundingResponse{
		TxID:     tx.TxID,
		Seq:      tx.Seq,
		Currency: currency,
		Amount:   s.displayAmount(currency, tx.Participants[0].Amount),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, &healthResponse{Status: "ok", LatestSeq: s.engine.LatestSeq()})
}

// --- Helpers ---

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

func (s *Server) txViewOf(tx *transaction.Transaction) *txView {
	view := &txView{
		TxID:         tx.TxID,
		Seq:          tx.Seq,
		Kind:         string(tx.Kind),
		Timestamp:    tx.Timestamp,
		Participants: make([]participantView, 0, len(tx.Participants)),
		Metadata:     tx.Metadata,
	}
	for _, p := range tx.Participants {
		view.Participants = append(view.Participants, participantView{
			Address:   p.Address,
			Currency:  p.Currency,
			Direction: string(p.Direction),
			Amount:    s.displayAmount(p.Currency, p.Amount),
		})
	}
	return view
}

func (s *Server) stakeViewOf(record *staking.StakeRecord) *stakeView {
	ccoin, _ := s.cfg.Currency(config.CurrencyCCOIN)
	view := &stakeView{
		StakeID:       record.StakeID,
		Address:       record.Address,
		Currency:      ccoin.Code,
		Amount:        utils.FromBaseUnit(record.Amount, ccoin.Decimals),
		StartTime:     record.StartTime,
		MaturityTime:  record.MaturityTime,
		DurationDays:  record.DurationDays,
		AnnualRateBps: record.AnnualRateBps,
		Status:        string(record.Status),
		FinalTxID:     record.FinalTxID,
		FinalizedAt:   record.FinalizedAt,
	}
	if record.Reward != nil {
		view.Reward = utils.FromBaseUnit(record.Reward, ccoin.Decimals)
	}
	if record.Penalty != nil {
		view.Penalty = utils.FromBaseUnit(record.Penalty, ccoin.Decimals)
	}
	return view
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, validation.DefaultRequestBodyLimit)
	defer r.Body.Close()
	if err := jsonx.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.NewError(errors.ErrCodeInvalidRequest, errors.ErrMsgInvalidRequest)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := jsonx.NewEncoder(w).Encode(body); err != nil {
		logx.Error("API", "Failed to encode response", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	ledgerErr, ok := err.(*errors.LedgerError)
	if !ok {
		ledgerErr = &errors.LedgerError{Code: errors.ErrCodeInternal, Message: errors.ErrMsgInternal}
	}
	writeJSON(w, httpStatusOf(ledgerErr.Code), &errorResponse{Error: ledgerErr})
}

func httpStatusOf(code errors.LedgerErrorCode) int {
	switch code {
	case errors.ErrCodeInvalidRequest, errors.ErrCodeInvalidAddress, errors.ErrCodeInvalidAmount,
		errors.ErrCodeInvalidMetadata, errors.ErrCodeInvalidOperation, errors.ErrCodeUnsupportedCurrency:
		return http.StatusBadRequest
	case errors.ErrCodeInsufficientFunds:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeAlreadyFinalized:
		return http.StatusConflict
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeRateLimited, errors.ErrCodeCooldownActive:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func queryUint32(r *http.Request, key string, fallback uint32) uint32 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return fallback
	}
	return uint32(value)
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			ip := strings.TrimSpace(parts[0])
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && net.ParseIP(host) != nil {
		return host
	}
	return "unknown"
}
