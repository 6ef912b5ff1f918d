package jsonrpc

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
)

// JSON-RPC Method name constants
const (
	// Ledger methods
	MethodLedgerTransfer   = "ledger.transfer"
	MethodLedgerMint       = "ledger.mint"
	MethodLedgerFeeSplit   = "ledger.feesplit"
	MethodLedgerGetBalance = "ledger.getbalance"
	MethodLedgerGetHistory = "ledger.gethistory"
	MethodLedgerGetTx      = "ledger.gettx"

	// Staking methods
	MethodStakingStake         = "staking.stake"
	MethodStakingClaim         = "staking.claim"
	MethodStakingWithdrawEarly = "staking.withdrawearly"
	MethodStakingGetStake      = "staking.getstake"
	MethodStakingListStakes    = "staking.liststakes"

	// Funding methods
	MethodFundingRequest = "funding.request"

	// Health methods
	MethodHealthCheck = "health.check"
)

var knownMethods = map[string]struct{}{
	MethodLedgerTransfer:       {},
	MethodLedgerMint:           {},
	MethodLedgerFeeSplit:       {},
	MethodLedgerGetBalance:     {},
	MethodLedgerGetHistory:     {},
	MethodLedgerGetTx:          {},
	MethodStakingStake:         {},
	MethodStakingClaim:         {},
	MethodStakingWithdrawEarly: {},
	MethodStakingGetStake:      {},
	MethodStakingListStakes:    {},
	MethodFundingRequest:       {},
	MethodHealthCheck:          {},
}

type jsonRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

func parseJSONRPCRequest(body []byte) *jsonRPCRequest {
	var req jsonRPCRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil
	}
	return &req
}

// accountKeyOf pulls the acting account out of the request params so the
// per-account limiter can throttle before the engine sees the call. Read-only
// methods without an acting account return "" and skip that dimension.
func accountKeyOf(req *jsonRPCRequest) string {
	if req == nil || len(req.Params) == 0 {
		return ""
	}
	var probe struct {
		Sender  string `json:"sender"`
		Source  string `json:"source"`
		Address string `json:"address"`
	}
	if err := json.Unmarshal(req.Params, &probe); err != nil {
		return ""
	}
	if probe.Sender != "" {
		return probe.Sender
	}
	if probe.Source != "" {
		return probe.Source
	}
	return probe.Address
}

// routeLabel keeps the request duration metric bounded to known methods
func routeLabel(req *jsonRPCRequest) string {
	if req == nil || req.Method == "" {
		return "rpc.unknown"
	}
	if _, ok := knownMethods[req.Method]; !ok {
		return "rpc.unknown"
	}
	return "rpc." + req.Method
}

func extractClientIPFromRequest(r *http.Request) string {
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
