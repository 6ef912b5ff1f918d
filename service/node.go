package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ch0002ic/creatorcoin-ai/api"
	"github.com/ch0002ic/creatorcoin-ai/config"
	"github.com/ch0002ic/creatorcoin-ai/db"
	"github.com/ch0002ic/creatorcoin-ai/events"
	"github.com/ch0002ic/creatorcoin-ai/funding"
	"github.com/ch0002ic/creatorcoin-ai/jsonrpc"
	"github.com/ch0002ic/creatorcoin-ai/ledger"
	"github.com/ch0002ic/creatorcoin-ai/logx"
	"github.com/ch0002ic/creatorcoin-ai/monitoring"
	"github.com/ch0002ic/creatorcoin-ai/ratelimit"
	"github.com/ch0002ic/creatorcoin-ai/staking"
	"github.com/ch0002ic/creatorcoin-ai/store"
)

// Node assembles a full ledger node: storage provider, stores, engine,
// stake tracker, funding service, event bus and both HTTP surfaces.
type Node struct {
	nodeCfg   *config.NodeConfig
	ledgerCfg *config.LedgerConfig

	provider     db.DatabaseProvider
	accountStore store.AccountStore
	txLog        store.TxLogStore
	stakeStore   staking.StakeStore

	eventBus *events.EventBus
	audit    *events.AuditSubscriber
	engine   *ledger.Engine
	tracker  *staking.StakeTracker
	funding  *funding.Service
	limiter  *ratelimit.GlobalRateLimiter

	rpcSrv  *jsonrpc.Server
	restSrv *api.Server
}

// NewNode wires every component but does not start listeners; call Start.
func NewNode(nodeCfg *config.NodeConfig, ledgerCfg *config.LedgerConfig) (*Node, error) {
	provider, err := db.NewProvider(db.Backend(nodeCfg.DB.Backend), dbTarget(nodeCfg))
	if err != nil {
		return nil, fmt.Errorf("open db backend %q: %w", nodeCfg.DB.Backend, err)
	}

	accountStore, err := store.NewGenericAccountStore(provider)
	if err != nil {
		provider.Close()
		return nil, err
	}
	txLog, err := store.NewGenericTxLogStore(provider)
	if err != nil {
		provider.Close()
		return nil, err
	}
	stakeStore, err := staking.NewGenericStakeStore(provider)
	if err != nil {
		provider.Close()
		return nil, err
	}

	eventBus := events.NewEventBus()
	engine := ledger.NewEngine(ledgerCfg, accountStore, txLog, eventBus, nil)
	if err := engine.InitGenesis(); err != nil {
		provider.Close()
		return nil, fmt.Errorf("apply genesis allocations: %w", err)
	}

	tracker, err := staking.NewStakeTracker(ledgerCfg, engine, stakeStore, eventBus, nil)
	if err != nil {
		provider.Close()
		return nil, err
	}
	fundingSvc, err := funding.NewService(ledgerCfg, engine, provider, eventBus, nil)
	if err != nil {
		provider.Close()
		return nil, err
	}

	limiter := ratelimit.NewGlobalRateLimiter(ratelimit.DefaultGlobalConfig())
	origins := splitOrigins(nodeCfg.CORS.AllowedOrigins)

	rpcSrv := jsonrpc.NewServer(nodeCfg.Server.ListenRPC, engine, tracker, fundingSvc, limiter)
	rpcSrv.SetCORSConfig(jsonrpc.CORSConfig{
		AllowedOrigins: origins,
		AllowedMethods: []string{"POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         3600,
	})
	restSrv := api.NewServer(nodeCfg.Server.ListenREST, engine, tracker, fundingSvc, limiter, origins)

	return &Node{
		nodeCfg:      nodeCfg,
		ledgerCfg:    ledgerCfg,
		provider:     provider,
		accountStore: accountStore,
		txLog:        txLog,
		stakeStore:   stakeStore,
		eventBus:     eventBus,
		engine:       engine,
		tracker:      tracker,
		funding:      fundingSvc,
		limiter:      limiter,
		rpcSrv:       rpcSrv,
		restSrv:      restSrv,
	}, nil
}

// Start brings up metrics, the audit subscriber and both HTTP servers
func (n *Node) Start() {
	if n.nodeCfg.Log.File != "" {
		logx.SetOutputFile(n.nodeCfg.Log.File, n.nodeCfg.Log.MaxSizeMB, n.nodeCfg.Log.MaxAgeDays)
	}
	monitoring.InitMetrics()
	n.audit = events.StartAuditSubscriber(n.eventBus)
	n.rpcSrv.Start()
	n.restSrv.Start()
	logx.Info("NODE", fmt.Sprintf("Ledger node up, log head at seq %d", n.engine.LatestSeq()))
}

// Stop drains the HTTP servers and closes the storage provider
func (n *Node) Stop(ctx context.Context) {
	if err := n.rpcSrv.Stop(ctx); err != nil {
		logx.Error("NODE", "JSON-RPC shutdown", err)
	}
	if err := n.restSrv.Stop(ctx); err != nil {
		logx.Error("NODE", "REST shutdown", err)
	}
	if n.audit != nil {
		n.audit.Stop()
	}
	n.limiter.Stop()
	if err := n.provider.Close(); err != nil {
		logx.Error("NODE", "DB close", err)
	}
	logx.Info("NODE", "Ledger node stopped")
}

// Engine exposes the ledger engine for in-process callers
func (n *Node) Engine() *ledger.Engine {
	return n.engine
}

// Tracker exposes the stake tracker for in-process callers
func (n *Node) Tracker() *staking.StakeTracker {
	return n.tracker
}

func dbTarget(nodeCfg *config.NodeConfig) string {
	if db.Backend(strings.ToLower(nodeCfg.DB.Backend)) == db.BackendRedis {
		return nodeCfg.DB.RedisAddr
	}
	if nodeCfg.DB.Path != "" {
		return nodeCfg.DB.Path
	}
	return filepath.Join(nodeCfg.Server.DataDir, "db")
}

func splitOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{"*"}
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
