package monitoring

import (
	"net/http"
	"time"

	"github.com/ch0002ic/creatorcoin-ai/logx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ledgerPromMetrics struct {
	serviceUpUnixSeconds prometheus.Gauge
	appliedTxCount       *prometheus.CounterVec
	rejectedOpCount      *prometheus.CounterVec
	mintedSupply         *prometheus.CounterVec
	burnedSupply         *prometheus.CounterVec
	activeStakes         prometheus.Gauge
	lockedPrincipal      prometheus.Gauge
	logSequence          prometheus.Gauge
	fundingGrantCount    prometheus.Counter
	requestDuration      *prometheus.HistogramVec
	panicCount           prometheus.Counter
}

func newLedgerPromMetrics() *ledgerPromMetrics {
	return &ledgerPromMetrics{
		serviceUpUnixSeconds: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "creatorcoin_ledger_up_timestamp_unix_seconds",
				Help: "Unix timestamp at which the ledger service started",
			},
		),
		appliedTxCount: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creatorcoin_ledger_applied_tx_count",
				Help: "The total number of applied ledger transactions",
			},
			[]string{"kind"},
		),
		rejectedOpCount: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creatorcoin_ledger_rejected_op_count",
				Help: "The total number of rejected ledger operations",
			},
			[]string{"code"},
		),
		mintedSupply: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creatorcoin_ledger_minted_minor_units",
				Help: "Total supply minted, in minor units",
			},
			[]string{"currency"},
		),
		burnedSupply: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creatorcoin_ledger_burned_minor_units",
				Help: "Total supply burned via early-withdraw penalties, in minor units",
			},
			[]string{"currency"},
		),
		activeStakes: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "creatorcoin_staking_active_stakes",
				Help: "Number of stakes currently in ACTIVE status",
			},
		),
		lockedPrincipal: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "creatorcoin_staking_locked_minor_units",
				Help: "Principal currently locked in active stakes, in minor units",
			},
		),
		logSequence: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "creatorcoin_ledger_log_sequence",
				Help: "Sequence number of the latest appended transaction",
			},
		),
		fundingGrantCount: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "creatorcoin_funding_grant_count",
				Help: "The total number of funding grants issued",
			},
		),
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "creatorcoin_api_request_seconds",
				Help: "Duration in seconds of handled API requests",
			},
			[]string{"route"},
		),
		panicCount: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "creatorcoin_panic_count",
				Help: "The total number of recovered panics",
			},
		),
	}
}

var ledgerMetrics *ledgerPromMetrics

// InitMetrics initializes metrics for the service but does not expose them to the api yet
func InitMetrics() {
	ledgerMetrics = newLedgerPromMetrics()
	ledgerMetrics.serviceUpUnixSeconds.SetToCurrentTime()
}

// Handler returns the prometheus scrape handler for mounting on the api router
func Handler() http.Handler {
	logx.Info("MONITORING", "Registering prometheus metrics")
	return promhttp.Handler()
}

func IncreaseAppliedTx(kind string) {
	if ledgerMetrics == nil {
		return
	}
	ledgerMetrics.appliedTxCount.With(prometheus.Labels{"kind": kind}).Inc()
}

func RecordRejectedOp(code string) {
	if ledgerMetrics == nil {
		return
	}
	ledgerMetrics.rejectedOpCount.With(prometheus.Labels{"code": code}).Inc()
}

func AddMintedSupply(currency string, minorUnits float64) {
	if ledgerMetrics == nil {
		return
	}
	ledgerMetrics.mintedSupply.With(prometheus.Labels{"currency": currency}).Add(minorUnits)
}

func AddBurnedSupply(currency string, minorUnits float64) {
	if ledgerMetrics == nil {
		return
	}
	ledgerMetrics.burnedSupply.With(prometheus.Labels{"currency": currency}).Add(minorUnits)
}

func SetActiveStakes(count int) {
	if ledgerMetrics == nil {
		return
	}
	ledgerMetrics.activeStakes.Set(float64(count))
}

func SetLockedPrincipal(minorUnits float64) {
	if ledgerMetrics == nil {
		return
	}
	ledgerMetrics.lockedPrincipal.Set(minorUnits)
}

func SetLogSequence(seq uint64) {
	if ledgerMetrics == nil {
		return
	}
	ledgerMetrics.logSequence.Set(float64(seq))
}

func IncreaseFundingGrants() {
	if ledgerMetrics == nil {
		return
	}
	ledgerMetrics.fundingGrantCount.Inc()
}

func ObserveRequestDuration(route string, duration time.Duration) {
	if ledgerMetrics == nil {
		return
	}
	ledgerMetrics.requestDuration.With(prometheus.Labels{"route": route}).Observe(duration.Seconds())
}

func IncreasePanicCount() {
	if ledgerMetrics == nil {
		return
	}
	ledgerMetrics.panicCount.Inc()
}
