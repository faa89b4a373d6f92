package metrics

import (
	"errors"
	"sync"
	"time"

	"lending/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// LedgerMetrics ledger collectors
type LedgerMetrics struct {
	operations   *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	liquidations *prometheus.CounterVec
	badDebt      prometheus.Gauge
	lanePending  prometheus.Gauge
	payouts      *prometheus.CounterVec
}

var (
	ledgerOnce     sync.Once
	ledgerRegistry *LedgerMetrics
)

// Ledger process wide ledger metrics
func Ledger() *LedgerMetrics {
	ledgerOnce.Do(func() {
		ledgerRegistry = &LedgerMetrics{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "lending_operations_total",
				Help: "Count of ledger operations by action and result.",
			}, []string{"action", "result"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "lending_operation_seconds",
				Help:    "Time spent running ledger operations, lane wait excluded.",
				Buckets: prometheus.DefBuckets,
			}, []string{"action"}),
			liquidations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "lending_liquidations_total",
				Help: "Count of liquidations by policy.",
			}, []string{"policy"}),
			badDebt: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "lending_absorbed_bad_debt",
				Help: "Debt asset written off by absorbing liquidations since start.",
			}),
			lanePending: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "lending_lane_pending",
				Help: "Operations admitted to the lane and waiting to run.",
			}),
			payouts: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "lending_payouts_total",
				Help: "Count of base asset payout deliveries by result.",
			}, []string{"result"}),
		}
		prometheus.MustRegister(
			ledgerRegistry.operations,
			ledgerRegistry.latency,
			ledgerRegistry.liquidations,
			ledgerRegistry.badDebt,
			ledgerRegistry.lanePending,
			ledgerRegistry.payouts,
		)
	})
	return ledgerRegistry
}

// Result label for err: ok, the ledger error code, or error
func Result(err error) string {
	if err == nil {
		return "ok"
	}

	var code core.ErrorCode
	if errors.As(err, &code) {
		return code.String()
	}

	return "error"
}

func (m *LedgerMetrics) ObserveOperation(action string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	if action == "" {
		action = "unknown"
	}
	m.operations.WithLabelValues(action, Result(err)).Inc()
	m.latency.WithLabelValues(action).Observe(elapsed.Seconds())
}

func (m *LedgerMetrics) ObserveLiquidation(policy string, absorbed decimal.Decimal) {
	if m == nil {
		return
	}
	m.liquidations.WithLabelValues(policy).Inc()
	if absorbed.IsPositive() {
		f, _ := absorbed.Float64()
		m.badDebt.Add(f)
	}
}

func (m *LedgerMetrics) SetLanePending(n int) {
	if m == nil {
		return
	}
	m.lanePending.Set(float64(n))
}

func (m *LedgerMetrics) ObservePayout(err error) {
	if m == nil {
		return
	}
	m.payouts.WithLabelValues(Result(err)).Inc()
}
