package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TickRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farming_engine_tick_runs_total",
			Help: "Total number of tick batches",
		},
		[]string{"status"}, // ok, error, lease_held
	)

	TickDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "farming_engine_tick_duration_seconds",
			Help:    "Duration of tick batches",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12), // 0.05s to ~100s
		},
	)

	PositionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farming_engine_positions_total",
			Help: "Positions handled by tick batches, by outcome",
		},
		[]string{"outcome"}, // processed, skipped, failed, deferred, integrity
	)

	YieldCreditedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farming_engine_yield_credited_total",
			Help: "Yield credited, in whole currency units",
		},
		[]string{"currency"},
	)

	CommissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farming_engine_commissions_total",
			Help: "Commission writes by outcome",
		},
		[]string{"outcome"}, // written, duplicate, queued, failed
	)

	DepositsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farming_engine_deposits_total",
			Help: "Deposit ingestions by outcome",
		},
		[]string{"currency", "outcome"}, // applied, replayed, rejected, error
	)

	BreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "farming_engine_store_breaker_state",
			Help: "Store circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
	)

	IntegrityWarningsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farming_engine_integrity_warnings_total",
			Help: "Data integrity problems observed",
		},
		[]string{"kind"}, // basis, referral_cycle
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farming_engine_http_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)
)
