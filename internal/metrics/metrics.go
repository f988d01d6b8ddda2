package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ResponseTimeHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_time_seconds",
			Help:    "Histogram of response times",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	SettlementPasses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settlement_passes_total",
			Help: "Settlement passes by trigger and result",
		},
		[]string{"trigger", "result"},
	)

	SettlementAccounts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settlement_accounts_total",
			Help: "Accounts visited by settlement passes, by outcome",
		},
		[]string{"outcome"},
	)

	SettlementPositions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settlement_positions_total",
			Help: "Mining positions settled, by outcome",
		},
		[]string{"outcome"},
	)

	SettlementCredited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "settlement_credited_amount_total",
			Help: "Sum of mining rewards credited",
		},
	)

	SettlementDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "settlement_pass_duration_seconds",
			Help:    "Duration of settlement passes",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
		},
	)

	CommissionAttributions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commission_attributions_total",
			Help: "Commission attribution attempts by outcome",
		},
		[]string{"outcome"},
	)

	CommissionAmount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "commission_amount_total",
			Help: "Sum of affiliate commissions credited",
		},
	)
)
