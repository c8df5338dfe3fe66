// Package metrics defines and registers all custom Prometheus metrics
// for the tracker API. It is the single source of truth for metric
// names, labels, and help strings. Metrics register with the default
// registry at import time via promauto; the router exposes them on
// /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tracker"

// ── Identity metrics ──────────────────────────────────────────────────────────

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "created" or "rejected"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok" or "rejected"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Ledger metrics ────────────────────────────────────────────────────────────

// TransactionsRecordedTotal counts transactions appended to the ledger.
// Labels:
//   - type: "BUY" or "SELL"
//   - network: the network the transaction was recorded on (e.g. "ETH")
var TransactionsRecordedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transactions_recorded_total",
		Help:      "Total number of transactions recorded, by type and network.",
	},
	[]string{"type", "network"},
)

// TransactionsRejectedTotal counts record calls rejected before any row
// was created.
// Label:
//   - reason: short description of the failure (e.g. "invalid_type")
var TransactionsRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transactions_rejected_total",
		Help:      "Total number of rejected record calls, by reason.",
	},
	[]string{"reason"},
)

// ValuationDuration measures how long a single valuation pass takes,
// price lookups included.
var ValuationDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "valuation_duration_seconds",
		Help:      "Duration of ledger valuation passes.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)

// ── Price feed metrics ────────────────────────────────────────────────────────

// PriceRefreshTotal counts background price-cache refreshes.
// Label:
//   - result: "ok" or "error"
var PriceRefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "price_refresh_total",
		Help:      "Total number of background price refreshes, by result.",
	},
	[]string{"result"},
)
