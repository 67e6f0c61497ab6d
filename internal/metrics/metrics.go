// Package metrics exposes prometheus/client_golang collectors for the
// facade and market actors. Nothing in internal/book or internal/market
// touches this package — matching stays free of instrumentation concerns.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OrdersPlaced counts successful Place calls, labeled by market.
	OrdersPlaced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prophex_orders_placed_total",
		Help: "Total number of orders admitted into a market.",
	}, []string{"market"})

	// OrdersCancelled counts successful Cancel calls, labeled by market.
	OrdersCancelled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prophex_orders_cancelled_total",
		Help: "Total number of orders removed from a market.",
	}, []string{"market"})

	// TradesExecuted counts individual matched trades, labeled by market.
	TradesExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prophex_trades_executed_total",
		Help: "Total number of matched trades.",
	}, []string{"market"})

	// MatchLatency observes the wall-clock time a Place call spends waiting
	// on its market actor, labeled by market.
	MatchLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "prophex_match_latency_seconds",
		Help:    "Latency of a place request from facade send to actor reply.",
		Buckets: prometheus.DefBuckets,
	}, []string{"market"})

	// InboxDepth reports the last observed queue length of a market actor's
	// inbox, labeled by market.
	InboxDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "prophex_actor_inbox_depth",
		Help: "Number of commands currently queued in a market actor's inbox.",
	}, []string{"market"})
)
