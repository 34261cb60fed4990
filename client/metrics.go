package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "soulsync_client",
			Name:      "requests_total",
			Help:      "API requests by method and outcome.",
		},
		[]string{"method", "outcome"},
	)

	forcedLogoutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "soulsync_client",
			Name:      "forced_logouts_total",
			Help:      "Sessions torn down by an unauthorized response.",
		},
	)

	staleResultsDiscardedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "soulsync_client",
			Name:      "stale_poll_results_discarded_total",
			Help:      "Poll responses discarded because a newer request was issued.",
		},
	)
)
