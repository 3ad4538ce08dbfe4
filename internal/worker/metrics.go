package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals,exhaustruct
var (
	metricCycles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sniper_cycles_total",
		Help: "Completed poll cycles.",
	})

	metricOffersSeen = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sniper_offers_seen_total",
		Help: "Offers fetched from the marketplace.",
	})

	metricMatches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sniper_matches_total",
		Help: "Offers that passed all filters.",
	})

	metricAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sniper_accepted_total",
		Help: "Offers successfully accepted.",
	})

	metricFetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sniper_fetch_failures_total",
		Help: "Marketplace failures by kind.",
	}, []string{"kind"})
)
