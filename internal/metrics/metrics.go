package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BetsPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wager_bets_placed_total",
		Help: "single bets accepted",
	})
	ParlaysPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wager_parlays_placed_total",
		Help: "parlays accepted",
	})
	MarketsResolved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wager_markets_resolved_total",
		Help: "markets settled",
	})
	LedgerCredits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wager_ledger_credits_total",
		Help: "settlement credits written to the ledger",
	})
)
