package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bountyhub-backend/core/bounty"
)

var (
	// Operations counts engine operations by name and outcome.
	Operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bountyhub",
		Name:      "operations_total",
		Help:      "Engine operations by name and outcome.",
	}, []string{"op", "outcome"})

	// EventsTotal counts published bounty notifications by type.
	EventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bountyhub",
		Name:      "events_total",
		Help:      "Bounty notifications by type.",
	}, []string{"type"})

	escrowedSats = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "bountyhub",
		Name:      "escrowed_sats",
		Help:      "Total balance escrowed across all bounties.",
	})

	owedSats = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "bountyhub",
		Name:      "owed_sats",
		Help:      "Total committed to accepted-but-unpaid fulfillments.",
	})
)

// ObserveOp records one operation outcome.
func ObserveOp(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	Operations.WithLabelValues(op, outcome).Inc()
}

// EventSink returns a bounty event sink that counts notifications and
// refreshes the escrow gauges from the engine.
func EventSink(engine *bounty.Engine) func(bounty.Event) {
	return func(evt bounty.Event) {
		EventsTotal.WithLabelValues(evt.Type).Inc()
		balance, owed := engine.Totals()
		escrowedSats.Set(float64(balance))
		owedSats.Set(float64(owed))
	}
}

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
