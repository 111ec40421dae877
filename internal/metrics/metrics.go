package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides observability for catalog loading and queries.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Reload attempts by result ("ok", "error")
	Reloads *prometheus.CounterVec

	ReloadLatency prometheus.Histogram

	// Rows seen on the last successful load, by outcome ("kept", "dropped")
	Rows *prometheus.GaugeVec

	States prometheus.Gauge

	// Search cache lookups by result ("hit", "miss")
	CacheLookups *prometheus.CounterVec
}

// NewRegistry returns a registry preloaded with the Go and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// New registers the catalog metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Reloads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "policymap_catalog_reloads_total",
			Help: "Catalog reload attempts by result",
		}, []string{"result"}),

		ReloadLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "policymap_catalog_reload_duration_seconds",
			Help:    "Duration of reading the bill source and aggregating it",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),

		Rows: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "policymap_catalog_rows",
			Help: "Bill rows in the current snapshot by outcome",
		}, []string{"outcome"}),

		States: factory.NewGauge(prometheus.GaugeOpts{
			Name: "policymap_catalog_states",
			Help: "States with at least one bill in the current snapshot",
		}),

		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "policymap_search_cache_lookups_total",
			Help: "Search cache lookups by result",
		}, []string{"result"}),
	}
}

// ObserveReload records one reload attempt and its duration.
func (m *Metrics) ObserveReload(err error, d time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Reloads.WithLabelValues(result).Inc()
	m.ReloadLatency.Observe(d.Seconds())
}

// SetSnapshot publishes the size of a freshly loaded snapshot.
func (m *Metrics) SetSnapshot(states, kept, dropped int) {
	if m == nil {
		return
	}
	m.States.Set(float64(states))
	m.Rows.WithLabelValues("kept").Set(float64(kept))
	m.Rows.WithLabelValues("dropped").Set(float64(dropped))
}

func (m *Metrics) CacheHit() {
	if m != nil {
		m.CacheLookups.WithLabelValues("hit").Inc()
	}
}

func (m *Metrics) CacheMiss() {
	if m != nil {
		m.CacheLookups.WithLabelValues("miss").Inc()
	}
}

// Handler exposes g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
