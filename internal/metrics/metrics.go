// Package metrics holds the Prometheus collectors for comparison runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agenthands/regcompare/internal/core/compare"
)

type Collector struct {
	registry *prometheus.Registry

	// Runs counts comparisons by outcome: ok, failed or archive_failed.
	Runs     *prometheus.CounterVec
	Duration prometheus.Histogram
	// Matches counts correspondences by match type.
	Matches   *prometheus.CounterVec
	Unmatched *prometheus.CounterVec
	// FacetErrors counts error records by facet and kind (recall, precision).
	FacetErrors *prometheus.CounterVec
}

// New registers every collector on a fresh registry, so several collectors
// can coexist in one process.
func New() *Collector {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Collector{
		registry: reg,
		Runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "regcompare_runs_total",
			Help: "Total comparison runs by outcome",
		}, []string{"outcome"}),
		Duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "regcompare_run_duration_seconds",
			Help:    "Comparison run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		Matches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "regcompare_matches_total",
			Help: "Total person correspondences by match type",
		}, []string{"type"}),
		Unmatched: f.NewCounterVec(prometheus.CounterOpts{
			Name: "regcompare_unmatched_total",
			Help: "Total persons left without correspondence by side",
		}, []string{"side"}),
		FacetErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "regcompare_facet_errors_total",
			Help: "Total comparison error records by facet and kind",
		}, []string{"facet", "kind"}),
	}
}

// ObserveReport records a successful run.
func (c *Collector) ObserveReport(rep *compare.Report, elapsed time.Duration) {
	c.Runs.WithLabelValues("ok").Inc()
	c.Duration.Observe(elapsed.Seconds())

	s := rep.Summary
	for t, n := range s.People.ByType {
		c.Matches.WithLabelValues(string(t)).Add(float64(n))
	}
	c.Unmatched.WithLabelValues(compare.First).Add(float64(s.People.UnmatchedFirst))
	c.Unmatched.WithLabelValues(compare.Second).Add(float64(s.People.UnmatchedSecond))

	c.FacetErrors.WithLabelValues("references", "recall").Add(float64(s.References.RecallErrors))
	c.FacetErrors.WithLabelValues("references", "precision").Add(float64(s.References.PrecisionErrors))
	c.FacetErrors.WithLabelValues("relationships", "recall").Add(float64(s.Relationships.RecallErrors))
	c.FacetErrors.WithLabelValues("events", "recall").Add(float64(s.Events.RecallErrors))
	c.FacetErrors.WithLabelValues("events", "precision").Add(float64(s.Events.PrecisionErrors))
}

func (c *Collector) ObserveFailure(outcome string) {
	c.Runs.WithLabelValues(outcome).Inc()
}

// Handler exposes the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
