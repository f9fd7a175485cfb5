// Package metrics exports search outcome counters to Prometheus. Counts are
// aggregated in the database so they survive restarts and multiple replicas.
package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"loggate/internal/db"
)

var searchOutcomeDesc = prometheus.NewDesc(
	"loggate_search_outcomes_total",
	"Total search count by keyword and outcome",
	[]string{"keyword", "outcome"},
	nil,
)

// SearchCollector is a custom Prometheus collector that reads search outcome
// counts from the database on each scrape.
type SearchCollector struct {
	db *db.DB
}

// Describe sends the metric descriptor to the channel.
func (c *SearchCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- searchOutcomeDesc
}

// Collect queries the database for all search lookups and emits them as counters.
func (c *SearchCollector) Collect(ch chan<- prometheus.Metric) {
	lookups, err := c.db.GetAllSearchLookups(context.Background())
	if err != nil {
		slog.Error("failed to collect search outcome metrics", "error", err)
		return
	}
	for _, l := range lookups {
		ch <- prometheus.MustNewConstMetric(
			searchOutcomeDesc,
			prometheus.CounterValue,
			float64(l.Count),
			l.Keyword,
			l.Outcome,
		)
	}
}

// Recorder provides async search outcome recording.
type Recorder struct {
	db *db.DB
}

var (
	recorder     *Recorder
	recorderOnce sync.Once
)

// Init registers the custom collector and initializes the recorder.
// Must be called once at startup.
func Init(database *db.DB) {
	recorderOnce.Do(func() {
		recorder = &Recorder{db: database}
		prometheus.MustRegister(&SearchCollector{db: database})
	})
}

// RecordSearchOutcome asynchronously records a search outcome. A no-op when
// metrics are not initialized (unit tests).
func RecordSearchOutcome(keyword, outcome string) {
	if recorder == nil {
		return
	}
	go func() {
		if err := recorder.db.IncrementSearchLookup(context.Background(), keyword, outcome); err != nil {
			slog.Error("failed to record search outcome", "keyword", keyword, "outcome", outcome, "error", err)
		}
	}()
}
