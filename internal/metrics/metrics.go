package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Utkarsh-OTS/smm/pkg/monitoring"
)

// Metrics holds the scheduling service's domain metrics, layered on top of
// the shared HTTP collector. Label-free series are resolved once here so
// call sites just Inc and Observe.
type Metrics struct {
	TweetsScheduled  prometheus.Counter
	TweetsPublished  prometheus.Counter
	TweetsDeleted    prometheus.Counter
	PublishConflicts prometheus.Counter

	DispatchRuns     prometheus.Counter
	DispatchFailures prometheus.Counter
	DispatchDuration prometheus.Observer

	AnalysisRuns     prometheus.Counter
	AnalysisFailures prometheus.Counter
	AnalysisDuration prometheus.Observer
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
}

// NewNop builds the same metric set without registering anything, for use
// in tests where a shared registry would collide across packages.
func NewNop() *Metrics {
	counter := func(name string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{Name: name, Help: name})
	}
	histogram := func(name string) prometheus.Observer {
		return prometheus.NewHistogram(prometheus.HistogramOpts{Name: name, Help: name})
	}
	return &Metrics{
		TweetsScheduled:  counter("tweets_scheduled_total"),
		TweetsPublished:  counter("tweets_published_total"),
		TweetsDeleted:    counter("tweets_deleted_total"),
		PublishConflicts: counter("publish_conflicts_total"),
		DispatchRuns:     counter("dispatch_runs_total"),
		DispatchFailures: counter("dispatch_failures_total"),
		DispatchDuration: histogram("dispatch_duration_seconds"),
		AnalysisRuns:     counter("analysis_runs_total"),
		AnalysisFailures: counter("analysis_failures_total"),
		AnalysisDuration: histogram("analysis_duration_seconds"),
		CacheHits:        counter("analysis_cache_hits_total"),
		CacheMisses:      counter("analysis_cache_misses_total"),
	}
}

// New registers the domain metrics on the shared collector.
func New(collector *monitoring.MetricsCollector) *Metrics {
	return &Metrics{
		TweetsScheduled: collector.NewCounter(
			"tweets_scheduled_total", "Total scheduled tweets created", nil).WithLabelValues(),
		TweetsPublished: collector.NewCounter(
			"tweets_published_total", "Total tweets marked as posted", nil).WithLabelValues(),
		TweetsDeleted: collector.NewCounter(
			"tweets_deleted_total", "Total scheduled tweets deleted before posting", nil).WithLabelValues(),
		PublishConflicts: collector.NewCounter(
			"publish_conflicts_total", "Publish attempts that lost to an earlier publish", nil).WithLabelValues(),

		DispatchRuns: collector.NewCounter(
			"dispatch_runs_total", "Dispatch loop executions", nil).WithLabelValues(),
		DispatchFailures: collector.NewCounter(
			"dispatch_failures_total", "Dispatch loop executions that ended in error", nil).WithLabelValues(),
		DispatchDuration: collector.NewHistogram(
			"dispatch_duration_seconds", "Time spent per dispatch run", nil,
			[]float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15}).WithLabelValues(),

		AnalysisRuns: collector.NewCounter(
			"analysis_runs_total", "Completed analysis recomputes", nil).WithLabelValues(),
		AnalysisFailures: collector.NewCounter(
			"analysis_failures_total", "Analysis recomputes that failed to persist", nil).WithLabelValues(),
		AnalysisDuration: collector.NewHistogram(
			"analysis_duration_seconds", "Time spent per analysis recompute", nil,
			[]float64{0.05, 0.1, 0.5, 1, 5, 15, 60}).WithLabelValues(),
		CacheHits: collector.NewCounter(
			"analysis_cache_hits_total", "Analysis reads served from cache", nil).WithLabelValues(),
		CacheMisses: collector.NewCounter(
			"analysis_cache_misses_total", "Analysis reads that fell through to the database", nil).WithLabelValues(),
	}
}
