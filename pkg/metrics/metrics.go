package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Coordinator metrics
	RecordsEmittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metaindex_records_emitted_total",
			Help: "Total number of MetadataRecords emitted, by partition type",
		},
		[]string{"partition_type"},
	)

	CoordinatorRunDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "metaindex_coordinator_run_duration_seconds",
			Help:    "Time taken to apply one action through the Coordinator",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action"},
	)

	CoordinatorRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metaindex_coordinator_runs_total",
			Help: "Total number of Coordinator runs, by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	// Rollback/Restore Normalizer metrics
	RollbackEntriesSkippedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metaindex_rollback_entries_skipped_total",
			Help: "Total number of rollback entries skipped by RN, by reason",
		},
		[]string{"reason"},
	)

	// Bloom-Filter Index Builder metrics
	BloomFilterReadFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "metaindex_bloom_filter_read_failures_total",
			Help: "Total number of base files whose bloom filter could not be read (TransientIo)",
		},
	)

	BloomIndexBuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "metaindex_bloom_index_build_duration_seconds",
			Help:    "Time taken to build bloom-filter index records for one action",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Column-Stats Index Builder metrics
	ColumnStatsReadFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "metaindex_column_stats_read_failures_total",
			Help: "Total number of base files whose column ranges could not be read (TransientIo)",
		},
	)

	ColumnStatsIndexBuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "metaindex_column_stats_index_build_duration_seconds",
			Help:    "Time taken to build column-stats index records for one action",
			Buckets: prometheus.DefBuckets,
		},
	)

	// FS Fallback Lister metrics
	FSListingRoundsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "metaindex_fs_listing_rounds_total",
			Help: "Total number of BFS rounds performed by the FS fallback lister",
		},
	)

	FSListingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "metaindex_fs_listing_duration_seconds",
			Help:    "Time taken for one complete bootstrap FS listing",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		},
	)

	PartitionsDiscoveredTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "metaindex_partitions_discovered",
			Help: "Number of partitions discovered by the most recent FS listing",
		},
	)
)

func init() {
	prometheus.MustRegister(RecordsEmittedTotal)
	prometheus.MustRegister(CoordinatorRunDuration)
	prometheus.MustRegister(CoordinatorRunsTotal)
	prometheus.MustRegister(RollbackEntriesSkippedTotal)
	prometheus.MustRegister(BloomFilterReadFailuresTotal)
	prometheus.MustRegister(BloomIndexBuildDuration)
	prometheus.MustRegister(ColumnStatsReadFailuresTotal)
	prometheus.MustRegister(ColumnStatsIndexBuildDuration)
	prometheus.MustRegister(FSListingRoundsTotal)
	prometheus.MustRegister(FSListingDuration)
	prometheus.MustRegister(PartitionsDiscoveredTotal)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	duration := time.Since(t.start).Seconds()
	histogram.Observe(duration)
}

// ObserveDurationVec records the duration to a histogram vec with labels
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	duration := time.Since(t.start).Seconds()
	histogram.WithLabelValues(labels...).Observe(duration)
}

// Duration returns the elapsed time since timer started
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
