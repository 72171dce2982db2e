/*
Package metrics exposes Prometheus instrumentation for the metaindex
subsystem: how many records each builder emitted, how long a Coordinator
run or a bootstrap FS listing took, and how many rollback entries were
skipped or file reads failed transiently.

# Core Components

Counters and histograms are package-level prometheus.Collector values,
registered once via init(). Callers observe them directly
(RecordsEmittedTotal.WithLabelValues("files").Inc()) or through the Timer
helper for duration histograms:

	timer := metrics.NewTimer()
	defer timer.ObserveDurationVec(metrics.CoordinatorRunDuration, string(action))

# Health

HealthChecker tracks named component health (the Timeline Store, the
configured base-path filesystem) and serves /healthz, /readyz, and a
liveness probe, independent of the indexing algorithm's own correctness —
these only report whether the process's dependencies are reachable.

# Usage

	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", metrics.HealthHandler())
	mux.HandleFunc("/readyz", metrics.ReadyHandler())
*/
package metrics
