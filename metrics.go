package annogo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    runCounter   *prometheus.CounterVec
//	    runHistogram *prometheus.HistogramVec
//	}
//
//	func (p *PrometheusCollector) RecordAnnotatorRun(name string, duration time.Duration, err error) {
//	    p.runCounter.WithLabelValues(name).Inc()
//	    p.runHistogram.WithLabelValues(name).Observe(duration.Seconds())
//	}
type MetricsCollector interface {
	// RecordResolution is called once per pipeline plan built for a language.
	// annotators is the length of the resolved sequence.
	RecordResolution(lang string, annotators int, duration time.Duration, err error)

	// RecordAnnotatorRun is called after each annotator run. name is the
	// annotator's provenance, "name::version".
	RecordAnnotatorRun(name string, duration time.Duration, err error)

	// RecordAnnotate is called after each pipeline Annotate call.
	// ran reports whether any annotator ran.
	RecordAnnotate(ran bool, duration time.Duration, err error)

	// RecordBatchAnnotate is called after each batch. count is the number of
	// documents submitted, changed the number where something ran.
	RecordBatchAnnotate(count, changed int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordResolution(string, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordAnnotatorRun(string, time.Duration, error)    {}
func (NoopMetricsCollector) RecordAnnotate(bool, time.Duration, error)          {}
func (NoopMetricsCollector) RecordBatchAnnotate(int, int, time.Duration)        {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ResolutionCount    atomic.Int64
	ResolutionErrors   atomic.Int64
	RunCount           atomic.Int64
	RunErrors          atomic.Int64
	RunTotalNanos      atomic.Int64
	AnnotateCount      atomic.Int64
	AnnotateRan        atomic.Int64
	AnnotateErrors     atomic.Int64
	AnnotateTotalNanos atomic.Int64
	BatchCount         atomic.Int64
	BatchDocuments     atomic.Int64
	BatchChanged       atomic.Int64
}

// RecordResolution implements MetricsCollector.
func (b *BasicMetricsCollector) RecordResolution(lang string, annotators int, duration time.Duration, err error) {
	b.ResolutionCount.Add(1)
	if err != nil {
		b.ResolutionErrors.Add(1)
	}
}

// RecordAnnotatorRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAnnotatorRun(name string, duration time.Duration, err error) {
	b.RunCount.Add(1)
	b.RunTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RunErrors.Add(1)
	}
}

// RecordAnnotate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAnnotate(ran bool, duration time.Duration, err error) {
	b.AnnotateCount.Add(1)
	b.AnnotateTotalNanos.Add(duration.Nanoseconds())
	if ran {
		b.AnnotateRan.Add(1)
	}
	if err != nil {
		b.AnnotateErrors.Add(1)
	}
}

// RecordBatchAnnotate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatchAnnotate(count, changed int, duration time.Duration) {
	b.BatchCount.Add(1)
	b.BatchDocuments.Add(int64(count))
	b.BatchChanged.Add(int64(changed))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		ResolutionCount:  b.ResolutionCount.Load(),
		ResolutionErrors: b.ResolutionErrors.Load(),
		RunCount:         b.RunCount.Load(),
		RunErrors:        b.RunErrors.Load(),
		RunAvgNanos:      avg(b.RunTotalNanos.Load(), b.RunCount.Load()),
		AnnotateCount:    b.AnnotateCount.Load(),
		AnnotateRan:      b.AnnotateRan.Load(),
		AnnotateErrors:   b.AnnotateErrors.Load(),
		AnnotateAvgNanos: avg(b.AnnotateTotalNanos.Load(), b.AnnotateCount.Load()),
		BatchCount:       b.BatchCount.Load(),
		BatchDocuments:   b.BatchDocuments.Load(),
		BatchChanged:     b.BatchChanged.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	ResolutionCount  int64
	ResolutionErrors int64
	RunCount         int64
	RunErrors        int64
	RunAvgNanos      int64
	AnnotateCount    int64
	AnnotateRan      int64
	AnnotateErrors   int64
	AnnotateAvgNanos int64
	BatchCount       int64
	BatchDocuments   int64
	BatchChanged     int64
}
