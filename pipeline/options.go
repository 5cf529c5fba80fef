package pipeline

import (
	"log/slog"
	"time"

	"github.com/hupe1980/annogo/internal/resource"
)

// Metrics receives pipeline events. The root package's MetricsCollector
// satisfies it.
type Metrics interface {
	// RecordResolution is called once per language plan built.
	RecordResolution(lang string, annotators int, duration time.Duration, err error)
	// RecordAnnotatorRun is called after every annotator run.
	RecordAnnotatorRun(annotator string, duration time.Duration, err error)
	// RecordAnnotate is called after every Annotate call.
	RecordAnnotate(ran bool, duration time.Duration, err error)
}

type noopMetrics struct{}

func (noopMetrics) RecordResolution(string, int, time.Duration, error) {}
func (noopMetrics) RecordAnnotatorRun(string, time.Duration, error)    {}
func (noopMetrics) RecordAnnotate(bool, time.Duration, error)          {}

type options struct {
	logger  *slog.Logger
	metrics Metrics
	batch   resource.Config
}

// Option configures a Pipeline.
type Option func(*options)

// WithLogger sets the logger. Pass nil to disable logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics sets the metrics sink. Pass nil to disable metrics.
func WithMetrics(m Metrics) Option {
	return func(o *options) {
		if m == nil {
			m = noopMetrics{}
		}
		o.metrics = m
	}
}

// WithWorkers bounds how many documents AnnotateBatch processes at once.
// Defaults to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.batch.MaxWorkers = int64(n)
	}
}

// WithRateLimit caps how many documents AnnotateBatch starts per second.
func WithRateLimit(docsPerSec float64, burst int) Option {
	return func(o *options) {
		o.batch.DocsPerSec = docsPerSec
		o.batch.Burst = burst
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metrics: noopMetrics{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
