package annogo

import (
	"log/slog"

	"github.com/hupe1980/annogo/types"
)

type options struct {
	types            *types.Registry
	metricsCollector MetricsCollector
	logger           *Logger
	cacheCapacity    int
	workers          int
	docsPerSec       float64
	burst            int
}

// Option configures an Engine.
type Option func(*options)

// WithTypes sets the type registry used to resolve names in bindings files.
//
// If nil is passed, types.Default is used.
func WithTypes(r *types.Registry) Option {
	return func(o *options) {
		if r == nil {
			r = types.Default
		}
		o.types = r
	}
}

// WithCacheCapacity bounds the number of cached (type, language) → annotator
// entries. Defaults to 1024.
func WithCacheCapacity(n int) Option {
	return func(o *options) {
		o.cacheCapacity = n
	}
}

// WithWorkers bounds how many documents AnnotateBatch processes at once.
// Defaults to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithRateLimit caps how many documents AnnotateBatch starts per second.
// Useful when annotators call a remote model service.
func WithRateLimit(docsPerSec float64, burst int) Option {
	return func(o *options) {
		o.docsPerSec = docsPerSec
		o.burst = burst
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &annogo.BasicMetricsCollector{}
//	eng := annogo.New(annogo.WithMetricsCollector(metrics))
//	// ... annotate documents ...
//	stats := metrics.GetStats()
//	fmt.Printf("Runs: %d, Avg latency: %dns\n", stats.RunCount, stats.RunAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := annogo.NewJSONLogger(slog.LevelInfo)
//	eng := annogo.New(annogo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		types:            types.Default,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
