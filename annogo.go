package annogo

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/hupe1980/annogo/annotator"
	"github.com/hupe1980/annogo/document"
	"github.com/hupe1980/annogo/pipeline"
	"github.com/hupe1980/annogo/types"
)

// Engine ties together an annotator registry, the annotator cache and one
// memoized pipeline per requested type set.
//
// An Engine is safe for concurrent use. Documents are not: annotate each
// document from one goroutine at a time.
type Engine struct {
	opts     options
	registry *annotator.Registry
	cache    *annotator.Cache

	mu        sync.Mutex
	pipelines map[string]*pipeline.Pipeline
}

// New returns an engine with an empty annotator registry.
func New(optFns ...Option) *Engine {
	o := applyOptions(optFns)
	reg := annotator.NewRegistry()
	c := annotator.NewCache(reg,
		annotator.WithCapacity(o.cacheCapacity),
		annotator.WithCacheLogger(o.logger.Logger),
	)
	return &Engine{
		opts:      o,
		registry:  reg,
		cache:     c,
		pipelines: make(map[string]*pipeline.Pipeline),
	}
}

// Types returns the type registry used for bindings.
func (e *Engine) Types() *types.Registry { return e.opts.types }

// Registry returns the annotator registry.
func (e *Engine) Registry() *annotator.Registry { return e.registry }

// Cache returns the annotator cache.
func (e *Engine) Cache() *annotator.Cache { return e.cache }

// Register installs a named annotator factory.
func (e *Engine) Register(name string, f annotator.Factory) error {
	return translateError(e.registry.Register(name, f))
}

// RegisterAnnotator registers a and binds it for every type it satisfies,
// in every language.
func (e *Engine) RegisterAnnotator(a annotator.Annotator) error {
	if err := e.registry.RegisterAnnotator(a); err != nil {
		return translateError(err)
	}
	e.Invalidate()
	return nil
}

// Bind routes a type and language to a registered factory.
func (e *Engine) Bind(b annotator.Binding) error {
	if err := e.registry.Bind(b); err != nil {
		return translateError(err)
	}
	e.Invalidate()
	return nil
}

// LoadBindings reads YAML bindings from r. Factories must be registered
// first.
func (e *Engine) LoadBindings(r io.Reader) error {
	return e.loadBindings("reader", r)
}

// LoadBindingsFile reads YAML bindings from path.
func (e *Engine) LoadBindingsFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return e.loadBindings(path, f)
}

func (e *Engine) loadBindings(source string, r io.Reader) error {
	err := e.registry.LoadBindings(r, e.opts.types)
	e.opts.logger.LogBindings(context.Background(), source, len(e.registry.Bindings()), err)
	if err != nil {
		return translateError(err)
	}
	e.Invalidate()
	return nil
}

// Invalidate drops cached annotators and pipeline plans. Call it after
// changing bindings behind the engine's back.
func (e *Engine) Invalidate() {
	e.cache.Clear()
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, p := range e.pipelines {
		p.Reset()
	}
}

// NewDocument creates a document over content.
func (e *Engine) NewDocument(content string, opts ...document.Option) *document.Document {
	return document.New(content, opts...)
}

// Pipeline returns the pipeline for requested, creating it on first use.
// Pipelines are memoized by the requested types in order.
func (e *Engine) Pipeline(requested ...types.Annotatable) (*pipeline.Pipeline, error) {
	key := types.NewSet(requested...).String()

	e.mu.Lock()
	defer e.mu.Unlock()
	if p, ok := e.pipelines[key]; ok {
		return p, nil
	}
	p, err := pipeline.New(e.cache, requested,
		pipeline.WithLogger(e.opts.logger.Logger),
		pipeline.WithMetrics(e.opts.metricsCollector),
		pipeline.WithWorkers(e.opts.workers),
		pipeline.WithRateLimit(e.opts.docsPerSec, e.opts.burst),
	)
	if err != nil {
		return nil, translateError(err)
	}
	e.pipelines[key] = p
	return p, nil
}

// Annotate computes requested on doc and everything they depend on,
// skipping what doc already marks completed. It reports whether any
// annotator ran.
//
// Errors are wrapped with ErrConfiguration or ErrConsistency where they
// fall into one of those categories; annotator failures are reported as
// *ErrAnnotatorFailed.
func (e *Engine) Annotate(ctx context.Context, doc *document.Document, requested ...types.Annotatable) (bool, error) {
	p, err := e.Pipeline(requested...)
	if err != nil {
		return false, err
	}
	ran, err := p.Annotate(ctx, doc)
	e.opts.logger.LogAnnotate(ctx, doc.ID(), p.Requested().String(), ran, err)
	return ran, translateError(err)
}

// AnnotateBatch annotates docs concurrently and returns how many changed.
func (e *Engine) AnnotateBatch(ctx context.Context, docs []*document.Document, requested ...types.Annotatable) (int, error) {
	p, err := e.Pipeline(requested...)
	if err != nil {
		return 0, err
	}
	start := time.Now()
	changed, err := p.AnnotateBatch(ctx, docs)
	e.opts.metricsCollector.RecordBatchAnnotate(len(docs), changed, time.Since(start))
	return changed, translateError(err)
}

// Explain returns the provenance of every annotator Annotate would run for
// requested on a document in the given language, in run order.
func (e *Engine) Explain(doc *document.Document, requested ...types.Annotatable) ([]string, error) {
	p, err := e.Pipeline(requested...)
	if err != nil {
		return nil, err
	}
	seq, err := p.Sequence(doc.Language())
	if err != nil {
		return nil, translateError(err)
	}
	out := make([]string, len(seq))
	for i, a := range seq {
		out[i] = annotator.Provenance(a)
	}
	return out, nil
}

// String implements fmt.Stringer.
func (e *Engine) String() string {
	e.mu.Lock()
	n := len(e.pipelines)
	e.mu.Unlock()
	return fmt.Sprintf("annogo.Engine{factories: %d, bindings: %d, pipelines: %d, cached: %d}",
		len(e.registry.Factories()), len(e.registry.Bindings()), n, e.cache.Len())
}
