package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/text/language"

	"github.com/hupe1980/annogo/annotator"
	"github.com/hupe1980/annogo/document"
	"github.com/hupe1980/annogo/internal/resource"
	"github.com/hupe1980/annogo/types"
)

// State is the resolution state of one language plan.
type State uint32

const (
	Unresolved State = iota
	Resolving
	Resolved
)

func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Resolving:
		return "resolving"
	case Resolved:
		return "resolved"
	default:
		return fmt.Sprintf("State(%d)", uint32(s))
	}
}

// plan is the schedule for one language. sequence is written once, before
// state is stored as Resolved.
type plan struct {
	mu       sync.Mutex
	state    atomic.Uint32
	sequence []annotator.Annotator
}

// Pipeline turns a requested set of types into an ordered list of
// annotators and runs it on documents.
//
// The schedule is resolved lazily per document language and reused for the
// lifetime of the pipeline. A Pipeline is safe for concurrent use by
// multiple goroutines, each annotating its own document.
type Pipeline struct {
	cache     *annotator.Cache
	requested types.Set

	mu    sync.RWMutex
	plans map[string]*plan

	logger  *slog.Logger
	metrics Metrics
	rc      *resource.Controller
}

// New returns a pipeline producing requested, resolving annotators through
// cache.
func New(cache *annotator.Cache, requested []types.Annotatable, optFns ...Option) (*Pipeline, error) {
	set := types.NewSet(requested...)
	if set.Len() == 0 {
		return nil, ErrNoRequest
	}
	o := applyOptions(optFns)
	return &Pipeline{
		cache:     cache,
		requested: set,
		plans:     make(map[string]*plan),
		logger:    o.logger,
		metrics:   o.metrics,
		rc:        resource.NewController(o.batch),
	}, nil
}

// Requested returns the requested types in request order.
func (p *Pipeline) Requested() types.Set {
	return p.requested.Clone()
}

// State returns the resolution state for lang.
func (p *Pipeline) State(lang language.Tag) State {
	p.mu.RLock()
	pl := p.plans[lang.String()]
	p.mu.RUnlock()
	if pl == nil {
		return Unresolved
	}
	return State(pl.state.Load())
}

// Sequence returns the annotators scheduled for lang in run order,
// resolving the plan if needed.
func (p *Pipeline) Sequence(lang language.Tag) ([]annotator.Annotator, error) {
	seq, err := p.plan(lang)
	if err != nil {
		return nil, err
	}
	out := make([]annotator.Annotator, len(seq))
	copy(out, seq)
	return out, nil
}

// Reset drops every resolved plan. Plans are rebuilt on next use.
func (p *Pipeline) Reset() {
	p.mu.Lock()
	p.plans = make(map[string]*plan)
	p.mu.Unlock()
}

func (p *Pipeline) entry(key string) *plan {
	p.mu.RLock()
	pl := p.plans[key]
	p.mu.RUnlock()
	if pl != nil {
		return pl
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if pl = p.plans[key]; pl == nil {
		pl = &plan{}
		p.plans[key] = pl
	}
	return pl
}

func (p *Pipeline) plan(lang language.Tag) ([]annotator.Annotator, error) {
	pl := p.entry(lang.String())
	if State(pl.state.Load()) == Resolved {
		return pl.sequence, nil
	}

	pl.mu.Lock()
	defer pl.mu.Unlock()
	if State(pl.state.Load()) == Resolved {
		return pl.sequence, nil
	}

	pl.state.Store(uint32(Resolving))
	start := time.Now()
	seq, err := p.resolve(lang)
	p.metrics.RecordResolution(lang.String(), len(seq), time.Since(start), err)
	if err != nil {
		pl.state.Store(uint32(Unresolved))
		if p.logger != nil {
			p.logger.Error("pipeline resolution failed", "language", lang.String(), "error", err)
		}
		return nil, err
	}
	pl.sequence = seq
	pl.state.Store(uint32(Resolved))
	if p.logger != nil {
		p.logger.Debug("pipeline resolved",
			"language", lang.String(),
			"requested", p.requested.String(),
			"annotators", len(seq),
		)
	}
	return seq, nil
}

// resolve builds the schedule depth first. An annotator recurses into its
// prerequisites and is appended only if it provides a type not yet
// provided, so every annotator appears once and after its prerequisites.
// Its outputs are marked provided before recursing, which also stops
// self-requiring annotators from looping.
func (p *Pipeline) resolve(lang language.Tag) ([]annotator.Annotator, error) {
	var (
		provided types.Set
		sequence []annotator.Annotator
	)

	var visit func(t types.Annotatable) error
	visit = func(t types.Annotatable) error {
		if provided.Contains(t) {
			return nil
		}
		a, err := p.cache.Get(t, lang)
		if err != nil {
			return &ResolveError{Type: t.ID().String(), Language: lang.String(), cause: err}
		}
		if !a.Satisfies().Contains(t) {
			return &ResolveError{
				Type:     t.ID().String(),
				Language: lang.String(),
				cause:    fmt.Errorf("%w: %s", annotator.ErrUnsatisfied, annotator.Name(a)),
			}
		}

		providesNew := provided.AddAll(a.Satisfies())
		if !providesNew {
			return nil
		}
		for _, req := range a.Requires().Items() {
			if err := visit(req); err != nil {
				return err
			}
		}
		sequence = append(sequence, a)
		return nil
	}

	for _, t := range p.requested.Items() {
		if err := visit(t); err != nil {
			return nil, err
		}
	}
	return sequence, nil
}

// Annotate runs every scheduled annotator whose output is not yet completed
// on doc, in order, and marks each one's types completed with provenance
// "name::version". It reports whether any annotator ran.
//
// The first failing annotator aborts the run. Types completed before the
// failure stay completed and nothing already written is rolled back, so a
// later call resumes where this one stopped.
func (p *Pipeline) Annotate(ctx context.Context, doc *document.Document) (ran bool, err error) {
	start := time.Now()
	defer func() {
		p.metrics.RecordAnnotate(ran, time.Since(start), err)
	}()

	seq, err := p.plan(doc.Language())
	if err != nil {
		return false, err
	}

	completed := doc.Completed()
	pending := make([]annotator.Annotator, 0, len(seq))
	for _, a := range seq {
		if !completed.ContainsAll(a.Satisfies()) {
			pending = append(pending, a)
		}
	}

	for _, a := range pending {
		if err := ctx.Err(); err != nil {
			return ran, err
		}
		prov := annotator.Provenance(a)
		runStart := time.Now()
		runErr := a.Annotate(ctx, doc)
		p.metrics.RecordAnnotatorRun(prov, time.Since(runStart), runErr)
		if runErr != nil {
			if p.logger != nil {
				p.logger.ErrorContext(ctx, "annotator failed",
					"annotator", prov,
					"document", doc.ID(),
					"error", runErr,
				)
			}
			return ran, &AnnotatorError{Annotator: prov, Document: doc.ID(), cause: runErr}
		}
		for _, t := range a.Satisfies().Items() {
			doc.SetCompleted(t, prov)
		}
		ran = true
		if p.logger != nil {
			p.logger.DebugContext(ctx, "annotator completed",
				"annotator", prov,
				"document", doc.ID(),
				"duration", time.Since(runStart),
			)
		}
	}
	return ran, nil
}
