package pipeline

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/annogo/document"
)

// AnnotateBatch annotates docs concurrently. Each document is handled by a
// single goroutine, bounded by WithWorkers and paced by WithRateLimit; docs
// must not repeat.
//
// It returns how many documents had at least one annotator run. The first
// error cancels the documents not yet started and is returned.
func (p *Pipeline) AnnotateBatch(ctx context.Context, docs []*document.Document) (int, error) {
	var changed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)

	for _, doc := range docs {
		if err := p.rc.Acquire(gctx); err != nil {
			break
		}
		g.Go(func() error {
			defer p.rc.Release()
			ran, err := p.Annotate(gctx, doc)
			if ran {
				changed.Add(1)
			}
			return err
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if p.logger != nil {
		if err != nil {
			p.logger.WarnContext(ctx, "batch annotate stopped",
				"total", len(docs),
				"changed", changed.Load(),
				"error", err,
			)
		} else {
			p.logger.InfoContext(ctx, "batch annotate completed",
				"total", len(docs),
				"changed", changed.Load(),
			)
		}
	}
	return int(changed.Load()), err
}
