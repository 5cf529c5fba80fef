// Package pipeline schedules and runs annotators.
//
// A Pipeline is built for a set of requested types. For each document
// language it resolves, once, the minimal ordered list of annotators that
// produce those types and everything they require:
//
//	p, err := pipeline.New(cache, []types.Annotatable{types.Sentence, types.PartOfSpeech})
//	if err != nil {
//	    return err
//	}
//	ran, err := p.Annotate(ctx, doc)
//
// Annotate skips annotators whose outputs the document already marks
// completed, so calling it again is cheap and resumes after a failure.
//
// # Thread Safety
//
// Plans are resolved lazily under a per-language lock with a lock-free fast
// path once resolved. Many goroutines may call Annotate on the same Pipeline
// as long as each document is mutated by one goroutine at a time.
package pipeline
