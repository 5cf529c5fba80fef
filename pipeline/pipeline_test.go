package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/hupe1980/annogo/annotator"
	"github.com/hupe1980/annogo/document"
	"github.com/hupe1980/annogo/span"
	"github.com/hupe1980/annogo/types"
)

type counters struct {
	mu   sync.Mutex
	runs map[string]int
}

func (c *counters) inc(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.runs == nil {
		c.runs = make(map[string]int)
	}
	c.runs[name]++
}

func (c *counters) get(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runs[name]
}

func whitespaceTokens(doc *document.Document) error {
	text := doc.Content()
	start := -1
	for i, r := range text + " " {
		switch {
		case unicode.IsSpace(r) && start >= 0:
			if _, err := doc.CreateAnnotation(types.Token, span.Must(start, i)); err != nil {
				return err
			}
			start = -1
		case !unicode.IsSpace(r) && start < 0:
			start = i
		}
	}
	return nil
}

// fixture registers Tok (TOKEN), Sent (SENTENCE, needs TOKEN) and
// POS (PART_OF_SPEECH, needs TOKEN).
type fixture struct {
	reg      *annotator.Registry
	cache    *annotator.Cache
	runs     *counters
	sentFail atomic.Bool
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{reg: annotator.NewRegistry(), runs: &counters{}}

	tok := annotator.New("tok", "1", []types.Annotatable{types.Token}, nil,
		func(_ context.Context, doc *document.Document) error {
			f.runs.inc("tok")
			return whitespaceTokens(doc)
		})
	sent := annotator.New("sent", "1", []types.Annotatable{types.Sentence}, []types.Annotatable{types.Token},
		func(_ context.Context, doc *document.Document) error {
			f.runs.inc("sent")
			if f.sentFail.Load() {
				return errors.New("sentence model unavailable")
			}
			_, err := doc.CreateAnnotation(types.Sentence, doc.Span())
			return err
		})
	pos := annotator.New("pos", "1", []types.Annotatable{types.PartOfSpeech}, []types.Annotatable{types.Token},
		func(_ context.Context, doc *document.Document) error {
			f.runs.inc("pos")
			for _, tok := range doc.Tokens() {
				if err := tok.SetAttribute(types.PartOfSpeech, "NN"); err != nil {
					return err
				}
			}
			return nil
		})
	for _, a := range []annotator.Annotator{tok, sent, pos} {
		require.NoError(t, f.reg.RegisterAnnotator(a))
	}
	f.cache = annotator.NewCache(f.reg)
	return f
}

func names(seq []annotator.Annotator) []string {
	out := make([]string, len(seq))
	for i, a := range seq {
		out[i] = annotator.Name(a)
	}
	return out
}

func TestPipeline_DeterministicMinimalSchedule(t *testing.T) {
	f := newFixture(t)
	p, err := New(f.cache, []types.Annotatable{types.Sentence, types.PartOfSpeech})
	require.NoError(t, err)

	seq, err := p.Sequence(language.Und)
	require.NoError(t, err)
	assert.Equal(t, []string{"tok", "sent", "pos"}, names(seq))

	p2, err := New(f.cache, []types.Annotatable{types.PartOfSpeech, types.Sentence, types.Token})
	require.NoError(t, err)
	seq, err = p2.Sequence(language.Und)
	require.NoError(t, err)
	assert.Equal(t, []string{"tok", "pos", "sent"}, names(seq))
}

func TestPipeline_Idempotence(t *testing.T) {
	f := newFixture(t)
	p, err := New(f.cache, []types.Annotatable{types.Token})
	require.NoError(t, err)
	doc := document.New("The quick brown fox")

	ran, err := p.Annotate(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.True(t, doc.Completed().Contains(types.Token))
	prov, ok := doc.Store().Provenance(types.Token)
	require.True(t, ok)
	assert.Equal(t, "tok::1", prov)
	assert.Len(t, doc.Tokens(), 4)

	ran, err = p.Annotate(context.Background(), doc)
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Equal(t, 1, f.runs.get("tok"))
	assert.Len(t, doc.Tokens(), 4)
}

func TestPipeline_SharedScheduleSkipsPerDocument(t *testing.T) {
	f := newFixture(t)
	p, err := New(f.cache, []types.Annotatable{types.Sentence, types.PartOfSpeech})
	require.NoError(t, err)

	doc := document.New("a b")
	tp, err := New(f.cache, []types.Annotatable{types.Token})
	require.NoError(t, err)
	_, err = tp.Annotate(context.Background(), doc)
	require.NoError(t, err)

	ran, err := p.Annotate(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, 1, f.runs.get("tok"), "tokens were already completed on this document")
	assert.Equal(t, 1, f.runs.get("sent"))
	assert.Equal(t, 1, f.runs.get("pos"))
	for _, tok := range doc.Tokens() {
		v, _ := tok.Tag().AsString()
		assert.Equal(t, "NN", v)
	}
}

func TestPipeline_SelfRequiringAnnotator(t *testing.T) {
	reg := annotator.NewRegistry()
	var runs atomic.Int32
	loop := annotator.New("loop", "1",
		[]types.Annotatable{types.Token, types.Sentence},
		[]types.Annotatable{types.Sentence, types.Token},
		func(context.Context, *document.Document) error {
			runs.Add(1)
			return nil
		})
	require.NoError(t, reg.RegisterAnnotator(loop))

	p, err := New(annotator.NewCache(reg), []types.Annotatable{types.Sentence, types.Token})
	require.NoError(t, err)
	seq, err := p.Sequence(language.Und)
	require.NoError(t, err)
	assert.Equal(t, []string{"loop"}, names(seq))

	doc := document.New("x")
	ran, err := p.Annotate(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, int32(1), runs.Load())
	assert.True(t, doc.IsCompleted(types.Sentence))
	assert.True(t, doc.IsCompleted(types.Token))
}

func TestPipeline_MultiOutputAnnotatorScheduledOnce(t *testing.T) {
	reg := annotator.NewRegistry()
	both := annotator.New("both", "2", []types.Annotatable{types.Token, types.Sentence}, nil, nil)
	pos := annotator.New("pos", "1", []types.Annotatable{types.PartOfSpeech}, []types.Annotatable{types.Token}, nil)
	require.NoError(t, reg.RegisterAnnotator(both))
	require.NoError(t, reg.RegisterAnnotator(pos))

	p, err := New(annotator.NewCache(reg), []types.Annotatable{types.PartOfSpeech, types.Sentence, types.Token})
	require.NoError(t, err)
	seq, err := p.Sequence(language.German)
	require.NoError(t, err)
	assert.Equal(t, []string{"both", "pos"}, names(seq))
}

func TestPipeline_ResolutionErrors(t *testing.T) {
	f := newFixture(t)
	p, err := New(f.cache, []types.Annotatable{types.Entity})
	require.NoError(t, err)

	_, err = p.Annotate(context.Background(), document.New("x"))
	assert.ErrorIs(t, err, annotator.ErrNoAnnotator)
	var re *ResolveError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "annotation:ENTITY", re.Type)
	assert.Equal(t, Unresolved, p.State(language.Und), "failed resolution can be retried")

	require.NoError(t, f.reg.RegisterAnnotator(annotator.New("ner", "1", []types.Annotatable{types.Entity}, nil, nil)))
	_, err = p.Sequence(language.Und)
	require.NoError(t, err)
	assert.Equal(t, Resolved, p.State(language.Und))

	wrong := annotator.New("wrong", "1", []types.Annotatable{types.Sentence}, nil, nil)
	cache := annotator.NewCache(annotator.ResolverFunc(func(types.Annotatable, language.Tag) (annotator.Annotator, error) {
		return wrong, nil
	}))
	p, err = New(cache, []types.Annotatable{types.Token})
	require.NoError(t, err)
	_, err = p.Sequence(language.Und)
	assert.ErrorIs(t, err, annotator.ErrUnsatisfied)

	_, err = New(f.cache, nil)
	assert.ErrorIs(t, err, ErrNoRequest)
}

func TestPipeline_FailureKeepsEarlierCompletions(t *testing.T) {
	f := newFixture(t)
	f.sentFail.Store(true)
	p, err := New(f.cache, []types.Annotatable{types.Sentence})
	require.NoError(t, err)
	doc := document.New("one two", document.WithID("d1"))

	ran, err := p.Annotate(context.Background(), doc)
	assert.True(t, ran, "tok ran before sent failed")
	var ae *AnnotatorError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "sent::1", ae.Annotator)
	assert.Equal(t, "d1", ae.Document)
	assert.True(t, doc.IsCompleted(types.Token))
	assert.False(t, doc.IsCompleted(types.Sentence))

	f.sentFail.Store(false)
	ran, err = p.Annotate(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, 1, f.runs.get("tok"), "resumed run skips completed types")
	assert.Equal(t, 2, f.runs.get("sent"))
	assert.Len(t, doc.Sentences(), 1)
}

func TestPipeline_RemoveAllRoundTrip(t *testing.T) {
	f := newFixture(t)
	p, err := New(f.cache, []types.Annotatable{types.Token})
	require.NoError(t, err)
	doc := document.New("a b c")

	_, err = p.Annotate(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, doc.Tokens(), 3)

	removed := doc.RemoveAll(types.Token)
	assert.Len(t, removed, 3)
	assert.Empty(t, doc.Tokens())
	assert.False(t, doc.IsCompleted(types.Token))

	ran, err := p.Annotate(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, 2, f.runs.get("tok"))
	assert.Len(t, doc.Tokens(), 3)
}

func TestPipeline_PlansPerLanguage(t *testing.T) {
	f := newFixture(t)
	english := annotator.New("pos-en", "3", []types.Annotatable{types.PartOfSpeech}, []types.Annotatable{types.Token}, nil)
	f.reg.MustRegister("pos-en", func(annotator.Config) (annotator.Annotator, error) { return english, nil })
	require.NoError(t, f.reg.Bind(annotator.Binding{Type: types.PartOfSpeech, Language: language.English, Factory: "pos-en"}))

	p, err := New(f.cache, []types.Annotatable{types.PartOfSpeech})
	require.NoError(t, err)
	assert.Equal(t, Unresolved, p.State(language.English))

	doc := document.New("hello world", document.WithLanguage(language.English))
	_, err = p.Annotate(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, Resolved, p.State(language.English))
	assert.Equal(t, Unresolved, p.State(language.Und))
	prov, _ := doc.Store().Provenance(types.PartOfSpeech)
	assert.Equal(t, "pos-en::3", prov)

	seq, err := p.Sequence(language.French)
	require.NoError(t, err)
	assert.Equal(t, []string{"tok", "pos"}, names(seq))

	p.Reset()
	assert.Equal(t, Unresolved, p.State(language.English))
	assert.Equal(t, "resolved", Resolved.String())
}

func TestPipeline_ContextCanceled(t *testing.T) {
	f := newFixture(t)
	p, err := New(f.cache, []types.Annotatable{types.Token})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ran, err := p.Annotate(ctx, document.New("a"))
	assert.False(t, ran)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, f.runs.get("tok"))
}

type recordingMetrics struct {
	resolutions atomic.Int32
	runs        atomic.Int32
	annotates   atomic.Int32
}

func (m *recordingMetrics) RecordResolution(string, int, time.Duration, error) { m.resolutions.Add(1) }
func (m *recordingMetrics) RecordAnnotatorRun(string, time.Duration, error)    { m.runs.Add(1) }
func (m *recordingMetrics) RecordAnnotate(bool, time.Duration, error)          { m.annotates.Add(1) }

func TestPipeline_ConcurrentAnnotateResolvesOnce(t *testing.T) {
	f := newFixture(t)
	m := &recordingMetrics{}
	p, err := New(f.cache, []types.Annotatable{types.Sentence, types.PartOfSpeech}, WithMetrics(m))
	require.NoError(t, err)

	const n = 32
	docs := make([]*document.Document, n)
	var wg sync.WaitGroup
	for i := range docs {
		docs[i] = document.New(fmt.Sprintf("doc number %d", i))
		wg.Add(1)
		go func(doc *document.Document) {
			defer wg.Done()
			_, err := p.Annotate(context.Background(), doc)
			assert.NoError(t, err)
		}(docs[i])
	}
	wg.Wait()

	assert.Equal(t, int32(1), m.resolutions.Load())
	assert.Equal(t, int32(3*n), m.runs.Load())
	assert.Equal(t, int32(n), m.annotates.Load())
	for _, doc := range docs {
		assert.Len(t, doc.Tokens(), 3)
		assert.Len(t, doc.Sentences(), 1)
	}
}

func TestPipeline_AnnotateBatch(t *testing.T) {
	f := newFixture(t)
	p, err := New(f.cache, []types.Annotatable{types.Sentence}, WithWorkers(4))
	require.NoError(t, err)

	docs := make([]*document.Document, 20)
	for i := range docs {
		docs[i] = document.New(strings.Repeat("w ", i+1))
	}
	n, err := p.AnnotateBatch(context.Background(), docs)
	require.NoError(t, err)
	assert.Equal(t, 20, n)
	for i, doc := range docs {
		assert.Len(t, doc.Tokens(), i+1)
	}

	n, err = p.AnnotateBatch(context.Background(), docs)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "everything already completed")
}

func TestPipeline_AnnotateBatchError(t *testing.T) {
	f := newFixture(t)
	f.sentFail.Store(true)
	p, err := New(f.cache, []types.Annotatable{types.Sentence}, WithWorkers(2), WithRateLimit(1000, 10))
	require.NoError(t, err)

	docs := []*document.Document{document.New("a"), document.New("b"), document.New("c")}
	_, err = p.AnnotateBatch(context.Background(), docs)
	var ae *AnnotatorError
	assert.ErrorAs(t, err, &ae)
}
