package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/annogo/document"
	"github.com/hupe1980/annogo/span"
	"github.com/hupe1980/annogo/types"
)

// parsed returns "Alice saw Bob ." with dependencies pointing at "saw".
func parsed(t *testing.T) (*document.Document, []*document.Annotation) {
	t.Helper()
	doc := document.New("Alice saw Bob .")
	var toks []*document.Annotation
	for _, s := range []span.Span{span.Must(0, 5), span.Must(6, 9), span.Must(10, 13), span.Must(14, 15)} {
		tok, err := doc.CreateAnnotation(types.Token, s)
		require.NoError(t, err)
		toks = append(toks, tok)
	}
	require.NoError(t, toks[0].Relate(types.Dependency, "nsubj", toks[1]))
	require.NoError(t, toks[2].Relate(types.Dependency, "obj", toks[1]))
	require.NoError(t, toks[3].Relate(types.Dependency, "punct", toks[1]))
	return doc, toks
}

func labels(es []Edge) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.Label
	}
	return out
}

func TestBuild(t *testing.T) {
	doc, toks := parsed(t)
	g := Build(doc, types.Token, types.Dependency)

	assert.Equal(t, 4, g.Len())
	assert.Equal(t, toks, g.Vertices())
	assert.Equal(t, []string{"nsubj", "obj", "punct"}, labels(g.Edges()))
	assert.Same(t, types.Token, g.VertexType())
	assert.Same(t, types.Dependency, g.RelationType())

	assert.Equal(t, []string{"nsubj"}, labels(g.Out(toks[0])))
	assert.Empty(t, g.Out(toks[1]))
	assert.Equal(t, []string{"nsubj", "obj", "punct"}, labels(g.In(toks[1])))
	assert.Equal(t, []*document.Annotation{toks[1]}, g.Roots())
	assert.Same(t, types.Dependency, g.Edges()[0].Type)

	assert.Empty(t, Build(doc, types.Token, types.Coreference).Edges())
}

func TestBuild_IsSnapshot(t *testing.T) {
	doc, toks := parsed(t)
	g := Build(doc, types.Token, types.Dependency)

	require.NoError(t, toks[1].Relate(types.Dependency, "root", toks[3]))
	assert.Len(t, g.Edges(), 3)
	assert.Len(t, Build(doc, types.Token, types.Dependency).Edges(), 4)
}

func TestShortestPath(t *testing.T) {
	doc, toks := parsed(t)
	g := Build(doc, types.Token, types.Dependency)

	path, err := g.ShortestPath(toks[0], toks[1])
	require.NoError(t, err)
	assert.Equal(t, []string{"nsubj"}, labels(path))

	path, err = g.ShortestPath(toks[1], toks[0])
	require.NoError(t, err)
	assert.Nil(t, path, "edges are directed")

	path, err = g.ShortestPath(toks[2], toks[2])
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.NotNil(t, path)

	path, err = g.ShortestConnection(toks[0], toks[2])
	require.NoError(t, err)
	require.Len(t, path, 2)
	assert.Same(t, toks[0], path[0].Source)
	assert.Same(t, toks[2], path[1].Source, "orientation is preserved")
	assert.Same(t, toks[1], path[1].Target)

	_, err = g.ShortestPath(doc.Empty(), toks[0])
	assert.ErrorIs(t, err, ErrNotInGraph)
	stale, err := doc.NewAnnotation(types.Token, span.Must(0, 5)).Detached()
	require.NoError(t, err)
	_, err = g.ShortestConnection(toks[0], stale)
	assert.ErrorIs(t, err, ErrNotInGraph)
}

func TestSubTree(t *testing.T) {
	doc, toks := parsed(t)
	g := Build(doc, types.Token, types.Dependency)

	sub, err := g.SubTree(toks[1])
	require.NoError(t, err)
	assert.Equal(t, toks, sub)

	sub, err = g.SubTree(toks[1], "nsubj", "obj")
	require.NoError(t, err)
	assert.Equal(t, toks[:3], sub)

	sub, err = g.SubTree(toks[0])
	require.NoError(t, err)
	assert.Equal(t, []*document.Annotation{toks[0]}, sub)

	_, err = g.SubTree(doc.Empty())
	assert.ErrorIs(t, err, ErrNotInGraph)
}

func TestBuild_LiftsSubAnnotationRelations(t *testing.T) {
	doc := document.New("a b. c d.")
	var toks []*document.Annotation
	for _, s := range []span.Span{span.Must(0, 1), span.Must(2, 3), span.Must(5, 6), span.Must(7, 8)} {
		tok, err := doc.CreateAnnotation(types.Token, s)
		require.NoError(t, err)
		toks = append(toks, tok)
	}
	s1, err := doc.CreateAnnotation(types.Sentence, span.Must(0, 4))
	require.NoError(t, err)
	s2, err := doc.CreateAnnotation(types.Sentence, span.Must(5, 9))
	require.NoError(t, err)
	require.NoError(t, toks[0].Relate(types.Dependency, "amod", toks[1]))
	require.NoError(t, toks[1].Relate(types.Dependency, "conj", toks[3]))
	require.NoError(t, toks[2].Relate(types.Dependency, "nsubj", toks[3]))

	g := Build(doc, types.Sentence, types.Dependency)
	require.Len(t, g.Edges(), 1)
	e := g.Edges()[0]
	assert.Same(t, s1, e.Source)
	assert.Same(t, s2, e.Target)
	assert.Equal(t, "conj", e.Label)

	all := Build(doc, nil, nil)
	assert.Equal(t, 6, all.Len())
	assert.Len(t, all.Edges(), 3)
}

func TestBuild_LiftsRelationsOfEmptyEdgeAnnotations(t *testing.T) {
	doc := document.New("ab cd")
	s1, err := doc.CreateAnnotation(types.Sentence, span.Must(0, 2))
	require.NoError(t, err)
	s2, err := doc.CreateAnnotation(types.Sentence, span.Must(3, 5))
	require.NoError(t, err)
	src, err := doc.CreateAnnotation(types.PhraseChunk, span.Must(2, 2))
	require.NoError(t, err)
	dst, err := doc.CreateAnnotation(types.PhraseChunk, span.Must(3, 3))
	require.NoError(t, err)
	require.NoError(t, src.Relate(types.Dependency, "x", dst))

	g := Build(doc, types.Sentence, types.Dependency)
	require.Len(t, g.Edges(), 1)
	e := g.Edges()[0]
	assert.Same(t, s1, e.Source)
	assert.Same(t, s2, e.Target)
	assert.Equal(t, "x", e.Label)
}
