package graph

import (
	"errors"
	"slices"

	"github.com/hupe1980/annogo/document"
	"github.com/hupe1980/annogo/types"
)

// ErrNotInGraph is returned when a query names an annotation that is not a
// vertex of the graph.
var ErrNotInGraph = errors.New("graph: annotation is not a vertex")

// Edge is a directed, labeled edge between two vertices.
type Edge struct {
	Source *document.Annotation
	Target *document.Annotation
	Type   *types.RelationType
	Label  string
}

// Graph is an immutable snapshot of one document's relations, with
// annotations of one type as vertices and relations of one type as edges.
//
// Relations owned by sub-annotations are lifted to the enclosing vertex, so
// a graph of phrase chunks over token-level dependencies has one edge per
// dependency crossing a chunk boundary. Later changes to the document are
// not reflected.
type Graph struct {
	vertexType *types.AnnotationType
	relType    *types.RelationType

	vertices []*document.Annotation
	index    map[uint64]int
	edges    []Edge
	out      [][]int
	in       [][]int
}

// Build snapshots doc. A nil vertexType selects every annotation and a nil
// relType selects every relation type.
func Build(doc *document.Document, vertexType *types.AnnotationType, relType *types.RelationType) *Graph {
	g := &Graph{
		vertexType: vertexType,
		relType:    relType,
		index:      make(map[uint64]int),
	}
	if vertexType == nil {
		g.vertices = doc.Select(nil)
	} else {
		g.vertices = doc.Annotations(vertexType)
	}
	for i, v := range g.vertices {
		g.index[v.ID()] = i
	}
	g.out = make([][]int, len(g.vertices))
	g.in = make([][]int, len(g.vertices))

	type edgeKey struct {
		src, tgt int
		typ      *types.RelationType
		label    string
	}
	seen := make(map[edgeKey]struct{})

	// Lifting sub-annotation relations only makes sense for a single vertex type.
	lift := vertexType != nil
	for si, src := range g.vertices {
		for _, r := range src.Outgoing(relType, lift) {
			ti, ok := g.vertexFor(doc, r.Target)
			if !ok || ti == si {
				continue
			}
			k := edgeKey{src: si, tgt: ti, typ: r.Type, label: r.Value}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			e := len(g.edges)
			g.edges = append(g.edges, Edge{Source: src, Target: g.vertices[ti], Type: r.Type, Label: r.Value})
			g.out[si] = append(g.out[si], e)
			g.in[ti] = append(g.in[ti], e)
		}
	}
	return g
}

// vertexFor maps a relation endpoint to a vertex: the endpoint itself, or
// the smallest vertex enclosing it.
func (g *Graph) vertexFor(doc *document.Document, id uint64) (int, bool) {
	if i, ok := g.index[id]; ok {
		return i, true
	}
	target, ok := doc.Get(id)
	if !ok {
		return 0, false
	}
	best, found := 0, false
	for _, a := range doc.Enclosing(target.Span(), nil) {
		i, ok := g.index[a.ID()]
		if !ok {
			continue
		}
		if !found || a.Span().Len() < g.vertices[best].Span().Len() {
			best, found = i, true
		}
	}
	return best, found
}

// VertexType returns the vertex annotation type, nil for any.
func (g *Graph) VertexType() *types.AnnotationType { return g.vertexType }

// RelationType returns the edge relation type, nil for any.
func (g *Graph) RelationType() *types.RelationType { return g.relType }

// Len returns the number of vertices.
func (g *Graph) Len() int { return len(g.vertices) }

// Vertices returns the vertices in span order.
func (g *Graph) Vertices() []*document.Annotation {
	return slices.Clone(g.vertices)
}

// Edges returns every edge, grouped by source in span order.
func (g *Graph) Edges() []Edge {
	return slices.Clone(g.edges)
}

// Contains reports whether a is a vertex.
func (g *Graph) Contains(a *document.Annotation) bool {
	_, ok := g.lookup(a)
	return ok
}

func (g *Graph) lookup(a *document.Annotation) (int, bool) {
	if a.IsEmpty() {
		return 0, false
	}
	i, ok := g.index[a.ID()]
	if !ok || g.vertices[i] != a {
		return 0, false
	}
	return i, true
}

func (g *Graph) collect(ids []int) []Edge {
	out := make([]Edge, len(ids))
	for i, e := range ids {
		out[i] = g.edges[e]
	}
	return out
}

// Out returns the edges leaving a.
func (g *Graph) Out(a *document.Annotation) []Edge {
	i, ok := g.lookup(a)
	if !ok {
		return nil
	}
	return g.collect(g.out[i])
}

// In returns the edges entering a.
func (g *Graph) In(a *document.Annotation) []Edge {
	i, ok := g.lookup(a)
	if !ok {
		return nil
	}
	return g.collect(g.in[i])
}

// Roots returns the vertices without outgoing edges that have at least one
// incoming edge, in span order. In a dependency graph these are the heads.
func (g *Graph) Roots() []*document.Annotation {
	var out []*document.Annotation
	for i, v := range g.vertices {
		if len(g.out[i]) == 0 && len(g.in[i]) > 0 {
			out = append(out, v)
		}
	}
	return out
}
