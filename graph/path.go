package graph

import (
	"slices"

	"github.com/hupe1980/annogo/document"
)

// ShortestPath returns the fewest edges leading from one vertex to another,
// following edge direction. The path is empty when from == to and nil when
// to is unreachable.
func (g *Graph) ShortestPath(from, to *document.Annotation) ([]Edge, error) {
	return g.bfs(from, to, false)
}

// ShortestConnection is ShortestPath ignoring edge direction. Edges in the
// result keep their original orientation.
func (g *Graph) ShortestConnection(from, to *document.Annotation) ([]Edge, error) {
	return g.bfs(from, to, true)
}

func (g *Graph) bfs(from, to *document.Annotation, undirected bool) ([]Edge, error) {
	src, ok := g.lookup(from)
	if !ok {
		return nil, ErrNotInGraph
	}
	dst, ok := g.lookup(to)
	if !ok {
		return nil, ErrNotInGraph
	}
	if src == dst {
		return []Edge{}, nil
	}

	// via[v] is the edge used to reach v, -1 for unvisited.
	via := make([]int, len(g.vertices))
	for i := range via {
		via[i] = -1
	}
	visited := make([]bool, len(g.vertices))
	visited[src] = true
	queue := []int{src}

	step := func(e, next int) bool {
		if visited[next] {
			return false
		}
		visited[next] = true
		via[next] = e
		queue = append(queue, next)
		return next == dst
	}

	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, e := range g.out[v] {
			if step(e, g.index[g.edges[e].Target.ID()]) {
				return g.trace(src, dst, via), nil
			}
		}
		if !undirected {
			continue
		}
		for _, e := range g.in[v] {
			if step(e, g.index[g.edges[e].Source.ID()]) {
				return g.trace(src, dst, via), nil
			}
		}
	}
	return nil, nil
}

func (g *Graph) trace(src, dst int, via []int) []Edge {
	var path []Edge
	for v := dst; v != src; {
		e := g.edges[via[v]]
		path = append(path, e)
		if i := g.index[e.Target.ID()]; i == v {
			v = g.index[e.Source.ID()]
		} else {
			v = i
		}
	}
	slices.Reverse(path)
	return path
}

// SubTree returns root and every vertex whose chain of outgoing edges
// reaches root, in span order. In a dependency graph this is the phrase
// headed by root. With labels, only edges carrying one of them are followed.
func (g *Graph) SubTree(root *document.Annotation, labels ...string) ([]*document.Annotation, error) {
	r, ok := g.lookup(root)
	if !ok {
		return nil, ErrNotInGraph
	}
	visited := make([]bool, len(g.vertices))
	visited[r] = true
	stack := []int{r}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range g.in[v] {
			edge := g.edges[e]
			if len(labels) > 0 && !slices.Contains(labels, edge.Label) {
				continue
			}
			s := g.index[edge.Source.ID()]
			if !visited[s] {
				visited[s] = true
				stack = append(stack, s)
			}
		}
	}

	var out []*document.Annotation
	for i, v := range g.vertices {
		if visited[i] {
			out = append(out, v)
		}
	}
	return out, nil
}
