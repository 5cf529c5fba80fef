// Package graph provides read-only graph views over a document's relations.
//
// Build takes a snapshot with annotations of one type as vertices and
// relations of one type as edges. Edges are stored once with forward and
// reverse adjacency for traversal in either direction. Queries never mutate
// the document.
package graph
