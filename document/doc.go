// Package document holds a document's annotations and the relation graph
// layered over them.
//
// A Document owns an arena of annotations keyed by id. Relations never hold
// pointers: every edge stores the id of the annotation at its other end and
// is resolved through the document, so the graph has no reference cycles.
//
// # Annotation store
//
// The Store indexes attached annotations in an interval tree and answers
// overlap and ordered-neighbor queries without scanning:
//
//	doc := document.New("The cat sat.")
//	the, _ := doc.CreateAnnotation(types.Token, span.Must(0, 3))
//	cat, _ := doc.CreateAnnotation(types.Token, span.Must(4, 7))
//	the.Next(types.Token) == cat // true
//
// Queries that find nothing return Document.Empty, never nil.
//
// # Relations
//
// Adding a relation to an attached annotation writes the outgoing edge and
// the target's incoming mirror under one lock. Container annotations (any
// type except the leaf type, TOKEN by default) can report the relations of
// their sub-annotations that cross their boundary.
//
// # Completion
//
// The store records which annotatable types have been fully computed and by
// whom. Pipelines use it to skip work that was already done.
package document
