// Package annotator defines the Annotator capability and how annotators are
// found.
//
// An Annotator declares what it produces (Satisfies) and what it needs first
// (Requires). A Resolver maps a type and language to an annotator; Registry
// is the standard Resolver, built from named factories and bindings that can
// be loaded from YAML:
//
//	bindings:
//	  - type: TOKEN
//	    annotator: whitespace
//	  - kind: attribute
//	    type: PART_OF_SPEECH
//	    language: en
//	    annotator: lexicon-pos
//	    config:
//	      default: NN
//
// Cache memoizes resolution with a bounded LRU and checks that every
// resolved annotator satisfies the type it was resolved for.
package annotator
