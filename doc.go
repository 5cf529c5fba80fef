// Package annogo provides an annotation engine for natural language documents.
//
// A document holds its text plus typed annotations over byte spans, typed
// attributes on those annotations and typed relations between them.
// Annotators compute types; the engine works out which annotators a
// request needs, orders them by their declared dependencies and runs only
// what a document has not completed yet.
//
// # Quick Start
//
//	eng := annogo.New()
//	_ = eng.RegisterAnnotator(tokenizer)  // satisfies TOKEN
//	_ = eng.RegisterAnnotator(tagger)     // satisfies PART_OF_SPEECH, requires TOKEN
//
//	doc := eng.NewDocument("Alice saw Bob.", document.WithLanguage(language.English))
//	ran, err := eng.Annotate(ctx, doc, types.PartOfSpeech)
//
// A second Annotate call on the same document runs nothing and reports
// ran == false.
//
// # Bindings
//
// Annotators are looked up per (type, language). A binding for "en-GB"
// falls back to "en" and then to a language-independent binding. Bindings
// can be loaded from YAML once the named factories are registered:
//
//	bindings:
//	  - type: TOKEN
//	    annotator: whitespace
//	  - type: PART_OF_SPEECH
//	    language: en
//	    annotator: perceptron
//	    config:
//	      model: /models/en-pos.bin
//
// # Packages
//
//   - span: half-open byte ranges and their relations
//   - types: annotation, attribute and relation types and their registry
//   - document: documents, annotations, relations and the span-indexed store
//   - annotator: the annotator contract, registry, YAML bindings and cache
//   - pipeline: dependency resolution and scheduling
//   - graph: relation graphs over annotations
//
// # Errors
//
// Engine methods wrap failures with ErrConfiguration (nothing bound, bad
// bindings, conflicting types) or ErrConsistency (annotator bugs such as
// dangling relations). Annotator failures surface as *ErrAnnotatorFailed.
//
//	if errors.Is(err, annogo.ErrConfiguration) {
//	    // fix bindings
//	}
//
// # Observability
//
// WithLogger and WithMetricsCollector plug in structured logging and
// metrics. BasicMetricsCollector keeps in-memory counters.
package annogo
