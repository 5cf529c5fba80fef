// Package types defines the vocabulary annotations are built from.
//
// There are three families of annotatable types, all interned by name in a
// Registry so that two lookups of the same name return the same pointer:
//
//   - AnnotationType: a hierarchical span tag (TOKEN, SENTENCE, ENTITY). Every
//     type has a parent, defaulting to ROOT, and inherits its tag attribute.
//   - AttributeType: a key with a declared ValueKind. Writes go through Decode,
//     which coerces input into that kind.
//   - RelationType: an edge label family such as DEPENDENCY.
//
// Example:
//
//	reg := types.NewRegistry()
//	word, _ := reg.AnnotationType("WORD")
//	noun, _ := reg.AnnotationType("NOUN", types.WithParent(word))
//	noun.IsInstance(word) // true
//
// The built-in types (Token, Sentence, PartOfSpeech, Dependency, ...) live in
// the Default registry.
package types
