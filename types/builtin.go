package types

// Default is the process-wide registry the built-in types live in.
var Default = NewRegistry()

// Built-in types.
var (
	Root = Default.Root()
	Tag  = Default.Tag()

	PartOfSpeech = Default.MustAttributeType("PART_OF_SPEECH", KindString)
	Lemma        = Default.MustAttributeType("LEMMA", KindString)
	EntityType   = Default.MustAttributeType("ENTITY_TYPE", KindString)
	Confidence   = Default.MustAttributeType("CONFIDENCE", KindFloat)
	Index        = Default.MustAttributeType("INDEX", KindInt)

	Token       = Default.MustAnnotationType("TOKEN", WithTagAttribute(PartOfSpeech))
	Sentence    = Default.MustAnnotationType("SENTENCE", WithTagAttribute(Index))
	PhraseChunk = Default.MustAnnotationType("PHRASE_CHUNK")
	Entity      = Default.MustAnnotationType("ENTITY", WithTagAttribute(EntityType))

	Dependency  = Default.MustRelationType("DEPENDENCY")
	Coreference = Default.MustRelationType("COREFERENCE")
)

// NewAnnotationType registers name in the Default registry.
func NewAnnotationType(name string, opts ...AnnotationOption) (*AnnotationType, error) {
	return Default.AnnotationType(name, opts...)
}

// NewAttributeType registers name in the Default registry.
func NewAttributeType(name string, kind ValueKind) (*AttributeType, error) {
	return Default.AttributeType(name, kind)
}

// NewRelationType registers name in the Default registry.
func NewRelationType(name string) (*RelationType, error) {
	return Default.RelationType(name)
}
