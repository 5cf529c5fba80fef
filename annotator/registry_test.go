package annotator

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/hupe1980/annogo/types"
)

func constFactory(a Annotator) Factory {
	return func(Config) (Annotator, error) { return a, nil }
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	tok := New("tok", "1", []types.Annotatable{types.Token}, nil, nil)

	require.NoError(t, r.Register("tok", constFactory(tok)))
	assert.ErrorIs(t, r.Register("tok", constFactory(tok)), ErrInvalidBinding)
	assert.ErrorIs(t, r.Register("", constFactory(tok)), ErrInvalidBinding)
	assert.ErrorIs(t, r.Register("nil", nil), ErrInvalidBinding)
	assert.Panics(t, func() { r.MustRegister("tok", constFactory(tok)) })

	require.NoError(t, r.Register("a", constFactory(tok)))
	assert.Equal(t, []string{"a", "tok"}, r.Factories())
}

func TestRegistry_ResolveLanguageFallback(t *testing.T) {
	r := NewRegistry()
	generic := New("generic", "1", []types.Annotatable{types.PartOfSpeech}, nil, nil)
	english := New("english", "1", []types.Annotatable{types.PartOfSpeech}, nil, nil)
	british := New("british", "1", []types.Annotatable{types.PartOfSpeech}, nil, nil)
	r.MustRegister("generic", constFactory(generic))
	r.MustRegister("english", constFactory(english))
	r.MustRegister("british", constFactory(british))

	require.NoError(t, r.Bind(Binding{Type: types.PartOfSpeech, Language: language.Und, Factory: "generic"}))
	require.NoError(t, r.Bind(Binding{Type: types.PartOfSpeech, Language: language.English, Factory: "english"}))
	require.NoError(t, r.Bind(Binding{Type: types.PartOfSpeech, Language: language.BritishEnglish, Factory: "british"}))

	cases := []struct {
		lang language.Tag
		want Annotator
	}{
		{language.BritishEnglish, british},
		{language.AmericanEnglish, english},
		{language.English, english},
		{language.German, generic},
		{language.Und, generic},
	}
	for _, tc := range cases {
		t.Run(tc.lang.String(), func(t *testing.T) {
			a, err := r.Resolve(types.PartOfSpeech, tc.lang)
			require.NoError(t, err)
			assert.Same(t, tc.want, a)
		})
	}

	assert.True(t, r.Unbind(types.PartOfSpeech, language.Und))
	assert.False(t, r.Unbind(types.PartOfSpeech, language.Und))
	_, err := r.Resolve(types.PartOfSpeech, language.German)
	assert.ErrorIs(t, err, ErrNoAnnotator)
}

func TestRegistry_BindErrors(t *testing.T) {
	r := NewRegistry()
	assert.ErrorIs(t, r.Bind(Binding{Factory: "x"}), ErrInvalidBinding)
	assert.ErrorIs(t, r.Bind(Binding{Type: types.Token, Factory: "missing"}), ErrUnknownFactory)
}

func TestRegistry_FactoryErrors(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("model not found")
	r.MustRegister("broken", func(Config) (Annotator, error) { return nil, boom })
	r.MustRegister("empty", func(Config) (Annotator, error) { return nil, nil })
	require.NoError(t, r.Bind(Binding{Type: types.Token, Factory: "broken"}))
	require.NoError(t, r.Bind(Binding{Type: types.Sentence, Factory: "empty"}))

	_, err := r.Resolve(types.Token, language.Und)
	assert.ErrorIs(t, err, boom)
	_, err = r.Resolve(types.Sentence, language.Und)
	assert.ErrorIs(t, err, ErrNoAnnotator)
}

func TestRegistry_RegisterAnnotator(t *testing.T) {
	r := NewRegistry()
	a := New("tok", "1", []types.Annotatable{types.Token, types.Sentence}, nil, nil)
	require.NoError(t, r.RegisterAnnotator(a))

	for _, typ := range []types.Annotatable{types.Token, types.Sentence} {
		got, err := r.Resolve(typ, language.French)
		require.NoError(t, err)
		assert.Same(t, a, got)
	}
	assert.Len(t, r.Bindings(), 2)
	assert.Error(t, r.RegisterAnnotator(a), "name already taken")
}

const bindingsYAML = `
bindings:
  - type: token
    annotator: whitespace
  - kind: attribute
    type: PART_OF_SPEECH
    language: en
    annotator: lexicon-pos
    config:
      default: NN
`

func TestRegistry_LoadBindings(t *testing.T) {
	r := NewRegistry()
	var seen Config
	r.MustRegister("whitespace", constFactory(New("whitespace", "1", []types.Annotatable{types.Token}, nil, nil)))
	r.MustRegister("lexicon-pos", func(cfg Config) (Annotator, error) {
		seen = cfg
		return New("lexicon-pos", "1", []types.Annotatable{types.PartOfSpeech}, []types.Annotatable{types.Token}, nil), nil
	})

	require.NoError(t, r.LoadBindings(strings.NewReader(bindingsYAML), types.Default))

	b, ok := r.Lookup(types.PartOfSpeech, language.AmericanEnglish)
	require.True(t, ok)
	assert.Equal(t, "en", b.Language.String())
	assert.Equal(t, "lexicon-pos", b.Factory)

	a, err := r.Resolve(types.PartOfSpeech, language.English)
	require.NoError(t, err)
	assert.Equal(t, "lexicon-pos", Name(a))
	assert.Equal(t, "NN", seen["default"])

	a, err = r.Resolve(types.Token, language.Japanese)
	require.NoError(t, err)
	assert.Equal(t, "whitespace", Name(a))

	_, err = r.Resolve(types.PartOfSpeech, language.German)
	assert.ErrorIs(t, err, ErrNoAnnotator)
}

func TestRegistry_LoadBindingsErrors(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("whitespace", constFactory(New("whitespace", "1", []types.Annotatable{types.Token}, nil, nil)))

	cases := map[string]struct {
		yaml string
		want error
	}{
		"malformed":        {"bindings: [", ErrInvalidBinding},
		"unknown kind":     {"bindings:\n  - kind: blob\n    type: TOKEN\n    annotator: whitespace\n", ErrInvalidBinding},
		"unknown type":     {"bindings:\n  - type: NOPE\n    annotator: whitespace\n", types.ErrUnknownType},
		"missing factory":  {"bindings:\n  - type: TOKEN\n    annotator: missing\n", ErrUnknownFactory},
		"no annotator":     {"bindings:\n  - type: TOKEN\n", ErrInvalidBinding},
		"invalid language": {"bindings:\n  - type: TOKEN\n    language: \"!!\"\n    annotator: whitespace\n", ErrInvalidBinding},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := r.LoadBindings(strings.NewReader(tc.yaml), types.Default)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Empty(t, r.Bindings(), "failed loads bind nothing")
}
