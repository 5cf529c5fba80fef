package annotator

import (
	"golang.org/x/text/language"

	"github.com/hupe1980/annogo/types"
)

// Resolver finds the annotator responsible for a type in a language.
// language.Und asks for a language-agnostic annotator.
type Resolver interface {
	Resolve(t types.Annotatable, lang language.Tag) (Annotator, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(t types.Annotatable, lang language.Tag) (Annotator, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(t types.Annotatable, lang language.Tag) (Annotator, error) {
	return f(t, lang)
}

// fallbacks returns lang, its base language and Und, without duplicates.
func fallbacks(lang language.Tag) []language.Tag {
	out := []language.Tag{lang}
	if lang == language.Und {
		return out
	}
	if base, conf := lang.Base(); conf != language.No {
		if b := language.Make(base.String()); b != lang {
			out = append(out, b)
		}
	}
	return append(out, language.Und)
}
