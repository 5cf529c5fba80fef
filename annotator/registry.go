package annotator

import (
	"fmt"
	"sort"
	"sync"

	"golang.org/x/text/language"

	"github.com/hupe1980/annogo/types"
)

// Config is annotator-specific configuration, opaque to the registry.
type Config map[string]any

// Factory constructs an annotator from its configuration.
type Factory func(Config) (Annotator, error)

type bindingKey struct {
	id   types.ID
	lang string
}

// Binding routes a type and language to a named factory.
type Binding struct {
	Type     types.Annotatable
	Language language.Tag
	Factory  string
	Config   Config
}

// Registry maps (type, language) to annotator factories. It implements
// Resolver and replaces convention-based discovery with explicit bindings
// populated at startup.
//
// Resolution tries the exact language, then its base language, then the
// language-agnostic binding. Every Resolve builds a fresh annotator; wrap the
// registry in a Cache to memoize.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	bindings  map[bindingKey]Binding
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		bindings:  make(map[bindingKey]Binding),
	}
}

// Register installs a named factory. Returns an error if the name already exists.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("%w: factory name is required", ErrInvalidBinding)
	}
	if factory == nil {
		return fmt.Errorf("%w: factory is required for %s", ErrInvalidBinding, name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%w: factory %s already registered", ErrInvalidBinding, name)
	}
	r.factories[name] = factory
	return nil
}

// MustRegister panics if registration fails.
func (r *Registry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic(err)
	}
}

// RegisterAnnotator registers a factory that always returns a and binds it
// language-agnostically for every type a satisfies.
func (r *Registry) RegisterAnnotator(a Annotator) error {
	name := Name(a)
	if err := r.Register(name, func(Config) (Annotator, error) { return a, nil }); err != nil {
		return err
	}
	for _, t := range a.Satisfies().Items() {
		if err := r.Bind(Binding{Type: t, Language: language.Und, Factory: name}); err != nil {
			return err
		}
	}
	return nil
}

// Bind routes b.Type in b.Language to b.Factory, replacing any earlier
// binding for the same pair. The factory must already be registered.
func (r *Registry) Bind(b Binding) error {
	if b.Type == nil {
		return fmt.Errorf("%w: type is required", ErrInvalidBinding)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[b.Factory]; !ok {
		return fmt.Errorf("%w: %q for %s", ErrUnknownFactory, b.Factory, b.Type.ID())
	}
	r.bindings[bindingKey{id: b.Type.ID(), lang: b.Language.String()}] = b
	return nil
}

// Unbind removes the binding for t in lang.
func (r *Registry) Unbind(t types.Annotatable, lang language.Tag) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := bindingKey{id: t.ID(), lang: lang.String()}
	if _, ok := r.bindings[k]; !ok {
		return false
	}
	delete(r.bindings, k)
	return true
}

// Lookup returns the binding Resolve would use for t in lang.
func (r *Registry) Lookup(t types.Annotatable, lang language.Tag) (Binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, l := range fallbacks(lang) {
		if b, ok := r.bindings[bindingKey{id: t.ID(), lang: l.String()}]; ok {
			return b, true
		}
	}
	return Binding{}, false
}

// Resolve constructs the annotator bound for t in lang.
func (r *Registry) Resolve(t types.Annotatable, lang language.Tag) (Annotator, error) {
	b, ok := r.Lookup(t, lang)
	if !ok {
		return nil, fmt.Errorf("%w: %s (%s)", ErrNoAnnotator, t.ID(), lang)
	}
	r.mu.RLock()
	factory := r.factories[b.Factory]
	r.mu.RUnlock()

	a, err := factory(b.Config)
	if err != nil {
		return nil, fmt.Errorf("annotator: factory %s for %s: %w", b.Factory, t.ID(), err)
	}
	if a == nil {
		return nil, fmt.Errorf("%w: factory %s returned nil for %s", ErrNoAnnotator, b.Factory, t.ID())
	}
	return a, nil
}

// Factories returns the registered factory names, sorted.
func (r *Registry) Factories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Bindings returns every binding sorted by type id and language.
func (r *Registry) Bindings() []Binding {
	r.mu.RLock()
	out := make([]Binding, 0, len(r.bindings))
	for _, b := range r.bindings {
		out = append(out, b)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Type.ID().String(), out[j].Type.ID().String()
		if a != b {
			return a < b
		}
		return out[i].Language.String() < out[j].Language.String()
	})
	return out
}
