package annotator

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/annogo/types"
)

// FileConfig is the YAML layout of a bindings file.
type FileConfig struct {
	Bindings []BindingConfig `yaml:"bindings"`
}

// BindingConfig is one entry of a bindings file.
type BindingConfig struct {
	// Kind is annotation, attribute or relation. Empty means annotation.
	Kind string `yaml:"kind,omitempty"`
	// Type is the type name, e.g. TOKEN.
	Type string `yaml:"type"`
	// Language is a BCP 47 tag. Empty binds language-agnostically.
	Language string `yaml:"language,omitempty"`
	// Annotator names a registered factory.
	Annotator string `yaml:"annotator"`
	// Config is handed to the factory.
	Config Config `yaml:"config,omitempty"`
}

// ParseBindings decodes a bindings file.
func ParseBindings(data []byte) (*FileConfig, error) {
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBinding, err)
	}
	return &fc, nil
}

// Resolve turns the entry into a Binding. Types must already be registered
// in tr.
func (c BindingConfig) Resolve(tr *types.Registry) (Binding, error) {
	kind, err := types.ParseKind(c.Kind)
	if err != nil {
		return Binding{}, fmt.Errorf("%w: %w", ErrInvalidBinding, err)
	}
	if c.Annotator == "" {
		return Binding{}, fmt.Errorf("%w: %s has no annotator", ErrInvalidBinding, c.Type)
	}
	t, err := tr.Lookup(types.ID{Kind: kind, Name: c.Type})
	if err != nil {
		return Binding{}, fmt.Errorf("%w: %w", ErrInvalidBinding, err)
	}
	lang := language.Und
	if c.Language != "" {
		if lang, err = language.Parse(c.Language); err != nil {
			return Binding{}, fmt.Errorf("%w: language %q: %w", ErrInvalidBinding, c.Language, err)
		}
	}
	return Binding{Type: t, Language: lang, Factory: c.Annotator, Config: c.Config}, nil
}

// LoadBindings reads a YAML bindings file from r and binds every entry.
// All entries are validated before any is applied.
func (r *Registry) LoadBindings(in io.Reader, tr *types.Registry) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	fc, err := ParseBindings(data)
	if err != nil {
		return err
	}

	bindings := make([]Binding, 0, len(fc.Bindings))
	var errs []error
	for i, bc := range fc.Bindings {
		b, err := bc.Resolve(tr)
		if err != nil {
			errs = append(errs, fmt.Errorf("binding %d: %w", i, err))
			continue
		}
		r.mu.RLock()
		_, ok := r.factories[b.Factory]
		r.mu.RUnlock()
		if !ok {
			errs = append(errs, fmt.Errorf("binding %d: %w: %q", i, ErrUnknownFactory, b.Factory))
			continue
		}
		bindings = append(bindings, b)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	for _, b := range bindings {
		if err := r.Bind(b); err != nil {
			return err
		}
	}
	return nil
}
