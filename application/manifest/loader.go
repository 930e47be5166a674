// Package manifest loads the startup manifest: it renders the raw bytes,
// parses them and checks the result before anything is registered.
package manifest

import (
	"fmt"
	"os"

	"github.com/vishalmysore/ucpexample/application/template"
	"github.com/vishalmysore/ucpexample/application/validation"
	"github.com/vishalmysore/ucpexample/domain/entities"
	"github.com/vishalmysore/ucpexample/domain/ports"
	"github.com/vishalmysore/ucpexample/infrastructure/parser"
)

// Loader turns raw manifest bytes into a checked Manifest.
type Loader struct {
	parser    ports.ManifestParser
	validator *validation.TransportValidator
	renderers []ports.TemplateEngine
}

// LoaderOption configures the Loader.
type LoaderOption func(*Loader)

// WithParser sets the manifest parser. Defaults to YAML.
func WithParser(p ports.ManifestParser) LoaderOption {
	return func(l *Loader) {
		l.parser = p
	}
}

// WithTemplateEngine appends a renderer. Renderers run in the order added,
// after ${VAR} expansion.
func WithTemplateEngine(t ports.TemplateEngine) LoaderOption {
	return func(l *Loader) {
		l.renderers = append(l.renderers, t)
	}
}

// WithValidator sets the validator used for the final manifest check.
func WithValidator(v *validation.TransportValidator) LoaderOption {
	return func(l *Loader) {
		l.validator = v
	}
}

// NewLoader creates a Loader. ${VAR} expansion is always applied first.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		parser:    parser.NewYamlManifestParser(),
		renderers: []ports.TemplateEngine{template.NewEnvExpander()},
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.validator == nil {
		l.validator = validation.New()
	}
	return l
}

// InvalidManifestError carries every problem found in a manifest.
type InvalidManifestError struct {
	Result *entities.ValidationResult
}

func (e *InvalidManifestError) Error() string {
	if len(e.Result.Errors) == 0 {
		return "invalid manifest"
	}
	first := e.Result.Errors[0]
	msg := fmt.Sprintf("invalid manifest: %s: %s", first.Field, first.Message)
	if n := len(e.Result.Errors) - 1; n > 0 {
		msg += fmt.Sprintf(" (and %d more)", n)
	}
	return msg
}

// Load renders, parses and validates raw manifest bytes.
func (l *Loader) Load(raw []byte, vars map[string]any) (*entities.Manifest, error) {
	m, err := l.Parse(raw, vars)
	if err != nil {
		return nil, err
	}
	if res := l.validator.ValidateManifest(m); !res.Valid {
		return nil, &InvalidManifestError{Result: res}
	}
	return m, nil
}

// Parse renders and parses raw manifest bytes without validating them.
func (l *Loader) Parse(raw []byte, vars map[string]any) (*entities.Manifest, error) {
	data := raw
	for _, r := range l.renderers {
		var err error
		data, err = r.Render(data, vars)
		if err != nil {
			return nil, fmt.Errorf("failed to render manifest: %w", err)
		}
	}

	m, err := l.parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return m, nil
}

// LoadFile reads path, picking the parser from its extension unless one was
// configured explicitly.
func LoadFile(path string, vars map[string]any, opts ...LoaderOption) (*entities.Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest file: %w", err)
	}
	p, err := parser.ForFile(path)
	if err != nil {
		return nil, err
	}
	return NewLoader(append([]LoaderOption{WithParser(p)}, opts...)...).Load(raw, vars)
}
