// Package template renders raw manifests before they are parsed.
package template

import (
	"bytes"
	"fmt"
	"os"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/vishalmysore/ucpexample/domain/ports"
)

type templateConfig struct {
	lookup func(string) (string, bool)
	strict bool
}

// TemplateOption configures a GoTemplateEngine.
type TemplateOption func(*templateConfig)

// WithStrict controls whether referencing a missing .vars key fails the
// render. Strict is the default. Use index to read optional keys in strict
// mode: {{ index .vars "region" | default "north" }}.
func WithStrict(enabled bool) TemplateOption {
	return func(c *templateConfig) {
		c.strict = enabled
	}
}

// WithEnvLookup replaces os.LookupEnv for the env function.
func WithEnvLookup(lookup func(string) (string, bool)) TemplateOption {
	return func(c *templateConfig) {
		c.lookup = lookup
	}
}

// GoTemplateEngine renders manifests with text/template and the sprig
// function library. Variables are available as {{ .vars.name }}. The env and
// expandenv functions read through the configured lookup, so tests can
// render without touching the process environment.
type GoTemplateEngine struct {
	funcs  template.FuncMap
	config templateConfig
}

// NewGoTemplateEngine creates a new GoTemplateEngine.
func NewGoTemplateEngine(opts ...TemplateOption) ports.TemplateEngine {
	cfg := templateConfig{lookup: os.LookupEnv, strict: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	funcs := sprig.TxtFuncMap()
	funcs["env"] = func(name string) string {
		v, _ := cfg.lookup(name)
		return v
	}
	funcs["expandenv"] = func(s string) string {
		return os.Expand(s, func(name string) string {
			v, _ := cfg.lookup(name)
			return v
		})
	}
	return &GoTemplateEngine{funcs: funcs, config: cfg}
}

// Render processes the raw manifest bytes with the provided variables.
func (e *GoTemplateEngine) Render(raw []byte, vars map[string]any) ([]byte, error) {
	tmpl := template.New("manifest").Funcs(e.funcs)
	if e.config.strict {
		tmpl = tmpl.Option("missingkey=error")
	}

	tmpl, err := tmpl.Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest template: %w", err)
	}

	if vars == nil {
		vars = map[string]any{}
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]any{"vars": vars}); err != nil {
		return nil, fmt.Errorf("failed to execute manifest template: %w", err)
	}
	return buf.Bytes(), nil
}
