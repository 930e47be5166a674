package template

import (
	"fmt"
	"os"
	"regexp"

	"github.com/vishalmysore/ucpexample/domain/ports"
)

var envPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// EnvExpander implements TemplateEngine by replacing ${VAR_NAME} patterns.
// Render variables take precedence over the environment; unset variables
// expand to an empty string.
type EnvExpander struct {
	lookup func(string) (string, bool)
}

// EnvOption configures an EnvExpander.
type EnvOption func(*EnvExpander)

// WithLookup replaces os.LookupEnv as the variable source.
func WithLookup(fn func(string) (string, bool)) EnvOption {
	return func(e *EnvExpander) {
		e.lookup = fn
	}
}

// NewEnvExpander creates an EnvExpander reading the process environment.
func NewEnvExpander(opts ...EnvOption) ports.TemplateEngine {
	e := &EnvExpander{lookup: os.LookupEnv}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Render implements TemplateEngine.
func (e *EnvExpander) Render(raw []byte, vars map[string]any) ([]byte, error) {
	return envPattern.ReplaceAllFunc(raw, func(match []byte) []byte {
		name := string(envPattern.FindSubmatch(match)[1])
		if v, ok := vars[name]; ok {
			return []byte(fmt.Sprint(v))
		}
		v, _ := e.lookup(name)
		return []byte(v)
	}), nil
}
