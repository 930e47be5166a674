// Package ucp wires a capability host together: it registers the groups and
// capabilities of a manifest against a handler catalog, seals the registry
// and returns a ready dispatcher.
//
// # Basic Usage
//
//	host, err := ucp.BootstrapFile("manifest.yaml", catalog)
//	if err != nil {
//	    log.Fatal(err) // registration errors are configuration bugs
//	}
//	env, err := host.Dispatch(ctx, "io.github.vishalmysore.car_comparison",
//	    []any{"Toyota Camry", "Honda Civic"})
package ucp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/vishalmysore/ucpexample/application/manifest"
	"github.com/vishalmysore/ucpexample/application/template"
	"github.com/vishalmysore/ucpexample/application/validation"
	"github.com/vishalmysore/ucpexample/domain/entities"
	domainerrors "github.com/vishalmysore/ucpexample/domain/errors"
	"github.com/vishalmysore/ucpexample/domain/ports"
	"github.com/vishalmysore/ucpexample/host/dispatch"
	"github.com/vishalmysore/ucpexample/host/registry"
	"github.com/vishalmysore/ucpexample/transport"
)

// Version is the host version reported by the CLI.
const Version = "0.1.0"

// hostConfig holds configuration for Bootstrap.
type hostConfig struct {
	logger     *slog.Logger
	validator  *validation.TransportValidator
	vars       map[string]any
	middleware []dispatch.Middleware
}

// Option configures Bootstrap.
type Option func(*hostConfig)

// WithLogger sets the logger shared by the registry and dispatcher.
func WithLogger(logger *slog.Logger) Option {
	return func(c *hostConfig) {
		c.logger = logger
	}
}

// WithMiddleware adds dispatch middleware after the built-in logging
// middleware.
func WithMiddleware(mw ...dispatch.Middleware) Option {
	return func(c *hostConfig) {
		c.middleware = append(c.middleware, mw...)
	}
}

// WithValidator replaces the transport validator.
func WithValidator(v *validation.TransportValidator) Option {
	return func(c *hostConfig) {
		c.validator = v
	}
}

// WithVars sets template variables for BootstrapFile. With vars set, the
// manifest is also rendered as a Go template after ${VAR} expansion, so
// {{ .vars.name }} and the sprig functions are available.
func WithVars(vars map[string]any) Option {
	return func(c *hostConfig) {
		c.vars = vars
	}
}

// Host is a sealed registry plus the dispatcher reading from it.
type Host struct {
	Manifest   *entities.Manifest
	Registry   *registry.Registry
	Dispatcher *dispatch.Dispatcher
	logger     *slog.Logger
}

// Bootstrap registers every group and capability of m, resolving bindings
// through catalog, then seals the registry. Any error is a registration error
// and the host must not start.
func Bootstrap(m *entities.Manifest, catalog ports.HandlerCatalog, opts ...Option) (*Host, error) {
	cfg := newHostConfig(opts)
	if m == nil {
		return nil, fmt.Errorf("bootstrap: manifest is nil")
	}

	reg := registry.NewRegistry(
		registry.WithValidator(cfg.validator),
		registry.WithLogger(cfg.logger),
	)

	for _, gm := range m.Groups {
		if err := reg.RegisterGroup(gm.Group()); err != nil {
			return nil, fmt.Errorf("bootstrap: group %s: %w", gm.Name, err)
		}
		for _, cm := range gm.Capabilities {
			h, ok := catalog.Lookup(cm.Binding)
			if !ok {
				return nil, fmt.Errorf("bootstrap: %w", &domainerrors.UnknownBindingError{Capability: cm.Name, Binding: cm.Binding})
			}
			if err := reg.Register(cm.Descriptor(gm.Name, m.Version), h); err != nil {
				return nil, fmt.Errorf("bootstrap: capability %s: %w", cm.Name, err)
			}
		}
	}
	reg.Seal()

	mw := append([]dispatch.Middleware{dispatch.LoggingMiddleware(cfg.logger)}, cfg.middleware...)
	d := dispatch.New(reg, dispatch.WithLogger(cfg.logger), dispatch.WithMiddleware(mw...))

	cfg.logger.Info("capability host ready",
		"business", m.Business,
		"version", m.Version,
		"groups", len(m.Groups),
		"capabilities", reg.Len())

	return &Host{Manifest: m, Registry: reg, Dispatcher: d, logger: cfg.logger}, nil
}

// BootstrapFile loads the manifest at path (YAML or TOML, with ${VAR}
// expansion) and bootstraps it.
func BootstrapFile(path string, catalog ports.HandlerCatalog, opts ...Option) (*Host, error) {
	cfg := newHostConfig(opts)
	loaderOpts := []manifest.LoaderOption{manifest.WithValidator(cfg.validator)}
	if cfg.vars != nil {
		loaderOpts = append(loaderOpts, manifest.WithTemplateEngine(template.NewGoTemplateEngine()))
	}
	m, err := manifest.LoadFile(path, cfg.vars, loaderOpts...)
	if err != nil {
		return nil, err
	}
	return Bootstrap(m, catalog, opts...)
}

func newHostConfig(opts []Option) hostConfig {
	cfg := hostConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.validator == nil {
		cfg.validator = validation.New(validation.WithLogger(cfg.logger))
	}
	return cfg
}

// Dispatch calls a capability in-process. This is the only way to reach
// capabilities declaring no transport.
func (h *Host) Dispatch(ctx context.Context, qualifiedName string, args []any) (entities.ResultEnvelope, error) {
	return h.Dispatcher.Dispatch(ctx, qualifiedName, args)
}

// Handler returns an http.Handler serving REST capabilities under
// /capabilities and their route aliases, and JSON-RPC capabilities at
// POST /rpc.
func (h *Host) Handler(opts ...transport.Option) http.Handler {
	opts = append([]transport.Option{transport.WithLogger(h.logger)}, opts...)

	mux := http.NewServeMux()
	mux.Handle("POST /rpc", transport.NewRPCHandler(h.Dispatcher, h.Registry, opts...))
	mux.Handle("/", transport.NewRESTHandler(h.Dispatcher, h.Registry, opts...))
	return mux
}
