package wazero

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/vishalmysore/ucpexample/application/params"
	"github.com/vishalmysore/ucpexample/domain/entities"
	"github.com/vishalmysore/ucpexample/domain/ports"
)

// ModuleConfig holds configuration for a ModuleHandler.
type ModuleConfig struct {
	// RuntimeConfig configures the wazero runtime. Defaults to a runtime that
	// closes instances when the call context is done.
	RuntimeConfig wazero.RuntimeConfig

	// Logger receives instantiation and call failures.
	Logger *slog.Logger

	// ParamNames names the export parameters in order. Missing names default
	// to "arg0", "arg1" and so on.
	ParamNames []string
}

// ModuleOption configures a ModuleHandler.
type ModuleOption func(*ModuleConfig)

// WithParamNames names the export parameters.
func WithParamNames(names ...string) ModuleOption {
	return func(c *ModuleConfig) {
		c.ParamNames = names
	}
}

// WithRuntimeConfig replaces the wazero runtime configuration.
func WithRuntimeConfig(rc wazero.RuntimeConfig) ModuleOption {
	return func(c *ModuleConfig) {
		c.RuntimeConfig = rc
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ModuleOption {
	return func(c *ModuleConfig) {
		c.Logger = logger
	}
}

func defaultModuleConfig() ModuleConfig {
	return ModuleConfig{
		RuntimeConfig: wazero.NewRuntimeConfig().WithCloseOnContextDone(true),
		Logger:        slog.Default(),
	}
}

// ModuleHandler is a ports.ContextHandler backed by one exported function of
// a compiled WebAssembly module.
type ModuleHandler struct {
	runtime  wazero.Runtime
	compiled wazero.CompiledModule
	logger   *slog.Logger
	export   string
	params   []api.ValueType
	results  []api.ValueType
	sig      entities.Signature
}

var _ ports.ContextHandler = (*ModuleHandler)(nil)

// NewModuleHandler compiles wasm and binds its export. The module must not
// import host functions.
func NewModuleHandler(ctx context.Context, wasm []byte, export string, opts ...ModuleOption) (*ModuleHandler, error) {
	cfg := defaultModuleConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	runtime := wazero.NewRuntimeWithConfig(ctx, cfg.RuntimeConfig)
	compiled, err := runtime.CompileModule(ctx, wasm)
	if err != nil {
		_ = runtime.Close(ctx)
		return nil, fmt.Errorf("failed to compile module: %w", err)
	}

	def, ok := compiled.ExportedFunctions()[export]
	if !ok {
		_ = runtime.Close(ctx)
		return nil, fmt.Errorf("module does not export function %q", export)
	}

	h := &ModuleHandler{
		runtime:  runtime,
		compiled: compiled,
		logger:   cfg.Logger,
		export:   export,
		params:   def.ParamTypes(),
		results:  def.ResultTypes(),
	}

	for _, vt := range append(append([]api.ValueType{}, h.params...), h.results...) {
		if !numeric(vt) {
			_ = runtime.Close(ctx)
			return nil, fmt.Errorf("export %q uses unsupported value type %s", export, api.ValueTypeName(vt))
		}
	}

	h.sig = make(entities.Signature, len(h.params))
	for i := range h.params {
		name := fmt.Sprintf("arg%d", i)
		if i < len(cfg.ParamNames) && cfg.ParamNames[i] != "" {
			name = cfg.ParamNames[i]
		}
		h.sig[i] = entities.NumberParam(name)
	}
	return h, nil
}

// NewModuleHandlerFromFile reads the module from path.
func NewModuleHandlerFromFile(ctx context.Context, path, export string, opts ...ModuleOption) (*ModuleHandler, error) {
	wasm, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading module file: %w", err)
	}
	return NewModuleHandler(ctx, wasm, export, opts...)
}

// Signature implements ports.Handler.
func (h *ModuleHandler) Signature() entities.Signature {
	out := make(entities.Signature, len(h.sig))
	copy(out, h.sig)
	return out
}

// Call implements ports.Handler.
func (h *ModuleHandler) Call(args []any) (any, error) {
	return h.CallContext(context.Background(), args)
}

// CallContext implements ports.ContextHandler. A single result is returned as
// a Go number of the matching width; several results are returned as []any.
func (h *ModuleHandler) CallContext(ctx context.Context, args []any) (any, error) {
	if len(args) != len(h.params) {
		return nil, fmt.Errorf("export %q takes %d arguments, got %d", h.export, len(h.params), len(args))
	}

	stack := make([]uint64, len(args))
	for i, arg := range args {
		v, err := encode(h.params[i], arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		stack[i] = v
	}

	// Anonymous instances may coexist; each call gets its own.
	mod, err := h.runtime.InstantiateModule(ctx, h.compiled, wazero.NewModuleConfig().WithName(""))
	if err != nil {
		h.logger.ErrorContext(ctx, "wazero: failed to instantiate module", "export", h.export, "error", err)
		return nil, fmt.Errorf("failed to instantiate module: %w", err)
	}
	defer mod.Close(ctx)

	out, err := mod.ExportedFunction(h.export).Call(ctx, stack...)
	if err != nil {
		return nil, fmt.Errorf("export %q failed: %w", h.export, err)
	}

	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return decode(h.results[0], out[0]), nil
	}
	values := make([]any, len(out))
	for i, r := range out {
		values[i] = decode(h.results[i], r)
	}
	return values, nil
}

// Close releases the runtime and every compiled artifact.
func (h *ModuleHandler) Close(ctx context.Context) error {
	return h.runtime.Close(ctx)
}

func numeric(vt api.ValueType) bool {
	switch vt {
	case api.ValueTypeI32, api.ValueTypeI64, api.ValueTypeF32, api.ValueTypeF64:
		return true
	}
	return false
}

func encode(vt api.ValueType, arg any) (uint64, error) {
	switch vt {
	case api.ValueTypeI32:
		i, ok := params.ToInt64(arg)
		if !ok || i < math.MinInt32 || i > math.MaxInt32 {
			return 0, fmt.Errorf("%v is not a 32-bit integer", arg)
		}
		return api.EncodeI32(int32(i)), nil
	case api.ValueTypeI64:
		i, ok := params.ToInt64(arg)
		if !ok {
			return 0, fmt.Errorf("%v is not an integer", arg)
		}
		return api.EncodeI64(i), nil
	case api.ValueTypeF32:
		f, ok := params.ToFloat(arg)
		if !ok {
			return 0, fmt.Errorf("%v is not a number", arg)
		}
		return api.EncodeF32(float32(f)), nil
	case api.ValueTypeF64:
		f, ok := params.ToFloat(arg)
		if !ok {
			return 0, fmt.Errorf("%v is not a number", arg)
		}
		return api.EncodeF64(f), nil
	}
	return 0, fmt.Errorf("unsupported value type %s", api.ValueTypeName(vt))
}

func decode(vt api.ValueType, v uint64) any {
	switch vt {
	case api.ValueTypeI32:
		return api.DecodeI32(v)
	case api.ValueTypeI64:
		return int64(v)
	case api.ValueTypeF32:
		return api.DecodeF32(v)
	default:
		return api.DecodeF64(v)
	}
}
