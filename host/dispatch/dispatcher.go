package dispatch

import (
	"context"
	"log/slog"
	"runtime/debug"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/vishalmysore/ucpexample/domain/entities"
	domainerrors "github.com/vishalmysore/ucpexample/domain/errors"
	"github.com/vishalmysore/ucpexample/domain/ports"
)

// dispatcherConfig holds configuration for the Dispatcher.
type dispatcherConfig struct {
	logger     *slog.Logger
	newID      func() string
	middleware []Middleware
}

// Option configures a Dispatcher.
type Option func(*dispatcherConfig)

// WithMiddleware adds middleware to the dispatcher.
// Middleware executes in FIFO order (first added wraps first).
func WithMiddleware(mw ...Middleware) Option {
	return func(c *dispatcherConfig) {
		c.middleware = append(c.middleware, mw...)
	}
}

// WithLogger sets the dispatcher logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *dispatcherConfig) {
		c.logger = logger
	}
}

// WithIDGenerator replaces the call ID source. Defaults to random UUIDs.
func WithIDGenerator(fn func() string) Option {
	return func(c *dispatcherConfig) {
		c.newID = fn
	}
}

var _ ports.Dispatcher = (*Dispatcher)(nil)

// Dispatcher invokes registered capabilities. It is safe for concurrent use
// once the registry it reads from is sealed.
type Dispatcher struct {
	resolver ports.CapabilityResolver
	logger   *slog.Logger
	newID    func() string
	chain    Invoker
	schemas  sync.Map // schema id -> *schema.Validator
}

// New creates a Dispatcher reading from resolver.
func New(resolver ports.CapabilityResolver, opts ...Option) *Dispatcher {
	cfg := dispatcherConfig{
		logger: slog.Default(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	d := &Dispatcher{
		resolver: resolver,
		logger:   cfg.logger,
		newID:    cfg.newID,
	}

	// Apply middleware in reverse order so first middleware wraps outermost.
	chain := Invoker(d.invoke)
	for i := len(cfg.middleware) - 1; i >= 0; i-- {
		chain = cfg.middleware[i](chain)
	}
	d.chain = chain
	return d
}

// Dispatch calls the capability registered under qualifiedName with args.
//
// Errors are always typed: *errors.CapabilityNotFoundError,
// *errors.ArgumentMismatchError or *errors.HandlerFailureError. The context is
// passed to handlers implementing ports.ContextHandler and ignored otherwise.
func (d *Dispatcher) Dispatch(ctx context.Context, qualifiedName string, args []any) (entities.ResultEnvelope, error) {
	desc, handler, ok := d.resolver.Resolve(qualifiedName)
	if !ok {
		d.logger.DebugContext(ctx, "capability not found", "capability", qualifiedName)
		return entities.ResultEnvelope{}, &domainerrors.CapabilityNotFoundError{Name: qualifiedName}
	}

	if err := d.checkArgs(qualifiedName, handler.Signature(), args); err != nil {
		d.logger.DebugContext(ctx, "argument mismatch", "capability", qualifiedName, "error", err)
		return entities.ResultEnvelope{}, err
	}

	call := &Call{
		ID:         d.newID(),
		Descriptor: desc,
		Args:       slices.Clone(args),
		Handler:    handler,
	}
	return d.chain(WithCall(ctx, call), call)
}

// invoke is the innermost invoker: it runs the handler, recovers panics and
// normalizes the result.
func (d *Dispatcher) invoke(ctx context.Context, call *Call) (env entities.ResultEnvelope, err error) {
	name := call.Descriptor.QualifiedName
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = &domainerrors.PanicError{Value: r}
			}
			env = entities.ResultEnvelope{}
			err = &domainerrors.HandlerFailureError{Capability: name, Cause: cause, Stack: debug.Stack()}
		}
	}()

	var out any
	if ch, ok := call.Handler.(ports.ContextHandler); ok {
		out, err = ch.CallContext(ctx, call.Args)
	} else {
		out, err = call.Handler.Call(call.Args)
	}
	if err != nil {
		return entities.ResultEnvelope{}, &domainerrors.HandlerFailureError{Capability: name, Cause: err}
	}
	return Normalize(out), nil
}

// Normalize converts a handler result into an envelope. Bare values are
// wrapped; envelopes are copied so the handler keeps no alias to the
// returned metadata.
func Normalize(out any) entities.ResultEnvelope {
	switch r := out.(type) {
	case entities.ResultEnvelope:
		return r.Clone()
	case *entities.ResultEnvelope:
		if r == nil {
			return entities.Of(nil)
		}
		return r.Clone()
	default:
		return entities.Of(out)
	}
}

