package dispatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/vishalmysore/ucpexample/domain/entities"
)

// Invoker is one step of the call chain. The innermost invoker calls the
// handler.
type Invoker func(ctx context.Context, call *Call) (entities.ResultEnvelope, error)

// Middleware wraps an Invoker to add cross-cutting behavior.
// Middleware executes in FIFO order (first registered wraps first, onion model).
//
// Example usage:
//
//	auditing := func(next dispatch.Invoker) dispatch.Invoker {
//	    return func(ctx context.Context, call *dispatch.Call) (entities.ResultEnvelope, error) {
//	        audit.Record(call.Descriptor.QualifiedName)
//	        return next(ctx, call)
//	    }
//	}
type Middleware func(next Invoker) Invoker

// LoggingMiddleware logs every invocation with its call ID.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next Invoker) Invoker {
		return func(ctx context.Context, call *Call) (entities.ResultEnvelope, error) {
			log := logger.With(
				"call_id", call.ID,
				"capability", call.Descriptor.QualifiedName,
				"group", call.Descriptor.GroupName)

			log.DebugContext(ctx, "invoking capability", "args", len(call.Args))
			start := time.Now()
			env, err := next(ctx, call)
			if err != nil {
				log.ErrorContext(ctx, "capability failed", "error", err, "duration", time.Since(start))
				return env, err
			}
			log.DebugContext(ctx, "capability completed", "duration", time.Since(start))
			return env, nil
		}
	}
}

// TimingMiddleware records the handler duration in the envelope metadata
// under "duration_ms". Envelopes produced with it are no longer identical
// across repeated calls.
func TimingMiddleware() Middleware {
	return func(next Invoker) Invoker {
		return func(ctx context.Context, call *Call) (entities.ResultEnvelope, error) {
			start := time.Now()
			env, err := next(ctx, call)
			if err != nil {
				return env, err
			}
			return env.WithMetadata("duration_ms", time.Since(start).Milliseconds()), nil
		}
	}
}
