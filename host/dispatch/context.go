package dispatch

import (
	"context"
	"fmt"

	"github.com/vishalmysore/ucpexample/domain/entities"
	"github.com/vishalmysore/ucpexample/domain/ports"
)

// Call describes one in-flight dispatch. Middleware reads it from the
// context with CallFrom.
type Call struct {
	Handler    ports.Handler
	ID         string
	Descriptor entities.CapabilityDescriptor
	Args       []any
}

type callKey struct{}

// WithCall returns a context carrying call.
func WithCall(ctx context.Context, call *Call) context.Context {
	return context.WithValue(ctx, callKey{}, call)
}

// CallFrom extracts the Call stored by the dispatcher.
func CallFrom(ctx context.Context) (*Call, bool) {
	call, ok := ctx.Value(callKey{}).(*Call)
	return call, ok && call != nil
}

// String implements fmt.Stringer for log output.
func (c *Call) String() string {
	return fmt.Sprintf("%s[%s]", c.Descriptor.QualifiedName, c.ID)
}
