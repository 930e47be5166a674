package ports

import (
	"context"

	"github.com/vishalmysore/ucpexample/domain/entities"
)

// Handler is the callable bound to a capability descriptor.
type Handler interface {
	// Signature describes the ordered parameters Call expects.
	Signature() entities.Signature

	// Call invokes the handler. Arguments have already been checked
	// against Signature. The result may be a bare value or a
	// ResultEnvelope carrying a message and metadata.
	Call(args []any) (any, error)
}

// ContextHandler is implemented by handlers that honor cancellation and
// deadlines. The dispatcher prefers CallContext when it is available.
type ContextHandler interface {
	Handler
	CallContext(ctx context.Context, args []any) (any, error)
}

// HandlerCatalog resolves manifest bindings to handlers.
type HandlerCatalog interface {
	Lookup(binding string) (Handler, bool)
}

// CatalogMap is a HandlerCatalog backed by a map.
type CatalogMap map[string]Handler

// Lookup implements HandlerCatalog.
func (m CatalogMap) Lookup(binding string) (Handler, bool) {
	h, ok := m[binding]
	return h, ok
}
