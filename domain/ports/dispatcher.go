package ports

import (
	"context"

	"github.com/vishalmysore/ucpexample/domain/entities"
)

// Dispatcher invokes a capability by qualified name with ordered arguments.
type Dispatcher interface {
	Dispatch(ctx context.Context, qualifiedName string, args []any) (entities.ResultEnvelope, error)
}
