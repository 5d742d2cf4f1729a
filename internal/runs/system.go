package runs

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/visage/pkg/pagination"
)

// System defines the public contract for run history operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Run], error)

	Find(ctx context.Context, id uuid.UUID) (*Run, error)
	Record(ctx context.Context, cmd CreateCommand) (*Run, error)
}
