package category

import (
	"context"

	"github.com/thiagodosanjos/cofrin/id"
)

// Store is the persistence contract for categories.
type Store interface {
	Create(ctx context.Context, c *Category) error
	Get(ctx context.Context, userID, categoryID id.ID) (*Category, error)
	List(ctx context.Context, userID id.ID) ([]*Category, error)
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, userID, categoryID id.ID) error
}
