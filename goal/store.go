package goal

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/thiagodosanjos/cofrin/id"
)

// Store is the persistence contract for goals.
type Store interface {
	Create(ctx context.Context, g *Goal) error
	Get(ctx context.Context, userID, goalID id.ID) (*Goal, error)
	List(ctx context.Context, userID id.ID) ([]*Goal, error)
	Update(ctx context.Context, g *Goal) error
	Delete(ctx context.Context, userID, goalID id.ID) error

	// AdjustProgress atomically adds delta to CurrentAmount.
	AdjustProgress(ctx context.Context, userID, goalID id.ID, delta decimal.Decimal) error
}
