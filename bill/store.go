package bill

import (
	"context"

	"github.com/thiagodosanjos/cofrin/id"
	"github.com/thiagodosanjos/cofrin/types"
)

// Store is the persistence contract for bills.
type Store interface {
	Create(ctx context.Context, b *Bill) error
	Get(ctx context.Context, userID, billID id.ID) (*Bill, error)
	GetByPeriod(ctx context.Context, userID, cardID id.ID, p types.Period) (*Bill, error)
	ListByCard(ctx context.Context, userID, cardID id.ID) ([]*Bill, error)
	Update(ctx context.Context, b *Bill) error
	Delete(ctx context.Context, userID, billID id.ID) error
}
