package card

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/thiagodosanjos/cofrin/id"
)

// Store is the persistence contract for credit cards.
type Store interface {
	Create(ctx context.Context, c *CreditCard) error
	Get(ctx context.Context, userID, cardID id.ID) (*CreditCard, error)
	List(ctx context.Context, userID id.ID) ([]*CreditCard, error)
	Update(ctx context.Context, c *CreditCard) error
	Delete(ctx context.Context, userID, cardID id.ID) error

	// AdjustUsed atomically adds delta to the cached outstanding total.
	AdjustUsed(ctx context.Context, userID, cardID id.ID, delta decimal.Decimal) error

	// SetUsed overwrites the cached outstanding total (reconciliation
	// and bill payment only).
	SetUsed(ctx context.Context, userID, cardID id.ID, used decimal.Decimal) error
}
