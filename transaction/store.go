package transaction

import (
	"context"

	"github.com/thiagodosanjos/cofrin/id"
	"github.com/thiagodosanjos/cofrin/types"
)

// Store is the persistence contract for transactions. All list queries are
// field-equality matches; period-range filtering (carry-over, month totals)
// happens in the engine.
type Store interface {
	Create(ctx context.Context, t *Transaction) error
	Get(ctx context.Context, userID, txnID id.ID) (*Transaction, error)
	Update(ctx context.Context, t *Transaction) error
	Delete(ctx context.Context, userID, txnID id.ID) error

	List(ctx context.Context, userID id.ID) ([]*Transaction, error)
	ListByAccount(ctx context.Context, userID, accountID id.ID) ([]*Transaction, error)
	ListByCard(ctx context.Context, userID, cardID id.ID) ([]*Transaction, error)
	ListByCardPeriod(ctx context.Context, userID, cardID id.ID, p types.Period) ([]*Transaction, error)
	ListBySeries(ctx context.Context, userID, seriesID id.ID) ([]*Transaction, error)
}
