package account

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/thiagodosanjos/cofrin/id"
)

// Store is the persistence contract for accounts. Every accessor takes the
// owning user ID first; the store must never return another user's rows.
type Store interface {
	Create(ctx context.Context, a *Account) error
	Get(ctx context.Context, userID, accountID id.ID) (*Account, error)
	List(ctx context.Context, userID id.ID) ([]*Account, error)
	Update(ctx context.Context, a *Account) error
	Delete(ctx context.Context, userID, accountID id.ID) error

	// AdjustBalance atomically adds delta to the cached balance.
	AdjustBalance(ctx context.Context, userID, accountID id.ID, delta decimal.Decimal) error

	// SetBalance overwrites the cached balance (reconciliation only).
	SetBalance(ctx context.Context, userID, accountID id.ID, balance decimal.Decimal) error
}
