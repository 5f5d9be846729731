// Package card defines the credit-card entity.
package card

import (
	"github.com/shopspring/decimal"

	"github.com/thiagodosanjos/cofrin/id"
	"github.com/thiagodosanjos/cofrin/types"
)

// CreditCard is a credit card owned by a single user.
//
// CurrentUsed is the cached outstanding total: the sum of non-cancelled
// expense amounts minus income (refund) amounts across all of the card's
// transactions. It is mutated only by the engine and corrected by
// reconciliation; it must never be assumed consistent after a bulk
// operation.
type CreditCard struct {
	types.Entity
	ID     id.ID  `json:"id"`
	UserID id.ID  `json:"user_id"`
	Name   string `json:"name"`

	Limit decimal.Decimal `json:"limit"`

	// ClosingDay is the day of month (1-31) the statement closes.
	// Purchases dated after it belong to the next billing period.
	ClosingDay int `json:"closing_day"`

	// DueDay is the day of month (1-31) the bill is due.
	DueDay int `json:"due_day"`

	CurrentUsed decimal.Decimal `json:"current_used"`

	// PaymentAccountID is the default account bills are paid from.
	// Nil when unset.
	PaymentAccountID id.ID `json:"payment_account_id,omitempty"`

	IsArchived bool `json:"is_archived"`
}

// Available returns the remaining spendable amount on the card.
func (c *CreditCard) Available() decimal.Decimal {
	return c.Limit.Sub(c.CurrentUsed)
}
