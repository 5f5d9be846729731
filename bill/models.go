// Package bill defines the monthly credit-card bill aggregate.
package bill

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/thiagodosanjos/cofrin/id"
	"github.com/thiagodosanjos/cofrin/types"
)

// Bill is the statement aggregate for one credit card and one period.
// Bills are created lazily on first reference to a (card, period) pair.
//
// TotalAmount is a cache written at payment time; reads recompute the
// authoritative sum from the card's transactions for the period.
type Bill struct {
	types.Entity
	ID           id.ID `json:"id"`
	UserID       id.ID `json:"user_id"`
	CreditCardID id.ID `json:"credit_card_id"`

	Period types.Period `json:"period"`
	DueDay int          `json:"due_day"`

	TotalAmount decimal.Decimal `json:"total_amount"`

	// IsPaid flips only via the pay/unpay operations.
	IsPaid               bool       `json:"is_paid"`
	PaidAt               *time.Time `json:"paid_at,omitempty"`
	PaidFromAccountID    id.ID      `json:"paid_from_account_id,omitempty"`
	PaymentTransactionID id.ID      `json:"payment_transaction_id,omitempty"`
}
