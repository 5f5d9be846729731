// Package transaction defines the ledger transaction entity.
package transaction

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/thiagodosanjos/cofrin/id"
	"github.com/thiagodosanjos/cofrin/types"
)

// Type is the movement direction of a transaction.
type Type string

const (
	TypeExpense  Type = "expense"
	TypeIncome   Type = "income"
	TypeTransfer Type = "transfer"
)

// Valid reports whether t is a known transaction type.
func (t Type) Valid() bool {
	switch t {
	case TypeExpense, TypeIncome, TypeTransfer:
		return true
	}
	return false
}

// Status is the lifecycle state of a transaction. Transitions are driven by
// the caller; the ledger cares about the edge crossed, not the state itself.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known transaction status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Transaction is a single ledger movement. A transaction affects at most one
// of {account balance, card usage}, never both, and only while completed.
//
// Month/Year is the denormalized ledger period: the calendar month of Date
// for account-bound rows, the resolved billing period for card-bound rows.
type Transaction struct {
	types.Entity
	ID     id.ID `json:"id"`
	UserID id.ID `json:"user_id"`

	Type        Type            `json:"type"`
	Amount      decimal.Decimal `json:"amount"` // always positive; sign comes from Type
	Date        time.Time       `json:"date"`
	Status      Status          `json:"status"`
	Description string          `json:"description,omitempty"`

	Period types.Period `json:"period"`

	// Binding: exactly one of AccountID / CreditCardID is set.
	AccountID    id.ID `json:"account_id,omitempty"`
	ToAccountID  id.ID `json:"to_account_id,omitempty"` // transfers only
	CreditCardID id.ID `json:"credit_card_id,omitempty"`

	// CreditCardBillID marks this row as a bill settlement, not a purchase.
	CreditCardBillID id.ID `json:"credit_card_bill_id,omitempty"`

	CategoryID          id.ID `json:"category_id,omitempty"`
	GoalID              id.ID `json:"goal_id,omitempty"`
	SeriesID            id.ID `json:"series_id,omitempty"` // installment group
	ParentTransactionID id.ID `json:"parent_transaction_id,omitempty"`

	// Denormalized display names, kept in sync on rename so list views
	// need no extra reads against a store without joins.
	AccountName   string `json:"account_name,omitempty"`
	ToAccountName string `json:"to_account_name,omitempty"`
	CardName      string `json:"card_name,omitempty"`
	CategoryName  string `json:"category_name,omitempty"`
}

// CardBound reports whether the transaction belongs to a credit card.
func (t *Transaction) CardBound() bool {
	return !t.CreditCardID.IsNil()
}

// AccountBound reports whether the transaction belongs to an account.
func (t *Transaction) AccountBound() bool {
	return !t.AccountID.IsNil() && t.CreditCardID.IsNil()
}

// IsBillPayment reports whether the transaction settles a credit-card bill.
func (t *Transaction) IsBillPayment() bool {
	return !t.CreditCardBillID.IsNil()
}

// Signed returns the amount signed by type relative to an account or card
// aggregate: income positive for accounts, expense positive for cards.
// Callers pick the convention; this helper covers the account view
// (income +, expense and transfer-out -).
func (t *Transaction) Signed() decimal.Decimal {
	if t.Type == TypeIncome {
		return t.Amount
	}
	return t.Amount.Neg()
}

// Clone returns a deep copy of the transaction. The engine's update path
// requires the caller-supplied previous snapshot to stay untouched.
func (t *Transaction) Clone() *Transaction {
	cp := *t
	return &cp
}
