// Package account defines the bank/cash account entity.
package account

import (
	"github.com/shopspring/decimal"

	"github.com/thiagodosanjos/cofrin/id"
	"github.com/thiagodosanjos/cofrin/types"
)

// Type classifies an account.
type Type string

const (
	TypeChecking   Type = "checking"
	TypeSavings    Type = "savings"
	TypeCash       Type = "cash"
	TypeInvestment Type = "investment"
)

// Account is a money holder owned by a single user.
//
// Balance is the authoritative cached total. It is mutated only by the
// engine's transaction lifecycle and corrected by reconciliation; the store
// never derives it.
type Account struct {
	types.Entity
	ID     id.ID  `json:"id"`
	UserID id.ID  `json:"user_id"`
	Name   string `json:"name"`
	Type   Type   `json:"type"`

	Balance decimal.Decimal `json:"balance"`

	// InitialBalance is immutable once InitialBalanceSet is true.
	InitialBalance    decimal.Decimal `json:"initial_balance"`
	InitialBalanceSet bool            `json:"initial_balance_set"`

	// IncludeInTotal controls whether the account counts toward
	// consolidated balances (carry-over, month totals).
	IncludeInTotal bool `json:"include_in_total"`
	IsArchived     bool `json:"is_archived"`
}
