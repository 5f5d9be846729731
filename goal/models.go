// Package goal defines the savings-goal entity.
package goal

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/thiagodosanjos/cofrin/id"
	"github.com/thiagodosanjos/cofrin/types"
)

// Goal tracks progress toward a savings target. CurrentAmount moves in
// lockstep with completed transactions that carry the goal's ID.
type Goal struct {
	types.Entity
	ID     id.ID  `json:"id"`
	UserID id.ID  `json:"user_id"`
	Name   string `json:"name"`

	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`

	Deadline *time.Time `json:"deadline,omitempty"`
}

// Reached reports whether the goal's target has been met.
func (g *Goal) Reached() bool {
	return g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}
