package cofrin

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/thiagodosanjos/cofrin/id"
	"github.com/thiagodosanjos/cofrin/transaction"
)

// applyCardEffect adjusts a card's outstanding usage for one completed
// transaction: an expense increases usage, an income (refund) decreases it.
// With reverse set the delta is negated.
func (e *Engine) applyCardEffect(ctx context.Context, t *transaction.Transaction, reverse bool) error {
	delta := t.Amount
	if t.Type == transaction.TypeIncome {
		delta = delta.Neg()
	}
	if reverse {
		delta = delta.Neg()
	}
	return e.store.AdjustCardUsed(ctx, t.UserID, t.CreditCardID, delta)
}

// ReconcileCard recomputes a card's outstanding usage from scratch: the sum
// over all of the card's non-cancelled transactions, expense positive and
// income negative, regardless of billing period. The result is written back
// and returned. This is the single source of truth after any bulk mutation.
func (e *Engine) ReconcileCard(ctx context.Context, userID, cardID id.ID) (decimal.Decimal, error) {
	if _, err := e.store.GetCard(ctx, userID, cardID); err != nil {
		return decimal.Zero, err
	}

	txns, err := e.store.ListTransactionsByCard(ctx, userID, cardID)
	if err != nil {
		return decimal.Zero, err
	}

	used := decimal.Zero
	for _, t := range txns {
		if t.Status == transaction.StatusCancelled {
			continue
		}
		if t.Type == transaction.TypeIncome {
			used = used.Sub(t.Amount)
		} else {
			used = used.Add(t.Amount)
		}
	}

	if err := e.store.SetCardUsed(ctx, userID, cardID, used); err != nil {
		return decimal.Zero, err
	}

	e.logger.Debug("card reconciled", "card_id", cardID.String(), "used", used.String())
	return used, nil
}
