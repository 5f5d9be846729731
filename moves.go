package cofrin

import (
	"context"
	"sort"

	"github.com/thiagodosanjos/cofrin/id"
	"github.com/thiagodosanjos/cofrin/types"
)

// MoveTransactionToNextBill reassigns a card purchase to the following
// billing period, shifting its date one calendar month forward with the
// day-of-month clamped to the target month's length and the time-of-day
// preserved. The card is fully reconciled afterward.
func (e *Engine) MoveTransactionToNextBill(ctx context.Context, userID, txnID id.ID) error {
	return e.moveTransaction(ctx, userID, txnID, 1)
}

// MoveTransactionToPreviousBill reassigns a card purchase to the preceding
// billing period; see MoveTransactionToNextBill for the date rules.
func (e *Engine) MoveTransactionToPreviousBill(ctx context.Context, userID, txnID id.ID) error {
	return e.moveTransaction(ctx, userID, txnID, -1)
}

func (e *Engine) moveTransaction(ctx context.Context, userID, txnID id.ID, shift int) error {
	t, err := e.store.GetTransaction(ctx, userID, txnID)
	if err != nil {
		return err
	}
	if !t.CardBound() {
		return ErrNotCardTransaction
	}

	t.Period = t.Period.AddMonths(shift)
	t.Date = types.PeriodOf(t.Date).AddMonths(shift).DateAt(t.Date.Day(), t.Date)
	t.Touch()

	if err := e.store.UpdateTransaction(ctx, t); err != nil {
		return err
	}

	// The line crossed an aggregate boundary; deltas no longer add up.
	if _, err := e.ReconcileCard(ctx, userID, t.CreditCardID); err != nil {
		return err
	}

	e.logger.Debug("transaction moved",
		"txn_id", t.ID.String(),
		"period", t.Period.String(),
	)
	return nil
}

// MoveSeriesToNextBill reassigns a whole installment series to start at the
// next billing period after the series' original one, or one month further
// if that period's bill is already paid. Installments keep their relative
// order: the i-th lands i months after the new start. Dates are re-anchored
// with the day clamped per target month, and the card's usage is fully
// reconciled at the end.
func (e *Engine) MoveSeriesToNextBill(ctx context.Context, userID, seriesID id.ID) error {
	txns, err := e.store.ListTransactionsBySeries(ctx, userID, seriesID)
	if err != nil {
		return err
	}
	if len(txns) == 0 {
		return ErrEmptySeries
	}

	cardID := txns[0].CreditCardID
	for _, t := range txns {
		if !t.CardBound() {
			return ErrNotCardTransaction
		}
		if t.CreditCardID != cardID {
			return ErrMixedSeries
		}
	}

	sort.Slice(txns, func(i, j int) bool {
		if c := txns[i].Period.Compare(txns[j].Period); c != 0 {
			return c < 0
		}
		return txns[i].Date.Before(txns[j].Date)
	})

	target := txns[0].Period.Next()
	paid, err := e.billPaid(ctx, userID, cardID, target)
	if err != nil {
		return err
	}
	if paid {
		target = target.Next()
	}

	for i, t := range txns {
		p := target.AddMonths(i)
		t.Period = p
		t.Date = p.DateAt(t.Date.Day(), t.Date)
		t.Touch()
		if err := e.store.UpdateTransaction(ctx, t); err != nil {
			return err
		}
	}

	if _, err := e.ReconcileCard(ctx, userID, cardID); err != nil {
		return err
	}

	e.logger.Debug("series moved",
		"series_id", seriesID.String(),
		"card_id", cardID.String(),
		"start_period", target.String(),
		"installments", len(txns),
	)
	return nil
}
