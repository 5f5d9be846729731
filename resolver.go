package cofrin

import (
	"context"
	"time"

	"github.com/thiagodosanjos/cofrin/card"
	"github.com/thiagodosanjos/cofrin/cycle"
	"github.com/thiagodosanjos/cofrin/id"
	"github.com/thiagodosanjos/cofrin/types"
)

// CycleCheck is the outcome of classifying a purchase date against a card's
// billing cycles and bill state.
type CycleCheck struct {
	// CanAdd is false only when the purchase cannot land on an open
	// ledger line: the resolved period's bill is paid, and so is the
	// period one month forward. Closed-but-unpaid periods still accept
	// transactions.
	CanAdd bool

	// Period is the billing period the purchase should be recorded
	// under, after any forward redirection.
	Period types.Period

	IsPaid   bool
	IsClosed bool

	// Redirected is true when the naive period's bill was already paid
	// and the purchase was rolled forward one month.
	Redirected bool
}

// CheckCardPeriod resolves the billing period for a purchase on a card and
// checks it against the period's bill state. A purchase dated after the
// closing day belongs to the next cycle; once a bill is paid its entries are
// settled and must not be mutated, so new purchases roll forward one month.
// Only one level of re-check is performed: if the redirected period's bill
// is paid too, CanAdd is false.
func (e *Engine) CheckCardPeriod(ctx context.Context, userID id.ID, c *card.CreditCard, purchaseDate time.Time) (CycleCheck, error) {
	p := cycle.Resolve(purchaseDate, c.ClosingDay)

	paid, err := e.billPaid(ctx, userID, c.ID, p)
	if err != nil {
		return CycleCheck{}, err
	}

	redirected := false
	if paid {
		p = p.Next()
		redirected = true

		paid, err = e.billPaid(ctx, userID, c.ID, p)
		if err != nil {
			return CycleCheck{}, err
		}
	}

	return CycleCheck{
		CanAdd:     !paid,
		Period:     p,
		IsPaid:     paid,
		IsClosed:   cycle.Closed(p, c.ClosingDay, e.now()),
		Redirected: redirected,
	}, nil
}

// billPaid reports whether the bill for (card, period) exists and is paid.
// A missing bill is an open, unpaid period.
func (e *Engine) billPaid(ctx context.Context, userID, cardID id.ID, p types.Period) (bool, error) {
	b, err := e.store.GetBillByPeriod(ctx, userID, cardID, p)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return b.IsPaid, nil
}
