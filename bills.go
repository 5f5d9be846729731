package cofrin

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/thiagodosanjos/cofrin/bill"
	"github.com/thiagodosanjos/cofrin/card"
	"github.com/thiagodosanjos/cofrin/id"
	"github.com/thiagodosanjos/cofrin/transaction"
	"github.com/thiagodosanjos/cofrin/types"
)

// GetOrCreateBill returns the bill for (card, period), creating it lazily
// with a zero total on first reference.
func (e *Engine) GetOrCreateBill(ctx context.Context, userID, cardID id.ID, p types.Period) (*bill.Bill, error) {
	c, err := e.store.GetCard(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}
	return e.getOrCreateBill(ctx, userID, c, p)
}

func (e *Engine) getOrCreateBill(ctx context.Context, userID id.ID, c *card.CreditCard, p types.Period) (*bill.Bill, error) {
	b, err := e.store.GetBillByPeriod(ctx, userID, c.ID, p)
	if err == nil {
		return b, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}

	// Query-then-create; the benign race of two writers creating the
	// same period is out of scope for a single-writer ledger.
	b = &bill.Bill{
		Entity:       types.NewEntity(),
		ID:           id.NewBillID(),
		UserID:       userID,
		CreditCardID: c.ID,
		Period:       p,
		DueDay:       c.DueDay,
		TotalAmount:  decimal.Zero,
	}
	if err := e.store.CreateBill(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// GetBill fetches a bill with its total recomputed from the period's
// transactions. The stored total is a cache written at payment time and is
// never trusted between reads.
func (e *Engine) GetBill(ctx context.Context, userID, billID id.ID) (*bill.Bill, error) {
	b, err := e.store.GetBill(ctx, userID, billID)
	if err != nil {
		return nil, err
	}

	total, err := e.billTotal(ctx, userID, b.CreditCardID, b.Period)
	if err != nil {
		return nil, err
	}
	b.TotalAmount = total
	return b, nil
}

// billTotal sums the card's non-cancelled transactions for one period:
// expenses positive, incomes (refunds) negative.
func (e *Engine) billTotal(ctx context.Context, userID, cardID id.ID, p types.Period) (decimal.Decimal, error) {
	txns, err := e.store.ListTransactionsByCardPeriod(ctx, userID, cardID, p)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, t := range txns {
		if t.Status == transaction.StatusCancelled {
			continue
		}
		if t.Type == transaction.TypeIncome {
			total = total.Sub(t.Amount)
		} else {
			total = total.Add(t.Amount)
		}
	}
	return total, nil
}

// PayBill settles a bill from an account. It creates one account-bound
// expense transaction linked to the bill (a settlement, not a purchase, so
// it carries no category), dated now; marks the bill paid with the payment
// recorded; and zeroes the card's outstanding usage, since settled usage no
// longer counts.
//
// fromAccountID may be Nil to use the card's configured payment account.
// Returns the payment transaction, which is nil when the bill's recomputed
// total is zero or negative: there is nothing to settle and the bill is just
// marked paid.
func (e *Engine) PayBill(ctx context.Context, userID, billID, fromAccountID id.ID) (*transaction.Transaction, error) {
	b, err := e.store.GetBill(ctx, userID, billID)
	if err != nil {
		return nil, err
	}
	if b.IsPaid {
		return nil, ErrBillAlreadyPaid
	}

	c, err := e.store.GetCard(ctx, userID, b.CreditCardID)
	if err != nil {
		return nil, err
	}

	payFrom := fromAccountID
	if payFrom.IsNil() {
		payFrom = c.PaymentAccountID
	}
	if payFrom.IsNil() {
		return nil, ErrNoPaymentAccount
	}

	total, err := e.billTotal(ctx, userID, b.CreditCardID, b.Period)
	if err != nil {
		return nil, err
	}

	var payment *transaction.Transaction
	if total.IsPositive() {
		payment, err = e.CreateTransaction(ctx, userID, TransactionInput{
			Type:             transaction.TypeExpense,
			Amount:           total,
			Date:             e.now(),
			Status:           transaction.StatusCompleted,
			Description:      c.Name + " bill " + b.Period.String(),
			AccountID:        payFrom,
			CreditCardBillID: b.ID,
		})
		if err != nil {
			return nil, err
		}
		b.PaymentTransactionID = payment.ID
	}

	now := e.now()
	b.IsPaid = true
	b.PaidAt = &now
	b.PaidFromAccountID = payFrom
	b.TotalAmount = total
	b.Touch()
	if err := e.store.UpdateBill(ctx, b); err != nil {
		return nil, err
	}

	if err := e.store.SetCardUsed(ctx, userID, c.ID, decimal.Zero); err != nil {
		return nil, err
	}

	e.logger.Info("bill paid",
		"bill_id", b.ID.String(),
		"card_id", c.ID.String(),
		"period", b.Period.String(),
		"total", total.String(),
	)
	return payment, nil
}

// UnpayBill reverses a bill payment. The payment transaction is deleted
// first (its standard delete path restores the paying account's balance)
// and only then are the bill's paid fields cleared, so a failure in between
// leaves the bill still consistently marked paid rather than unpaid with a
// dangling payment record. The card's outstanding usage is restored from
// that period's transactions.
func (e *Engine) UnpayBill(ctx context.Context, userID, billID id.ID) error {
	b, err := e.store.GetBill(ctx, userID, billID)
	if err != nil {
		return err
	}
	if !b.IsPaid {
		return ErrBillNotPaid
	}

	if !b.PaymentTransactionID.IsNil() {
		payment, err := e.store.GetTransaction(ctx, userID, b.PaymentTransactionID)
		if err == nil {
			if err := e.DeleteTransaction(ctx, payment); err != nil {
				return err
			}
		} else if !IsNotFound(err) {
			return err
		}
	}

	b.IsPaid = false
	b.PaidAt = nil
	b.PaidFromAccountID = id.Nil
	b.PaymentTransactionID = id.Nil
	b.Touch()
	if err := e.store.UpdateBill(ctx, b); err != nil {
		return err
	}

	total, err := e.billTotal(ctx, userID, b.CreditCardID, b.Period)
	if err != nil {
		return err
	}
	if err := e.store.SetCardUsed(ctx, userID, b.CreditCardID, total); err != nil {
		return err
	}

	e.logger.Info("bill unpaid",
		"bill_id", b.ID.String(),
		"card_id", b.CreditCardID.String(),
		"period", b.Period.String(),
	)
	return nil
}
