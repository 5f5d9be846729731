package cofrin

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/thiagodosanjos/cofrin/card"
	"github.com/thiagodosanjos/cofrin/id"
	"github.com/thiagodosanjos/cofrin/types"
)

// CardInput carries the caller-supplied fields for a new credit card.
type CardInput struct {
	Name             string
	Limit            decimal.Decimal
	ClosingDay       int
	DueDay           int
	PaymentAccountID id.ID
}

func (in CardInput) validate() error {
	if in.Name == "" {
		return ValidationError{Field: "name", Message: "must not be empty"}
	}
	if in.ClosingDay < 1 || in.ClosingDay > 31 {
		return ValidationError{Field: "closing_day", Message: "must be between 1 and 31"}
	}
	if in.DueDay < 1 || in.DueDay > 31 {
		return ValidationError{Field: "due_day", Message: "must be between 1 and 31"}
	}
	if in.Limit.IsNegative() {
		return ValidationError{Field: "limit", Message: "must not be negative"}
	}
	return nil
}

// CreateCreditCard creates a new credit card with zero outstanding usage.
func (e *Engine) CreateCreditCard(ctx context.Context, userID id.ID, in CardInput) (*card.CreditCard, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	if !in.PaymentAccountID.IsNil() {
		if _, err := e.store.GetAccount(ctx, userID, in.PaymentAccountID); err != nil {
			return nil, err
		}
	}

	c := &card.CreditCard{
		Entity:           types.NewEntity(),
		ID:               id.NewCardID(),
		UserID:           userID,
		Name:             in.Name,
		Limit:            in.Limit,
		ClosingDay:       in.ClosingDay,
		DueDay:           in.DueDay,
		CurrentUsed:      decimal.Zero,
		PaymentAccountID: in.PaymentAccountID,
	}

	if err := e.store.CreateCard(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetCreditCard fetches one credit card.
func (e *Engine) GetCreditCard(ctx context.Context, userID, cardID id.ID) (*card.CreditCard, error) {
	return e.store.GetCard(ctx, userID, cardID)
}

// ListCreditCards returns all of the user's credit cards.
func (e *Engine) ListCreditCards(ctx context.Context, userID id.ID) ([]*card.CreditCard, error) {
	return e.store.ListCards(ctx, userID)
}

// UpdateCreditCard persists caller edits to a card. CurrentUsed is owned by
// the transaction lifecycle and carried over from the stored row. A rename
// re-synchronizes the denormalized card name on the card's transactions.
func (e *Engine) UpdateCreditCard(ctx context.Context, c *card.CreditCard) error {
	if c.ClosingDay < 1 || c.ClosingDay > 31 {
		return ValidationError{Field: "closing_day", Message: "must be between 1 and 31"}
	}
	if c.DueDay < 1 || c.DueDay > 31 {
		return ValidationError{Field: "due_day", Message: "must be between 1 and 31"}
	}

	current, err := e.store.GetCard(ctx, c.UserID, c.ID)
	if err != nil {
		return err
	}

	c.CurrentUsed = current.CurrentUsed
	c.Touch()
	if err := e.store.UpdateCard(ctx, c); err != nil {
		return err
	}

	if c.Name != current.Name {
		if err := e.syncCardName(ctx, c.UserID, c.ID, c.Name); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) syncCardName(ctx context.Context, userID, cardID id.ID, name string) error {
	txns, err := e.store.ListTransactionsByCard(ctx, userID, cardID)
	if err != nil {
		return err
	}
	for _, t := range txns {
		if t.CardName == name {
			continue
		}
		t.CardName = name
		if err := e.store.UpdateTransaction(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

// ArchiveCreditCard soft-deletes a card, keeping its history.
func (e *Engine) ArchiveCreditCard(ctx context.Context, userID, cardID id.ID) error {
	c, err := e.store.GetCard(ctx, userID, cardID)
	if err != nil {
		return err
	}
	c.IsArchived = true
	c.Touch()
	return e.store.UpdateCard(ctx, c)
}

// DeleteCreditCard permanently deletes a card, cascading to its
// transactions and bills. Per-item transaction failures are tolerated and
// reported; the card's own usage is not reconciled since the row is going
// away with it.
func (e *Engine) DeleteCreditCard(ctx context.Context, userID, cardID id.ID, progress ProgressFunc) (BulkResult, error) {
	if _, err := e.store.GetCard(ctx, userID, cardID); err != nil {
		return BulkResult{}, err
	}

	res, err := e.deleteCardTransactions(ctx, userID, cardID, progress)
	if err != nil {
		return res, err
	}

	bills, err := e.store.ListBillsByCard(ctx, userID, cardID)
	if err != nil {
		return res, err
	}
	for _, b := range bills {
		if err := e.store.DeleteBill(ctx, userID, b.ID); err != nil {
			return res, err
		}
	}

	if err := e.store.DeleteCard(ctx, userID, cardID); err != nil {
		return res, err
	}

	e.logger.Info("credit card deleted",
		"card_id", cardID.String(),
		"transactions_deleted", res.Deleted,
		"transactions_failed", res.Failed,
		"bills_deleted", len(bills),
	)
	return res, nil
}
