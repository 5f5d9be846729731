package cofrin

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thiagodosanjos/cofrin/id"
	"github.com/thiagodosanjos/cofrin/transaction"
	"github.com/thiagodosanjos/cofrin/types"
)

// TransactionInput carries the caller-supplied fields for a new transaction.
// Optional references are the Nil ID when absent.
type TransactionInput struct {
	Type        transaction.Type
	Amount      decimal.Decimal
	Date        time.Time
	Status      transaction.Status
	Description string

	AccountID           id.ID
	ToAccountID         id.ID
	CreditCardID        id.ID
	CreditCardBillID    id.ID
	CategoryID          id.ID
	GoalID              id.ID
	SeriesID            id.ID
	ParentTransactionID id.ID
}

func (in TransactionInput) validate() error {
	if !in.Type.Valid() {
		return ValidationError{Field: "type", Message: "must be expense, income or transfer"}
	}
	if !in.Amount.IsPositive() {
		return ValidationError{Field: "amount", Message: "must be positive"}
	}
	if in.Date.IsZero() {
		return ValidationError{Field: "date", Message: "must be set"}
	}
	if in.Status != "" && !in.Status.Valid() {
		return ValidationError{Field: "status", Message: "must be pending, completed or cancelled"}
	}
	return validateBinding(in.Type, in.AccountID, in.ToAccountID, in.CreditCardID)
}

// validateBinding enforces the binding invariants shared by create and
// update: exactly one of account/card, and transfer rules (account-bound,
// distinct destination). A transfer onto its own source would net to zero
// incrementally but score as an expense on reconciliation.
func validateBinding(typ transaction.Type, accountID, toAccountID, cardID id.ID) error {
	if !cardID.IsNil() && !accountID.IsNil() {
		return ValidationError{Field: "credit_card_id", Message: "transaction cannot bind both an account and a card"}
	}
	if cardID.IsNil() && accountID.IsNil() {
		return ValidationError{Field: "account_id", Message: "transaction must bind an account or a card"}
	}
	if typ == transaction.TypeTransfer {
		if !cardID.IsNil() {
			return ValidationError{Field: "type", Message: "transfers cannot be card-bound"}
		}
		if toAccountID.IsNil() {
			return ValidationError{Field: "to_account_id", Message: "transfers require a destination account"}
		}
		if toAccountID == accountID {
			return ValidationError{Field: "to_account_id", Message: "transfer destination must differ from the source"}
		}
	}
	return nil
}

// CreateTransaction validates and persists a new transaction, resolving the
// denormalized display names and, for card purchases, the billing period.
// If the transaction is completed its effect is applied to exactly one
// aggregate: the account balance or the card's outstanding usage.
func (e *Engine) CreateTransaction(ctx context.Context, userID id.ID, in TransactionInput) (*transaction.Transaction, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = transaction.StatusCompleted
	}

	t := &transaction.Transaction{
		Entity:              types.NewEntity(),
		ID:                  id.NewTransactionID(),
		UserID:              userID,
		Type:                in.Type,
		Amount:              in.Amount,
		Date:                in.Date,
		Status:              status,
		Description:         in.Description,
		AccountID:           in.AccountID,
		ToAccountID:         in.ToAccountID,
		CreditCardID:        in.CreditCardID,
		CreditCardBillID:    in.CreditCardBillID,
		CategoryID:          in.CategoryID,
		GoalID:              in.GoalID,
		SeriesID:            in.SeriesID,
		ParentTransactionID: in.ParentTransactionID,
	}

	if err := e.resolveNames(ctx, t); err != nil {
		return nil, err
	}

	if t.CardBound() {
		c, err := e.store.GetCard(ctx, userID, t.CreditCardID)
		if err != nil {
			return nil, err
		}
		check, err := e.CheckCardPeriod(ctx, userID, c, t.Date)
		if err != nil {
			return nil, err
		}
		if !check.CanAdd {
			return nil, ErrBillAlreadyPaid
		}
		t.Period = check.Period

		// The period's bill exists from the moment something
		// references it.
		if _, err := e.getOrCreateBill(ctx, userID, c, check.Period); err != nil {
			return nil, err
		}
	} else {
		t.Period = types.PeriodOf(t.Date)
	}

	if err := e.store.CreateTransaction(ctx, t); err != nil {
		return nil, err
	}

	if t.Status == transaction.StatusCompleted {
		if err := e.applyEffect(ctx, t, false); err != nil {
			return nil, err
		}
	}

	e.logger.Debug("transaction created",
		"txn_id", t.ID.String(),
		"type", string(t.Type),
		"amount", t.Amount.String(),
	)
	return t, nil
}

// UpdateTransaction rewrites a transaction using the revert-then-reapply
// pattern. The caller supplies the pre-update snapshot; the engine does not
// re-fetch it.
//
// Order matters: (1) validate and re-resolve names and the billing period,
// so a refused update leaves every aggregate untouched, (2) revert the old
// effect if the old row was completed, (3) persist, (4) apply the new effect
// if the row is now completed, (5) reconcile each card whose period line
// moved. A failure after step 3 propagates and leaves the aggregates stale
// for reconciliation to heal; it is never masked.
func (e *Engine) UpdateTransaction(ctx context.Context, updated, previous *transaction.Transaction) error {
	if updated.ID != previous.ID || updated.UserID != previous.UserID {
		return ValidationError{Field: "id", Message: "snapshot does not match the updated transaction"}
	}
	if !updated.Amount.IsPositive() {
		return ValidationError{Field: "amount", Message: "must be positive"}
	}
	if !updated.Type.Valid() || !updated.Status.Valid() {
		return ValidationError{Field: "type", Message: "invalid type or status"}
	}
	if err := validateBinding(updated.Type, updated.AccountID, updated.ToAccountID, updated.CreditCardID); err != nil {
		return err
	}

	if err := e.resolveNames(ctx, updated); err != nil {
		return err
	}

	if updated.CardBound() {
		periodStale := updated.CreditCardID != previous.CreditCardID ||
			!updated.Date.Equal(previous.Date) ||
			updated.Period.IsZero()
		if periodStale {
			c, err := e.store.GetCard(ctx, updated.UserID, updated.CreditCardID)
			if err != nil {
				return err
			}
			check, err := e.CheckCardPeriod(ctx, updated.UserID, c, updated.Date)
			if err != nil {
				return err
			}
			// Same rule as create: a re-dated line must still land
			// on an open ledger line.
			if !check.CanAdd {
				return ErrBillAlreadyPaid
			}
			updated.Period = check.Period
			if _, err := e.getOrCreateBill(ctx, updated.UserID, c, check.Period); err != nil {
				return err
			}
		}
	} else {
		updated.Period = types.PeriodOf(updated.Date)
	}

	if previous.Status == transaction.StatusCompleted {
		if err := e.applyEffect(ctx, previous, true); err != nil {
			return err
		}
	}

	updated.Touch()
	if err := e.store.UpdateTransaction(ctx, updated); err != nil {
		return err
	}

	if updated.Status == transaction.StatusCompleted {
		if err := e.applyEffect(ctx, updated, false); err != nil {
			return err
		}
	}

	// Once a card line moves between aggregates, incremental deltas are
	// no longer sufficient. Reconcile each affected card once.
	if previous.CreditCardID != updated.CreditCardID || previous.Period != updated.Period {
		if previous.CardBound() {
			if _, err := e.ReconcileCard(ctx, previous.UserID, previous.CreditCardID); err != nil {
				return err
			}
		}
		if updated.CardBound() && updated.CreditCardID != previous.CreditCardID {
			if _, err := e.ReconcileCard(ctx, updated.UserID, updated.CreditCardID); err != nil {
				return err
			}
		}
	}

	return nil
}

// GetTransaction fetches one transaction.
func (e *Engine) GetTransaction(ctx context.Context, userID, txnID id.ID) (*transaction.Transaction, error) {
	return e.store.GetTransaction(ctx, userID, txnID)
}

// ListTransactions returns all of the user's transactions.
func (e *Engine) ListTransactions(ctx context.Context, userID id.ID) ([]*transaction.Transaction, error) {
	return e.store.ListTransactions(ctx, userID)
}

// DeleteTransaction removes a transaction and compensates its effects. The
// record is deleted first so a failure cannot leave an orphaned
// compensation; card-bound deletions trigger a full usage reconciliation
// because a lone delta-revert is unsafe under concurrent or partial bulk
// deletes.
func (e *Engine) DeleteTransaction(ctx context.Context, t *transaction.Transaction) error {
	return e.deleteTransaction(ctx, t, true)
}

func (e *Engine) deleteTransaction(ctx context.Context, t *transaction.Transaction, reconcileCard bool) error {
	if err := e.store.DeleteTransaction(ctx, t.UserID, t.ID); err != nil {
		return err
	}

	if t.Status == transaction.StatusCompleted && t.AccountBound() {
		if err := e.applyAccountEffect(ctx, t, true); err != nil {
			return err
		}
	}
	if t.Status == transaction.StatusCompleted && !t.GoalID.IsNil() {
		if err := e.store.AdjustGoalProgress(ctx, t.UserID, t.GoalID, t.Amount.Neg()); err != nil && !IsNotFound(err) {
			return err
		}
	}
	if t.CardBound() && reconcileCard {
		if _, err := e.ReconcileCard(ctx, t.UserID, t.CreditCardID); err != nil {
			return err
		}
	}

	return nil
}

// applyEffect routes a completed transaction's effect to the one aggregate
// it touches, plus goal progress when the transaction funds a goal.
func (e *Engine) applyEffect(ctx context.Context, t *transaction.Transaction, reverse bool) error {
	if t.CardBound() {
		if err := e.applyCardEffect(ctx, t, reverse); err != nil {
			return err
		}
	} else {
		if err := e.applyAccountEffect(ctx, t, reverse); err != nil {
			return err
		}
	}

	if !t.GoalID.IsNil() {
		delta := t.Amount
		if reverse {
			delta = delta.Neg()
		}
		// A deleted goal is a dangling reference, not a failure.
		if err := e.store.AdjustGoalProgress(ctx, t.UserID, t.GoalID, delta); err != nil && !IsNotFound(err) {
			return err
		}
	}
	return nil
}

// resolveNames copies the current display names of the referenced account,
// destination account, card and category onto the transaction. Reads double
// as existence checks for the references.
func (e *Engine) resolveNames(ctx context.Context, t *transaction.Transaction) error {
	if !t.AccountID.IsNil() {
		a, err := e.store.GetAccount(ctx, t.UserID, t.AccountID)
		if err != nil {
			return err
		}
		t.AccountName = a.Name
	}
	if !t.ToAccountID.IsNil() {
		a, err := e.store.GetAccount(ctx, t.UserID, t.ToAccountID)
		if err != nil {
			return err
		}
		t.ToAccountName = a.Name
	}
	if !t.CreditCardID.IsNil() {
		c, err := e.store.GetCard(ctx, t.UserID, t.CreditCardID)
		if err != nil {
			return err
		}
		t.CardName = c.Name
	}
	if !t.CategoryID.IsNil() {
		c, err := e.store.GetCategory(ctx, t.UserID, t.CategoryID)
		if err != nil {
			return err
		}
		t.CategoryName = c.Name
	}
	return nil
}

// MonthTotals aggregates the completed, non-card movements of one period.
// Card purchases are excluded: they reach the consolidated ledger only
// through their bill-payment transactions.
type MonthTotals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

// GetMonthTotals sums the user's completed non-card income and expenses for
// one period. Transfers move money between own accounts and net to zero, so
// they are skipped.
func (e *Engine) GetMonthTotals(ctx context.Context, userID id.ID, p types.Period) (MonthTotals, error) {
	txns, err := e.store.ListTransactions(ctx, userID)
	if err != nil {
		return MonthTotals{}, err
	}

	totals := MonthTotals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, t := range txns {
		if t.Status != transaction.StatusCompleted || t.CardBound() || t.Period != p {
			continue
		}
		switch t.Type {
		case transaction.TypeIncome:
			totals.Income = totals.Income.Add(t.Amount)
		case transaction.TypeExpense:
			totals.Expense = totals.Expense.Add(t.Amount)
		}
	}
	totals.Balance = totals.Income.Sub(totals.Expense)
	return totals, nil
}

// GetCarryOverBalance returns the consolidated balance as of the start of a
// period: the initial balances of every account counted toward totals, plus
// income minus expenses over all completed non-card transactions strictly
// before the period. For any gap-free sequence of periods this equals the
// previous period's carry-over plus its month balance.
func (e *Engine) GetCarryOverBalance(ctx context.Context, userID id.ID, before types.Period) (decimal.Decimal, error) {
	accounts, err := e.store.ListAccounts(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	balance := decimal.Zero
	for _, a := range accounts {
		if a.IncludeInTotal {
			balance = balance.Add(a.InitialBalance)
		}
	}

	txns, err := e.store.ListTransactions(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	for _, t := range txns {
		if t.Status != transaction.StatusCompleted || t.CardBound() || !t.Period.Before(before) {
			continue
		}
		switch t.Type {
		case transaction.TypeIncome:
			balance = balance.Add(t.Amount)
		case transaction.TypeExpense:
			balance = balance.Sub(t.Amount)
		}
	}

	return balance, nil
}
