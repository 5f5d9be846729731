package cofrin

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/thiagodosanjos/cofrin/id"
	"github.com/thiagodosanjos/cofrin/transaction"
)

// applyAccountEffect applies a completed transaction's effect on account
// balances: expense subtracts, income adds, transfer subtracts from the
// source and adds to the destination. With reverse set, every step is
// negated, the exact undo of a previous apply.
//
// The caller owns exactly-once semantics: one apply per logical event, one
// reverse per undone event.
func (e *Engine) applyAccountEffect(ctx context.Context, t *transaction.Transaction, reverse bool) error {
	amount := t.Amount
	if reverse {
		amount = amount.Neg()
	}

	switch t.Type {
	case transaction.TypeExpense:
		return e.store.AdjustAccountBalance(ctx, t.UserID, t.AccountID, amount.Neg())
	case transaction.TypeIncome:
		return e.store.AdjustAccountBalance(ctx, t.UserID, t.AccountID, amount)
	case transaction.TypeTransfer:
		if err := e.store.AdjustAccountBalance(ctx, t.UserID, t.AccountID, amount.Neg()); err != nil {
			return err
		}
		return e.store.AdjustAccountBalance(ctx, t.UserID, t.ToAccountID, amount)
	default:
		return ValidationError{Field: "type", Message: fmt.Sprintf("unknown transaction type %q", t.Type)}
	}
}

// ReconcileAccount recomputes an account's balance from scratch as
// initialBalance + the signed sum of every completed, non-card transaction
// originating or terminating at the account, writes it back, and returns it.
// This is the recovery path after bulk deletions or partial failures.
func (e *Engine) ReconcileAccount(ctx context.Context, userID, accountID id.ID) (decimal.Decimal, error) {
	acct, err := e.store.GetAccount(ctx, userID, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	// The store only supports field-equality queries, so transfers into
	// the account cannot be fetched alongside rows originating from it;
	// filter the user's full history instead.
	txns, err := e.store.ListTransactions(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	balance := acct.InitialBalance
	for _, t := range txns {
		if t.Status != transaction.StatusCompleted || t.CardBound() {
			continue
		}
		switch {
		case t.AccountID == accountID:
			balance = balance.Add(t.Signed())
		case t.Type == transaction.TypeTransfer && t.ToAccountID == accountID:
			balance = balance.Add(t.Amount)
		}
	}

	if err := e.store.SetAccountBalance(ctx, userID, accountID, balance); err != nil {
		return decimal.Zero, err
	}

	e.logger.Debug("account reconciled", "account_id", accountID.String(), "balance", balance.String())
	return balance, nil
}
