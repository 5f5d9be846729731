package cofrin

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/thiagodosanjos/cofrin/account"
	"github.com/thiagodosanjos/cofrin/id"
	"github.com/thiagodosanjos/cofrin/types"
)

// AccountInput carries the caller-supplied fields for a new account.
type AccountInput struct {
	Name           string
	Type           account.Type
	IncludeInTotal bool
}

// CreateAccount creates a new account with a zero balance. The initial
// balance is set separately, exactly once, via SetInitialBalance.
func (e *Engine) CreateAccount(ctx context.Context, userID id.ID, in AccountInput) (*account.Account, error) {
	if in.Name == "" {
		return nil, ValidationError{Field: "name", Message: "must not be empty"}
	}

	a := &account.Account{
		Entity:         types.NewEntity(),
		ID:             id.NewAccountID(),
		UserID:         userID,
		Name:           in.Name,
		Type:           in.Type,
		Balance:        decimal.Zero,
		InitialBalance: decimal.Zero,
		IncludeInTotal: in.IncludeInTotal,
	}
	if a.Type == "" {
		a.Type = account.TypeChecking
	}

	if err := e.store.CreateAccount(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// CreateDefaultAccount creates the account every user starts with at signup.
func (e *Engine) CreateDefaultAccount(ctx context.Context, userID id.ID) (*account.Account, error) {
	return e.CreateAccount(ctx, userID, AccountInput{
		Name:           "Wallet",
		Type:           account.TypeCash,
		IncludeInTotal: true,
	})
}

// GetAccount fetches one account.
func (e *Engine) GetAccount(ctx context.Context, userID, accountID id.ID) (*account.Account, error) {
	return e.store.GetAccount(ctx, userID, accountID)
}

// ListAccounts returns all of the user's accounts.
func (e *Engine) ListAccounts(ctx context.Context, userID id.ID) ([]*account.Account, error) {
	return e.store.ListAccounts(ctx, userID)
}

// UpdateAccount persists caller edits to an account. The balance fields are
// owned by the transaction lifecycle and are carried over from the stored
// row, never from the caller. A rename re-synchronizes the denormalized
// account name on every transaction referencing the account.
func (e *Engine) UpdateAccount(ctx context.Context, a *account.Account) error {
	current, err := e.store.GetAccount(ctx, a.UserID, a.ID)
	if err != nil {
		return err
	}

	a.Balance = current.Balance
	a.InitialBalance = current.InitialBalance
	a.InitialBalanceSet = current.InitialBalanceSet
	a.Touch()

	if err := e.store.UpdateAccount(ctx, a); err != nil {
		return err
	}

	if a.Name != current.Name {
		if err := e.syncAccountName(ctx, a.UserID, a.ID, a.Name); err != nil {
			return err
		}
	}
	return nil
}

// syncAccountName rewrites the denormalized name on every transaction that
// references the account on either side.
func (e *Engine) syncAccountName(ctx context.Context, userID, accountID id.ID, name string) error {
	txns, err := e.store.ListTransactions(ctx, userID)
	if err != nil {
		return err
	}
	for _, t := range txns {
		changed := false
		if t.AccountID == accountID && t.AccountName != name {
			t.AccountName = name
			changed = true
		}
		if t.ToAccountID == accountID && t.ToAccountName != name {
			t.ToAccountName = name
			changed = true
		}
		if !changed {
			continue
		}
		if err := e.store.UpdateTransaction(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

// SetInitialBalance records an account's starting balance. It is allowed
// exactly once per account; the cached balance absorbs the value so that
// reconciliation (initial + transactions) holds immediately.
func (e *Engine) SetInitialBalance(ctx context.Context, userID, accountID id.ID, value decimal.Decimal) error {
	a, err := e.store.GetAccount(ctx, userID, accountID)
	if err != nil {
		return err
	}
	if a.InitialBalanceSet {
		return ErrInitialBalanceSet
	}

	a.InitialBalance = value
	a.InitialBalanceSet = true
	a.Balance = a.Balance.Add(value)
	a.Touch()
	return e.store.UpdateAccount(ctx, a)
}

// ArchiveAccount soft-deletes an account: it stops appearing in active
// lists but keeps its history.
func (e *Engine) ArchiveAccount(ctx context.Context, userID, accountID id.ID) error {
	a, err := e.store.GetAccount(ctx, userID, accountID)
	if err != nil {
		return err
	}
	a.IsArchived = true
	a.Touch()
	return e.store.UpdateAccount(ctx, a)
}

// DeleteAccount permanently deletes an account and cascades to its
// transactions, compensating each one: transfers revert their effect on the
// counterpart account, and every touched counterpart is reconciled before
// the account row is removed. Individual transaction failures are tolerated
// and reported in the result.
func (e *Engine) DeleteAccount(ctx context.Context, userID, accountID id.ID, progress ProgressFunc) (BulkResult, error) {
	if _, err := e.store.GetAccount(ctx, userID, accountID); err != nil {
		return BulkResult{}, err
	}

	res, err := e.deleteAccountTransactions(ctx, userID, accountID, progress)
	if err != nil {
		return res, err
	}

	if err := e.store.DeleteAccount(ctx, userID, accountID); err != nil {
		return res, err
	}

	e.logger.Info("account deleted",
		"account_id", accountID.String(),
		"transactions_deleted", res.Deleted,
		"transactions_failed", res.Failed,
	)
	return res, nil
}
