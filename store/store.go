// Package store declares the unified storage interface for all Cofrin
// entities. Backends provide document CRUD plus field-equality queries only:
// no joins, no cross-document transactions, no server-side triggers. Every
// invariant is enforced by the engine, never assumed of the store.
package store

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/thiagodosanjos/cofrin/account"
	"github.com/thiagodosanjos/cofrin/bill"
	"github.com/thiagodosanjos/cofrin/card"
	"github.com/thiagodosanjos/cofrin/category"
	"github.com/thiagodosanjos/cofrin/goal"
	"github.com/thiagodosanjos/cofrin/id"
	"github.com/thiagodosanjos/cofrin/transaction"
	"github.com/thiagodosanjos/cofrin/types"
)

// Store is the unified storage interface for all Cofrin entities.
// Instead of embedding the sub-interfaces, we explicitly declare all methods
// to avoid naming conflicts. Every accessor is scoped by the owning user ID
// as a mandatory first argument; it is a filter the backend must apply,
// never an optional hint.
type Store interface {
	// Account methods
	CreateAccount(ctx context.Context, a *account.Account) error
	GetAccount(ctx context.Context, userID, accountID id.ID) (*account.Account, error)
	ListAccounts(ctx context.Context, userID id.ID) ([]*account.Account, error)
	UpdateAccount(ctx context.Context, a *account.Account) error
	DeleteAccount(ctx context.Context, userID, accountID id.ID) error
	AdjustAccountBalance(ctx context.Context, userID, accountID id.ID, delta decimal.Decimal) error
	SetAccountBalance(ctx context.Context, userID, accountID id.ID, balance decimal.Decimal) error

	// Credit-card methods
	CreateCard(ctx context.Context, c *card.CreditCard) error
	GetCard(ctx context.Context, userID, cardID id.ID) (*card.CreditCard, error)
	ListCards(ctx context.Context, userID id.ID) ([]*card.CreditCard, error)
	UpdateCard(ctx context.Context, c *card.CreditCard) error
	DeleteCard(ctx context.Context, userID, cardID id.ID) error
	AdjustCardUsed(ctx context.Context, userID, cardID id.ID, delta decimal.Decimal) error
	SetCardUsed(ctx context.Context, userID, cardID id.ID, used decimal.Decimal) error

	// Transaction methods
	CreateTransaction(ctx context.Context, t *transaction.Transaction) error
	GetTransaction(ctx context.Context, userID, txnID id.ID) (*transaction.Transaction, error)
	UpdateTransaction(ctx context.Context, t *transaction.Transaction) error
	DeleteTransaction(ctx context.Context, userID, txnID id.ID) error
	ListTransactions(ctx context.Context, userID id.ID) ([]*transaction.Transaction, error)
	ListTransactionsByAccount(ctx context.Context, userID, accountID id.ID) ([]*transaction.Transaction, error)
	ListTransactionsByCard(ctx context.Context, userID, cardID id.ID) ([]*transaction.Transaction, error)
	ListTransactionsByCardPeriod(ctx context.Context, userID, cardID id.ID, p types.Period) ([]*transaction.Transaction, error)
	ListTransactionsBySeries(ctx context.Context, userID, seriesID id.ID) ([]*transaction.Transaction, error)

	// Bill methods
	CreateBill(ctx context.Context, b *bill.Bill) error
	GetBill(ctx context.Context, userID, billID id.ID) (*bill.Bill, error)
	GetBillByPeriod(ctx context.Context, userID, cardID id.ID, p types.Period) (*bill.Bill, error)
	ListBillsByCard(ctx context.Context, userID, cardID id.ID) ([]*bill.Bill, error)
	UpdateBill(ctx context.Context, b *bill.Bill) error
	DeleteBill(ctx context.Context, userID, billID id.ID) error

	// Goal methods
	CreateGoal(ctx context.Context, g *goal.Goal) error
	GetGoal(ctx context.Context, userID, goalID id.ID) (*goal.Goal, error)
	ListGoals(ctx context.Context, userID id.ID) ([]*goal.Goal, error)
	UpdateGoal(ctx context.Context, g *goal.Goal) error
	DeleteGoal(ctx context.Context, userID, goalID id.ID) error
	AdjustGoalProgress(ctx context.Context, userID, goalID id.ID, delta decimal.Decimal) error

	// Category methods
	CreateCategory(ctx context.Context, c *category.Category) error
	GetCategory(ctx context.Context, userID, categoryID id.ID) (*category.Category, error)
	ListCategories(ctx context.Context, userID id.ID) ([]*category.Category, error)
	UpdateCategory(ctx context.Context, c *category.Category) error
	DeleteCategory(ctx context.Context, userID, categoryID id.ID) error

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
