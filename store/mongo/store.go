// Package mongo implements the Store interface on MongoDB. One collection
// per entity, documents keyed by TypeID string, field-equality filters only.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	cofrin "github.com/thiagodosanjos/cofrin"
	"github.com/thiagodosanjos/cofrin/account"
	"github.com/thiagodosanjos/cofrin/bill"
	"github.com/thiagodosanjos/cofrin/card"
	"github.com/thiagodosanjos/cofrin/category"
	"github.com/thiagodosanjos/cofrin/goal"
	"github.com/thiagodosanjos/cofrin/id"
	"github.com/thiagodosanjos/cofrin/store"
	"github.com/thiagodosanjos/cofrin/transaction"
	"github.com/thiagodosanjos/cofrin/types"
)

// Collection name constants.
const (
	colAccounts     = "cofrin_accounts"
	colCards        = "cofrin_credit_cards"
	colTransactions = "cofrin_transactions"
	colBills        = "cofrin_bills"
	colGoals        = "cofrin_goals"
	colCategories   = "cofrin_categories"
)

// compile-time interface check
var _ store.Store = (*Store)(nil)

// Store implements store.Store on a MongoDB database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// New creates a MongoDB store on the named database.
func New(client *mongo.Client, dbName string) *Store {
	return &Store{
		client: client,
		db:     client.Database(dbName),
	}
}

// Migrate creates indexes for all collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		colAccounts: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
		colCards: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
		colTransactions: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "account_id", Value: 1}}},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "credit_card_id", Value: 1}, {Key: "year", Value: 1}, {Key: "month", Value: 1}}},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "series_id", Value: 1}}},
		},
		colBills: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "credit_card_id", Value: 1}, {Key: "year", Value: 1}, {Key: "month", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		colGoals: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
		colCategories: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
	}

	for col, models := range indexes {
		if _, err := s.db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("cofrin/mongo: migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects from the database.
func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}

// ==================== Accounts ====================

func (s *Store) CreateAccount(ctx context.Context, a *account.Account) error {
	_, err := s.db.Collection(colAccounts).InsertOne(ctx, toAccountModel(a))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return cofrin.ErrAlreadyExists
		}
		return fmt.Errorf("cofrin/mongo: create account: %w", err)
	}
	return nil
}

func (s *Store) GetAccount(ctx context.Context, userID, accountID id.ID) (*account.Account, error) {
	var m accountModel
	err := s.db.Collection(colAccounts).
		FindOne(ctx, byID(userID, accountID)).
		Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, cofrin.ErrAccountNotFound
		}
		return nil, fmt.Errorf("cofrin/mongo: get account: %w", err)
	}
	return fromAccountModel(&m)
}

func (s *Store) ListAccounts(ctx context.Context, userID id.ID) ([]*account.Account, error) {
	var models []accountModel
	if err := s.findAll(ctx, colAccounts, byUser(userID), &models); err != nil {
		return nil, fmt.Errorf("cofrin/mongo: list accounts: %w", err)
	}

	out := make([]*account.Account, len(models))
	for i := range models {
		a, err := fromAccountModel(&models[i])
		if err != nil {
			return nil, err
		}
		out[i] = a
	}
	return out, nil
}

func (s *Store) UpdateAccount(ctx context.Context, a *account.Account) error {
	res, err := s.db.Collection(colAccounts).
		ReplaceOne(ctx, byID(a.UserID, a.ID), toAccountModel(a))
	if err != nil {
		return fmt.Errorf("cofrin/mongo: update account: %w", err)
	}
	if res.MatchedCount == 0 {
		return cofrin.ErrAccountNotFound
	}
	return nil
}

func (s *Store) DeleteAccount(ctx context.Context, userID, accountID id.ID) error {
	res, err := s.db.Collection(colAccounts).DeleteOne(ctx, byID(userID, accountID))
	if err != nil {
		return fmt.Errorf("cofrin/mongo: delete account: %w", err)
	}
	if res.DeletedCount == 0 {
		return cofrin.ErrAccountNotFound
	}
	return nil
}

func (s *Store) AdjustAccountBalance(ctx context.Context, userID, accountID id.ID, delta decimal.Decimal) error {
	a, err := s.GetAccount(ctx, userID, accountID)
	if err != nil {
		return err
	}
	return s.SetAccountBalance(ctx, userID, accountID, a.Balance.Add(delta))
}

func (s *Store) SetAccountBalance(ctx context.Context, userID, accountID id.ID, balance decimal.Decimal) error {
	res, err := s.db.Collection(colAccounts).UpdateOne(ctx,
		byID(userID, accountID),
		bson.M{"$set": bson.M{"balance": balance.String()}},
	)
	if err != nil {
		return fmt.Errorf("cofrin/mongo: set account balance: %w", err)
	}
	if res.MatchedCount == 0 {
		return cofrin.ErrAccountNotFound
	}
	return nil
}

// ==================== Credit cards ====================

func (s *Store) CreateCard(ctx context.Context, c *card.CreditCard) error {
	_, err := s.db.Collection(colCards).InsertOne(ctx, toCardModel(c))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return cofrin.ErrAlreadyExists
		}
		return fmt.Errorf("cofrin/mongo: create card: %w", err)
	}
	return nil
}

func (s *Store) GetCard(ctx context.Context, userID, cardID id.ID) (*card.CreditCard, error) {
	var m cardModel
	err := s.db.Collection(colCards).
		FindOne(ctx, byID(userID, cardID)).
		Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, cofrin.ErrCardNotFound
		}
		return nil, fmt.Errorf("cofrin/mongo: get card: %w", err)
	}
	return fromCardModel(&m)
}

func (s *Store) ListCards(ctx context.Context, userID id.ID) ([]*card.CreditCard, error) {
	var models []cardModel
	if err := s.findAll(ctx, colCards, byUser(userID), &models); err != nil {
		return nil, fmt.Errorf("cofrin/mongo: list cards: %w", err)
	}

	out := make([]*card.CreditCard, len(models))
	for i := range models {
		c, err := fromCardModel(&models[i])
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

func (s *Store) UpdateCard(ctx context.Context, c *card.CreditCard) error {
	res, err := s.db.Collection(colCards).
		ReplaceOne(ctx, byID(c.UserID, c.ID), toCardModel(c))
	if err != nil {
		return fmt.Errorf("cofrin/mongo: update card: %w", err)
	}
	if res.MatchedCount == 0 {
		return cofrin.ErrCardNotFound
	}
	return nil
}

func (s *Store) DeleteCard(ctx context.Context, userID, cardID id.ID) error {
	res, err := s.db.Collection(colCards).DeleteOne(ctx, byID(userID, cardID))
	if err != nil {
		return fmt.Errorf("cofrin/mongo: delete card: %w", err)
	}
	if res.DeletedCount == 0 {
		return cofrin.ErrCardNotFound
	}
	return nil
}

func (s *Store) AdjustCardUsed(ctx context.Context, userID, cardID id.ID, delta decimal.Decimal) error {
	c, err := s.GetCard(ctx, userID, cardID)
	if err != nil {
		return err
	}
	return s.SetCardUsed(ctx, userID, cardID, c.CurrentUsed.Add(delta))
}

func (s *Store) SetCardUsed(ctx context.Context, userID, cardID id.ID, used decimal.Decimal) error {
	res, err := s.db.Collection(colCards).UpdateOne(ctx,
		byID(userID, cardID),
		bson.M{"$set": bson.M{"current_used": used.String()}},
	)
	if err != nil {
		return fmt.Errorf("cofrin/mongo: set card used: %w", err)
	}
	if res.MatchedCount == 0 {
		return cofrin.ErrCardNotFound
	}
	return nil
}

// ==================== Transactions ====================

func (s *Store) CreateTransaction(ctx context.Context, t *transaction.Transaction) error {
	_, err := s.db.Collection(colTransactions).InsertOne(ctx, toTransactionModel(t))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return cofrin.ErrAlreadyExists
		}
		return fmt.Errorf("cofrin/mongo: create transaction: %w", err)
	}
	return nil
}

func (s *Store) GetTransaction(ctx context.Context, userID, txnID id.ID) (*transaction.Transaction, error) {
	var m transactionModel
	err := s.db.Collection(colTransactions).
		FindOne(ctx, byID(userID, txnID)).
		Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, cofrin.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("cofrin/mongo: get transaction: %w", err)
	}
	return fromTransactionModel(&m)
}

func (s *Store) UpdateTransaction(ctx context.Context, t *transaction.Transaction) error {
	res, err := s.db.Collection(colTransactions).
		ReplaceOne(ctx, byID(t.UserID, t.ID), toTransactionModel(t))
	if err != nil {
		return fmt.Errorf("cofrin/mongo: update transaction: %w", err)
	}
	if res.MatchedCount == 0 {
		return cofrin.ErrTransactionNotFound
	}
	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, userID, txnID id.ID) error {
	res, err := s.db.Collection(colTransactions).DeleteOne(ctx, byID(userID, txnID))
	if err != nil {
		return fmt.Errorf("cofrin/mongo: delete transaction: %w", err)
	}
	if res.DeletedCount == 0 {
		return cofrin.ErrTransactionNotFound
	}
	return nil
}

func (s *Store) ListTransactions(ctx context.Context, userID id.ID) ([]*transaction.Transaction, error) {
	return s.listTransactions(ctx, byUser(userID))
}

func (s *Store) ListTransactionsByAccount(ctx context.Context, userID, accountID id.ID) ([]*transaction.Transaction, error) {
	return s.listTransactions(ctx, bson.M{
		"user_id":    userID.String(),
		"account_id": accountID.String(),
	})
}

func (s *Store) ListTransactionsByCard(ctx context.Context, userID, cardID id.ID) ([]*transaction.Transaction, error) {
	return s.listTransactions(ctx, bson.M{
		"user_id":        userID.String(),
		"credit_card_id": cardID.String(),
	})
}

func (s *Store) ListTransactionsByCardPeriod(ctx context.Context, userID, cardID id.ID, p types.Period) ([]*transaction.Transaction, error) {
	return s.listTransactions(ctx, bson.M{
		"user_id":        userID.String(),
		"credit_card_id": cardID.String(),
		"month":          int(p.Month),
		"year":           p.Year,
	})
}

func (s *Store) ListTransactionsBySeries(ctx context.Context, userID, seriesID id.ID) ([]*transaction.Transaction, error) {
	return s.listTransactions(ctx, bson.M{
		"user_id":   userID.String(),
		"series_id": seriesID.String(),
	})
}

func (s *Store) listTransactions(ctx context.Context, filter bson.M) ([]*transaction.Transaction, error) {
	var models []transactionModel
	if err := s.findAll(ctx, colTransactions, filter, &models); err != nil {
		return nil, fmt.Errorf("cofrin/mongo: list transactions: %w", err)
	}

	out := make([]*transaction.Transaction, len(models))
	for i := range models {
		t, err := fromTransactionModel(&models[i])
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

// ==================== Bills ====================

func (s *Store) CreateBill(ctx context.Context, b *bill.Bill) error {
	_, err := s.db.Collection(colBills).InsertOne(ctx, toBillModel(b))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return cofrin.ErrAlreadyExists
		}
		return fmt.Errorf("cofrin/mongo: create bill: %w", err)
	}
	return nil
}

func (s *Store) GetBill(ctx context.Context, userID, billID id.ID) (*bill.Bill, error) {
	var m billModel
	err := s.db.Collection(colBills).
		FindOne(ctx, byID(userID, billID)).
		Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, cofrin.ErrBillNotFound
		}
		return nil, fmt.Errorf("cofrin/mongo: get bill: %w", err)
	}
	return fromBillModel(&m)
}

func (s *Store) GetBillByPeriod(ctx context.Context, userID, cardID id.ID, p types.Period) (*bill.Bill, error) {
	var m billModel
	err := s.db.Collection(colBills).
		FindOne(ctx, bson.M{
			"user_id":        userID.String(),
			"credit_card_id": cardID.String(),
			"month":          int(p.Month),
			"year":           p.Year,
		}).
		Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, cofrin.ErrBillNotFound
		}
		return nil, fmt.Errorf("cofrin/mongo: get bill by period: %w", err)
	}
	return fromBillModel(&m)
}

func (s *Store) ListBillsByCard(ctx context.Context, userID, cardID id.ID) ([]*bill.Bill, error) {
	var models []billModel
	filter := bson.M{
		"user_id":        userID.String(),
		"credit_card_id": cardID.String(),
	}
	if err := s.findAll(ctx, colBills, filter, &models); err != nil {
		return nil, fmt.Errorf("cofrin/mongo: list bills: %w", err)
	}

	out := make([]*bill.Bill, len(models))
	for i := range models {
		b, err := fromBillModel(&models[i])
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

func (s *Store) UpdateBill(ctx context.Context, b *bill.Bill) error {
	res, err := s.db.Collection(colBills).
		ReplaceOne(ctx, byID(b.UserID, b.ID), toBillModel(b))
	if err != nil {
		return fmt.Errorf("cofrin/mongo: update bill: %w", err)
	}
	if res.MatchedCount == 0 {
		return cofrin.ErrBillNotFound
	}
	return nil
}

func (s *Store) DeleteBill(ctx context.Context, userID, billID id.ID) error {
	res, err := s.db.Collection(colBills).DeleteOne(ctx, byID(userID, billID))
	if err != nil {
		return fmt.Errorf("cofrin/mongo: delete bill: %w", err)
	}
	if res.DeletedCount == 0 {
		return cofrin.ErrBillNotFound
	}
	return nil
}

// ==================== Goals ====================

func (s *Store) CreateGoal(ctx context.Context, g *goal.Goal) error {
	_, err := s.db.Collection(colGoals).InsertOne(ctx, toGoalModel(g))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return cofrin.ErrAlreadyExists
		}
		return fmt.Errorf("cofrin/mongo: create goal: %w", err)
	}
	return nil
}

func (s *Store) GetGoal(ctx context.Context, userID, goalID id.ID) (*goal.Goal, error) {
	var m goalModel
	err := s.db.Collection(colGoals).
		FindOne(ctx, byID(userID, goalID)).
		Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, cofrin.ErrGoalNotFound
		}
		return nil, fmt.Errorf("cofrin/mongo: get goal: %w", err)
	}
	return fromGoalModel(&m)
}

func (s *Store) ListGoals(ctx context.Context, userID id.ID) ([]*goal.Goal, error) {
	var models []goalModel
	if err := s.findAll(ctx, colGoals, byUser(userID), &models); err != nil {
		return nil, fmt.Errorf("cofrin/mongo: list goals: %w", err)
	}

	out := make([]*goal.Goal, len(models))
	for i := range models {
		g, err := fromGoalModel(&models[i])
		if err != nil {
			return nil, err
		}
		out[i] = g
	}
	return out, nil
}

func (s *Store) UpdateGoal(ctx context.Context, g *goal.Goal) error {
	res, err := s.db.Collection(colGoals).
		ReplaceOne(ctx, byID(g.UserID, g.ID), toGoalModel(g))
	if err != nil {
		return fmt.Errorf("cofrin/mongo: update goal: %w", err)
	}
	if res.MatchedCount == 0 {
		return cofrin.ErrGoalNotFound
	}
	return nil
}

func (s *Store) DeleteGoal(ctx context.Context, userID, goalID id.ID) error {
	res, err := s.db.Collection(colGoals).DeleteOne(ctx, byID(userID, goalID))
	if err != nil {
		return fmt.Errorf("cofrin/mongo: delete goal: %w", err)
	}
	if res.DeletedCount == 0 {
		return cofrin.ErrGoalNotFound
	}
	return nil
}

func (s *Store) AdjustGoalProgress(ctx context.Context, userID, goalID id.ID, delta decimal.Decimal) error {
	g, err := s.GetGoal(ctx, userID, goalID)
	if err != nil {
		return err
	}

	res, err := s.db.Collection(colGoals).UpdateOne(ctx,
		byID(userID, goalID),
		bson.M{"$set": bson.M{"current_amount": g.CurrentAmount.Add(delta).String()}},
	)
	if err != nil {
		return fmt.Errorf("cofrin/mongo: adjust goal progress: %w", err)
	}
	if res.MatchedCount == 0 {
		return cofrin.ErrGoalNotFound
	}
	return nil
}

// ==================== Categories ====================

func (s *Store) CreateCategory(ctx context.Context, c *category.Category) error {
	_, err := s.db.Collection(colCategories).InsertOne(ctx, toCategoryModel(c))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return cofrin.ErrAlreadyExists
		}
		return fmt.Errorf("cofrin/mongo: create category: %w", err)
	}
	return nil
}

func (s *Store) GetCategory(ctx context.Context, userID, categoryID id.ID) (*category.Category, error) {
	var m categoryModel
	err := s.db.Collection(colCategories).
		FindOne(ctx, byID(userID, categoryID)).
		Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, cofrin.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("cofrin/mongo: get category: %w", err)
	}
	return fromCategoryModel(&m)
}

func (s *Store) ListCategories(ctx context.Context, userID id.ID) ([]*category.Category, error) {
	var models []categoryModel
	if err := s.findAll(ctx, colCategories, byUser(userID), &models); err != nil {
		return nil, fmt.Errorf("cofrin/mongo: list categories: %w", err)
	}

	out := make([]*category.Category, len(models))
	for i := range models {
		c, err := fromCategoryModel(&models[i])
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

func (s *Store) UpdateCategory(ctx context.Context, c *category.Category) error {
	res, err := s.db.Collection(colCategories).
		ReplaceOne(ctx, byID(c.UserID, c.ID), toCategoryModel(c))
	if err != nil {
		return fmt.Errorf("cofrin/mongo: update category: %w", err)
	}
	if res.MatchedCount == 0 {
		return cofrin.ErrCategoryNotFound
	}
	return nil
}

func (s *Store) DeleteCategory(ctx context.Context, userID, categoryID id.ID) error {
	res, err := s.db.Collection(colCategories).DeleteOne(ctx, byID(userID, categoryID))
	if err != nil {
		return fmt.Errorf("cofrin/mongo: delete category: %w", err)
	}
	if res.DeletedCount == 0 {
		return cofrin.ErrCategoryNotFound
	}
	return nil
}

// ==================== Helpers ====================

func byID(userID, docID id.ID) bson.M {
	return bson.M{"_id": docID.String(), "user_id": userID.String()}
}

func byUser(userID id.ID) bson.M {
	return bson.M{"user_id": userID.String()}
}

func (s *Store) findAll(ctx context.Context, col string, filter bson.M, out any) error {
	cur, err := s.db.Collection(col).Find(ctx, filter)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
