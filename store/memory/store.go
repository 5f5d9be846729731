// Package memory provides an in-memory Store implementation, used in tests
// and as the reference for store semantics: plain document CRUD with
// field-equality queries, no cross-document atomicity.
package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

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

// compile-time interface check
var _ store.Store = (*Store)(nil)

// Store keeps every collection in process memory behind one RWMutex.
type Store struct {
	mu     sync.RWMutex
	closed bool

	accounts     map[id.ID]*account.Account
	cards        map[id.ID]*card.CreditCard
	transactions map[id.ID]*transaction.Transaction
	bills        map[id.ID]*bill.Bill
	goals        map[id.ID]*goal.Goal
	categories   map[id.ID]*category.Category
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		accounts:     make(map[id.ID]*account.Account),
		cards:        make(map[id.ID]*card.CreditCard),
		transactions: make(map[id.ID]*transaction.Transaction),
		bills:        make(map[id.ID]*bill.Bill),
		goals:        make(map[id.ID]*goal.Goal),
		categories:   make(map[id.ID]*category.Category),
	}
}

// Migrate is a no-op for the memory backend.
func (s *Store) Migrate(_ context.Context) error { return nil }

// Ping reports whether the store is still open.
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return cofrin.ErrStoreClosed
	}
	return nil
}

// Close marks the store closed. Data is kept so tests can still inspect it.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

// ==================== Accounts ====================

func (s *Store) CreateAccount(_ context.Context, a *account.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[a.ID]; exists {
		return cofrin.ErrAlreadyExists
	}
	cp := *a
	s.accounts[a.ID] = &cp
	return nil
}

func (s *Store) GetAccount(_ context.Context, userID, accountID id.ID) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[accountID]
	if !ok || a.UserID != userID {
		return nil, cofrin.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *Store) ListAccounts(_ context.Context, userID id.ID) ([]*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*account.Account
	for _, a := range s.accounts {
		if a.UserID == userID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Store) UpdateAccount(_ context.Context, a *account.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.accounts[a.ID]
	if !ok || cur.UserID != a.UserID {
		return cofrin.ErrAccountNotFound
	}
	cp := *a
	s.accounts[a.ID] = &cp
	return nil
}

func (s *Store) DeleteAccount(_ context.Context, userID, accountID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[accountID]
	if !ok || a.UserID != userID {
		return cofrin.ErrAccountNotFound
	}
	delete(s.accounts, accountID)
	return nil
}

func (s *Store) AdjustAccountBalance(_ context.Context, userID, accountID id.ID, delta decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[accountID]
	if !ok || a.UserID != userID {
		return cofrin.ErrAccountNotFound
	}
	a.Balance = a.Balance.Add(delta)
	return nil
}

func (s *Store) SetAccountBalance(_ context.Context, userID, accountID id.ID, balance decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[accountID]
	if !ok || a.UserID != userID {
		return cofrin.ErrAccountNotFound
	}
	a.Balance = balance
	return nil
}

// ==================== Credit cards ====================

func (s *Store) CreateCard(_ context.Context, c *card.CreditCard) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.cards[c.ID]; exists {
		return cofrin.ErrAlreadyExists
	}
	cp := *c
	s.cards[c.ID] = &cp
	return nil
}

func (s *Store) GetCard(_ context.Context, userID, cardID id.ID) (*card.CreditCard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.cards[cardID]
	if !ok || c.UserID != userID {
		return nil, cofrin.ErrCardNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Store) ListCards(_ context.Context, userID id.ID) ([]*card.CreditCard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*card.CreditCard
	for _, c := range s.cards {
		if c.UserID == userID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Store) UpdateCard(_ context.Context, c *card.CreditCard) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.cards[c.ID]
	if !ok || cur.UserID != c.UserID {
		return cofrin.ErrCardNotFound
	}
	cp := *c
	s.cards[c.ID] = &cp
	return nil
}

func (s *Store) DeleteCard(_ context.Context, userID, cardID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cards[cardID]
	if !ok || c.UserID != userID {
		return cofrin.ErrCardNotFound
	}
	delete(s.cards, cardID)
	return nil
}

func (s *Store) AdjustCardUsed(_ context.Context, userID, cardID id.ID, delta decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cards[cardID]
	if !ok || c.UserID != userID {
		return cofrin.ErrCardNotFound
	}
	c.CurrentUsed = c.CurrentUsed.Add(delta)
	return nil
}

func (s *Store) SetCardUsed(_ context.Context, userID, cardID id.ID, used decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cards[cardID]
	if !ok || c.UserID != userID {
		return cofrin.ErrCardNotFound
	}
	c.CurrentUsed = used
	return nil
}

// ==================== Transactions ====================

func (s *Store) CreateTransaction(_ context.Context, t *transaction.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.transactions[t.ID]; exists {
		return cofrin.ErrAlreadyExists
	}
	s.transactions[t.ID] = t.Clone()
	return nil
}

func (s *Store) GetTransaction(_ context.Context, userID, txnID id.ID) (*transaction.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.transactions[txnID]
	if !ok || t.UserID != userID {
		return nil, cofrin.ErrTransactionNotFound
	}
	return t.Clone(), nil
}

func (s *Store) UpdateTransaction(_ context.Context, t *transaction.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.transactions[t.ID]
	if !ok || cur.UserID != t.UserID {
		return cofrin.ErrTransactionNotFound
	}
	s.transactions[t.ID] = t.Clone()
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, userID, txnID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[txnID]
	if !ok || t.UserID != userID {
		return cofrin.ErrTransactionNotFound
	}
	delete(s.transactions, txnID)
	return nil
}

func (s *Store) ListTransactions(_ context.Context, userID id.ID) ([]*transaction.Transaction, error) {
	return s.listTransactions(func(t *transaction.Transaction) bool {
		return t.UserID == userID
	})
}

func (s *Store) ListTransactionsByAccount(_ context.Context, userID, accountID id.ID) ([]*transaction.Transaction, error) {
	return s.listTransactions(func(t *transaction.Transaction) bool {
		return t.UserID == userID && t.AccountID == accountID
	})
}

func (s *Store) ListTransactionsByCard(_ context.Context, userID, cardID id.ID) ([]*transaction.Transaction, error) {
	return s.listTransactions(func(t *transaction.Transaction) bool {
		return t.UserID == userID && t.CreditCardID == cardID
	})
}

func (s *Store) ListTransactionsByCardPeriod(_ context.Context, userID, cardID id.ID, p types.Period) ([]*transaction.Transaction, error) {
	return s.listTransactions(func(t *transaction.Transaction) bool {
		return t.UserID == userID && t.CreditCardID == cardID && t.Period == p
	})
}

func (s *Store) ListTransactionsBySeries(_ context.Context, userID, seriesID id.ID) ([]*transaction.Transaction, error) {
	return s.listTransactions(func(t *transaction.Transaction) bool {
		return t.UserID == userID && t.SeriesID == seriesID
	})
}

func (s *Store) listTransactions(match func(*transaction.Transaction) bool) ([]*transaction.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*transaction.Transaction
	for _, t := range s.transactions {
		if match(t) {
			out = append(out, t.Clone())
		}
	}
	return out, nil
}

// ==================== Bills ====================

func (s *Store) CreateBill(_ context.Context, b *bill.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bills[b.ID]; exists {
		return cofrin.ErrAlreadyExists
	}
	cp := *b
	s.bills[b.ID] = &cp
	return nil
}

func (s *Store) GetBill(_ context.Context, userID, billID id.ID) (*bill.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bills[billID]
	if !ok || b.UserID != userID {
		return nil, cofrin.ErrBillNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *Store) GetBillByPeriod(_ context.Context, userID, cardID id.ID, p types.Period) (*bill.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.bills {
		if b.UserID == userID && b.CreditCardID == cardID && b.Period == p {
			cp := *b
			return &cp, nil
		}
	}
	return nil, cofrin.ErrBillNotFound
}

func (s *Store) ListBillsByCard(_ context.Context, userID, cardID id.ID) ([]*bill.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*bill.Bill
	for _, b := range s.bills {
		if b.UserID == userID && b.CreditCardID == cardID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Store) UpdateBill(_ context.Context, b *bill.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.bills[b.ID]
	if !ok || cur.UserID != b.UserID {
		return cofrin.ErrBillNotFound
	}
	cp := *b
	s.bills[b.ID] = &cp
	return nil
}

func (s *Store) DeleteBill(_ context.Context, userID, billID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bills[billID]
	if !ok || b.UserID != userID {
		return cofrin.ErrBillNotFound
	}
	delete(s.bills, billID)
	return nil
}

// ==================== Goals ====================

func (s *Store) CreateGoal(_ context.Context, g *goal.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.goals[g.ID]; exists {
		return cofrin.ErrAlreadyExists
	}
	cp := *g
	s.goals[g.ID] = &cp
	return nil
}

func (s *Store) GetGoal(_ context.Context, userID, goalID id.ID) (*goal.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.goals[goalID]
	if !ok || g.UserID != userID {
		return nil, cofrin.ErrGoalNotFound
	}
	cp := *g
	return &cp, nil
}

func (s *Store) ListGoals(_ context.Context, userID id.ID) ([]*goal.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*goal.Goal
	for _, g := range s.goals {
		if g.UserID == userID {
			cp := *g
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Store) UpdateGoal(_ context.Context, g *goal.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.goals[g.ID]
	if !ok || cur.UserID != g.UserID {
		return cofrin.ErrGoalNotFound
	}
	cp := *g
	s.goals[g.ID] = &cp
	return nil
}

func (s *Store) DeleteGoal(_ context.Context, userID, goalID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.goals[goalID]
	if !ok || g.UserID != userID {
		return cofrin.ErrGoalNotFound
	}
	delete(s.goals, goalID)
	return nil
}

func (s *Store) AdjustGoalProgress(_ context.Context, userID, goalID id.ID, delta decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.goals[goalID]
	if !ok || g.UserID != userID {
		return cofrin.ErrGoalNotFound
	}
	g.CurrentAmount = g.CurrentAmount.Add(delta)
	return nil
}

// ==================== Categories ====================

func (s *Store) CreateCategory(_ context.Context, c *category.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.categories[c.ID]; exists {
		return cofrin.ErrAlreadyExists
	}
	cp := *c
	s.categories[c.ID] = &cp
	return nil
}

func (s *Store) GetCategory(_ context.Context, userID, categoryID id.ID) (*category.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[categoryID]
	if !ok || c.UserID != userID {
		return nil, cofrin.ErrCategoryNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Store) ListCategories(_ context.Context, userID id.ID) ([]*category.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*category.Category
	for _, c := range s.categories {
		if c.UserID == userID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Store) UpdateCategory(_ context.Context, c *category.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.categories[c.ID]
	if !ok || cur.UserID != c.UserID {
		return cofrin.ErrCategoryNotFound
	}
	cp := *c
	s.categories[c.ID] = &cp
	return nil
}

func (s *Store) DeleteCategory(_ context.Context, userID, categoryID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[categoryID]
	if !ok || c.UserID != userID {
		return cofrin.ErrCategoryNotFound
	}
	delete(s.categories, categoryID)
	return nil
}
