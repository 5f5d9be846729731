package mongo

import (
	"fmt"
	"time"

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

// Decimal amounts are stored as strings to keep exact values; Mongo's
// double would silently round them. IDs are stored as their TypeID string,
// with "" meaning an unset optional reference.

// ==================== Account model ====================

type accountModel struct {
	ID     string `bson:"_id"`
	UserID string `bson:"user_id"`
	Name   string `bson:"name"`
	Type   string `bson:"type"`

	Balance           string `bson:"balance"`
	InitialBalance    string `bson:"initial_balance"`
	InitialBalanceSet bool   `bson:"initial_balance_set"`

	IncludeInTotal bool `bson:"include_in_total"`
	IsArchived     bool `bson:"is_archived"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toAccountModel(a *account.Account) *accountModel {
	return &accountModel{
		ID:                a.ID.String(),
		UserID:            a.UserID.String(),
		Name:              a.Name,
		Type:              string(a.Type),
		Balance:           a.Balance.String(),
		InitialBalance:    a.InitialBalance.String(),
		InitialBalanceSet: a.InitialBalanceSet,
		IncludeInTotal:    a.IncludeInTotal,
		IsArchived:        a.IsArchived,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

func fromAccountModel(m *accountModel) (*account.Account, error) {
	aID, err := id.Parse(m.ID)
	if err != nil {
		return nil, fmt.Errorf("cofrin/mongo: account id: %w", err)
	}
	userID, err := id.Parse(m.UserID)
	if err != nil {
		return nil, fmt.Errorf("cofrin/mongo: account user id: %w", err)
	}
	balance, err := parseAmount(m.Balance, "balance")
	if err != nil {
		return nil, err
	}
	initial, err := parseAmount(m.InitialBalance, "initial_balance")
	if err != nil {
		return nil, err
	}

	return &account.Account{
		Entity:            types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:                aID,
		UserID:            userID,
		Name:              m.Name,
		Type:              account.Type(m.Type),
		Balance:           balance,
		InitialBalance:    initial,
		InitialBalanceSet: m.InitialBalanceSet,
		IncludeInTotal:    m.IncludeInTotal,
		IsArchived:        m.IsArchived,
	}, nil
}

// ==================== Credit-card model ====================

type cardModel struct {
	ID     string `bson:"_id"`
	UserID string `bson:"user_id"`
	Name   string `bson:"name"`

	Limit      string `bson:"limit"`
	ClosingDay int    `bson:"closing_day"`
	DueDay     int    `bson:"due_day"`

	CurrentUsed      string `bson:"current_used"`
	PaymentAccountID string `bson:"payment_account_id,omitempty"`
	IsArchived       bool   `bson:"is_archived"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toCardModel(c *card.CreditCard) *cardModel {
	return &cardModel{
		ID:               c.ID.String(),
		UserID:           c.UserID.String(),
		Name:             c.Name,
		Limit:            c.Limit.String(),
		ClosingDay:       c.ClosingDay,
		DueDay:           c.DueDay,
		CurrentUsed:      c.CurrentUsed.String(),
		PaymentAccountID: c.PaymentAccountID.String(),
		IsArchived:       c.IsArchived,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func fromCardModel(m *cardModel) (*card.CreditCard, error) {
	cID, err := id.Parse(m.ID)
	if err != nil {
		return nil, fmt.Errorf("cofrin/mongo: card id: %w", err)
	}
	userID, err := id.Parse(m.UserID)
	if err != nil {
		return nil, fmt.Errorf("cofrin/mongo: card user id: %w", err)
	}
	limit, err := parseAmount(m.Limit, "limit")
	if err != nil {
		return nil, err
	}
	used, err := parseAmount(m.CurrentUsed, "current_used")
	if err != nil {
		return nil, err
	}
	payAcct, err := parseOptionalID(m.PaymentAccountID, "payment_account_id")
	if err != nil {
		return nil, err
	}

	return &card.CreditCard{
		Entity:           types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:               cID,
		UserID:           userID,
		Name:             m.Name,
		Limit:            limit,
		ClosingDay:       m.ClosingDay,
		DueDay:           m.DueDay,
		CurrentUsed:      used,
		PaymentAccountID: payAcct,
		IsArchived:       m.IsArchived,
	}, nil
}

// ==================== Transaction model ====================

type transactionModel struct {
	ID     string `bson:"_id"`
	UserID string `bson:"user_id"`

	Type        string    `bson:"type"`
	Amount      string    `bson:"amount"`
	Date        time.Time `bson:"date"`
	Status      string    `bson:"status"`
	Description string    `bson:"description,omitempty"`

	Month int `bson:"month"`
	Year  int `bson:"year"`

	AccountID        string `bson:"account_id,omitempty"`
	ToAccountID      string `bson:"to_account_id,omitempty"`
	CreditCardID     string `bson:"credit_card_id,omitempty"`
	CreditCardBillID string `bson:"credit_card_bill_id,omitempty"`

	CategoryID          string `bson:"category_id,omitempty"`
	GoalID              string `bson:"goal_id,omitempty"`
	SeriesID            string `bson:"series_id,omitempty"`
	ParentTransactionID string `bson:"parent_transaction_id,omitempty"`

	AccountName   string `bson:"account_name,omitempty"`
	ToAccountName string `bson:"to_account_name,omitempty"`
	CardName      string `bson:"card_name,omitempty"`
	CategoryName  string `bson:"category_name,omitempty"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toTransactionModel(t *transaction.Transaction) *transactionModel {
	return &transactionModel{
		ID:                  t.ID.String(),
		UserID:              t.UserID.String(),
		Type:                string(t.Type),
		Amount:              t.Amount.String(),
		Date:                t.Date,
		Status:              string(t.Status),
		Description:         t.Description,
		Month:               int(t.Period.Month),
		Year:                t.Period.Year,
		AccountID:           t.AccountID.String(),
		ToAccountID:         t.ToAccountID.String(),
		CreditCardID:        t.CreditCardID.String(),
		CreditCardBillID:    t.CreditCardBillID.String(),
		CategoryID:          t.CategoryID.String(),
		GoalID:              t.GoalID.String(),
		SeriesID:            t.SeriesID.String(),
		ParentTransactionID: t.ParentTransactionID.String(),
		AccountName:         t.AccountName,
		ToAccountName:       t.ToAccountName,
		CardName:            t.CardName,
		CategoryName:        t.CategoryName,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}
}

func fromTransactionModel(m *transactionModel) (*transaction.Transaction, error) {
	tID, err := id.Parse(m.ID)
	if err != nil {
		return nil, fmt.Errorf("cofrin/mongo: transaction id: %w", err)
	}
	userID, err := id.Parse(m.UserID)
	if err != nil {
		return nil, fmt.Errorf("cofrin/mongo: transaction user id: %w", err)
	}
	amount, err := parseAmount(m.Amount, "amount")
	if err != nil {
		return nil, err
	}

	t := &transaction.Transaction{
		Entity:        types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:            tID,
		UserID:        userID,
		Type:          transaction.Type(m.Type),
		Amount:        amount,
		Date:          m.Date,
		Status:        transaction.Status(m.Status),
		Description:   m.Description,
		Period:        types.Period{Month: time.Month(m.Month), Year: m.Year},
		AccountName:   m.AccountName,
		ToAccountName: m.ToAccountName,
		CardName:      m.CardName,
		CategoryName:  m.CategoryName,
	}

	refs := []struct {
		raw   string
		field string
		dst   *id.ID
	}{
		{m.AccountID, "account_id", &t.AccountID},
		{m.ToAccountID, "to_account_id", &t.ToAccountID},
		{m.CreditCardID, "credit_card_id", &t.CreditCardID},
		{m.CreditCardBillID, "credit_card_bill_id", &t.CreditCardBillID},
		{m.CategoryID, "category_id", &t.CategoryID},
		{m.GoalID, "goal_id", &t.GoalID},
		{m.SeriesID, "series_id", &t.SeriesID},
		{m.ParentTransactionID, "parent_transaction_id", &t.ParentTransactionID},
	}
	for _, r := range refs {
		parsed, err := parseOptionalID(r.raw, r.field)
		if err != nil {
			return nil, err
		}
		*r.dst = parsed
	}

	return t, nil
}

// ==================== Bill model ====================

type billModel struct {
	ID           string `bson:"_id"`
	UserID       string `bson:"user_id"`
	CreditCardID string `bson:"credit_card_id"`

	Month  int `bson:"month"`
	Year   int `bson:"year"`
	DueDay int `bson:"due_day"`

	TotalAmount string `bson:"total_amount"`

	IsPaid               bool       `bson:"is_paid"`
	PaidAt               *time.Time `bson:"paid_at,omitempty"`
	PaidFromAccountID    string     `bson:"paid_from_account_id,omitempty"`
	PaymentTransactionID string     `bson:"payment_transaction_id,omitempty"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toBillModel(b *bill.Bill) *billModel {
	return &billModel{
		ID:                   b.ID.String(),
		UserID:               b.UserID.String(),
		CreditCardID:         b.CreditCardID.String(),
		Month:                int(b.Period.Month),
		Year:                 b.Period.Year,
		DueDay:               b.DueDay,
		TotalAmount:          b.TotalAmount.String(),
		IsPaid:               b.IsPaid,
		PaidAt:               b.PaidAt,
		PaidFromAccountID:    b.PaidFromAccountID.String(),
		PaymentTransactionID: b.PaymentTransactionID.String(),
		CreatedAt:            b.CreatedAt,
		UpdatedAt:            b.UpdatedAt,
	}
}

func fromBillModel(m *billModel) (*bill.Bill, error) {
	bID, err := id.Parse(m.ID)
	if err != nil {
		return nil, fmt.Errorf("cofrin/mongo: bill id: %w", err)
	}
	userID, err := id.Parse(m.UserID)
	if err != nil {
		return nil, fmt.Errorf("cofrin/mongo: bill user id: %w", err)
	}
	cardID, err := id.Parse(m.CreditCardID)
	if err != nil {
		return nil, fmt.Errorf("cofrin/mongo: bill card id: %w", err)
	}
	total, err := parseAmount(m.TotalAmount, "total_amount")
	if err != nil {
		return nil, err
	}
	paidFrom, err := parseOptionalID(m.PaidFromAccountID, "paid_from_account_id")
	if err != nil {
		return nil, err
	}
	payTxn, err := parseOptionalID(m.PaymentTransactionID, "payment_transaction_id")
	if err != nil {
		return nil, err
	}

	return &bill.Bill{
		Entity:               types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:                   bID,
		UserID:               userID,
		CreditCardID:         cardID,
		Period:               types.Period{Month: time.Month(m.Month), Year: m.Year},
		DueDay:               m.DueDay,
		TotalAmount:          total,
		IsPaid:               m.IsPaid,
		PaidAt:               m.PaidAt,
		PaidFromAccountID:    paidFrom,
		PaymentTransactionID: payTxn,
	}, nil
}

// ==================== Goal model ====================

type goalModel struct {
	ID     string `bson:"_id"`
	UserID string `bson:"user_id"`
	Name   string `bson:"name"`

	TargetAmount  string     `bson:"target_amount"`
	CurrentAmount string     `bson:"current_amount"`
	Deadline      *time.Time `bson:"deadline,omitempty"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toGoalModel(g *goal.Goal) *goalModel {
	return &goalModel{
		ID:            g.ID.String(),
		UserID:        g.UserID.String(),
		Name:          g.Name,
		TargetAmount:  g.TargetAmount.String(),
		CurrentAmount: g.CurrentAmount.String(),
		Deadline:      g.Deadline,
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
}

func fromGoalModel(m *goalModel) (*goal.Goal, error) {
	gID, err := id.Parse(m.ID)
	if err != nil {
		return nil, fmt.Errorf("cofrin/mongo: goal id: %w", err)
	}
	userID, err := id.Parse(m.UserID)
	if err != nil {
		return nil, fmt.Errorf("cofrin/mongo: goal user id: %w", err)
	}
	target, err := parseAmount(m.TargetAmount, "target_amount")
	if err != nil {
		return nil, err
	}
	current, err := parseAmount(m.CurrentAmount, "current_amount")
	if err != nil {
		return nil, err
	}

	return &goal.Goal{
		Entity:        types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:            gID,
		UserID:        userID,
		Name:          m.Name,
		TargetAmount:  target,
		CurrentAmount: current,
		Deadline:      m.Deadline,
	}, nil
}

// ==================== Category model ====================

type categoryModel struct {
	ID     string `bson:"_id"`
	UserID string `bson:"user_id"`
	Name   string `bson:"name"`
	Icon   string `bson:"icon,omitempty"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toCategoryModel(c *category.Category) *categoryModel {
	return &categoryModel{
		ID:        c.ID.String(),
		UserID:    c.UserID.String(),
		Name:      c.Name,
		Icon:      c.Icon,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func fromCategoryModel(m *categoryModel) (*category.Category, error) {
	cID, err := id.Parse(m.ID)
	if err != nil {
		return nil, fmt.Errorf("cofrin/mongo: category id: %w", err)
	}
	userID, err := id.Parse(m.UserID)
	if err != nil {
		return nil, fmt.Errorf("cofrin/mongo: category user id: %w", err)
	}

	return &category.Category{
		Entity: types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:     cID,
		UserID: userID,
		Name:   m.Name,
		Icon:   m.Icon,
	}, nil
}

// ==================== Helpers ====================

func parseAmount(s, field string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("cofrin/mongo: parse %s %q: %w", field, s, err)
	}
	return d, nil
}

func parseOptionalID(s, field string) (id.ID, error) {
	if s == "" {
		return id.Nil, nil
	}
	parsed, err := id.Parse(s)
	if err != nil {
		return id.Nil, fmt.Errorf("cofrin/mongo: parse %s: %w", field, err)
	}
	return parsed, nil
}
