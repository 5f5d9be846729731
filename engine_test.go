package cofrin_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	cofrin "github.com/thiagodosanjos/cofrin"
	"github.com/thiagodosanjos/cofrin/account"
	"github.com/thiagodosanjos/cofrin/card"
	"github.com/thiagodosanjos/cofrin/id"
	"github.com/thiagodosanjos/cofrin/store/memory"
)

// newTestEngine builds an engine over a fresh memory store with a frozen
// clock. The store is returned too so tests can assert on raw rows.
func newTestEngine(t *testing.T, now time.Time, opts ...cofrin.Option) (*cofrin.Engine, *memory.Store) {
	t.Helper()

	st := memory.New()
	base := []cofrin.Option{
		cofrin.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		cofrin.WithClock(func() time.Time { return now }),
	}
	e := cofrin.New(st, append(base, opts...)...)
	require.NoError(t, e.Start(context.Background()))
	return e, st
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func requireDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, got.Equal(dec(want)), "got %s, want %s", got, want)
}

func makeAccount(t *testing.T, e *cofrin.Engine, userID id.ID, name string) *account.Account {
	t.Helper()

	a, err := e.CreateAccount(context.Background(), userID, cofrin.AccountInput{
		Name:           name,
		Type:           account.TypeChecking,
		IncludeInTotal: true,
	})
	require.NoError(t, err)
	return a
}

func makeCard(t *testing.T, e *cofrin.Engine, userID id.ID, name string, closingDay int, payFrom id.ID) *card.CreditCard {
	t.Helper()

	c, err := e.CreateCreditCard(context.Background(), userID, cofrin.CardInput{
		Name:             name,
		Limit:            dec("5000"),
		ClosingDay:       closingDay,
		DueDay:           15,
		PaymentAccountID: payFrom,
	})
	require.NoError(t, err)
	return c
}

func TestEngineLifecycle(t *testing.T) {
	e, _ := newTestEngine(t, time.Date(2024, time.May, 20, 12, 0, 0, 0, time.UTC))
	require.NoError(t, e.Stop())
}

func TestCreateDefaultAccount(t *testing.T) {
	e, _ := newTestEngine(t, time.Date(2024, time.May, 20, 12, 0, 0, 0, time.UTC))
	userID := id.NewUserID()

	a, err := e.CreateDefaultAccount(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, "Wallet", a.Name)
	require.Equal(t, account.TypeCash, a.Type)
	require.True(t, a.IncludeInTotal)
	requireDec(t, "0", a.Balance)
}
