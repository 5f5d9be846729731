package cofrin_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cofrin "github.com/thiagodosanjos/cofrin"
	"github.com/thiagodosanjos/cofrin/id"
	"github.com/thiagodosanjos/cofrin/transaction"
	"github.com/thiagodosanjos/cofrin/types"
)

func TestMoveTransactionClampsDayToShorterMonth(t *testing.T) {
	e, _ := newTestEngine(t, testNow)
	ctx := context.Background()
	userID := id.NewUserID()
	c := makeCard(t, e, userID, "Visa", 31, id.Nil)

	created, err := e.CreateTransaction(ctx, userID, cofrin.TransactionInput{
		Type: transaction.TypeExpense, Amount: dec("100"),
		Date:         time.Date(2023, time.January, 31, 9, 30, 0, 0, time.UTC),
		CreditCardID: c.ID,
	})
	require.NoError(t, err)
	require.Equal(t, types.Period{Month: time.January, Year: 2023}, created.Period)

	require.NoError(t, e.MoveTransactionToNextBill(ctx, userID, created.ID))

	moved, err := e.GetTransaction(ctx, userID, created.ID)
	require.NoError(t, err)
	require.Equal(t, types.Period{Month: time.February, Year: 2023}, moved.Period)
	require.Equal(t, time.Date(2023, time.February, 28, 9, 30, 0, 0, time.UTC), moved.Date)

	// Usage is unchanged by a move; the line just switched bills.
	gotCard, err := e.GetCreditCard(ctx, userID, c.ID)
	require.NoError(t, err)
	requireDec(t, "100", gotCard.CurrentUsed)
}

func TestMoveTransactionToPreviousBill(t *testing.T) {
	e, _ := newTestEngine(t, testNow)
	ctx := context.Background()
	userID := id.NewUserID()
	c := makeCard(t, e, userID, "Visa", 25, id.Nil)

	created, err := e.CreateTransaction(ctx, userID, cofrin.TransactionInput{
		Type: transaction.TypeExpense, Amount: dec("100"),
		Date:         time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		CreditCardID: c.ID,
	})
	require.NoError(t, err)

	require.NoError(t, e.MoveTransactionToPreviousBill(ctx, userID, created.ID))

	moved, err := e.GetTransaction(ctx, userID, created.ID)
	require.NoError(t, err)
	require.Equal(t, types.Period{Month: time.February, Year: 2024}, moved.Period)
	require.Equal(t, time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC), moved.Date)
}

func TestMoveRejectsAccountTransaction(t *testing.T) {
	e, _ := newTestEngine(t, testNow)
	ctx := context.Background()
	userID := id.NewUserID()
	a := makeAccount(t, e, userID, "Checking")

	created, err := e.CreateTransaction(ctx, userID, cofrin.TransactionInput{
		Type: transaction.TypeExpense, Amount: dec("100"), Date: testNow, AccountID: a.ID,
	})
	require.NoError(t, err)

	err = e.MoveTransactionToNextBill(ctx, userID, created.ID)
	require.ErrorIs(t, err, cofrin.ErrNotCardTransaction)
}

func TestMoveSeriesShiftsInstallmentsInOrder(t *testing.T) {
	e, _ := newTestEngine(t, testNow)
	ctx := context.Background()
	userID := id.NewUserID()
	c := makeCard(t, e, userID, "Visa", 10, id.Nil)
	seriesID := id.NewSeriesID()

	for _, m := range []time.Month{time.January, time.February, time.March} {
		_, err := e.CreateTransaction(ctx, userID, cofrin.TransactionInput{
			Type: transaction.TypeExpense, Amount: dec("50"),
			Date:         time.Date(2024, m, 5, 0, 0, 0, 0, time.UTC),
			CreditCardID: c.ID,
			SeriesID:     seriesID,
		})
		require.NoError(t, err)
	}

	require.NoError(t, e.MoveSeriesToNextBill(ctx, userID, seriesID))

	txns, err := e.ListTransactions(ctx, userID)
	require.NoError(t, err)
	require.Len(t, txns, 3)

	periods := map[types.Period]bool{}
	for _, tx := range txns {
		periods[tx.Period] = true
	}
	require.True(t, periods[types.Period{Month: time.February, Year: 2024}])
	require.True(t, periods[types.Period{Month: time.March, Year: 2024}])
	require.True(t, periods[types.Period{Month: time.April, Year: 2024}])

	gotCard, err := e.GetCreditCard(ctx, userID, c.ID)
	require.NoError(t, err)
	requireDec(t, "150", gotCard.CurrentUsed)
}

func TestMoveSeriesSkipsPaidTargetPeriod(t *testing.T) {
	e, _ := newTestEngine(t, testNow)
	ctx := context.Background()
	userID := id.NewUserID()
	a := makeAccount(t, e, userID, "Checking")
	c := makeCard(t, e, userID, "Visa", 10, a.ID)
	seriesID := id.NewSeriesID()

	created, err := e.CreateTransaction(ctx, userID, cofrin.TransactionInput{
		Type: transaction.TypeExpense, Amount: dec("50"),
		Date:         time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC),
		CreditCardID: c.ID,
		SeriesID:     seriesID,
	})
	require.NoError(t, err)

	// Mark February paid; the series must land in March instead.
	feb := types.Period{Month: time.February, Year: 2024}
	fb, err := e.GetOrCreateBill(ctx, userID, c.ID, feb)
	require.NoError(t, err)
	_, err = e.PayBill(ctx, userID, fb.ID, id.Nil)
	require.NoError(t, err)

	require.NoError(t, e.MoveSeriesToNextBill(ctx, userID, seriesID))

	moved, err := e.GetTransaction(ctx, userID, created.ID)
	require.NoError(t, err)
	require.Equal(t, types.Period{Month: time.March, Year: 2024}, moved.Period)
}

func TestMoveSeriesErrors(t *testing.T) {
	e, _ := newTestEngine(t, testNow)
	ctx := context.Background()
	userID := id.NewUserID()
	c1 := makeCard(t, e, userID, "Visa", 10, id.Nil)
	c2 := makeCard(t, e, userID, "Master", 10, id.Nil)

	err := e.MoveSeriesToNextBill(ctx, userID, id.NewSeriesID())
	require.ErrorIs(t, err, cofrin.ErrEmptySeries)

	mixed := id.NewSeriesID()
	for _, cardID := range []id.ID{c1.ID, c2.ID} {
		_, err := e.CreateTransaction(ctx, userID, cofrin.TransactionInput{
			Type: transaction.TypeExpense, Amount: dec("50"), Date: testNow,
			CreditCardID: cardID, SeriesID: mixed,
		})
		require.NoError(t, err)
	}
	err = e.MoveSeriesToNextBill(ctx, userID, mixed)
	require.ErrorIs(t, err, cofrin.ErrMixedSeries)
}
