package cofrin_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cofrin "github.com/thiagodosanjos/cofrin"
	"github.com/thiagodosanjos/cofrin/id"
	"github.com/thiagodosanjos/cofrin/transaction"
)

func TestSetInitialBalanceOnce(t *testing.T) {
	e, _ := newTestEngine(t, testNow)
	ctx := context.Background()
	userID := id.NewUserID()
	a := makeAccount(t, e, userID, "Checking")

	require.NoError(t, e.SetInitialBalance(ctx, userID, a.ID, dec("500")))

	got, err := e.GetAccount(ctx, userID, a.ID)
	require.NoError(t, err)
	requireDec(t, "500", got.Balance)
	requireDec(t, "500", got.InitialBalance)
	require.True(t, got.InitialBalanceSet)

	err = e.SetInitialBalance(ctx, userID, a.ID, dec("999"))
	require.ErrorIs(t, err, cofrin.ErrInitialBalanceSet)

	got, err = e.GetAccount(ctx, userID, a.ID)
	require.NoError(t, err)
	requireDec(t, "500", got.InitialBalance)
}

func TestUpdateAccountPreservesBalanceAndSyncsName(t *testing.T) {
	e, _ := newTestEngine(t, testNow)
	ctx := context.Background()
	userID := id.NewUserID()
	a := makeAccount(t, e, userID, "Old Name")
	b := makeAccount(t, e, userID, "Other")

	_, err := e.CreateTransaction(ctx, userID, cofrin.TransactionInput{
		Type: transaction.TypeIncome, Amount: dec("100"), Date: testNow, AccountID: a.ID,
	})
	require.NoError(t, err)
	tr, err := e.CreateTransaction(ctx, userID, cofrin.TransactionInput{
		Type: transaction.TypeTransfer, Amount: dec("20"), Date: testNow,
		AccountID: b.ID, ToAccountID: a.ID,
	})
	require.NoError(t, err)

	edited := *a
	edited.Name = "New Name"
	// A stale caller balance must not clobber the ledger-owned value.
	edited.Balance = dec("123456")
	require.NoError(t, e.UpdateAccount(ctx, &edited))

	got, err := e.GetAccount(ctx, userID, a.ID)
	require.NoError(t, err)
	require.Equal(t, "New Name", got.Name)
	requireDec(t, "120", got.Balance)

	txns, err := e.ListTransactions(ctx, userID)
	require.NoError(t, err)
	for _, tx := range txns {
		if tx.AccountID == a.ID {
			require.Equal(t, "New Name", tx.AccountName)
		}
		if tx.ID == tr.ID {
			require.Equal(t, "New Name", tx.ToAccountName)
		}
	}
}

func TestArchiveAccount(t *testing.T) {
	e, _ := newTestEngine(t, testNow)
	ctx := context.Background()
	userID := id.NewUserID()
	a := makeAccount(t, e, userID, "Checking")

	require.NoError(t, e.ArchiveAccount(ctx, userID, a.ID))

	got, err := e.GetAccount(ctx, userID, a.ID)
	require.NoError(t, err)
	require.True(t, got.IsArchived)
}

func TestDeleteAccountCompensatesTransferCounterparts(t *testing.T) {
	e, _ := newTestEngine(t, testNow)
	ctx := context.Background()
	userID := id.NewUserID()
	a := makeAccount(t, e, userID, "Doomed")
	b := makeAccount(t, e, userID, "Survivor")

	_, err := e.CreateTransaction(ctx, userID, cofrin.TransactionInput{
		Type: transaction.TypeExpense, Amount: dec("50"), Date: testNow, AccountID: a.ID,
	})
	require.NoError(t, err)
	_, err = e.CreateTransaction(ctx, userID, cofrin.TransactionInput{
		Type: transaction.TypeTransfer, Amount: dec("100"), Date: testNow,
		AccountID: a.ID, ToAccountID: b.ID,
	})
	require.NoError(t, err)

	gotB, err := e.GetAccount(ctx, userID, b.ID)
	require.NoError(t, err)
	requireDec(t, "100", gotB.Balance)

	res, err := e.DeleteAccount(ctx, userID, a.ID, nil)
	require.NoError(t, err)
	require.Equal(t, 2, res.Total)
	require.Equal(t, 2, res.Deleted)
	require.Equal(t, 0, res.Failed)
	require.False(t, res.Partial())

	_, err = e.GetAccount(ctx, userID, a.ID)
	require.True(t, cofrin.IsNotFound(err))

	// The transfer into the survivor was compensated away.
	gotB, err = e.GetAccount(ctx, userID, b.ID)
	require.NoError(t, err)
	requireDec(t, "0", gotB.Balance)
}

func TestDeleteAccountReportsProgressPerBatch(t *testing.T) {
	e, _ := newTestEngine(t, testNow, cofrin.WithBulkBatchSize(3))
	ctx := context.Background()
	userID := id.NewUserID()
	a := makeAccount(t, e, userID, "Busy")

	for i := 0; i < 7; i++ {
		_, err := e.CreateTransaction(ctx, userID, cofrin.TransactionInput{
			Type: transaction.TypeExpense, Amount: dec("10"), Date: testNow,
			AccountID: a.ID, Description: fmt.Sprintf("item %d", i),
		})
		require.NoError(t, err)
	}

	var calls [][2]int
	res, err := e.DeleteAccount(ctx, userID, a.ID, func(done, total int) {
		calls = append(calls, [2]int{done, total})
	})
	require.NoError(t, err)
	require.Equal(t, 7, res.Deleted)
	require.Equal(t, [][2]int{{3, 7}, {6, 7}, {7, 7}}, calls)
}

func TestDeleteSeriesReconcilesAggregates(t *testing.T) {
	e, _ := newTestEngine(t, testNow)
	ctx := context.Background()
	userID := id.NewUserID()
	c := makeCard(t, e, userID, "Visa", 10, id.Nil)
	seriesID := id.NewSeriesID()

	for i := 0; i < 3; i++ {
		_, err := e.CreateTransaction(ctx, userID, cofrin.TransactionInput{
			Type: transaction.TypeExpense, Amount: dec("40"), Date: testNow,
			CreditCardID: c.ID, SeriesID: seriesID,
		})
		require.NoError(t, err)
	}

	gotCard, err := e.GetCreditCard(ctx, userID, c.ID)
	require.NoError(t, err)
	requireDec(t, "120", gotCard.CurrentUsed)

	res, err := e.DeleteSeries(ctx, userID, seriesID, nil)
	require.NoError(t, err)
	require.Equal(t, 3, res.Deleted)
	require.Equal(t, 0, res.Failed)

	gotCard, err = e.GetCreditCard(ctx, userID, c.ID)
	require.NoError(t, err)
	requireDec(t, "0", gotCard.CurrentUsed)

	txns, err := e.ListTransactions(ctx, userID)
	require.NoError(t, err)
	require.Empty(t, txns)
}

func TestDeleteCreditCardCascades(t *testing.T) {
	e, st := newTestEngine(t, testNow)
	ctx := context.Background()
	userID := id.NewUserID()
	c := makeCard(t, e, userID, "Visa", 10, id.Nil)

	_, err := e.CreateTransaction(ctx, userID, cofrin.TransactionInput{
		Type: transaction.TypeExpense, Amount: dec("60"),
		Date:         time.Date(2024, time.May, 5, 0, 0, 0, 0, time.UTC),
		CreditCardID: c.ID,
	})
	require.NoError(t, err)

	res, err := e.DeleteCreditCard(ctx, userID, c.ID, nil)
	require.NoError(t, err)
	require.Equal(t, 1, res.Deleted)

	_, err = e.GetCreditCard(ctx, userID, c.ID)
	require.True(t, cofrin.IsNotFound(err))

	txns, err := st.ListTransactionsByCard(ctx, userID, c.ID)
	require.NoError(t, err)
	require.Empty(t, txns)

	bills, err := st.ListBillsByCard(ctx, userID, c.ID)
	require.NoError(t, err)
	require.Empty(t, bills)
}

func TestAccountsAreScopedByUser(t *testing.T) {
	e, _ := newTestEngine(t, testNow)
	ctx := context.Background()
	owner := id.NewUserID()
	intruder := id.NewUserID()
	a := makeAccount(t, e, owner, "Private")

	_, err := e.GetAccount(ctx, intruder, a.ID)
	require.True(t, cofrin.IsNotFound(err))

	list, err := e.ListAccounts(ctx, intruder)
	require.NoError(t, err)
	require.Empty(t, list)
}
