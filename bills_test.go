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

func TestCardPurchaseResolvesBillingPeriod(t *testing.T) {
	e, _ := newTestEngine(t, testNow)
	ctx := context.Background()
	userID := id.NewUserID()
	c := makeCard(t, e, userID, "Visa", 10, id.Nil)

	before, err := e.CreateTransaction(ctx, userID, cofrin.TransactionInput{
		Type: transaction.TypeExpense, Amount: dec("100"),
		Date:         time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC),
		CreditCardID: c.ID,
	})
	require.NoError(t, err)
	require.Equal(t, types.Period{Month: time.May, Year: 2024}, before.Period)

	after, err := e.CreateTransaction(ctx, userID, cofrin.TransactionInput{
		Type: transaction.TypeExpense, Amount: dec("50"),
		Date:         time.Date(2024, time.May, 11, 0, 0, 0, 0, time.UTC),
		CreditCardID: c.ID,
	})
	require.NoError(t, err)
	require.Equal(t, types.Period{Month: time.June, Year: 2024}, after.Period)

	// Both periods got their bill created lazily.
	for _, p := range []types.Period{before.Period, after.Period} {
		b, err := e.GetOrCreateBill(ctx, userID, c.ID, p)
		require.NoError(t, err)
		require.False(t, b.IsPaid)
		require.Equal(t, 15, b.DueDay)
	}
}

func TestCardUsageTracksPurchasesAndRefunds(t *testing.T) {
	e, _ := newTestEngine(t, testNow)
	ctx := context.Background()
	userID := id.NewUserID()
	c := makeCard(t, e, userID, "Visa", 10, id.Nil)

	_, err := e.CreateTransaction(ctx, userID, cofrin.TransactionInput{
		Type: transaction.TypeExpense, Amount: dec("100"), Date: testNow, CreditCardID: c.ID,
	})
	require.NoError(t, err)
	_, err = e.CreateTransaction(ctx, userID, cofrin.TransactionInput{
		Type: transaction.TypeIncome, Amount: dec("30"), Date: testNow, CreditCardID: c.ID,
	})
	require.NoError(t, err)

	got, err := e.GetCreditCard(ctx, userID, c.ID)
	require.NoError(t, err)
	requireDec(t, "70", got.CurrentUsed)
	requireDec(t, "4930", got.Available())

	recomputed, err := e.ReconcileCard(ctx, userID, c.ID)
	require.NoError(t, err)
	require.True(t, recomputed.Equal(got.CurrentUsed),
		"reconciled %s diverges from incremental %s", recomputed, got.CurrentUsed)
}

func TestPayBillRoundTrip(t *testing.T) {
	e, _ := newTestEngine(t, testNow)
	ctx := context.Background()
	userID := id.NewUserID()
	a := makeAccount(t, e, userID, "Checking")
	require.NoError(t, e.SetInitialBalance(ctx, userID, a.ID, dec("1000")))
	c := makeCard(t, e, userID, "Visa", 10, a.ID)

	purchaseDate := time.Date(2024, time.May, 5, 0, 0, 0, 0, time.UTC)
	_, err := e.CreateTransaction(ctx, userID, cofrin.TransactionInput{
		Type: transaction.TypeExpense, Amount: dec("100"), Date: purchaseDate, CreditCardID: c.ID,
	})
	require.NoError(t, err)
	_, err = e.CreateTransaction(ctx, userID, cofrin.TransactionInput{
		Type: transaction.TypeIncome, Amount: dec("30"), Date: purchaseDate, CreditCardID: c.ID,
	})
	require.NoError(t, err)

	may := types.Period{Month: time.May, Year: 2024}
	b, err := e.GetOrCreateBill(ctx, userID, c.ID, may)
	require.NoError(t, err)

	// Nil account falls back to the card's payment account.
	payment, err := e.PayBill(ctx, userID, b.ID, id.Nil)
	require.NoError(t, err)
	require.NotNil(t, payment)
	requireDec(t, "70", payment.Amount)
	require.Equal(t, transaction.TypeExpense, payment.Type)
	require.Equal(t, b.ID, payment.CreditCardBillID)
	require.True(t, payment.IsBillPayment())

	gotAcct, err := e.GetAccount(ctx, userID, a.ID)
	require.NoError(t, err)
	requireDec(t, "930", gotAcct.Balance)

	gotCard, err := e.GetCreditCard(ctx, userID, c.ID)
	require.NoError(t, err)
	requireDec(t, "0", gotCard.CurrentUsed)

	gotBill, err := e.GetBill(ctx, userID, b.ID)
	require.NoError(t, err)
	require.True(t, gotBill.IsPaid)
	require.Equal(t, a.ID, gotBill.PaidFromAccountID)
	require.Equal(t, payment.ID, gotBill.PaymentTransactionID)

	_, err = e.PayBill(ctx, userID, b.ID, id.Nil)
	require.ErrorIs(t, err, cofrin.ErrBillAlreadyPaid)

	// Unpay restores the account, the usage and the bill state.
	require.NoError(t, e.UnpayBill(ctx, userID, b.ID))

	gotAcct, err = e.GetAccount(ctx, userID, a.ID)
	require.NoError(t, err)
	requireDec(t, "1000", gotAcct.Balance)

	gotCard, err = e.GetCreditCard(ctx, userID, c.ID)
	require.NoError(t, err)
	requireDec(t, "70", gotCard.CurrentUsed)

	gotBill, err = e.GetBill(ctx, userID, b.ID)
	require.NoError(t, err)
	require.False(t, gotBill.IsPaid)
	require.Nil(t, gotBill.PaidAt)
	require.True(t, gotBill.PaymentTransactionID.IsNil())

	_, err = e.GetTransaction(ctx, userID, payment.ID)
	require.True(t, cofrin.IsNotFound(err))

	err = e.UnpayBill(ctx, userID, b.ID)
	require.ErrorIs(t, err, cofrin.ErrBillNotPaid)
}

func TestPayBillRequiresPaymentAccount(t *testing.T) {
	e, _ := newTestEngine(t, testNow)
	ctx := context.Background()
	userID := id.NewUserID()
	c := makeCard(t, e, userID, "Visa", 10, id.Nil)

	may := types.Period{Month: time.May, Year: 2024}
	b, err := e.GetOrCreateBill(ctx, userID, c.ID, may)
	require.NoError(t, err)

	_, err = e.PayBill(ctx, userID, b.ID, id.Nil)
	require.ErrorIs(t, err, cofrin.ErrNoPaymentAccount)
}

func TestPayBillZeroTotalMarksPaidWithoutPayment(t *testing.T) {
	e, _ := newTestEngine(t, testNow)
	ctx := context.Background()
	userID := id.NewUserID()
	a := makeAccount(t, e, userID, "Checking")
	c := makeCard(t, e, userID, "Visa", 10, a.ID)

	may := types.Period{Month: time.May, Year: 2024}
	b, err := e.GetOrCreateBill(ctx, userID, c.ID, may)
	require.NoError(t, err)

	payment, err := e.PayBill(ctx, userID, b.ID, id.Nil)
	require.NoError(t, err)
	require.Nil(t, payment)

	gotBill, err := e.GetBill(ctx, userID, b.ID)
	require.NoError(t, err)
	require.True(t, gotBill.IsPaid)

	gotAcct, err := e.GetAccount(ctx, userID, a.ID)
	require.NoError(t, err)
	requireDec(t, "0", gotAcct.Balance)
}

func TestPaidBillRedirectsNewPurchases(t *testing.T) {
	e, _ := newTestEngine(t, testNow)
	ctx := context.Background()
	userID := id.NewUserID()
	a := makeAccount(t, e, userID, "Checking")
	require.NoError(t, e.SetInitialBalance(ctx, userID, a.ID, dec("1000")))
	c := makeCard(t, e, userID, "Visa", 10, a.ID)

	purchaseDate := time.Date(2024, time.May, 5, 0, 0, 0, 0, time.UTC)
	may := types.Period{Month: time.May, Year: 2024}
	june := types.Period{Month: time.June, Year: 2024}

	_, err := e.CreateTransaction(ctx, userID, cofrin.TransactionInput{
		Type: transaction.TypeExpense, Amount: dec("100"), Date: purchaseDate, CreditCardID: c.ID,
	})
	require.NoError(t, err)

	b, err := e.GetOrCreateBill(ctx, userID, c.ID, may)
	require.NoError(t, err)
	_, err = e.PayBill(ctx, userID, b.ID, id.Nil)
	require.NoError(t, err)

	check, err := e.CheckCardPeriod(ctx, userID, c, purchaseDate)
	require.NoError(t, err)
	require.True(t, check.CanAdd)
	require.True(t, check.Redirected)
	require.Equal(t, june, check.Period)

	// The new purchase lands one period forward even though its date
	// resolves to the paid period.
	redirected, err := e.CreateTransaction(ctx, userID, cofrin.TransactionInput{
		Type: transaction.TypeExpense, Amount: dec("50"), Date: purchaseDate, CreditCardID: c.ID,
	})
	require.NoError(t, err)
	require.Equal(t, june, redirected.Period)

	// With the redirected period's bill paid too, the purchase is refused.
	jb, err := e.GetOrCreateBill(ctx, userID, c.ID, june)
	require.NoError(t, err)
	_, err = e.PayBill(ctx, userID, jb.ID, id.Nil)
	require.NoError(t, err)

	_, err = e.CreateTransaction(ctx, userID, cofrin.TransactionInput{
		Type: transaction.TypeExpense, Amount: dec("10"), Date: purchaseDate, CreditCardID: c.ID,
	})
	require.ErrorIs(t, err, cofrin.ErrBillAlreadyPaid)
}

func TestGetBillRecomputesTotal(t *testing.T) {
	e, _ := newTestEngine(t, testNow)
	ctx := context.Background()
	userID := id.NewUserID()
	c := makeCard(t, e, userID, "Visa", 10, id.Nil)

	purchaseDate := time.Date(2024, time.May, 5, 0, 0, 0, 0, time.UTC)
	created, err := e.CreateTransaction(ctx, userID, cofrin.TransactionInput{
		Type: transaction.TypeExpense, Amount: dec("100"), Date: purchaseDate, CreditCardID: c.ID,
	})
	require.NoError(t, err)

	may := types.Period{Month: time.May, Year: 2024}
	b, err := e.GetOrCreateBill(ctx, userID, c.ID, may)
	require.NoError(t, err)

	got, err := e.GetBill(ctx, userID, b.ID)
	require.NoError(t, err)
	requireDec(t, "100", got.TotalAmount)

	// Cancelled lines drop out of the recomputed total.
	updated := created.Clone()
	updated.Status = transaction.StatusCancelled
	require.NoError(t, e.UpdateTransaction(ctx, updated, created))

	got, err = e.GetBill(ctx, userID, b.ID)
	require.NoError(t, err)
	requireDec(t, "0", got.TotalAmount)
}
