// Package cofrin tracks personal financial movements (account balances,
// credit-card billing, transfers and goal contributions) over a shared
// mutable ledger stored in a document database with no cross-document
// transactional guarantees.
//
// The engine keeps three cached aggregates correct as transactions are
// created, edited, deleted, moved between billing periods or reversed:
// account balances, credit-card outstanding usage, and monthly bill totals.
// Every mutation follows a revert-then-reapply discipline, and every cached
// aggregate can be recomputed from the transaction history (reconciliation),
// which is the recovery path after bulk operations or partial failures.
//
// Quick start:
//
//	st := memory.New()
//	eng := cofrin.New(st, cofrin.WithLogger(slog.Default()))
//	if err := eng.Start(ctx); err != nil { ... }
//	defer eng.Stop()
//
//	acct, err := eng.CreateAccount(ctx, userID, cofrin.AccountInput{Name: "Checking"})
//	txn, err := eng.CreateTransaction(ctx, userID, cofrin.TransactionInput{...})
package cofrin
