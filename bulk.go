package cofrin

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/thiagodosanjos/cofrin/id"
	"github.com/thiagodosanjos/cofrin/transaction"
)

// DeleteSeries deletes every transaction of an installment series, applying
// per-item compensation, then reconciles the affected card or accounts.
// Individual failures are tolerated and counted.
func (e *Engine) DeleteSeries(ctx context.Context, userID, seriesID id.ID, progress ProgressFunc) (BulkResult, error) {
	txns, err := e.store.ListTransactionsBySeries(ctx, userID, seriesID)
	if err != nil {
		return BulkResult{}, err
	}

	res := e.bulkDelete(ctx, txns, progress)
	if err := e.reconcileAffected(ctx, userID, txns, id.Nil, id.Nil); err != nil {
		return res, err
	}
	return res, nil
}

// deleteAccountTransactions deletes every transaction originating at the
// account. Transfers into other accounts are compensated per item, and each
// counterpart account is reconciled afterward regardless of how many
// deletions failed.
func (e *Engine) deleteAccountTransactions(ctx context.Context, userID, accountID id.ID, progress ProgressFunc) (BulkResult, error) {
	txns, err := e.store.ListTransactionsByAccount(ctx, userID, accountID)
	if err != nil {
		return BulkResult{}, err
	}

	res := e.bulkDelete(ctx, txns, progress)
	if err := e.reconcileAffected(ctx, userID, txns, accountID, id.Nil); err != nil {
		return res, err
	}
	return res, nil
}

// deleteCardTransactions deletes every transaction of the card. The card's
// usage is not reconciled here: the only caller is about to delete the card
// itself.
func (e *Engine) deleteCardTransactions(ctx context.Context, userID, cardID id.ID, progress ProgressFunc) (BulkResult, error) {
	txns, err := e.store.ListTransactionsByCard(ctx, userID, cardID)
	if err != nil {
		return BulkResult{}, err
	}

	res := e.bulkDelete(ctx, txns, progress)
	if err := e.reconcileAffected(ctx, userID, txns, id.Nil, cardID); err != nil {
		return res, err
	}
	return res, nil
}

// bulkDelete removes transactions in fixed-width batches, the items of one
// batch running concurrently. Per-item card reconciliation is skipped:
// concurrent delta math against a shared aggregate is indeterminate, so the
// callers reconcile the affected aggregates once at the end. The progress
// callback runs synchronously between batches.
func (e *Engine) bulkDelete(ctx context.Context, txns []*transaction.Transaction, progress ProgressFunc) BulkResult {
	total := len(txns)
	res := BulkResult{Total: total}

	var mu sync.Mutex
	for start := 0; start < total; start += e.bulkBatchSize {
		end := min(start+e.bulkBatchSize, total)

		var g errgroup.Group
		for _, t := range txns[start:end] {
			g.Go(func() error {
				if err := e.deleteTransaction(ctx, t, false); err != nil {
					e.logger.Warn("bulk delete item failed",
						"txn_id", t.ID.String(),
						"error", err,
					)
					mu.Lock()
					res.Failed++
					mu.Unlock()
					return nil
				}
				mu.Lock()
				res.Deleted++
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait() //nolint:errcheck // item errors are counted, never returned

		if progress != nil {
			progress(end, total)
		}
	}

	return res
}

// reconcileAffected recomputes every aggregate a bulk deletion may have left
// stale: the cards touched (except skipCard, which is being deleted) and the
// accounts touched on either side of a transfer (except skipAccount).
func (e *Engine) reconcileAffected(ctx context.Context, userID id.ID, txns []*transaction.Transaction, skipAccount, skipCard id.ID) error {
	cards := map[id.ID]struct{}{}
	accounts := map[id.ID]struct{}{}
	for _, t := range txns {
		if t.CardBound() {
			cards[t.CreditCardID] = struct{}{}
			continue
		}
		if !t.AccountID.IsNil() {
			accounts[t.AccountID] = struct{}{}
		}
		if !t.ToAccountID.IsNil() {
			accounts[t.ToAccountID] = struct{}{}
		}
	}

	for cid := range cards {
		if cid == skipCard {
			continue
		}
		if _, err := e.ReconcileCard(ctx, userID, cid); err != nil {
			return err
		}
	}
	for aid := range accounts {
		if aid == skipAccount {
			continue
		}
		if _, err := e.ReconcileAccount(ctx, userID, aid); err != nil {
			return err
		}
	}
	return nil
}
