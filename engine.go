package cofrin

import (
	"context"
	"log/slog"
	"time"

	"github.com/thiagodosanjos/cofrin/store"
)

// Engine is the ledger consistency and billing-cycle engine. It orchestrates
// every mutation of accounts, credit cards, transactions, bills and goals
// over a non-transactional document store, applying the compensation and
// reconciliation rules that keep the cached aggregates correct.
//
// The engine assumes a single logical writer per user at a time. It never
// retries store calls and never rolls back durable writes; reconciliation is
// the recovery mechanism for drift left behind by partial failures.
type Engine struct {
	store  store.Store
	logger *slog.Logger

	// now is injectable so the closed/paid period checks are testable.
	now func() time.Time

	bulkBatchSize int
}

// New creates a new Engine on top of a store.
func New(s store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:         s,
		logger:        slog.Default(),
		now:           time.Now,
		bulkBatchSize: 5,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Option configures an Engine instance.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithClock sets the time source used for "today" checks and payment dates.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithBulkBatchSize sets the batch width for bulk deletions.
func WithBulkBatchSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.bulkBatchSize = n
		}
	}
}

// Start prepares the underlying store (index creation on backends that
// need it).
func (e *Engine) Start(ctx context.Context) error {
	if err := e.store.Migrate(ctx); err != nil {
		return err
	}

	e.logger.Info("cofrin engine started", "bulk_batch_size", e.bulkBatchSize)
	return nil
}

// Stop closes the underlying store.
func (e *Engine) Stop() error {
	return e.store.Close()
}
