package cofrin

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound      = errors.New("cofrin: not found")
	ErrAlreadyExists = errors.New("cofrin: already exists")
	ErrInvalidInput  = errors.New("cofrin: invalid input")

	// Account errors
	ErrAccountNotFound   = errors.New("cofrin: account not found")
	ErrAccountArchived   = errors.New("cofrin: account is archived")
	ErrInitialBalanceSet = errors.New("cofrin: initial balance already set")

	// Credit-card errors
	ErrCardNotFound     = errors.New("cofrin: credit card not found")
	ErrCardArchived     = errors.New("cofrin: credit card is archived")
	ErrNoPaymentAccount = errors.New("cofrin: card has no payment account")

	// Transaction errors
	ErrTransactionNotFound = errors.New("cofrin: transaction not found")
	ErrNotCardTransaction  = errors.New("cofrin: transaction is not card-bound")
	ErrMixedSeries         = errors.New("cofrin: series spans more than one card")
	ErrEmptySeries         = errors.New("cofrin: series has no transactions")

	// Bill errors
	ErrBillNotFound    = errors.New("cofrin: bill not found")
	ErrBillAlreadyPaid = errors.New("cofrin: bill already paid")
	ErrBillNotPaid     = errors.New("cofrin: bill is not paid")

	// Goal errors
	ErrGoalNotFound = errors.New("cofrin: goal not found")

	// Category errors
	ErrCategoryNotFound = errors.New("cofrin: category not found")

	// Store errors
	ErrStoreClosed = errors.New("cofrin: store is closed")
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("cofrin: validation failed for %s: %s", e.Field, e.Message)
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrCardNotFound) ||
		errors.Is(err, ErrTransactionNotFound) ||
		errors.Is(err, ErrBillNotFound) ||
		errors.Is(err, ErrGoalNotFound) ||
		errors.Is(err, ErrCategoryNotFound)
}

// IsValidation returns true if the error is a validation failure.
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// BulkResult reports the outcome of a bulk operation. Per-item failures are
// swallowed and counted rather than failing the whole batch; the affected
// aggregate is reconciled afterward regardless of the counts.
type BulkResult struct {
	Deleted int
	Failed  int
	Total   int
}

// Partial returns true if some, but not all, items failed.
func (r BulkResult) Partial() bool {
	return r.Failed > 0 && r.Deleted > 0
}

// ProgressFunc receives bulk-operation progress. It is invoked synchronously
// between batches with the number of items processed so far and the total.
type ProgressFunc func(done, total int)
