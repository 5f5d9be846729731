// Package id defines TypeID-based identity types for all Cofrin entities.
//
// Every entity uses a single ID struct with a prefix that identifies the
// entity type. IDs are K-sortable (UUIDv7-based), globally unique, and
// URL-safe in the format "prefix_suffix".
package id

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

// Prefix identifies the entity type encoded in a TypeID.
type Prefix string

// Prefix constants for all Cofrin entity types.
const (
	PrefixUser        Prefix = "user" // Account owner
	PrefixAccount     Prefix = "acct" // Bank/cash account
	PrefixCard        Prefix = "card" // Credit card
	PrefixTransaction Prefix = "txn"  // Ledger transaction
	PrefixBill        Prefix = "bill" // Monthly credit-card bill
	PrefixGoal        Prefix = "goal" // Savings goal
	PrefixCategory    Prefix = "cat"  // Spending category
	PrefixSeries      Prefix = "ser"  // Installment series
)

// ID is the primary identifier type for all Cofrin entities.
// It wraps a TypeID providing a prefix-qualified, globally unique,
// sortable, URL-safe identifier in the format "prefix_suffix".
//
//nolint:recvcheck // Value receivers for read-only methods, pointer receiver for UnmarshalText.
type ID struct {
	inner typeid.TypeID
	valid bool
}

// Nil is the zero-value ID.
var Nil ID

// New generates a new globally unique ID with the given prefix.
// It panics if prefix is not a valid TypeID prefix (programming error).
func New(prefix Prefix) ID {
	tid, err := typeid.Generate(string(prefix))
	if err != nil {
		panic(fmt.Sprintf("id: invalid prefix %q: %v", prefix, err))
	}

	return ID{inner: tid, valid: true}
}

// Parse parses a TypeID string (e.g., "card_01h2xcejqtf2nbrexx3vqjhp41")
// into an ID. Returns an error if the string is not valid.
func Parse(s string) (ID, error) {
	if s == "" {
		return Nil, fmt.Errorf("id: parse %q: empty string", s)
	}

	tid, err := typeid.Parse(s)
	if err != nil {
		return Nil, fmt.Errorf("id: parse %q: %w", s, err)
	}

	return ID{inner: tid, valid: true}, nil
}

// ParseWithPrefix parses a TypeID string and validates that its prefix
// matches the expected value.
func ParseWithPrefix(s string, expected Prefix) (ID, error) {
	parsed, err := Parse(s)
	if err != nil {
		return Nil, err
	}

	if parsed.Prefix() != expected {
		return Nil, fmt.Errorf("id: expected prefix %q, got %q", expected, parsed.Prefix())
	}

	return parsed, nil
}

// MustParse is like Parse but panics on error. Use for hardcoded ID values.
func MustParse(s string) ID {
	parsed, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("id: must parse %q: %v", s, err))
	}

	return parsed
}

// ──────────────────────────────────────────────────
// Convenience constructors
// ──────────────────────────────────────────────────

// NewUserID generates a new unique user ID.
func NewUserID() ID { return New(PrefixUser) }

// NewAccountID generates a new unique account ID.
func NewAccountID() ID { return New(PrefixAccount) }

// NewCardID generates a new unique credit-card ID.
func NewCardID() ID { return New(PrefixCard) }

// NewTransactionID generates a new unique transaction ID.
func NewTransactionID() ID { return New(PrefixTransaction) }

// NewBillID generates a new unique bill ID.
func NewBillID() ID { return New(PrefixBill) }

// NewGoalID generates a new unique goal ID.
func NewGoalID() ID { return New(PrefixGoal) }

// NewCategoryID generates a new unique category ID.
func NewCategoryID() ID { return New(PrefixCategory) }

// NewSeriesID generates a new unique installment-series ID.
func NewSeriesID() ID { return New(PrefixSeries) }

// ──────────────────────────────────────────────────
// Convenience parsers
// ──────────────────────────────────────────────────

// ParseUserID parses a string and validates the "user" prefix.
func ParseUserID(s string) (ID, error) { return ParseWithPrefix(s, PrefixUser) }

// ParseAccountID parses a string and validates the "acct" prefix.
func ParseAccountID(s string) (ID, error) { return ParseWithPrefix(s, PrefixAccount) }

// ParseCardID parses a string and validates the "card" prefix.
func ParseCardID(s string) (ID, error) { return ParseWithPrefix(s, PrefixCard) }

// ParseTransactionID parses a string and validates the "txn" prefix.
func ParseTransactionID(s string) (ID, error) { return ParseWithPrefix(s, PrefixTransaction) }

// ParseBillID parses a string and validates the "bill" prefix.
func ParseBillID(s string) (ID, error) { return ParseWithPrefix(s, PrefixBill) }

// ParseGoalID parses a string and validates the "goal" prefix.
func ParseGoalID(s string) (ID, error) { return ParseWithPrefix(s, PrefixGoal) }

// ParseCategoryID parses a string and validates the "cat" prefix.
func ParseCategoryID(s string) (ID, error) { return ParseWithPrefix(s, PrefixCategory) }

// ParseSeriesID parses a string and validates the "ser" prefix.
func ParseSeriesID(s string) (ID, error) { return ParseWithPrefix(s, PrefixSeries) }

// ParseAny parses a string into an ID without checking the prefix.
func ParseAny(s string) (ID, error) { return Parse(s) }

// ──────────────────────────────────────────────────
// ID methods
// ──────────────────────────────────────────────────

// String returns the full TypeID string representation (prefix_suffix).
// Returns an empty string for the Nil ID.
func (i ID) String() string {
	if !i.valid {
		return ""
	}

	return i.inner.String()
}

// Prefix returns the prefix component of this ID.
func (i ID) Prefix() Prefix {
	if !i.valid {
		return ""
	}

	return Prefix(i.inner.Prefix())
}

// IsNil reports whether this ID is the zero value. Optional references
// (transfer destination, payment account, goal, series) use Nil for "unset".
func (i ID) IsNil() bool {
	return !i.valid
}

// MarshalText implements encoding.TextMarshaler.
func (i ID) MarshalText() ([]byte, error) {
	if !i.valid {
		return []byte{}, nil
	}

	return []byte(i.inner.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *ID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*i = Nil

		return nil
	}

	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}

	*i = parsed

	return nil
}
