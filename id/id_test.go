package id_test

import (
	"strings"
	"testing"

	"github.com/thiagodosanjos/cofrin/id"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		newFn  func() id.ID
		prefix string
	}{
		{"UserID", id.NewUserID, "user_"},
		{"AccountID", id.NewAccountID, "acct_"},
		{"CardID", id.NewCardID, "card_"},
		{"TransactionID", id.NewTransactionID, "txn_"},
		{"BillID", id.NewBillID, "bill_"},
		{"GoalID", id.NewGoalID, "goal_"},
		{"CategoryID", id.NewCategoryID, "cat_"},
		{"SeriesID", id.NewSeriesID, "ser_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.newFn().String()
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("expected prefix %q, got %q", tt.prefix, got)
			}
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		newFn   func() id.ID
		parseFn func(string) (id.ID, error)
	}{
		{"AccountID", id.NewAccountID, id.ParseAccountID},
		{"CardID", id.NewCardID, id.ParseCardID},
		{"TransactionID", id.NewTransactionID, id.ParseTransactionID},
		{"BillID", id.NewBillID, id.ParseBillID},
		{"GoalID", id.NewGoalID, id.ParseGoalID},
		{"CategoryID", id.NewCategoryID, id.ParseCategoryID},
		{"SeriesID", id.NewSeriesID, id.ParseSeriesID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := tt.newFn()
			parsed, err := tt.parseFn(original.String())
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if parsed.String() != original.String() {
				t.Errorf("round-trip mismatch: %q != %q", parsed.String(), original.String())
			}
		})
	}
}

func TestCrossTypeRejection(t *testing.T) {
	acct := id.NewAccountID()
	if _, err := id.ParseCardID(acct.String()); err == nil {
		t.Errorf("expected error parsing account ID %q as card ID", acct)
	}
}

func TestNilID(t *testing.T) {
	var nilID id.ID
	if !nilID.IsNil() {
		t.Error("zero-value ID should be nil")
	}
	if nilID.String() != "" {
		t.Errorf("nil ID String() should be empty, got %q", nilID.String())
	}

	if _, err := id.Parse(""); err == nil {
		t.Error("expected error parsing empty string")
	}
}

func TestMarshalTextRoundTrip(t *testing.T) {
	original := id.NewTransactionID()

	data, err := original.MarshalText()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded id.ID
	if err := decoded.UnmarshalText(data); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.String() != original.String() {
		t.Errorf("round-trip mismatch: %q != %q", decoded.String(), original.String())
	}

	var empty id.ID
	if err := empty.UnmarshalText(nil); err != nil {
		t.Fatalf("unmarshal of empty text failed: %v", err)
	}
	if !empty.IsNil() {
		t.Error("unmarshal of empty text should yield the nil ID")
	}
}
