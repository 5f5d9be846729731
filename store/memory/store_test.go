package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	cofrin "github.com/thiagodosanjos/cofrin"
	"github.com/thiagodosanjos/cofrin/account"
	"github.com/thiagodosanjos/cofrin/id"
	"github.com/thiagodosanjos/cofrin/types"
)

func TestPingAfterClose(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.Ping(ctx); err != nil {
		t.Fatalf("Ping on open store: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Ping(ctx); !errors.Is(err, cofrin.ErrStoreClosed) {
		t.Fatalf("Ping after close = %v, want ErrStoreClosed", err)
	}
}

func TestAccountsScopedByUser(t *testing.T) {
	s := New()
	ctx := context.Background()
	owner := id.NewUserID()
	other := id.NewUserID()

	a := &account.Account{
		Entity:  types.NewEntity(),
		ID:      id.NewAccountID(),
		UserID:  owner,
		Name:    "Checking",
		Type:    account.TypeChecking,
		Balance: decimal.Zero,
	}
	if err := s.CreateAccount(ctx, a); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	if _, err := s.GetAccount(ctx, other, a.ID); !cofrin.IsNotFound(err) {
		t.Fatalf("GetAccount as other user = %v, want not-found", err)
	}
	if err := s.AdjustAccountBalance(ctx, other, a.ID, decimal.NewFromInt(10)); !cofrin.IsNotFound(err) {
		t.Fatalf("AdjustAccountBalance as other user = %v, want not-found", err)
	}

	got, err := s.GetAccount(ctx, owner, a.ID)
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if got.Name != "Checking" {
		t.Fatalf("Name = %q, want %q", got.Name, "Checking")
	}
}

func TestReturnedRowsAreCopies(t *testing.T) {
	s := New()
	ctx := context.Background()
	userID := id.NewUserID()

	a := &account.Account{
		Entity:  types.NewEntity(),
		ID:      id.NewAccountID(),
		UserID:  userID,
		Name:    "Original",
		Balance: decimal.Zero,
	}
	if err := s.CreateAccount(ctx, a); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	got, err := s.GetAccount(ctx, userID, a.ID)
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	got.Name = "Mutated"

	again, err := s.GetAccount(ctx, userID, a.ID)
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if again.Name != "Original" {
		t.Fatalf("stored row mutated through a returned copy: %q", again.Name)
	}
}
