package ledger_test

import (
	"context"
	"testing"

	"github.com/igoorcb/finance-control/internal/core"
	"github.com/igoorcb/finance-control/internal/ledger"
)

func TestAccountCreateSeedsBalance(t *testing.T) {
	f := newFixture()

	account := f.mustAccount(t, "Checking", 123400)
	if account.CurrentBalance.Cents != 123400 {
		t.Fatalf("expected currentBalance seeded from initialBalance, got %d", account.CurrentBalance.Cents)
	}
	if !account.IsActive {
		t.Fatal("new accounts should be active")
	}
	if account.ID == "" {
		t.Fatal("expected generated id")
	}
}

func TestAccountCreateValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.accounts.Create(ctx, core.Account{Type: core.AccountChecking}); err == nil {
		t.Fatal("expected error for missing name")
	}
	if _, err := f.accounts.Create(ctx, core.Account{Name: "x", Type: "brokerage"}); err == nil {
		t.Fatal("expected error for invalid type")
	}
}

func TestAccountDeleteGuard(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	account := f.mustAccount(t, "Checking", 10000)
	category := f.mustCategory(t, "Misc", core.CategoryExpense)

	tx, err := f.transactions.Create(ctx, core.Transaction{
		Type:        core.TransactionExpense,
		Amount:      core.Money{Cents: 500},
		Date:        core.NewDate(2024, 3, 1),
		Description: "coffee",
		AccountID:   account.ID,
		CategoryID:  category.ID,
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	if err := f.accounts.Delete(ctx, account.ID); !core.IsConflict(err) {
		t.Fatalf("expected conflict while referenced, got %v", err)
	}

	if err := f.transactions.Delete(ctx, tx.ID); err != nil {
		t.Fatalf("delete transaction: %v", err)
	}
	if err := f.accounts.Delete(ctx, account.ID); err != nil {
		t.Fatalf("delete after references removed: %v", err)
	}
	if _, err := f.accounts.Get(ctx, account.ID); !core.IsNotFound(err) {
		t.Fatalf("expected not-found after delete, got %v", err)
	}
}

func TestAccountUpdate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	account := f.mustAccount(t, "Checking", 10000)

	name := "Main Checking"
	inactive := false
	updated, err := f.accounts.Update(ctx, account.ID, ledger.AccountPatch{Name: &name, IsActive: &inactive})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Main Checking" || updated.IsActive {
		t.Fatalf("patch not applied: %+v", updated)
	}
	// Untouched fields survive.
	if updated.CurrentBalance.Cents != 10000 {
		t.Fatalf("balance changed on update: %d", updated.CurrentBalance.Cents)
	}

	if _, err := f.accounts.Update(ctx, "missing", ledger.AccountPatch{Name: &name}); !core.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}

	badType := core.AccountType("brokerage")
	if _, err := f.accounts.Update(ctx, account.ID, ledger.AccountPatch{Type: &badType}); err == nil {
		t.Fatal("expected validation error for bad type")
	}
}
