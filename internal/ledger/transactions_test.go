package ledger_test

import (
	"context"
	"testing"

	"github.com/igoorcb/finance-control/internal/core"
	"github.com/igoorcb/finance-control/internal/ledger"
	"github.com/igoorcb/finance-control/internal/storage/memory"
)

type fixture struct {
	store        *memory.Store
	accounts     *ledger.AccountService
	categories   *ledger.CategoryService
	transactions *ledger.TransactionService
	dashboard    *ledger.DashboardService
}

func newFixture() *fixture {
	store := memory.New()
	reconciler := ledger.NewReconciler(store)
	return &fixture{
		store:        store,
		accounts:     ledger.NewAccountService(store),
		categories:   ledger.NewCategoryService(store),
		transactions: ledger.NewTransactionService(store, reconciler, nil),
		dashboard:    ledger.NewDashboardService(store),
	}
}

func (f *fixture) mustAccount(t *testing.T, name string, initialCents int64) core.Account {
	t.Helper()
	account, err := f.accounts.Create(context.Background(), core.Account{
		Name:           name,
		Type:           core.AccountChecking,
		InitialBalance: core.Money{Cents: initialCents},
	})
	if err != nil {
		t.Fatalf("create account %s: %v", name, err)
	}
	return account
}

func (f *fixture) mustCategory(t *testing.T, name string, kind core.CategoryKind) core.Category {
	t.Helper()
	category, err := f.categories.Create(context.Background(), core.Category{
		Name: name,
		Kind: kind,
	})
	if err != nil {
		t.Fatalf("create category %s: %v", name, err)
	}
	return category
}

func (f *fixture) balance(t *testing.T, accountID string) int64 {
	t.Helper()
	account, err := f.store.GetAccount(context.Background(), accountID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	return account.CurrentBalance.Cents
}

func TestTransactionLifecycleBalances(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	account := f.mustAccount(t, "Checking", 100000)
	category := f.mustCategory(t, "Groceries", core.CategoryExpense)

	// Confirmed expense of 200.00 drops the balance to 800.00.
	tx, err := f.transactions.Create(ctx, core.Transaction{
		Type:        core.TransactionExpense,
		Amount:      core.Money{Cents: 20000},
		Date:        core.NewDate(2024, 3, 10),
		Description: "weekly shop",
		AccountID:   account.ID,
		CategoryID:  category.ID,
		Status:      core.StatusConfirmed,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := f.balance(t, account.ID); got != 80000 {
		t.Fatalf("after create: expected 80000, got %d", got)
	}

	// Editing the amount to 50.00 reverses the old 200.00 and applies the
	// new amount, landing on 950.00.
	newAmount := core.Money{Cents: 5000}
	if _, err := f.transactions.Update(ctx, tx.ID, ledger.TransactionPatch{Amount: &newAmount}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := f.balance(t, account.ID); got != 95000 {
		t.Fatalf("after update: expected 95000, got %d", got)
	}

	// Deleting restores the original balance.
	if err := f.transactions.Delete(ctx, tx.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := f.balance(t, account.ID); got != 100000 {
		t.Fatalf("after delete: expected 100000, got %d", got)
	}
}

func TestUpdateUnchangedEffectKeepsBalance(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	account := f.mustAccount(t, "Checking", 100000)
	category := f.mustCategory(t, "Groceries", core.CategoryExpense)

	tx, err := f.transactions.Create(ctx, core.Transaction{
		Type:        core.TransactionExpense,
		Amount:      core.Money{Cents: 20000},
		Date:        core.NewDate(2024, 3, 10),
		Description: "weekly shop",
		AccountID:   account.ID,
		CategoryID:  category.ID,
		Status:      core.StatusConfirmed,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := f.balance(t, account.ID); got != 80000 {
		t.Fatalf("after create: expected 80000, got %d", got)
	}

	// A description-only edit still reverses and reapplies the confirmed
	// effect; the balance must come out exactly where it started.
	desc := "weekly shop at the market"
	updated, err := f.transactions.Update(ctx, tx.ID, ledger.TransactionPatch{Description: &desc})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Description != desc {
		t.Fatalf("expected description %q, got %q", desc, updated.Description)
	}
	if got := f.balance(t, account.ID); got != 80000 {
		t.Fatalf("after description edit: expected 80000, got %d", got)
	}
}

func TestCreatePendingDoesNotTouchBalance(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	account := f.mustAccount(t, "Checking", 50000)
	category := f.mustCategory(t, "Salary", core.CategoryIncome)

	_, err := f.transactions.Create(ctx, core.Transaction{
		Type:        core.TransactionIncome,
		Amount:      core.Money{Cents: 30000},
		Date:        core.NewDate(2024, 3, 1),
		Description: "march salary",
		AccountID:   account.ID,
		CategoryID:  category.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := f.balance(t, account.ID); got != 50000 {
		t.Fatalf("pending transaction moved the balance: got %d", got)
	}
}

func TestCreateConfirmedIncomeAdds(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	account := f.mustAccount(t, "Checking", 10000)
	category := f.mustCategory(t, "Salary", core.CategoryIncome)

	_, err := f.transactions.Create(ctx, core.Transaction{
		Type:        core.TransactionIncome,
		Amount:      core.Money{Cents: 25000},
		Date:        core.NewDate(2024, 3, 1),
		Description: "salary",
		AccountID:   account.ID,
		CategoryID:  category.ID,
		Status:      core.StatusConfirmed,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := f.balance(t, account.ID); got != 35000 {
		t.Fatalf("expected 35000, got %d", got)
	}
}

func TestCreateConfirmedTransferSubtracts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	account := f.mustAccount(t, "Checking", 40000)
	category := f.mustCategory(t, "Transfers", core.CategoryExpense)

	_, err := f.transactions.Create(ctx, core.Transaction{
		Type:        core.TransactionTransfer,
		Amount:      core.Money{Cents: 15000},
		Date:        core.NewDate(2024, 3, 5),
		Description: "to savings",
		AccountID:   account.ID,
		CategoryID:  category.ID,
		Status:      core.StatusConfirmed,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := f.balance(t, account.ID); got != 25000 {
		t.Fatalf("expected 25000, got %d", got)
	}
}

func TestCreateMissingReferenceAborts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	account := f.mustAccount(t, "Checking", 10000)
	category := f.mustCategory(t, "Misc", core.CategoryExpense)

	cases := []struct {
		name       string
		accountID  string
		categoryID string
	}{
		{"missing account", "nope", category.ID},
		{"missing category", account.ID, "nope"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.transactions.Create(ctx, core.Transaction{
				Type:        core.TransactionExpense,
				Amount:      core.Money{Cents: 1000},
				Date:        core.NewDate(2024, 3, 1),
				Description: "orphan",
				AccountID:   tc.accountID,
				CategoryID:  tc.categoryID,
				Status:      core.StatusConfirmed,
			})
			if !core.IsNotFound(err) {
				t.Fatalf("expected not-found error, got %v", err)
			}
		})
	}

	// Nothing was persisted and the balance is untouched.
	all, err := f.transactions.List(ctx, ledger.TransactionFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected no transactions, got %d", len(all))
	}
	if got := f.balance(t, account.ID); got != 10000 {
		t.Fatalf("balance moved: got %d", got)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	account := f.mustAccount(t, "Checking", 100000)
	category := f.mustCategory(t, "Rent", core.CategoryExpense)

	tx, err := f.transactions.Create(ctx, core.Transaction{
		Type:        core.TransactionExpense,
		Amount:      core.Money{Cents: 30000},
		Date:        core.NewDate(2024, 3, 1),
		Description: "rent",
		AccountID:   account.ID,
		CategoryID:  category.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Confirming a pending transaction applies its effect.
	confirmed := core.StatusConfirmed
	if _, err := f.transactions.Update(ctx, tx.ID, ledger.TransactionPatch{Status: &confirmed}); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if got := f.balance(t, account.ID); got != 70000 {
		t.Fatalf("after confirm: expected 70000, got %d", got)
	}

	// Reverting to pending reverses it again.
	pending := core.StatusPending
	if _, err := f.transactions.Update(ctx, tx.ID, ledger.TransactionPatch{Status: &pending}); err != nil {
		t.Fatalf("unconfirm: %v", err)
	}
	if got := f.balance(t, account.ID); got != 100000 {
		t.Fatalf("after unconfirm: expected 100000, got %d", got)
	}
}

func TestUpdateMovesEffectBetweenAccounts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	source := f.mustAccount(t, "Checking", 50000)
	target := f.mustAccount(t, "Wallet", 20000)
	category := f.mustCategory(t, "Misc", core.CategoryExpense)

	tx, err := f.transactions.Create(ctx, core.Transaction{
		Type:        core.TransactionExpense,
		Amount:      core.Money{Cents: 10000},
		Date:        core.NewDate(2024, 3, 1),
		Description: "dinner",
		AccountID:   source.ID,
		CategoryID:  category.ID,
		Status:      core.StatusConfirmed,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := f.transactions.Update(ctx, tx.ID, ledger.TransactionPatch{AccountID: &target.ID}); err != nil {
		t.Fatalf("move: %v", err)
	}

	if got := f.balance(t, source.ID); got != 50000 {
		t.Fatalf("source: expected 50000, got %d", got)
	}
	if got := f.balance(t, target.ID); got != 10000 {
		t.Fatalf("target: expected 10000, got %d", got)
	}
}

func TestUpdateMissingTransaction(t *testing.T) {
	f := newFixture()
	desc := "x"
	_, err := f.transactions.Update(context.Background(), "missing", ledger.TransactionPatch{Description: &desc})
	if !core.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestUpdatePatchValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	badAmount := core.Money{Cents: -100}
	if _, err := f.transactions.Update(ctx, "any", ledger.TransactionPatch{Amount: &badAmount}); err == nil {
		t.Fatal("expected validation error for negative amount")
	}

	badType := core.TransactionType("loan")
	if _, err := f.transactions.Update(ctx, "any", ledger.TransactionPatch{Type: &badType}); err == nil {
		t.Fatal("expected validation error for bad type")
	}
}

func TestGetAttachesRelations(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	account := f.mustAccount(t, "Checking", 10000)
	category := f.mustCategory(t, "Misc", core.CategoryExpense)

	created, err := f.transactions.Create(ctx, core.Transaction{
		Type:        core.TransactionExpense,
		Amount:      core.Money{Cents: 500},
		Date:        core.NewDate(2024, 3, 1),
		Description: "coffee",
		AccountID:   account.ID,
		CategoryID:  category.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := f.transactions.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Account == nil || got.Account.Name != "Checking" {
		t.Fatalf("expected attached account, got %+v", got.Account)
	}
	if got.Category == nil || got.Category.Name != "Misc" {
		t.Fatalf("expected attached category, got %+v", got.Category)
	}
}
