package ledger_test

import (
	"context"
	"testing"

	"github.com/igoorcb/finance-control/internal/core"
)

func TestCategoryDeleteGuard(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	account := f.mustAccount(t, "Checking", 10000)
	category := f.mustCategory(t, "Food", core.CategoryExpense)

	tx, err := f.transactions.Create(ctx, core.Transaction{
		Type:        core.TransactionExpense,
		Amount:      core.Money{Cents: 500},
		Date:        core.NewDate(2024, 3, 1),
		Description: "lunch",
		AccountID:   account.ID,
		CategoryID:  category.ID,
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	if err := f.categories.Delete(ctx, category.ID); !core.IsConflict(err) {
		t.Fatalf("expected conflict while referenced, got %v", err)
	}

	if err := f.transactions.Delete(ctx, tx.ID); err != nil {
		t.Fatalf("delete transaction: %v", err)
	}
	if err := f.categories.Delete(ctx, category.ID); err != nil {
		t.Fatalf("delete after references removed: %v", err)
	}
}

func TestCategoryCreateValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.categories.Create(ctx, core.Category{Kind: core.CategoryExpense}); err == nil {
		t.Fatal("expected error for missing name")
	}
	if _, err := f.categories.Create(ctx, core.Category{Name: "x", Kind: "savings"}); err == nil {
		t.Fatal("expected error for invalid kind")
	}
}

func TestCategoryListOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.mustCategory(t, "Transport", core.CategoryExpense)
	f.mustCategory(t, "Food", core.CategoryExpense)
	f.mustCategory(t, "Rent", core.CategoryExpense)

	categories, err := f.categories.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(categories) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(categories))
	}
	want := []string{"Food", "Rent", "Transport"}
	for i, name := range want {
		if categories[i].Name != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, categories[i].Name)
		}
	}
}

func TestCategoryListCountsReferences(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	account := f.mustAccount(t, "Checking", 10000)
	food := f.mustCategory(t, "Food", core.CategoryExpense)
	f.mustCategory(t, "Rent", core.CategoryExpense)

	for i := 0; i < 2; i++ {
		if _, err := f.transactions.Create(ctx, core.Transaction{
			Type:        core.TransactionExpense,
			Amount:      core.Money{Cents: 500},
			Date:        core.NewDate(2024, 3, i+1),
			Description: "lunch",
			AccountID:   account.ID,
			CategoryID:  food.ID,
		}); err != nil {
			t.Fatalf("create transaction: %v", err)
		}
	}

	categories, err := f.categories.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, c := range categories {
		switch c.Name {
		case "Food":
			if c.TransactionCount != 2 {
				t.Fatalf("expected Food count 2, got %d", c.TransactionCount)
			}
		case "Rent":
			if c.TransactionCount != 0 {
				t.Fatalf("expected Rent count 0, got %d", c.TransactionCount)
			}
		}
	}

	accounts, err := f.accounts.List(ctx)
	if err != nil {
		t.Fatalf("list accounts: %v", err)
	}
	if len(accounts) != 1 || accounts[0].TransactionCount != 2 {
		t.Fatalf("expected account count 2, got %+v", accounts)
	}
}
