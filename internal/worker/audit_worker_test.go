package worker

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/igoorcb/finance-control/internal/core"
	"github.com/igoorcb/finance-control/internal/ledger"
	"github.com/igoorcb/finance-control/internal/storage/memory"
)

func setupLedger(t *testing.T) (*memory.Store, *ledger.AccountService, *ledger.TransactionService, *ledger.CategoryService) {
	t.Helper()
	store := memory.New()
	reconciler := ledger.NewReconciler(store)
	return store,
		ledger.NewAccountService(store),
		ledger.NewTransactionService(store, reconciler, nil),
		ledger.NewCategoryService(store)
}

// captureLogs redirects the default logger to a buffer for the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestAuditAccountClean(t *testing.T) {
	store, accounts, transactions, categories := setupLedger(t)
	ctx := context.Background()

	account, err := accounts.Create(ctx, core.Account{
		Name: "Checking", Type: core.AccountChecking,
		InitialBalance: core.Money{Cents: 100000},
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	category, err := categories.Create(ctx, core.Category{Name: "Rent", Kind: core.CategoryExpense})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if _, err := transactions.Create(ctx, core.Transaction{
		Type: core.TransactionExpense, Amount: core.Money{Cents: 30000},
		Date: core.NewDate(2024, 3, 1), Description: "rent",
		AccountID: account.ID, CategoryID: category.ID, Status: core.StatusConfirmed,
	}); err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	buf := captureLogs(t)
	w := NewAuditWorker(store, nil)
	if err := w.AuditAccount(ctx, account.ID); err != nil {
		t.Fatalf("audit: %v", err)
	}
	if strings.Contains(buf.String(), "Balance drift detected") {
		t.Fatalf("unexpected drift reported: %s", buf.String())
	}
}

func TestAuditAccountDetectsDrift(t *testing.T) {
	store, accounts, _, _ := setupLedger(t)
	ctx := context.Background()

	account, err := accounts.Create(ctx, core.Account{
		Name: "Checking", Type: core.AccountChecking,
		InitialBalance: core.Money{Cents: 100000},
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	// Corrupt the stored balance behind the reconciler's back.
	if err := store.SetAccountBalance(ctx, account.ID, 42); err != nil {
		t.Fatalf("set balance: %v", err)
	}

	buf := captureLogs(t)
	w := NewAuditWorker(store, nil)
	if err := w.AuditAccount(ctx, account.ID); err != nil {
		t.Fatalf("audit: %v", err)
	}
	if !strings.Contains(buf.String(), "Balance drift detected") {
		t.Fatalf("expected drift to be reported, got: %s", buf.String())
	}
}

func TestAuditMissingAccountIsSkipped(t *testing.T) {
	store, _, _, _ := setupLedger(t)

	w := NewAuditWorker(store, nil)
	if err := w.AuditAccount(context.Background(), "gone"); err != nil {
		t.Fatalf("expected deleted account to be skipped, got %v", err)
	}
}

func TestHandleEventAuditsAccount(t *testing.T) {
	store, accounts, _, _ := setupLedger(t)
	ctx := context.Background()

	account, err := accounts.Create(ctx, core.Account{
		Name: "Checking", Type: core.AccountChecking,
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	w := NewAuditWorker(store, nil)
	err = w.HandleEvent(ctx, ledger.TransactionEvent{
		Action:        ledger.EventTransactionDeleted,
		TransactionID: "whatever",
		AccountID:     account.ID,
	})
	if err != nil {
		t.Fatalf("handle event: %v", err)
	}
}
