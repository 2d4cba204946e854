package ledger_test

import (
	"context"
	"testing"

	"github.com/igoorcb/finance-control/internal/core"
	"github.com/igoorcb/finance-control/internal/ledger"
)

func TestEffectDirection(t *testing.T) {
	cases := []struct {
		typ  core.TransactionType
		want ledger.Direction
	}{
		{core.TransactionIncome, ledger.DirectionAdd},
		{core.TransactionExpense, ledger.DirectionSubtract},
		{core.TransactionTransfer, ledger.DirectionSubtract},
	}
	for _, tc := range cases {
		if got := ledger.EffectDirection(tc.typ); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.typ, tc.want, got)
		}
	}

	if ledger.DirectionAdd.Opposite() != ledger.DirectionSubtract {
		t.Fatal("opposite of add should be subtract")
	}
	if ledger.DirectionSubtract.Opposite() != ledger.DirectionAdd {
		t.Fatal("opposite of subtract should be add")
	}
}

func TestApplyDelta(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	reconciler := ledger.NewReconciler(f.store)

	account := f.mustAccount(t, "Checking", 10000)

	got, err := reconciler.ApplyDelta(ctx, account.ID, core.Money{Cents: 2500}, ledger.DirectionAdd)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if got.Cents != 12500 {
		t.Fatalf("expected 12500, got %d", got.Cents)
	}

	got, err = reconciler.ApplyDelta(ctx, account.ID, core.Money{Cents: 20000}, ledger.DirectionSubtract)
	if err != nil {
		t.Fatalf("subtract: %v", err)
	}
	// Balances may go negative; no floor is applied.
	if got.Cents != -7500 {
		t.Fatalf("expected -7500, got %d", got.Cents)
	}

	if _, err := reconciler.ApplyDelta(ctx, "missing", core.Money{Cents: 1}, ledger.DirectionAdd); !core.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}
