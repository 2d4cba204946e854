package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/igoorcb/finance-control/internal/core"
)

// Direction is the sign of a balance delta.
type Direction string

const (
	DirectionAdd      Direction = "add"
	DirectionSubtract Direction = "subtract"
)

// EffectDirection maps a transaction type to the direction its confirmed
// amount moves the account balance. Income adds; expense subtracts.
// Transfers are intentionally single-sided and subtract from the owning
// account, matching the historical behavior this service replaces.
func EffectDirection(t core.TransactionType) Direction {
	if t == core.TransactionIncome {
		return DirectionAdd
	}
	return DirectionSubtract
}

// Opposite returns the reversing direction.
func (d Direction) Opposite() Direction {
	if d == DirectionAdd {
		return DirectionSubtract
	}
	return DirectionAdd
}

// Reconciler is the only component that mutates an account's currentBalance.
// Every balance change in the system is expressed as one or more ApplyDelta
// calls so the running-balance invariant stays checkable in one place.
type Reconciler struct {
	store Store
}

func NewReconciler(store Store) *Reconciler {
	return &Reconciler{store: store}
}

// ApplyDelta reads the account's balance, shifts it by amount in the given
// direction and persists the result. Returns the new balance. Fails with a
// not-found error when the account does not exist.
func (r *Reconciler) ApplyDelta(ctx context.Context, accountID string, amount core.Money, dir Direction) (core.Money, error) {
	account, err := r.store.GetAccount(ctx, accountID)
	if err != nil {
		return core.Money{}, err
	}

	newBalance := account.CurrentBalance.Cents
	switch dir {
	case DirectionAdd:
		newBalance += amount.Cents
	case DirectionSubtract:
		newBalance -= amount.Cents
	default:
		return core.Money{}, fmt.Errorf("unknown balance direction %q", dir)
	}

	if err := r.store.SetAccountBalance(ctx, accountID, newBalance); err != nil {
		return core.Money{}, fmt.Errorf("set account balance: %w", err)
	}

	slog.DebugContext(ctx, "Applied balance delta",
		"component", "reconciler",
		"account_id", accountID,
		"amount_cents", amount.Cents,
		"direction", string(dir),
		"new_balance_cents", newBalance)

	return core.Money{Cents: newBalance}, nil
}
