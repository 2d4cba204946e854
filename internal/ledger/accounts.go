package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/igoorcb/finance-control/internal/core"
)

// AccountService owns account CRUD. It never touches currentBalance beyond
// the initial copy from initialBalance on create; later balance changes
// belong to the Reconciler.
type AccountService struct {
	store Store
}

func NewAccountService(store Store) *AccountService {
	return &AccountService{store: store}
}

// Create persists a new account with currentBalance seeded from
// initialBalance. The initial balance is immutable afterwards.
func (s *AccountService) Create(ctx context.Context, a core.Account) (core.Account, error) {
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}

	now := time.Now().UTC()
	a.ID = uuid.NewString()
	a.CurrentBalance = a.InitialBalance
	a.IsActive = true
	a.CreatedAt = now
	a.UpdatedAt = now

	if err := s.store.CreateAccount(ctx, a); err != nil {
		return core.Account{}, fmt.Errorf("create account: %w", err)
	}

	slog.InfoContext(ctx, "Account created",
		"component", "account",
		"account_id", a.ID,
		"name", a.Name,
		"initial_balance_cents", a.InitialBalance.Cents)

	return a, nil
}

func (s *AccountService) Get(ctx context.Context, id string) (core.Account, error) {
	return s.store.GetAccount(ctx, id)
}

// List returns all accounts ordered by creation time descending, each with
// the number of transactions referencing it.
func (s *AccountService) List(ctx context.Context) ([]core.Account, error) {
	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		count, err := s.store.CountTransactionsByAccount(ctx, accounts[i].ID)
		if err != nil {
			return nil, fmt.Errorf("count account transactions: %w", err)
		}
		accounts[i].TransactionCount = int(count)
	}
	return accounts, nil
}

func (s *AccountService) Update(ctx context.Context, id string, patch AccountPatch) (core.Account, error) {
	if patch.Type != nil && !patch.Type.Valid() {
		return core.Account{}, core.Validation("invalid account type")
	}
	if _, err := s.store.GetAccount(ctx, id); err != nil {
		return core.Account{}, err
	}
	updated, err := s.store.UpdateAccount(ctx, id, patch)
	if err != nil {
		return core.Account{}, fmt.Errorf("update account: %w", err)
	}
	return updated, nil
}

// Delete removes an account. Rejected with a conflict error while any
// transaction still references it; this guard never cascades.
func (s *AccountService) Delete(ctx context.Context, id string) error {
	if _, err := s.store.GetAccount(ctx, id); err != nil {
		return err
	}

	count, err := s.store.CountTransactionsByAccount(ctx, id)
	if err != nil {
		return fmt.Errorf("count account transactions: %w", err)
	}
	if count > 0 {
		return core.Conflict("cannot delete account with transactions")
	}

	if err := s.store.DeleteAccount(ctx, id); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	slog.InfoContext(ctx, "Account deleted", "component", "account", "account_id", id)
	return nil
}
