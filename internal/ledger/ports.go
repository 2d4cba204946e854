package ledger

import (
	"context"
	"time"

	"github.com/igoorcb/finance-control/internal/core"
)

// Store is the durable keyed store the ledger services run against. Lookup
// misses surface as operational not-found errors; anything else is a plain
// store failure and propagates unchanged.
type Store interface {
	CreateAccount(ctx context.Context, a core.Account) error
	GetAccount(ctx context.Context, id string) (core.Account, error)
	ListAccounts(ctx context.Context) ([]core.Account, error)
	UpdateAccount(ctx context.Context, id string, patch AccountPatch) (core.Account, error)
	DeleteAccount(ctx context.Context, id string) error

	// SetAccountBalance overwrites currentBalance. Only the Reconciler may
	// call it; every other balance change goes through ApplyDelta.
	SetAccountBalance(ctx context.Context, id string, balanceCents int64) error

	CreateCategory(ctx context.Context, c core.Category) error
	GetCategory(ctx context.Context, id string) (core.Category, error)
	ListCategories(ctx context.Context) ([]core.Category, error)
	UpdateCategory(ctx context.Context, id string, patch CategoryPatch) (core.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	CreateTransaction(ctx context.Context, t core.Transaction) error
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, id string, patch TransactionPatch) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	QueryTransactions(ctx context.Context, filter TransactionFilter) ([]core.Transaction, error)

	CountTransactionsByAccount(ctx context.Context, accountID string) (int64, error)
	CountTransactionsByCategory(ctx context.Context, categoryID string) (int64, error)
}

// AccountPatch carries optional field updates; nil fields keep their previous
// value. CurrentBalance is deliberately absent: balance mutation funnels
// exclusively through the Reconciler.
type AccountPatch struct {
	Name           *string           `json:"name,omitempty"`
	Type           *core.AccountType `json:"type,omitempty"`
	Bank           *string           `json:"bank,omitempty"`
	InitialBalance *core.Money       `json:"-"`
	Color          *string           `json:"color,omitempty"`
	Icon           *string           `json:"icon,omitempty"`
	IsActive       *bool             `json:"isActive,omitempty"`
}

type CategoryPatch struct {
	Name     *string            `json:"name,omitempty"`
	Kind     *core.CategoryKind `json:"type,omitempty"`
	Icon     *string            `json:"icon,omitempty"`
	Color    *string            `json:"color,omitempty"`
	IsActive *bool              `json:"isActive,omitempty"`
}

type TransactionPatch struct {
	Type        *core.TransactionType   `json:"type,omitempty"`
	Amount      *core.Money             `json:"amount,omitempty"`
	Date        *core.Date              `json:"date,omitempty"`
	Description *string                 `json:"description,omitempty"`
	AccountID   *string                 `json:"accountId,omitempty"`
	CategoryID  *string                 `json:"categoryId,omitempty"`
	Status      *core.TransactionStatus `json:"status,omitempty"`
	Notes       *string                 `json:"notes,omitempty"`
}

// TransactionFilter selects transactions for a query. All provided fields
// apply conjunctively; zero values are not applied. Results are ordered by
// date descending.
type TransactionFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	CategoryID string
	AccountID  string
	Type       core.TransactionType
	Status     core.TransactionStatus
	Limit      int
}

// Matches reports whether t satisfies every provided filter field.
func (f TransactionFilter) Matches(t core.Transaction) bool {
	if f.StartDate != nil && t.Date.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && t.Date.After(*f.EndDate) {
		return false
	}
	if f.CategoryID != "" && t.CategoryID != f.CategoryID {
		return false
	}
	if f.AccountID != "" && t.AccountID != f.AccountID {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	return true
}

const (
	EventTransactionCreated = "transaction.created"
	EventTransactionUpdated = "transaction.updated"
	EventTransactionDeleted = "transaction.deleted"
)

// TransactionEvent is the compact lifecycle message published after each
// successful mutation. Consumers fetch current state from the store.
type TransactionEvent struct {
	Action        string    `json:"action"`
	TransactionID string    `json:"transactionId"`
	AccountID     string    `json:"accountId"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// EventPublisher publishes lifecycle events. Publishing is best effort:
// failures are logged by callers and never fail the originating request.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, ev TransactionEvent) error
}
