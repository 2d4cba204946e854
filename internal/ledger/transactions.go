package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/igoorcb/finance-control/internal/core"
)

// TransactionService orchestrates the transaction lifecycle. It validates
// referenced entities, persists the record and keeps account balances in
// step via the Reconciler using the effect-reversal pattern: whenever a
// confirmed contribution changes, the old effect is reversed in full before
// the new one is applied.
type TransactionService struct {
	// mu serializes mutations so the reversal-then-reapply sequence appears
	// atomic to in-process readers. The service assumes a single writer
	// process; there is no store-level isolation around the sequence.
	mu         sync.Mutex
	store      Store
	reconciler *Reconciler
	events     EventPublisher
}

func NewTransactionService(store Store, reconciler *Reconciler, events EventPublisher) *TransactionService {
	return &TransactionService{
		store:      store,
		reconciler: reconciler,
		events:     events,
	}
}

// Create validates the referenced account and category, persists the
// transaction and, when it arrives already confirmed, applies its balance
// effect. A lookup miss aborts before anything is persisted.
func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if t.Status == "" {
		t.Status = core.StatusPending
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.GetAccount(ctx, t.AccountID); err != nil {
		return core.Transaction{}, err
	}
	if _, err := s.store.GetCategory(ctx, t.CategoryID); err != nil {
		return core.Transaction{}, err
	}

	now := time.Now().UTC()
	t.ID = uuid.NewString()
	t.CreatedAt = now
	t.UpdatedAt = now

	if err := s.store.CreateTransaction(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	if t.Status == core.StatusConfirmed {
		if _, err := s.reconciler.ApplyDelta(ctx, t.AccountID, t.Amount, EffectDirection(t.Type)); err != nil {
			return core.Transaction{}, fmt.Errorf("apply balance effect: %w", err)
		}
	}

	slog.InfoContext(ctx, "Transaction created",
		"component", "transaction",
		"transaction_id", t.ID,
		"account_id", t.AccountID,
		"type", string(t.Type),
		"status", string(t.Status),
		"amount_cents", t.Amount.Cents)

	s.publish(ctx, EventTransactionCreated, t.ID, t.AccountID)

	return s.store.GetTransaction(ctx, t.ID)
}

// Get returns a transaction with its account and category attached.
func (s *TransactionService) Get(ctx context.Context, id string) (core.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

// List returns transactions matching the filter, ordered by date descending.
// All provided filter fields are combined with AND; absent fields are not
// applied.
func (s *TransactionService) List(ctx context.Context, filter TransactionFilter) ([]core.Transaction, error) {
	return s.store.QueryTransactions(ctx, filter)
}

// Update edits a transaction in place. If the existing record is confirmed
// its old effect is reversed unconditionally before the merged fields are
// persisted, even when the update touches neither amount nor account. If the
// resulting record is confirmed the new effect is applied afterwards. An
// amount edit from 100 to 150 therefore produces a reversal of 100 followed
// by an application of 150, never a single delta of 50.
func (s *TransactionService) Update(ctx context.Context, id string, patch TransactionPatch) (core.Transaction, error) {
	if err := validatePatch(patch); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}

	if existing.Status == core.StatusConfirmed {
		reverse := EffectDirection(existing.Type).Opposite()
		if _, err := s.reconciler.ApplyDelta(ctx, existing.AccountID, existing.Amount, reverse); err != nil {
			return core.Transaction{}, fmt.Errorf("reverse balance effect: %w", err)
		}
	}

	if patch.AccountID != nil && *patch.AccountID != existing.AccountID {
		if _, err := s.store.GetAccount(ctx, *patch.AccountID); err != nil {
			return core.Transaction{}, err
		}
	}
	if patch.CategoryID != nil && *patch.CategoryID != existing.CategoryID {
		if _, err := s.store.GetCategory(ctx, *patch.CategoryID); err != nil {
			return core.Transaction{}, err
		}
	}

	updated, err := s.store.UpdateTransaction(ctx, id, patch)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}

	if updated.Status == core.StatusConfirmed {
		if _, err := s.reconciler.ApplyDelta(ctx, updated.AccountID, updated.Amount, EffectDirection(updated.Type)); err != nil {
			return core.Transaction{}, fmt.Errorf("apply balance effect: %w", err)
		}
	}

	slog.InfoContext(ctx, "Transaction updated",
		"component", "transaction",
		"transaction_id", id,
		"account_id", updated.AccountID,
		"status", string(updated.Status),
		"amount_cents", updated.Amount.Cents)

	s.publish(ctx, EventTransactionUpdated, id, updated.AccountID)

	return updated, nil
}

// Delete removes a transaction, reversing its effect first when confirmed.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return err
	}

	if existing.Status == core.StatusConfirmed {
		reverse := EffectDirection(existing.Type).Opposite()
		if _, err := s.reconciler.ApplyDelta(ctx, existing.AccountID, existing.Amount, reverse); err != nil {
			return fmt.Errorf("reverse balance effect: %w", err)
		}
	}

	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction deleted",
		"component", "transaction",
		"transaction_id", id,
		"account_id", existing.AccountID)

	s.publish(ctx, EventTransactionDeleted, id, existing.AccountID)

	return nil
}

func (s *TransactionService) publish(ctx context.Context, action, transactionID, accountID string) {
	if s.events == nil {
		return
	}
	ev := TransactionEvent{
		Action:        action,
		TransactionID: transactionID,
		AccountID:     accountID,
		OccurredAt:    time.Now().UTC(),
	}
	if err := s.events.PublishTransactionEvent(ctx, ev); err != nil {
		slog.WarnContext(ctx, "Failed to publish transaction event",
			"component", "transaction",
			"action", action,
			"transaction_id", transactionID,
			"error", err)
	}
}

func validatePatch(patch TransactionPatch) error {
	if patch.Type != nil && !patch.Type.Valid() {
		return core.Validation("invalid transaction type")
	}
	if patch.Amount != nil && patch.Amount.Cents <= 0 {
		return core.Validation("amount must be positive")
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return core.Validation("invalid transaction status")
	}
	if patch.Description != nil && *patch.Description == "" {
		return core.Validation("description is required")
	}
	return nil
}
