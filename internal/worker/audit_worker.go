// Package worker re-derives account balances from transaction history and
// reports drift against the stored running balances.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/igoorcb/finance-control/internal/core"
	"github.com/igoorcb/finance-control/internal/export"
	"github.com/igoorcb/finance-control/internal/ledger"
)

// AuditWorker recomputes the expected balance of an account as initial
// balance plus the signed sum of its confirmed transactions, and logs when
// the stored balance disagrees. Optionally mirrors confirmed transactions
// to an external exporter.
type AuditWorker struct {
	store    ledger.Store
	exporter export.TransactionWriter
}

func NewAuditWorker(store ledger.Store, exporter export.TransactionWriter) *AuditWorker {
	return &AuditWorker{
		store:    store,
		exporter: exporter,
	}
}

// HandleEvent processes a single transaction lifecycle event.
func (w *AuditWorker) HandleEvent(ctx context.Context, ev ledger.TransactionEvent) error {
	slog.InfoContext(ctx, "Processing transaction event",
		"component", "worker",
		"action", ev.Action,
		"transaction_id", ev.TransactionID,
		"account_id", ev.AccountID)

	if err := w.AuditAccount(ctx, ev.AccountID); err != nil {
		return fmt.Errorf("audit account %s: %w", ev.AccountID, err)
	}

	if w.exporter != nil && ev.Action == ledger.EventTransactionCreated {
		if err := w.exportTransaction(ctx, ev.TransactionID); err != nil {
			// Export is best-effort; the audit already succeeded.
			slog.WarnContext(ctx, "Failed to export transaction",
				"component", "worker",
				"transaction_id", ev.TransactionID,
				"error", err)
		}
	}

	return nil
}

// AuditAccount recomputes one account's balance and logs any drift.
func (w *AuditWorker) AuditAccount(ctx context.Context, accountID string) error {
	account, err := w.store.GetAccount(ctx, accountID)
	if err != nil {
		if core.IsNotFound(err) {
			// The account may have been deleted after the event was published.
			slog.InfoContext(ctx, "Account gone, skipping audit",
				"component", "worker", "account_id", accountID)
			return nil
		}
		return fmt.Errorf("get account: %w", err)
	}

	expected, confirmedCount, err := w.expectedBalance(ctx, account)
	if err != nil {
		return err
	}

	drift := account.CurrentBalance.Cents - expected.Cents
	if drift != 0 {
		slog.ErrorContext(ctx, "Balance drift detected",
			"component", "worker",
			"account_id", account.ID,
			"account_name", account.Name,
			"stored_cents", account.CurrentBalance.Cents,
			"expected_cents", expected.Cents,
			"drift_cents", drift,
			"confirmed_transactions", confirmedCount)
		return nil
	}

	slog.DebugContext(ctx, "Account balance verified",
		"component", "worker",
		"account_id", account.ID,
		"balance_cents", account.CurrentBalance.Cents,
		"confirmed_transactions", confirmedCount)

	return nil
}

// AuditAll sweeps every account. Used by the periodic full audit.
func (w *AuditWorker) AuditAll(ctx context.Context) error {
	accounts, err := w.store.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("list accounts: %w", err)
	}

	start := time.Now()
	for _, account := range accounts {
		if err := w.AuditAccount(ctx, account.ID); err != nil {
			slog.ErrorContext(ctx, "Account audit failed",
				"component", "worker",
				"account_id", account.ID,
				"error", err)
		}
	}

	slog.InfoContext(ctx, "Full audit sweep completed",
		"component", "worker",
		"accounts", len(accounts),
		"duration_ms", time.Since(start).Milliseconds())

	return nil
}

// RunPeriodic audits all accounts on a fixed interval until ctx is done.
func (w *AuditWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.AuditAll(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic audit failed", "component", "worker", "error", err)
			}
		}
	}
}

func (w *AuditWorker) expectedBalance(ctx context.Context, account core.Account) (core.Money, int, error) {
	txs, err := w.store.QueryTransactions(ctx, ledger.TransactionFilter{
		AccountID: account.ID,
		Status:    core.StatusConfirmed,
	})
	if err != nil {
		return core.Money{}, 0, fmt.Errorf("query transactions: %w", err)
	}

	total := account.InitialBalance.Cents
	for _, tx := range txs {
		if ledger.EffectDirection(tx.Type) == ledger.DirectionAdd {
			total += tx.Amount.Cents
		} else {
			total -= tx.Amount.Cents
		}
	}

	return core.Money{Cents: total}, len(txs), nil
}

func (w *AuditWorker) exportTransaction(ctx context.Context, transactionID string) error {
	tx, err := w.store.GetTransaction(ctx, transactionID)
	if err != nil {
		if core.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("get transaction: %w", err)
	}

	if tx.Status != core.StatusConfirmed {
		return nil
	}

	ref, err := w.exporter.Append(ctx, tx)
	if err != nil {
		return fmt.Errorf("append to exporter: %w", err)
	}

	slog.InfoContext(ctx, "Exported transaction",
		"component", "worker",
		"transaction_id", tx.ID,
		"ref", ref)

	return nil
}
