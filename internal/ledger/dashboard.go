package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/igoorcb/finance-control/internal/core"
)

// DashboardService derives read-side figures from confirmed transactions.
// It shares the month-boundary and confirmed-only conventions with the
// Reconciler but never mutates anything.
type DashboardService struct {
	store Store
}

func NewDashboardService(store Store) *DashboardService {
	return &DashboardService{store: store}
}

// Summary returns the dashboard totals for a month. The account balance sum
// is an instantaneous snapshot across active accounts; income and expense
// sums cover confirmed transactions within the inclusive month bounds.
func (s *DashboardService) Summary(ctx context.Context, month, year int) (core.Summary, error) {
	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		return core.Summary{}, fmt.Errorf("list accounts: %w", err)
	}

	var totalBalance int64
	for _, a := range accounts {
		if a.IsActive {
			totalBalance += a.CurrentBalance.Cents
		}
	}

	start, end := core.MonthRange(year, month)

	income, err := s.sumConfirmed(ctx, core.TransactionIncome, start, end)
	if err != nil {
		return core.Summary{}, err
	}
	expenses, err := s.sumConfirmed(ctx, core.TransactionExpense, start, end)
	if err != nil {
		return core.Summary{}, err
	}

	return core.Summary{
		TotalBalance:  core.Money{Cents: totalBalance},
		MonthIncome:   core.Money{Cents: income},
		MonthExpenses: core.Money{Cents: expenses},
		MonthBalance:  core.Money{Cents: income - expenses},
	}, nil
}

// ExpensesByCategory groups confirmed expense transactions of the month by
// category and sums them, sorted by descending total. Equal totals keep
// first-seen order.
func (s *DashboardService) ExpensesByCategory(ctx context.Context, month, year int) ([]core.ExpenseByCategory, error) {
	start, end := core.MonthRange(year, month)
	transactions, err := s.store.QueryTransactions(ctx, TransactionFilter{
		StartDate: &start,
		EndDate:   &end,
		Type:      core.TransactionExpense,
		Status:    core.StatusConfirmed,
	})
	if err != nil {
		return nil, fmt.Errorf("query expense transactions: %w", err)
	}

	groups := make([]core.ExpenseByCategory, 0)
	index := make(map[string]int)
	for _, t := range transactions {
		if i, ok := index[t.CategoryID]; ok {
			groups[i].Total.Cents += t.Amount.Cents
			continue
		}
		g := core.ExpenseByCategory{
			CategoryID: t.CategoryID,
			Total:      t.Amount,
		}
		if t.Category != nil {
			g.CategoryName = t.Category.Name
			g.Color = t.Category.Color
		}
		index[t.CategoryID] = len(groups)
		groups = append(groups, g)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Total.Cents > groups[j].Total.Cents
	})

	return groups, nil
}

// RecentTransactions returns the latest transactions by date descending,
// across all statuses, with account and category attached.
func (s *DashboardService) RecentTransactions(ctx context.Context, limit int) ([]core.Transaction, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.store.QueryTransactions(ctx, TransactionFilter{Limit: limit})
}

func (s *DashboardService) sumConfirmed(ctx context.Context, t core.TransactionType, start, end time.Time) (int64, error) {
	transactions, err := s.store.QueryTransactions(ctx, TransactionFilter{
		StartDate: &start,
		EndDate:   &end,
		Type:      t,
		Status:    core.StatusConfirmed,
	})
	if err != nil {
		return 0, fmt.Errorf("query %s transactions: %w", t, err)
	}
	var sum int64
	for _, tx := range transactions {
		sum += tx.Amount.Cents
	}
	return sum, nil
}
