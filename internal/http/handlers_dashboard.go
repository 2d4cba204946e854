package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/igoorcb/finance-control/internal/core"
)

func (s *Server) handleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	month, year, err := parsePeriod(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	key := periodCacheKey(year, month)
	if summary, found := s.summaryCache.Get(key); found {
		slog.DebugContext(r.Context(), "Summary cache hit", "year", year, "month", month)
		writeJSON(w, http.StatusOK, summary)
		return
	}

	summary, err := s.dashboard.Summary(r.Context(), month, year)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.summaryCache.Set(key, summary)
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleExpensesByCategory(w http.ResponseWriter, r *http.Request) {
	month, year, err := parsePeriod(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	key := periodCacheKey(year, month)
	if expenses, found := s.expensesCache.Get(key); found {
		slog.DebugContext(r.Context(), "Expenses-by-category cache hit", "year", year, "month", month)
		writeJSON(w, http.StatusOK, expenses)
		return
	}

	expenses, err := s.dashboard.ExpensesByCategory(r.Context(), month, year)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.expensesCache.Set(key, expenses)
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleRecentTransactions(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, r, core.Validation("invalid limit"))
			return
		}
		limit = n
	}

	transactions, err := s.dashboard.RecentTransactions(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

// parsePeriod reads month and year query parameters, defaulting to the
// current period. Defaults are taken in UTC to match the month bounds the
// aggregates are computed with.
func parsePeriod(r *http.Request) (month, year int, err error) {
	now := time.Now().UTC()
	month = int(now.Month())
	year = now.Year()

	q := r.URL.Query()
	if v := strings.TrimSpace(q.Get("month")); v != "" {
		m, convErr := strconv.Atoi(v)
		if convErr != nil || m < 1 || m > 12 {
			return 0, 0, core.Validation("invalid month")
		}
		month = m
	}
	if v := strings.TrimSpace(q.Get("year")); v != "" {
		y, convErr := strconv.Atoi(v)
		if convErr != nil || y < 1 {
			return 0, 0, core.Validation("invalid year")
		}
		year = y
	}

	return month, year, nil
}
