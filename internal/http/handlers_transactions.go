package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/igoorcb/finance-control/internal/core"
	"github.com/igoorcb/finance-control/internal/ledger"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := parseTransactionFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	transactions, err := s.transactions.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var tx core.Transaction
	if err := decodeJSON(r, &tx); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.transactions.Create(r.Context(), tx)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateDashboardCaches()
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := s.transactions.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var patch ledger.TransactionPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := s.transactions.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateDashboardCaches()
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.transactions.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateDashboardCaches()
	writeJSON(w, http.StatusOK, map[string]string{"message": "transaction deleted"})
}

// parseTransactionFilter reads the optional list filters from query
// parameters. Invalid dates and numbers are validation errors rather than
// silently ignored filters.
func parseTransactionFilter(r *http.Request) (ledger.TransactionFilter, error) {
	q := r.URL.Query()
	var filter ledger.TransactionFilter

	if v := strings.TrimSpace(q.Get("startDate")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return filter, core.Validation("invalid startDate")
		}
		t := d.Time
		filter.StartDate = &t
	}
	if v := strings.TrimSpace(q.Get("endDate")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return filter, core.Validation("invalid endDate")
		}
		t := d.Time
		filter.EndDate = &t
	}

	filter.AccountID = strings.TrimSpace(q.Get("accountId"))
	filter.CategoryID = strings.TrimSpace(q.Get("categoryId"))

	if v := strings.TrimSpace(q.Get("type")); v != "" {
		t := core.TransactionType(v)
		if !t.Valid() {
			return filter, core.Validation("invalid transaction type")
		}
		filter.Type = t
	}
	if v := strings.TrimSpace(q.Get("status")); v != "" {
		st := core.TransactionStatus(v)
		if !st.Valid() {
			return filter, core.Validation("invalid transaction status")
		}
		filter.Status = st
	}
	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, core.Validation("invalid limit")
		}
		filter.Limit = n
	}

	return filter, nil
}
