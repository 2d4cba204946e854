// Package http exposes the ledger over a JSON REST API.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/igoorcb/finance-control/internal/cache"
	"github.com/igoorcb/finance-control/internal/core"
	"github.com/igoorcb/finance-control/internal/ledger"
	"github.com/igoorcb/finance-control/internal/middleware/trace"
)

type Server struct {
	http.Server

	accounts     *ledger.AccountService
	categories   *ledger.CategoryService
	transactions *ledger.TransactionService
	dashboard    *ledger.DashboardService

	rateLimiter *rateLimiter

	// Dashboard aggregates are cached per year-month; any transaction
	// mutation purges both caches since the affected months are unknown
	// until the request body is parsed.
	summaryCache  *cache.LRUCache[core.Summary]
	expensesCache *cache.LRUCache[[]core.ExpenseByCategory]
	cacheManager  *cache.Manager

	shutdownOnce sync.Once
}

// NewServer wires routes, middleware and caches into a ready-to-run server.
func NewServer(addr string, accounts *ledger.AccountService, categories *ledger.CategoryService, transactions *ledger.TransactionService, dashboard *ledger.DashboardService) *Server {
	s := &Server{
		accounts:      accounts,
		categories:    categories,
		transactions:  transactions,
		dashboard:     dashboard,
		rateLimiter:   newRateLimiter(),
		summaryCache:  cache.NewLRUCache[core.Summary](100, 5*time.Minute),
		expensesCache: cache.NewLRUCache[[]core.ExpenseByCategory](100, 5*time.Minute),
		cacheManager:  cache.NewManager(),
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.Register(s.expensesCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/accounts", s.handleListAccounts)
	mux.HandleFunc("POST /api/accounts", s.handleCreateAccount)
	mux.HandleFunc("GET /api/accounts/{id}", s.handleGetAccount)
	mux.HandleFunc("PUT /api/accounts/{id}", s.handleUpdateAccount)
	mux.HandleFunc("DELETE /api/accounts/{id}", s.handleDeleteAccount)

	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/categories", s.handleCreateCategory)
	mux.HandleFunc("GET /api/categories/{id}", s.handleGetCategory)
	mux.HandleFunc("PUT /api/categories/{id}", s.handleUpdateCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", s.handleDeleteCategory)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/dashboard/summary", s.handleDashboardSummary)
	mux.HandleFunc("GET /api/dashboard/expenses-by-category", s.handleExpensesByCategory)
	mux.HandleFunc("GET /api/dashboard/recent-transactions", s.handleRecentTransactions)

	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	traced := trace.NewMiddleware(extractClientIP)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           traced.Handler(s.withSecurity(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s
}

// Shutdown stops the HTTP server along with the cache and rate limiter
// cleanup goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withSecurity adds security headers and rate-limits mutating requests.
func (s *Server) withSecurity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && !s.rateLimiter.allow(extractClientIP(r)) {
			slog.WarnContext(r.Context(), "Rate limit exceeded",
				"client_ip", extractClientIP(r),
				"method", r.Method,
				"path", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, r, &core.Error{Message: "Rate limit exceeded", StatusCode: http.StatusTooManyRequests})
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

func extractClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func (s *Server) invalidateDashboardCaches() {
	s.summaryCache.Purge()
	s.expensesCache.Purge()
}

func periodCacheKey(year, month int) string {
	return strconv.Itoa(year) + "-" + strconv.Itoa(month)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
