// Package http exposes the application operations as a JSON API.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"gastos/internal/cache"
	applog "gastos/internal/log"
	"gastos/internal/services"
)

type Server struct {
	http.Server
	app         *services.App
	rateLimiter *rateLimiter

	// Summary endpoints are recomputed over the whole collection, so their
	// results are cached and dropped wholesale on any expense mutation.
	summaryCache *cache.LRUCache[map[string]float64]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, app *services.App) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		app:          app,
		rateLimiter:  newRateLimiter(),
		summaryCache: cache.NewLRUCache[map[string]float64](100, 5*time.Minute),
		cacheManager: cache.NewManager(),
	}
	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.StartCleanup(time.Minute)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("GET /api/expenses", s.withMiddleware(s.handleListExpenses))
	mux.HandleFunc("POST /api/expenses", s.withMiddleware(s.handleCreateExpense))
	mux.HandleFunc("GET /api/expenses/{id}", s.withMiddleware(s.handleGetExpense))
	mux.HandleFunc("PUT /api/expenses/{id}", s.withMiddleware(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.withMiddleware(s.handleDeleteExpense))

	mux.HandleFunc("GET /api/categories", s.withMiddleware(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.withMiddleware(s.handleCreateCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", s.withMiddleware(s.handleDeleteCategory))

	mux.HandleFunc("GET /api/accounts", s.withMiddleware(s.handleListAccounts))
	mux.HandleFunc("POST /api/accounts", s.withMiddleware(s.handleCreateAccount))
	mux.HandleFunc("GET /api/accounts/{id}", s.withMiddleware(s.handleGetAccount))
	mux.HandleFunc("DELETE /api/accounts/{id}", s.withMiddleware(s.handleDeleteAccount))
	mux.HandleFunc("POST /api/accounts/{id}/expenses", s.withMiddleware(s.handleAccountAddExpense))
	mux.HandleFunc("DELETE /api/accounts/{id}/expenses/{expenseID}", s.withMiddleware(s.handleAccountRemoveExpense))
	mux.HandleFunc("GET /api/accounts/{id}/settlement", s.withMiddleware(s.handleAccountSettlement))

	mux.HandleFunc("GET /api/alerts", s.withMiddleware(s.handleListAlerts))
	mux.HandleFunc("POST /api/alerts", s.withMiddleware(s.handleCreateAlert))
	mux.HandleFunc("PUT /api/alerts/{id}", s.withMiddleware(s.handleUpdateAlert))
	mux.HandleFunc("DELETE /api/alerts/{id}", s.withMiddleware(s.handleDeleteAlert))
	mux.HandleFunc("POST /api/alerts/verify", s.withMiddleware(s.handleVerifyAlerts))

	mux.HandleFunc("GET /api/notifications", s.withMiddleware(s.handleListNotifications))
	mux.HandleFunc("POST /api/notifications/{id}/read", s.withMiddleware(s.handleMarkNotificationRead))
	mux.HandleFunc("POST /api/notifications/read-all", s.withMiddleware(s.handleMarkAllNotificationsRead))

	mux.HandleFunc("POST /api/import", s.withMiddleware(s.handleImport))
	mux.HandleFunc("POST /api/import/sheets", s.withMiddleware(s.handleImportSheets))

	mux.HandleFunc("GET /api/summary/categories", s.withMiddleware(s.handleCategorySummary))
	mux.HandleFunc("GET /api/summary/months", s.withMiddleware(s.handleMonthSummary))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		if s.cacheManager != nil {
			s.cacheManager.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withMiddleware adds security headers, rate limiting, and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Extract client IP (considering proxies)
		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		logger := applog.FromContext(ctx).With(applog.FieldRequestID, requestID)
		ctx = context.WithValue(ctx, applog.LoggerContextKey, logger)
		r = r.WithContext(ctx)

		sl := applog.NewStructuredLogger(logger)
		sl.LogHTTPStart(ctx, r, clientIP)

		// Rate-limit writes only; reads are cheap.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			logger.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		sl.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	}
}

type contextKey string

const requestIDKey contextKey = "request_id"

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
