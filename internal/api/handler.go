package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/domain"
	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/repo"
	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/usecase"
	"github.com/tridentdigital/zalo-inventory-bot/internal/service"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

// Deps are the components served over HTTP
type Deps struct {
	Webhook       *service.WebhookService
	IndexSync     *service.IndexSyncService
	Conversations repo.ConversationRepo
	Inventory     *usecase.InventoryUsecase
	Catalog       *usecase.CatalogUsecase
	Responder     *usecase.ResponderUsecase
	Authorization *usecase.AuthorizationUsecase
}

// Options configures the HTTP server
type Options struct {
	Addr           string
	WebhookSecret  string
	WebhookTimeout time.Duration
}

// Server provides the webhook endpoint and the inventory HTTP API
type Server struct {
	Deps
	opts   Options
	logger *zap.Logger
	server *http.Server
}

// NewServer creates a new API server
func NewServer(deps Deps, opts Options, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.WebhookTimeout <= 0 {
		opts.WebhookTimeout = 60 * time.Second
	}
	return &Server{Deps: deps, opts: opts, logger: logger.Named("api")}
}

// Handler returns the routed handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Inbound webhook
	mux.HandleFunc("/webhooks", s.handleWebhook)

	// Conversation history
	mux.HandleFunc("/webhook-history", s.handleHistory)
	mux.HandleFunc("/webhook-history/event/{type}", s.handleHistoryByEvent)
	mux.HandleFunc("/webhook-history/{id}", s.handleHistoryItem)

	// Inventory
	mux.HandleFunc("/inventory/check-stock", s.handleCheckStock)
	mux.HandleFunc("/inventory/search", s.handleSearch)
	mux.HandleFunc("/inventory/stock/{sku}", s.handleStockBySKU)
	mux.HandleFunc("/inventory/reindex", s.handleReindex)

	// Items
	mux.HandleFunc("/items", s.handleItems)
	mux.HandleFunc("/items/{id}", s.handleItem)

	// Zalo
	mux.HandleFunc("/zalo/group/message", s.handleGroupMessage)
	mux.HandleFunc("/zalo/oauth/authorize", s.handleAuthorize)
	mux.HandleFunc("/zalo/oauth/callback", s.handleCallback)

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return s.logRequests(mux)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("starting HTTP server", zap.String("addr", s.opts.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// ============ Helpers ============

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError maps domain errors to HTTP statuses
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrAuthentication):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	s.writeJSON(w, status, map[string]string{"status": "error", "error": err.Error()})
}

func (s *Server) methodNotAllowed(w http.ResponseWriter) {
	s.writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"status": "error", "error": "method not allowed"})
}

// decodeJSON reads a bounded JSON body into v
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &domain.ValidationError{Message: "invalid JSON body: " + err.Error()}
	}
	return nil
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
