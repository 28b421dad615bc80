package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"prepai/internal/api"
	"prepai/internal/auth"
	"prepai/internal/config"
	"prepai/internal/interviews"
	"prepai/internal/logging"
	"prepai/internal/notifications"
	"prepai/internal/services"
)

const maxBodyBytes = 1 << 20

type apiServer struct {
	bind        string
	logger      *slog.Logger
	store       *interviews.Store
	issuer      *auth.Issuer
	notifier    notifications.Service
	allowGuest  bool
	audioOffset int

	handler http.Handler

	mu       sync.Mutex
	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, store *interviews.Store, issuer *auth.Issuer, notifier notifications.Service, logger *slog.Logger) *apiServer {
	srv := &apiServer{
		bind:        strings.TrimSpace(cfg.Paths.APIBind),
		logger:      logger,
		store:       store,
		issuer:      issuer,
		notifier:    notifier,
		allowGuest:  cfg.Gateway.AllowGuestSaves,
		audioOffset: cfg.Gateway.AudioConfidenceOffset,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", srv.handleRoot)
	mux.HandleFunc("POST /api/auth/signup", srv.handleSignup)
	mux.HandleFunc("POST /api/auth/login", srv.handleLogin)
	mux.HandleFunc("GET /api/auth/me", srv.requireUser(srv.handleMe))
	mux.HandleFunc("PUT /api/auth/update", srv.requireUser(srv.handleUpdateProfile))
	mux.HandleFunc("POST /api/interviews/save", srv.handleSaveInterview)
	mux.HandleFunc("GET /api/interviews/history/{userId}", srv.handleHistory)

	srv.handler = srv.withRequestID(srv.withCORS(mux))
	srv.server = &http.Server{
		Handler:           srv.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

func (s *apiServer) start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "API is running...")
}

func (s *apiServer) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// fail writes the error response for err. Client errors carry message;
// server errors are logged, reported to the notifier, and answered generically.
func (s *apiServer) fail(w http.ResponseWriter, r *http.Request, err error, operation, message string) {
	status := services.HTTPStatus(err)
	logger := logging.WithContext(r.Context(), s.log())
	if status >= http.StatusInternalServerError {
		logging.ErrorWithContext(logger, "request failed", "gateway_"+operation+"_failed",
			logging.String("operation", operation),
			logging.Error(err),
		)
		if notifyErr := s.notifier.NotifyError(r.Context(), err, operation); notifyErr != nil {
			logger.Debug("error notification failed", logging.Error(notifyErr))
		}
		s.writeError(w, status, "Server Error")
		return
	}
	logger.Info("request rejected",
		logging.String("operation", operation),
		logging.Int("status", status),
		logging.String("reason", services.Kind(err)),
	)
	s.writeError(w, status, message)
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, api.ErrorResponse{Error: message})
}

func (s *apiServer) log() *slog.Logger {
	return logging.NewComponentLogger(s.logger, "api-server")
}
