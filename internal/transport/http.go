package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// MCPHandler handles JSON-RPC method dispatch for a user.
type MCPHandler interface {
	Handle(ctx context.Context, userID, method string, params json.RawMessage) (any, error)
}

// codedError is implemented by errors that carry an application error code.
type codedError interface {
	error
	CodeValue() string
}

// hintedError is implemented by errors that carry a recovery hint.
type hintedError interface {
	RecoveryHintValue() string
}

// Server wires HTTP handlers.
type Server struct {
	handler MCPHandler
	logger  *slog.Logger
}

// NewServer creates an HTTP server router with middleware. The returned router
// serves /rpc and /health; callers may mount further handlers on it.
func NewServer(handler MCPHandler, authMiddleware func(http.Handler) http.Handler, logger *slog.Logger) *chi.Mux {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(logger))
	r.Use(middleware.Recoverer)

	srv := &Server{handler: handler, logger: logger}

	r.Get("/health", srv.handleHealth)
	r.Group(func(r chi.Router) {
		if authMiddleware != nil {
			r.Use(authMiddleware)
		}
		r.Post("/rpc", srv.handleRPC)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	req, rpcErr := ParseRequest(r.Body)
	if rpcErr != nil {
		writeError(w, nil, rpcErr)
		return
	}

	userID, ok := UserFromContext(r.Context())
	if !ok || userID == "" {
		http.Error(w, "missing user", http.StatusUnauthorized)
		return
	}

	result, err := s.handler.Handle(r.Context(), userID, req.Method, req.Params)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if req.IsNotification() {
			s.logger.Debug("rpc notification failed", "method", req.Method, "error", err)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		s.writeHandlerError(w, r, req.ID, err)
		return
	}

	if req.IsNotification() {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeResult(w, req.ID, result)
}

func (s *Server) writeHandlerError(w http.ResponseWriter, r *http.Request, id json.RawMessage, err error) {
	var coded codedError
	if !errors.As(err, &coded) {
		requestID, _ := RequestIDFromContext(r.Context())
		s.logger.Error("rpc handler failed", "error", err, "request_id", requestID)
		writeError(w, id, NewError(ErrInternal, err.Error(), nil))
		return
	}

	data := map[string]string{"code": coded.CodeValue()}
	var hinted hintedError
	if errors.As(err, &hinted) && hinted.RecoveryHintValue() != "" {
		data["recovery_hint"] = hinted.RecoveryHintValue()
	}
	writeError(w, id, NewError(rpcCode(coded.CodeValue()), err.Error(), data))
}

// rpcCode maps application error codes onto JSON-RPC error codes.
func rpcCode(code string) int {
	switch code {
	case "METHOD_NOT_FOUND":
		return ErrMethodNotFound
	case "INVALID_PARAMS", "INVALID_INPUT":
		return ErrInvalidParams
	case "PROJECT_NOT_FOUND":
		return ErrNotFound
	case "CONFLICT":
		return ErrConflict
	default:
		return ErrInternal
	}
}
