package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"alumniconnect/internal/httputil"
	"alumniconnect/internal/service"
	"alumniconnect/internal/transport/http/middleware"
)

type ConnectionHandler struct {
	connService *service.ConnectionService
	log         *zap.Logger
}

func NewConnectionHandler(connService *service.ConnectionService, log *zap.Logger) *ConnectionHandler {
	return &ConnectionHandler{connService: connService, log: log.Named("connection_handler")}
}

// Connect handles POST /users/{id}/connect
func (h *ConnectionHandler) Connect(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, h.connService.Request, "Connection request sent", "Failed to send connection request")
}

// Accept handles POST /connections/{id}/accept, where id is the requester.
func (h *ConnectionHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, h.connService.Accept, "Connection accepted", "Failed to accept connection")
}

// Reject handles POST /connections/{id}/reject
func (h *ConnectionHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, h.connService.Reject, "Connection request ignored", "Failed to reject connection")
}

func (h *ConnectionHandler) act(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, userID, otherID string) error, okMsg, failMsg string) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	if err := fn(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, h.log, err, failMsg)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": okMsg})
}
