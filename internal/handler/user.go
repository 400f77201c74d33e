package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"alumniconnect/internal/httputil"
	"alumniconnect/internal/service"
	"alumniconnect/internal/transport/http/middleware"
)

type UserHandler struct {
	userService *service.UserService
	log         *zap.Logger
}

func NewUserHandler(userService *service.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{userService: userService, log: log.Named("user_handler")}
}

// List handles GET /users?q=
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to list users")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, users)
}

// Get handles GET /users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.GetProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to get user")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

// View handles POST /users/{id}/view
func (h *UserHandler) View(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	user, err := h.userService.ViewProfile(r.Context(), viewerID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to view profile")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

// Network handles GET /network
func (h *UserHandler) Network(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	resp, err := h.userService.Network(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to load network")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
