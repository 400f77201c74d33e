package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"alumniconnect/internal/httputil"
	"alumniconnect/internal/model"
	"alumniconnect/internal/service"
	"alumniconnect/internal/transport/http/middleware"
)

type NotificationHandler struct {
	notifService *service.NotificationService
	log          *zap.Logger
}

func NewNotificationHandler(notifService *service.NotificationService, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notifService: notifService, log: log.Named("notification_handler")}
}

// List handles GET /notifications
// Returns the user's notifications newest first, optionally capped by ?limit=.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed <= 0 {
			httputil.WriteBadRequest(w, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	notifications, err := h.notifService.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to get notifications")
		return
	}
	if limit > 0 && len(notifications) > limit {
		notifications = notifications[:limit]
	}

	httputil.WriteJSON(w, http.StatusOK, notifications)
}

// UnreadCount handles GET /notifications/unread-count
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	count, err := h.notifService.UnreadCount(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to get unread count")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, model.UnreadCountResponse{UnreadCount: count})
}

// MarkAllRead handles POST /notifications/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	if err := h.notifService.MarkAllRead(r.Context(), userID); err != nil {
		writeServiceError(w, h.log, err, "Failed to mark notifications as read")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkRead handles POST /notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	if err := h.notifService.MarkRead(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, h.log, err, "Failed to mark notification as read")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
