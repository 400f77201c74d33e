package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"alumniconnect/internal/httputil"
	"alumniconnect/internal/model"
	"alumniconnect/internal/service"
	"alumniconnect/internal/transport/http/middleware"
)

type MessageHandler struct {
	messageService *service.MessageService
	log            *zap.Logger
}

func NewMessageHandler(messageService *service.MessageService, log *zap.Logger) *MessageHandler {
	return &MessageHandler{messageService: messageService, log: log.Named("message_handler")}
}

// Conversations handles GET /messages
func (h *MessageHandler) Conversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	convs, err := h.messageService.Conversations(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to list conversations")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, convs)
}

// Conversation handles GET /messages/{userId}
func (h *MessageHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	msgs, err := h.messageService.Conversation(r.Context(), userID, chi.URLParam(r, "userId"))
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to load conversation")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, msgs)
}

// Send handles POST /messages/{userId}
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	msg, err := h.messageService.Send(r.Context(), userID, chi.URLParam(r, "userId"), req)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to send message")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, msg)
}
