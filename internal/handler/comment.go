package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"alumniconnect/internal/httputil"
	"alumniconnect/internal/model"
	"alumniconnect/internal/transport/http/middleware"
)

// Comment handles POST /posts/{id}/comments
func (h *PostHandler) Comment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	comment, err := h.postService.AddComment(r.Context(), chi.URLParam(r, "id"), userID, req)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to add comment")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, comment)
}
