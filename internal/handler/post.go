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

type PostHandler struct {
	postService *service.PostService
	log         *zap.Logger
}

func NewPostHandler(postService *service.PostService, log *zap.Logger) *PostHandler {
	return &PostHandler{postService: postService, log: log.Named("post_handler")}
}

// List handles GET /posts?q=
// Returns the feed newest first.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to get feed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, posts)
}

// Create handles POST /posts
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	post, err := h.postService.Create(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to create post")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, post)
}

// Like handles POST /posts/{id}/like. Liking twice removes the like.
func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	post, err := h.postService.ToggleLike(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to like post")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, post)
}

// Share handles POST /posts/{id}/share
func (h *PostHandler) Share(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.SharePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	messages, err := h.postService.Share(r.Context(), userID, chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to share post")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, messages)
}

// Assist handles POST /posts/assist
func (h *PostHandler) Assist(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	draft, err := h.postService.AssistDraft(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to draft post")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, draft)
}
