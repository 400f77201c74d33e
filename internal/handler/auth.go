package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"alumniconnect/internal/config"
	"alumniconnect/internal/httputil"
	"alumniconnect/internal/model"
	"alumniconnect/internal/service"
	"alumniconnect/internal/transport/http/middleware"
)

// AuthHandler groups sign-up, sign-in and the /me endpoints.
type AuthHandler struct {
	userService *service.UserService
	authService *service.AuthService
	config      *config.Config
	log         *zap.Logger
}

func NewAuthHandler(userService *service.UserService, authService *service.AuthService, cfg *config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		authService: authService,
		config:      cfg,
		log:         log.Named("auth_handler"),
	}
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User        model.User `json:"user"`
	AccessToken string     `json:"access_token"`
	ExpiresIn   int        `json:"expires_in"`
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to register")
		return
	}

	h.respondWithToken(w, http.StatusCreated, user)
}

// Login handles POST /auth/login. Email only, no password.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	if req.Email == "" {
		httputil.WriteBadRequest(w, "Email is required")
		return
	}

	user, err := h.userService.Login(r.Context(), req.Email)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to login")
		return
	}

	h.respondWithToken(w, http.StatusOK, user)
}

// Logout handles POST /auth/logout. Tokens are stateless; the cookie is cleared.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   !h.config.IsDevelopment(),
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	user, err := h.userService.GetProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to get user")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

// UpdateMe handles PUT /me
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to update profile")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, status int, user model.User) {
	token, err := h.authService.GenerateAccessToken(user.ID)
	if err != nil {
		h.log.Error("failed to generate token", zap.String("user_id", user.ID), zap.Error(err))
		httputil.WriteInternalError(w, "Failed to generate token")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    token.AccessToken,
		Path:     "/",
		Expires:  time.Now().Add(time.Duration(token.ExpiresIn) * time.Second),
		HttpOnly: true,
		Secure:   !h.config.IsDevelopment(),
		SameSite: http.SameSiteLaxMode,
	})
	httputil.WriteJSON(w, status, AuthResponse{
		User:        user,
		AccessToken: token.AccessToken,
		ExpiresIn:   token.ExpiresIn,
	})
}
