package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"alumniconnect/internal/handler"
	"alumniconnect/internal/httputil"
	authmw "alumniconnect/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler         *handler.AuthHandler
	UserHandler         *handler.UserHandler
	ConnectionHandler   *handler.ConnectionHandler
	PostHandler         *handler.PostHandler
	MessageHandler      *handler.MessageHandler
	NotificationHandler *handler.NotificationHandler
	SessionHandler      *handler.SessionHandler
	JWTSecret           string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Public routes - no authentication required
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
	})

	r.Get("/users", cfg.UserHandler.List)
	r.Get("/users/{id}", cfg.UserHandler.Get)
	r.Get("/posts", cfg.PostHandler.List)

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

		r.Get("/me", cfg.AuthHandler.Me)
		r.Put("/me", cfg.AuthHandler.UpdateMe)
		r.Post("/auth/logout", cfg.AuthHandler.Logout)

		r.Post("/users/{id}/view", cfg.UserHandler.View)
		r.Post("/users/{id}/connect", cfg.ConnectionHandler.Connect)
		r.Get("/network", cfg.UserHandler.Network)

		r.Post("/connections/{id}/accept", cfg.ConnectionHandler.Accept)
		r.Post("/connections/{id}/reject", cfg.ConnectionHandler.Reject)

		// GET /posts is public, so these stay flat rather than in a sub-router.
		r.Post("/posts", cfg.PostHandler.Create)
		r.Post("/posts/assist", cfg.PostHandler.Assist)
		r.Post("/posts/{id}/like", cfg.PostHandler.Like)
		r.Post("/posts/{id}/comments", cfg.PostHandler.Comment)
		r.Post("/posts/{id}/share", cfg.PostHandler.Share)

		r.Route("/messages", func(r chi.Router) {
			r.Get("/", cfg.MessageHandler.Conversations)
			r.Get("/{userId}", cfg.MessageHandler.Conversation)
			r.Post("/{userId}", cfg.MessageHandler.Send)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", cfg.NotificationHandler.List)
			r.Get("/unread-count", cfg.NotificationHandler.UnreadCount)
			r.Post("/read-all", cfg.NotificationHandler.MarkAllRead)
			r.Post("/{id}/read", cfg.NotificationHandler.MarkRead)
		})

		r.Get("/ws", cfg.SessionHandler.Serve)
	})

	return r
}
