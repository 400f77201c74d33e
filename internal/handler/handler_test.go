package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alumniconnect/internal/assist"
	"alumniconnect/internal/config"
	"alumniconnect/internal/events"
	"alumniconnect/internal/handler"
	"alumniconnect/internal/media"
	"alumniconnect/internal/repository"
	"alumniconnect/internal/service"
	"alumniconnect/internal/session"
	"alumniconnect/internal/store"
	"alumniconnect/internal/transport/http/middleware"
)

const testUserHeader = "X-Test-User"

type testServer struct {
	router http.Handler
	repo   repository.Repository
	broker *events.Broker
	store  *store.Store
}

// newTestServer wires every handler over a seeded in-memory store. The caller's
// identity comes from testUserHeader instead of a token.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := zap.NewNop()

	st := store.New(store.NewMemoryKV(), "test", log)
	require.NoError(t, st.Seed(context.Background(), time.Now()))
	broker := events.NewBroker(log)
	repo := repository.NewRepository(st, broker, log)

	cfg := &config.Config{AppEnv: "development", JWTSecret: "test-secret", AccessTokenMaxAge: 3600}
	mediaService := media.NewWithStore(nil, "", "", log)
	userService := service.NewUserService(repo, mediaService, log)
	postService := service.NewPostService(repo, mediaService, assist.NewDrafter(nil, log), log)

	auth := handler.NewAuthHandler(userService, service.NewAuthService(cfg), cfg, log)
	users := handler.NewUserHandler(userService, log)
	conns := handler.NewConnectionHandler(service.NewConnectionService(repo, log), log)
	posts := handler.NewPostHandler(postService, log)
	msgs := handler.NewMessageHandler(service.NewMessageService(repo, mediaService, log), log)
	notifs := handler.NewNotificationHandler(service.NewNotificationService(repo), log)
	sessions := handler.NewSessionHandler(repo, broker, session.Options{}, log)

	r := chi.NewRouter()
	r.Post("/auth/register", auth.Register)
	r.Post("/auth/login", auth.Login)
	r.Get("/users", users.List)
	r.Get("/users/{id}", users.Get)
	r.Get("/posts", posts.List)

	r.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				if id := req.Header.Get(testUserHeader); id != "" {
					req = req.WithContext(middleware.WithUserID(req.Context(), id))
				}
				next.ServeHTTP(w, req)
			})
		})
		r.Get("/me", auth.Me)
		r.Put("/me", auth.UpdateMe)
		r.Post("/auth/logout", auth.Logout)
		r.Post("/users/{id}/view", users.View)
		r.Post("/users/{id}/connect", conns.Connect)
		r.Get("/network", users.Network)
		r.Post("/connections/{id}/accept", conns.Accept)
		r.Post("/connections/{id}/reject", conns.Reject)
		r.Post("/posts", posts.Create)
		r.Post("/posts/assist", posts.Assist)
		r.Post("/posts/{id}/like", posts.Like)
		r.Post("/posts/{id}/comments", posts.Comment)
		r.Post("/posts/{id}/share", posts.Share)
		r.Get("/messages", msgs.Conversations)
		r.Get("/messages/{userId}", msgs.Conversation)
		r.Post("/messages/{userId}", msgs.Send)
		r.Get("/notifications", notifs.List)
		r.Get("/notifications/unread-count", notifs.UnreadCount)
		r.Post("/notifications/read-all", notifs.MarkAllRead)
		r.Post("/notifications/{id}/read", notifs.MarkRead)
		r.Get("/ws", sessions.Serve)
	})

	return &testServer{router: r, repo: repo, broker: broker, store: st}
}

func (s *testServer) do(t *testing.T, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(testUserHeader, userID)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

type errorBody struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
