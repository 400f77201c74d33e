package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"alumniconnect/internal/events"
	"alumniconnect/internal/httputil"
	"alumniconnect/internal/model"
	"alumniconnect/internal/repository"
	"alumniconnect/internal/session"
	"alumniconnect/internal/store"
	"alumniconnect/internal/transport/http/middleware"
)

// Frame types pushed on /ws.
const (
	FrameSession   = "session"
	FrameSignedOut = "signed_out"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// SessionFrame is pushed to the client after every session refresh. A
// signed_out frame is the last one before the server closes the connection.
type SessionFrame struct {
	Type    string     `json:"type"`
	User    model.User `json:"user"`
	Changed bool       `json:"changed"`
	Tick    uint64     `json:"tick"`
}

// SessionHandler serves /ws. Each connection owns a live Session for the
// token's user.
type SessionHandler struct {
	repo     repository.Repository
	sub      events.Subscriber
	opts     session.Options
	upgrader websocket.Upgrader
	log      *zap.Logger
}

func NewSessionHandler(repo repository.Repository, sub events.Subscriber, opts session.Options, log *zap.Logger) *SessionHandler {
	return &SessionHandler{
		repo: repo,
		sub:  sub,
		opts: opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: log.Named("session_handler"),
	}
}

// Serve handles GET /ws
func (h *SessionHandler) Serve(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	user, found, err := h.repo.GetUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to open session")
		return
	}
	if !found {
		httputil.WriteNotFound(w, "User not found")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	sess := session.New(h.repo, &store.MemoryPointer{}, h.sub, h.opts, h.log)
	if err := sess.Start(context.Background(), user); err != nil {
		h.log.Error("failed to start session", zap.String("user_id", userID), zap.Error(err))
		sess.Close()
		conn.Close()
		return
	}

	h.log.Debug("session opened", zap.String("user_id", userID))
	done := make(chan struct{})
	go h.readPump(conn, done)
	h.writePump(conn, sess, user, done)
	h.log.Debug("session closed", zap.String("user_id", userID))
}

// readPump discards client frames and closes done when the peer goes away.
func (h *SessionHandler) readPump(conn *websocket.Conn, done chan struct{}) {
	defer close(done)

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("websocket read error", zap.Error(err))
			}
			return
		}
	}
}

func (h *SessionHandler) writePump(conn *websocket.Conn, sess *session.Session, user model.User, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sess.Close()
		conn.Close()
	}()

	// The first frame carries the snapshot the session started from.
	if err := h.write(conn, SessionFrame{Type: FrameSession, User: user, Tick: sess.Tick()}); err != nil {
		return
	}

	for {
		select {
		case <-done:
			return
		case u, ok := <-sess.Updates():
			if !ok {
				return
			}
			if u.State == session.Unauthenticated {
				h.signOff(conn, u.Tick)
				return
			}
			if err := h.write(conn, SessionFrame{Type: FrameSession, User: u.User, Changed: u.Changed, Tick: u.Tick}); err != nil {
				h.log.Debug("websocket write error", zap.Error(err))
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// signOff tells the client its account is gone and closes the connection.
func (h *SessionHandler) signOff(conn *websocket.Conn, tick uint64) {
	if err := h.write(conn, SessionFrame{Type: FrameSignedOut, Tick: tick}); err != nil {
		return
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "signed out")
	if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); err != nil {
		h.log.Debug("websocket close failed", zap.Error(err))
	}
}

func (h *SessionHandler) write(conn *websocket.Conn, frame SessionFrame) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(frame)
}
