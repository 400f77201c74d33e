package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alumniconnect/internal/events"
	"alumniconnect/internal/handler"
	"alumniconnect/internal/model"
	"alumniconnect/internal/store"
)

func dialSession(t *testing.T, srv *testServer, userID string) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(srv.router)
	t.Cleanup(ts.Close)

	header := http.Header{}
	header.Set(testUserHeader, userID)
	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", header)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) handler.SessionFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frame handler.SessionFrame
	require.NoError(t, conn.ReadJSON(&frame))
	return frame
}

func TestSession_PushesSnapshotChanges(t *testing.T) {
	srv := newTestServer(t)
	conn := dialSession(t, srv, "user_2")

	first := readFrame(t, conn)
	assert.Equal(t, "session", first.Type)
	assert.Equal(t, "user_2", first.User.ID)
	assert.False(t, first.Changed)
	assert.Empty(t, first.User.IncomingRequests)

	require.NoError(t, srv.repo.SendConnectionRequest(context.Background(), "user_1", "user_2"))

	for {
		frame := readFrame(t, conn)
		if frame.Changed {
			assert.Equal(t, []string{"user_1"}, frame.User.IncomingRequests)
			assert.Greater(t, frame.Tick, uint64(0))
			break
		}
	}
}

func TestSession_ClosingReleasesSubscription(t *testing.T) {
	srv := newTestServer(t)
	conn := dialSession(t, srv, "user_1")
	readFrame(t, conn)
	require.Equal(t, 1, srv.broker.Subscribers())

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	conn.Close()

	require.Eventually(t, func() bool { return srv.broker.Subscribers() == 0 },
		2*time.Second, 10*time.Millisecond)
}

func TestSession_ClosesAfterAccountRemoved(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	conn := dialSession(t, srv, "user_3")
	readFrame(t, conn)

	_, _, err := srv.store.Users.Update(ctx, func(users []model.User) ([]model.User, bool) {
		kept := users[:0]
		for _, u := range users {
			if u.ID != "user_3" {
				kept = append(kept, u)
			}
		}
		return kept, true
	})
	require.NoError(t, err)
	require.NoError(t, srv.broker.Publish(ctx, events.NewChangeEvent(events.UserUpdated, store.CollectionUsers, 0, "user_3")))

	for {
		frame := readFrame(t, conn)
		if frame.Type == handler.FrameSignedOut {
			assert.Empty(t, frame.User.ID)
			break
		}
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)

	require.Eventually(t, func() bool { return srv.broker.Subscribers() == 0 },
		2*time.Second, 10*time.Millisecond)
}

func TestSession_RejectsUnknownUser(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/ws", "ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodGet, "/ws", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
