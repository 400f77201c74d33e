package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alumniconnect/internal/model"
)

func TestNotifications(t *testing.T) {
	srv := newTestServer(t)

	require.Equal(t, http.StatusOK, srv.do(t, http.MethodPost, "/users/user_1/connect", "user_2", nil).Code)
	require.Equal(t, http.StatusOK, srv.do(t, http.MethodPost, "/users/user_1/connect", "user_3", nil).Code)

	rec := srv.do(t, http.MethodGet, "/notifications/unread-count", "user_1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decode[model.UnreadCountResponse](t, rec).UnreadCount)

	rec = srv.do(t, http.MethodGet, "/notifications?limit=1", "user_1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	notifs := decode[[]model.Notification](t, rec)
	require.Len(t, notifs, 1)
	assert.Equal(t, "Elena Rodriguez", notifs[0].ActorName, "newest first")
	assert.Equal(t, model.NotificationConnectionRequest, notifs[0].Type)

	// someone else's notification is invisible
	rec = srv.do(t, http.MethodPost, "/notifications/"+notifs[0].ID+"/read", "user_2", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodPost, "/notifications/"+notifs[0].ID+"/read", "user_1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(t, http.MethodGet, "/notifications/unread-count", "user_1", nil)
	assert.Equal(t, 1, decode[model.UnreadCountResponse](t, rec).UnreadCount)

	rec = srv.do(t, http.MethodPost, "/notifications/read-all", "user_1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(t, http.MethodGet, "/notifications/unread-count", "user_1", nil)
	assert.Equal(t, 0, decode[model.UnreadCountResponse](t, rec).UnreadCount)
}

func TestNotifications_BadLimit(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/notifications?limit=zero", "user_1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
