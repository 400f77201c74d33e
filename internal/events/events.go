package events

import (
	"context"
	"time"
)

// ChangeType describes which mutation produced a ChangeEvent.
type ChangeType string

const (
	UserCreated         ChangeType = "user_created"
	UserUpdated         ChangeType = "user_updated"
	ProfileViewed       ChangeType = "profile_viewed"
	ConnectionRequested ChangeType = "connection_requested"
	ConnectionAccepted  ChangeType = "connection_accepted"
	ConnectionRejected  ChangeType = "connection_rejected"
	PostCreated         ChangeType = "post_created"
	PostLiked           ChangeType = "post_liked"
	PostCommented       ChangeType = "post_commented"
	NotificationCreated ChangeType = "notification_created"
	NotificationsRead   ChangeType = "notifications_read"
	MessageSent         ChangeType = "message_sent"
)

// ChangeEvent is published after a mutation has been written.
type ChangeEvent struct {
	Type       ChangeType `json:"type"`
	Collection string     `json:"collection"`
	Revision   int64      `json:"revision"` // collection version after the write
	UserIDs    []string   `json:"user_ids,omitempty"`
	Origin     string     `json:"origin,omitempty"` // instance that made the change
	Timestamp  int64      `json:"timestamp"`
}

// NewChangeEvent stamps an event with the current time.
func NewChangeEvent(t ChangeType, collection string, revision int64, userIDs ...string) ChangeEvent {
	return ChangeEvent{
		Type:       t,
		Collection: collection,
		Revision:   revision,
		UserIDs:    userIDs,
		Timestamp:  time.Now().UnixMilli(),
	}
}

// Affects reports whether the event concerns userID. Events that name no
// users concern everyone.
func (e ChangeEvent) Affects(userID string) bool {
	if len(e.UserIDs) == 0 {
		return true
	}
	for _, id := range e.UserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Publisher accepts change events.
type Publisher interface {
	Publish(ctx context.Context, event ChangeEvent) error
}

// Subscriber hands out event channels. cancel must be called to release one.
type Subscriber interface {
	Subscribe(buffer int) (ch <-chan ChangeEvent, cancel func())
}

// Discard drops every event.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(context.Context, ChangeEvent) error { return nil }
