package model

import (
	"errors"
	"unicode/utf8"
)

// NotificationType enumerates what triggered a notification.
type NotificationType string

// Notification types
const (
	NotificationConnectionRequest  NotificationType = "CONNECTION_REQUEST"
	NotificationConnectionAccepted NotificationType = "CONNECTION_ACCEPTED"
	NotificationNewMessage         NotificationType = "NEW_MESSAGE"
	NotificationProfileView        NotificationType = "PROFILE_VIEW"
)

// Notification content templates
const (
	ContentConnectionRequest  = "sent you a connection request."
	ContentConnectionAccepted = "accepted your connection request."
	contentNewMessagePrefix   = "sent you a message: "

	messagePreviewLen = 30
)

// Notification is addressed to UserID and describes an action by ActorID.
type Notification struct {
	ID          string           `json:"id"`
	UserID      string           `json:"userId"` // Recipient
	ActorID     string           `json:"actorId"`
	ActorName   string           `json:"actorName"`
	ActorAvatar string           `json:"actorAvatar,omitempty"`
	Type        NotificationType `json:"type"`
	Content     string           `json:"content"`
	Timestamp   int64            `json:"timestamp"`
	Read        bool             `json:"read"`
}

// NewMessagePreview builds the NEW_MESSAGE content with a truncated preview.
func NewMessagePreview(content string) string {
	if utf8.RuneCountInString(content) <= messagePreviewLen {
		return contentNewMessagePrefix + content
	}
	runes := []rune(content)
	return contentNewMessagePrefix + string(runes[:messagePreviewLen]) + "..."
}

// UnreadCountResponse is the badge payload.
type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}

// ErrNotificationNotFound is returned when a notification does not exist for the user
var ErrNotificationNotFound = errors.New("notification not found")
