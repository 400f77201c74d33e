package repository

import (
	"context"

	"alumniconnect/internal/model"
)

// Repository is the data-access layer over the persistent store.
//
// Lookups report absence with a false flag and mutations on unknown records are
// silent no-ops; an error always means the backing store failed.
type Repository interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id string) (model.User, bool, error)
	CreateUser(ctx context.Context, data model.NewUser) (model.User, error)
	// Login matches email case-insensitively. No password is involved.
	Login(ctx context.Context, email string) (model.User, bool, error)
	// UpdateUser replaces the stored record with the same id. Last writer wins.
	UpdateUser(ctx context.Context, user model.User) error
	// UpdateProfile edits a user in place. The edit runs on the current stored
	// record on every attempt; found is false for an unknown id.
	UpdateProfile(ctx context.Context, id string, edit func(*model.User)) (model.User, bool, error)
	IncrementProfileViews(ctx context.Context, id string) error

	SendConnectionRequest(ctx context.Context, fromID, toID string) error
	AcceptConnectionRequest(ctx context.Context, accepterID, requesterID string) error
	RejectConnectionRequest(ctx context.Context, currentID, requesterID string) error

	// ListPosts returns the feed, newest first.
	ListPosts(ctx context.Context) ([]model.Post, error)
	CreatePost(ctx context.Context, post model.Post) (model.Post, error)
	ToggleLikePost(ctx context.Context, postID, userID string) error
	AddComment(ctx context.Context, postID string, comment model.Comment) error

	// ListNotifications returns the user's notifications, newest first.
	ListNotifications(ctx context.Context, userID string) ([]model.Notification, error)
	CreateNotification(ctx context.Context, n model.Notification) (model.Notification, error)
	MarkAllNotificationsRead(ctx context.Context, userID string) error
	MarkNotificationRead(ctx context.Context, id string) error

	// GetMessages returns the conversation between a and b, oldest first.
	GetMessages(ctx context.Context, a, b string) ([]model.Message, error)
	SendMessage(ctx context.Context, msg model.Message) (model.Message, error)
}
