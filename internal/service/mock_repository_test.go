package service

import (
	"context"

	"alumniconnect/internal/model"
)

// =============================================================================
// MOCK REPOSITORY
// =============================================================================
//
// Each test sets only the functions it needs. Unset lookups report "absent"
// and unset mutations succeed, mirroring the real repository's no-op policy.

type mockRepository struct {
	listUsersFn                func(ctx context.Context) ([]model.User, error)
	getUserFn                  func(ctx context.Context, id string) (model.User, bool, error)
	createUserFn               func(ctx context.Context, data model.NewUser) (model.User, error)
	loginFn                    func(ctx context.Context, email string) (model.User, bool, error)
	updateUserFn               func(ctx context.Context, user model.User) error
	updateProfileFn            func(ctx context.Context, id string, edit func(*model.User)) (model.User, bool, error)
	incrementProfileViewsFn    func(ctx context.Context, id string) error
	sendConnectionRequestFn    func(ctx context.Context, fromID, toID string) error
	acceptConnectionRequestFn  func(ctx context.Context, accepterID, requesterID string) error
	rejectConnectionRequestFn  func(ctx context.Context, currentID, requesterID string) error
	listPostsFn                func(ctx context.Context) ([]model.Post, error)
	createPostFn               func(ctx context.Context, post model.Post) (model.Post, error)
	toggleLikePostFn           func(ctx context.Context, postID, userID string) error
	addCommentFn               func(ctx context.Context, postID string, comment model.Comment) error
	listNotificationsFn        func(ctx context.Context, userID string) ([]model.Notification, error)
	createNotificationFn       func(ctx context.Context, n model.Notification) (model.Notification, error)
	markAllNotificationsReadFn func(ctx context.Context, userID string) error
	markNotificationReadFn     func(ctx context.Context, id string) error
	getMessagesFn              func(ctx context.Context, a, b string) ([]model.Message, error)
	sendMessageFn              func(ctx context.Context, msg model.Message) (model.Message, error)

	// Track calls for assertions
	createUserCalls []model.NewUser
	savedProfiles   []model.User
	viewIncrements  []string
	sentMessages    []model.Message
	connectionCalls []string
	markedReadCalls []string
}

// withUsers makes the list and lookup functions serve a fixed set of users.
func (m *mockRepository) withUsers(users ...model.User) *mockRepository {
	m.listUsersFn = func(context.Context) ([]model.User, error) {
		out := make([]model.User, len(users))
		copy(out, users)
		return out, nil
	}
	m.getUserFn = func(_ context.Context, id string) (model.User, bool, error) {
		for _, u := range users {
			if u.ID == id {
				return u, true, nil
			}
		}
		return model.User{}, false, nil
	}
	return m
}

func (m *mockRepository) ListUsers(ctx context.Context) ([]model.User, error) {
	if m.listUsersFn != nil {
		return m.listUsersFn(ctx)
	}
	return []model.User{}, nil
}

func (m *mockRepository) GetUser(ctx context.Context, id string) (model.User, bool, error) {
	if m.getUserFn != nil {
		return m.getUserFn(ctx, id)
	}
	return model.User{}, false, nil
}

func (m *mockRepository) CreateUser(ctx context.Context, data model.NewUser) (model.User, error) {
	m.createUserCalls = append(m.createUserCalls, data)
	if m.createUserFn != nil {
		return m.createUserFn(ctx, data)
	}
	return model.User{ID: "new-id", Name: data.Name, Email: data.Email, Role: data.Role, Skills: data.Skills}, nil
}

func (m *mockRepository) Login(ctx context.Context, email string) (model.User, bool, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, email)
	}
	return model.User{}, false, nil
}

func (m *mockRepository) UpdateUser(ctx context.Context, user model.User) error {
	if m.updateUserFn != nil {
		return m.updateUserFn(ctx, user)
	}
	return nil
}

// UpdateProfile defaults to editing whatever GetUser returns.
func (m *mockRepository) UpdateProfile(ctx context.Context, id string, edit func(*model.User)) (model.User, bool, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, id, edit)
	}
	u, found, err := m.GetUser(ctx, id)
	if err != nil || !found {
		return model.User{}, false, err
	}
	edit(&u)
	u.Normalize()
	m.savedProfiles = append(m.savedProfiles, u)
	return u, true, nil
}

func (m *mockRepository) IncrementProfileViews(ctx context.Context, id string) error {
	m.viewIncrements = append(m.viewIncrements, id)
	if m.incrementProfileViewsFn != nil {
		return m.incrementProfileViewsFn(ctx, id)
	}
	return nil
}

func (m *mockRepository) SendConnectionRequest(ctx context.Context, fromID, toID string) error {
	m.connectionCalls = append(m.connectionCalls, "request:"+fromID+"->"+toID)
	if m.sendConnectionRequestFn != nil {
		return m.sendConnectionRequestFn(ctx, fromID, toID)
	}
	return nil
}

func (m *mockRepository) AcceptConnectionRequest(ctx context.Context, accepterID, requesterID string) error {
	m.connectionCalls = append(m.connectionCalls, "accept:"+accepterID+"<-"+requesterID)
	if m.acceptConnectionRequestFn != nil {
		return m.acceptConnectionRequestFn(ctx, accepterID, requesterID)
	}
	return nil
}

func (m *mockRepository) RejectConnectionRequest(ctx context.Context, currentID, requesterID string) error {
	m.connectionCalls = append(m.connectionCalls, "reject:"+currentID+"<-"+requesterID)
	if m.rejectConnectionRequestFn != nil {
		return m.rejectConnectionRequestFn(ctx, currentID, requesterID)
	}
	return nil
}

func (m *mockRepository) ListPosts(ctx context.Context) ([]model.Post, error) {
	if m.listPostsFn != nil {
		return m.listPostsFn(ctx)
	}
	return []model.Post{}, nil
}

func (m *mockRepository) CreatePost(ctx context.Context, post model.Post) (model.Post, error) {
	if m.createPostFn != nil {
		return m.createPostFn(ctx, post)
	}
	post.ID = "post-id"
	return post, nil
}

func (m *mockRepository) ToggleLikePost(ctx context.Context, postID, userID string) error {
	if m.toggleLikePostFn != nil {
		return m.toggleLikePostFn(ctx, postID, userID)
	}
	return nil
}

func (m *mockRepository) AddComment(ctx context.Context, postID string, comment model.Comment) error {
	if m.addCommentFn != nil {
		return m.addCommentFn(ctx, postID, comment)
	}
	return nil
}

func (m *mockRepository) ListNotifications(ctx context.Context, userID string) ([]model.Notification, error) {
	if m.listNotificationsFn != nil {
		return m.listNotificationsFn(ctx, userID)
	}
	return []model.Notification{}, nil
}

func (m *mockRepository) CreateNotification(ctx context.Context, n model.Notification) (model.Notification, error) {
	if m.createNotificationFn != nil {
		return m.createNotificationFn(ctx, n)
	}
	return n, nil
}

func (m *mockRepository) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	if m.markAllNotificationsReadFn != nil {
		return m.markAllNotificationsReadFn(ctx, userID)
	}
	return nil
}

func (m *mockRepository) MarkNotificationRead(ctx context.Context, id string) error {
	m.markedReadCalls = append(m.markedReadCalls, id)
	if m.markNotificationReadFn != nil {
		return m.markNotificationReadFn(ctx, id)
	}
	return nil
}

func (m *mockRepository) GetMessages(ctx context.Context, a, b string) ([]model.Message, error) {
	if m.getMessagesFn != nil {
		return m.getMessagesFn(ctx, a, b)
	}
	return []model.Message{}, nil
}

func (m *mockRepository) SendMessage(ctx context.Context, msg model.Message) (model.Message, error) {
	m.sentMessages = append(m.sentMessages, msg)
	if m.sendMessageFn != nil {
		return m.sendMessageFn(ctx, msg)
	}
	msg.ID = "msg-id"
	return msg, nil
}

type mockOffloader struct {
	offloadFn func(ctx context.Context, payload string, kind model.ImageKind) (string, error)
	kinds     []model.ImageKind
}

func (m *mockOffloader) Offload(ctx context.Context, payload string, kind model.ImageKind) (string, error) {
	m.kinds = append(m.kinds, kind)
	if m.offloadFn != nil {
		return m.offloadFn(ctx, payload, kind)
	}
	return payload, nil
}

type mockDrafter struct {
	draftFn func(ctx context.Context, role model.Role, name string) model.AssistDraft
}

func (m *mockDrafter) Draft(ctx context.Context, role model.Role, name string) model.AssistDraft {
	return m.draftFn(ctx, role, name)
}
