package service

import (
	"context"

	"alumniconnect/internal/model"
	"alumniconnect/internal/repository"
)

// NotificationService serves the in-app notification list and badge.
type NotificationService struct {
	repo repository.Repository
}

func NewNotificationService(repo repository.Repository) *NotificationService {
	return &NotificationService{repo: repo}
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID string) ([]model.Notification, error) {
	return s.repo.ListNotifications(ctx, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllNotificationsRead(ctx, userID)
}

// MarkRead marks one notification read. Notifications addressed to someone
// else are reported as not found.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	list, err := s.repo.ListNotifications(ctx, userID)
	if err != nil {
		return err
	}
	for _, n := range list {
		if n.ID == id {
			return s.repo.MarkNotificationRead(ctx, id)
		}
	}
	return model.ErrNotificationNotFound
}

// UnreadCount returns the number of unread notifications (for badge display).
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	list, err := s.repo.ListNotifications(ctx, userID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range list {
		if !n.Read {
			count++
		}
	}
	return count, nil
}
