package repository

import (
	"context"
	"fmt"
	"sort"

	"alumniconnect/internal/events"
	"alumniconnect/internal/model"
	"alumniconnect/internal/store"
)

func (r *kvRepository) ListNotifications(ctx context.Context, userID string) ([]model.Notification, error) {
	all, _, err := r.store.Notifications.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	out := make([]model.Notification, 0)
	for _, n := range all {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out, nil
}

// CreateNotification assigns id and timestamp, marks the record unread, and
// puts it at the head of the list.
func (r *kvRepository) CreateNotification(ctx context.Context, n model.Notification) (model.Notification, error) {
	n.ID = r.newID()
	n.Timestamp = r.nowMillis()
	n.Read = false

	rev, _, err := r.store.Notifications.Update(ctx, func(all []model.Notification) ([]model.Notification, bool) {
		return append([]model.Notification{n}, all...), true
	})
	if err != nil {
		return model.Notification{}, fmt.Errorf("failed to create notification: %w", err)
	}

	r.publish(ctx, events.NotificationCreated, store.CollectionNotifications, rev, n.UserID)
	return n, nil
}

// MarkAllNotificationsRead sets read on every notification of the user,
// including ones that were already read.
func (r *kvRepository) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	rev, changed, err := r.store.Notifications.Update(ctx, func(all []model.Notification) ([]model.Notification, bool) {
		changed := false
		for i := range all {
			if all[i].UserID == userID {
				all[i].Read = true
				changed = true
			}
		}
		return all, changed
	})
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	if changed {
		r.publish(ctx, events.NotificationsRead, store.CollectionNotifications, rev, userID)
	}
	return nil
}

func (r *kvRepository) MarkNotificationRead(ctx context.Context, id string) error {
	var userID string
	rev, changed, err := r.store.Notifications.Update(ctx, func(all []model.Notification) ([]model.Notification, bool) {
		for i := range all {
			if all[i].ID == id {
				if all[i].Read {
					return all, false
				}
				all[i].Read = true
				userID = all[i].UserID
				return all, true
			}
		}
		return all, false
	})
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if changed {
		r.publish(ctx, events.NotificationsRead, store.CollectionNotifications, rev, userID)
	}
	return nil
}
