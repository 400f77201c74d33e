package repository

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"alumniconnect/internal/events"
	"alumniconnect/internal/model"
	"alumniconnect/internal/store"
)

// GetMessages scans every message for the {a, b} pair in either direction.
func (r *kvRepository) GetMessages(ctx context.Context, a, b string) ([]model.Message, error) {
	all, _, err := r.store.Messages.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}

	out := make([]model.Message, 0)
	for _, m := range all {
		if m.Involves(a, b) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})
	return out, nil
}

// SendMessage stores the message and notifies the receiver. If the sender is
// unknown the message is kept but nobody is notified.
func (r *kvRepository) SendMessage(ctx context.Context, msg model.Message) (model.Message, error) {
	msg.ID = r.newID()
	msg.Timestamp = r.nowMillis()
	msg.Read = false

	rev, _, err := r.store.Messages.Update(ctx, func(all []model.Message) ([]model.Message, bool) {
		return append(all, msg), true
	})
	if err != nil {
		return model.Message{}, fmt.Errorf("failed to send message: %w", err)
	}
	r.publish(ctx, events.MessageSent, store.CollectionMessages, rev, msg.SenderID, msg.ReceiverID)

	sender, ok, err := r.GetUser(ctx, msg.SenderID)
	if err != nil {
		return msg, err
	}
	if !ok {
		r.log.Debug("message from unknown sender, skipping notification",
			zap.String("sender", msg.SenderID))
		return msg, nil
	}

	_, err = r.CreateNotification(ctx, model.Notification{
		UserID:      msg.ReceiverID,
		ActorID:     sender.ID,
		ActorName:   sender.Name,
		ActorAvatar: sender.Avatar,
		Type:        model.NotificationNewMessage,
		Content:     model.NewMessagePreview(msg.Content),
	})
	return msg, err
}
