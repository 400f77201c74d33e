package service

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"alumniconnect/internal/model"
	"alumniconnect/internal/repository"
)

type MessageService struct {
	repo  repository.Repository
	media ImageOffloader
	log   *zap.Logger
}

func NewMessageService(repo repository.Repository, media ImageOffloader, log *zap.Logger) *MessageService {
	return &MessageService{repo: repo, media: media, log: log.Named("message_service")}
}

// Send delivers a direct message; the receiver is notified with a preview.
func (s *MessageService) Send(ctx context.Context, senderID, receiverID string, req model.SendMessageRequest) (model.Message, error) {
	if err := validateStruct(&req); err != nil {
		return model.Message{}, err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" && strings.TrimSpace(req.Image) == "" {
		return model.Message{}, model.ErrEmptyMessage
	}

	if _, found, err := s.repo.GetUser(ctx, receiverID); err != nil {
		return model.Message{}, err
	} else if !found {
		return model.Message{}, model.ErrUserNotFound
	}

	image, err := offload(ctx, s.media, req.Image, model.ImageMessage)
	if err != nil {
		return model.Message{}, err
	}

	return s.repo.SendMessage(ctx, model.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		Image:      image,
	})
}

// Conversation returns the messages between a and b, oldest first.
func (s *MessageService) Conversation(ctx context.Context, a, b string) ([]model.Message, error) {
	return s.repo.GetMessages(ctx, a, b)
}

// Conversations lists chat partners: every connection plus anyone the user
// has exchanged messages with. Partners with recent messages come first.
func (s *MessageService) Conversations(ctx context.Context, userID string) ([]model.Conversation, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	var me *model.User
	for i := range users {
		if users[i].ID == userID {
			me = &users[i]
			break
		}
	}
	if me == nil {
		return nil, model.ErrUserNotFound
	}

	out := make([]model.Conversation, 0)
	for _, u := range users {
		if u.ID == userID {
			continue
		}
		msgs, err := s.repo.GetMessages(ctx, userID, u.ID)
		if err != nil {
			return nil, err
		}
		if len(msgs) == 0 && !me.IsConnectedTo(u.ID) {
			continue
		}

		conv := model.Conversation{Partner: u.Summary()}
		if len(msgs) > 0 {
			last := msgs[len(msgs)-1]
			conv.LastMessage = &last
		}
		out = append(out, conv)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return lastTimestamp(out[i]) > lastTimestamp(out[j])
	})
	return out, nil
}

func lastTimestamp(c model.Conversation) int64 {
	if c.LastMessage == nil {
		return 0
	}
	return c.LastMessage.Timestamp
}
