package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"alumniconnect/internal/model"
	"alumniconnect/internal/repository"
)

// DraftWriter suggests post text for a member.
type DraftWriter interface {
	Draft(ctx context.Context, role model.Role, name string) model.AssistDraft
}

type PostService struct {
	repo    repository.Repository
	media   ImageOffloader
	drafter DraftWriter
	log     *zap.Logger
}

func NewPostService(repo repository.Repository, media ImageOffloader, drafter DraftWriter, log *zap.Logger) *PostService {
	return &PostService{repo: repo, media: media, drafter: drafter, log: log.Named("post_service")}
}

// Create publishes a post with a snapshot of the author's profile.
func (s *PostService) Create(ctx context.Context, authorID string, req model.CreatePostRequest) (model.Post, error) {
	if err := validateStruct(&req); err != nil {
		return model.Post{}, err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" && strings.TrimSpace(req.Image) == "" {
		return model.Post{}, model.ErrEmptyPost
	}

	author, found, err := s.repo.GetUser(ctx, authorID)
	if err != nil {
		return model.Post{}, err
	}
	if !found {
		return model.Post{}, model.ErrUserNotFound
	}

	image, err := offload(ctx, s.media, req.Image, model.ImagePost)
	if err != nil {
		return model.Post{}, err
	}

	post, err := s.repo.CreatePost(ctx, model.Post{
		AuthorID:       author.ID,
		AuthorName:     author.Name,
		AuthorHeadline: author.Headline,
		AuthorAvatar:   author.Avatar,
		Content:        content,
		Image:          image,
	})
	if err != nil {
		return model.Post{}, err
	}

	s.log.Debug("post created", zap.String("post_id", post.ID), zap.String("author_id", authorID))
	return post, nil
}

// List returns the feed newest first, optionally filtered on content or
// author name.
func (s *PostService) List(ctx context.Context, query string) ([]model.Post, error) {
	posts, err := s.repo.ListPosts(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return posts, nil
	}

	out := make([]model.Post, 0, len(posts))
	for _, p := range posts {
		if strings.Contains(strings.ToLower(p.Content), q) || strings.Contains(strings.ToLower(p.AuthorName), q) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Get returns a single post.
func (s *PostService) Get(ctx context.Context, postID string) (model.Post, error) {
	posts, err := s.repo.ListPosts(ctx)
	if err != nil {
		return model.Post{}, err
	}
	for _, p := range posts {
		if p.ID == postID {
			return p, nil
		}
	}
	return model.Post{}, model.ErrPostNotFound
}

// ToggleLike flips userID's like and returns the post as stored afterwards.
func (s *PostService) ToggleLike(ctx context.Context, postID, userID string) (model.Post, error) {
	if _, err := s.Get(ctx, postID); err != nil {
		return model.Post{}, err
	}
	if err := s.repo.ToggleLikePost(ctx, postID, userID); err != nil {
		return model.Post{}, err
	}
	return s.Get(ctx, postID)
}

// Share sends the post to each recipient as a direct message. Every
// recipient must exist and be one of the sender's connections; otherwise
// nothing is sent.
func (s *PostService) Share(ctx context.Context, senderID, postID string, req model.SharePostRequest) ([]model.Message, error) {
	if err := validateStruct(&req); err != nil {
		return nil, err
	}

	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	sender, found, err := s.repo.GetUser(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, model.ErrUserNotFound
	}
	for _, id := range req.RecipientIDs {
		if _, found, err := s.repo.GetUser(ctx, id); err != nil {
			return nil, err
		} else if !found {
			return nil, model.ErrUserNotFound
		}
		if !sender.IsConnectedTo(id) {
			return nil, model.ErrNotConnected
		}
	}

	content := fmt.Sprintf("Shared post from %s:\n\n\"%s\"", post.AuthorName, post.Content)
	sent := make([]model.Message, 0, len(req.RecipientIDs))
	for _, id := range req.RecipientIDs {
		msg, err := s.repo.SendMessage(ctx, model.Message{
			SenderID:   senderID,
			ReceiverID: id,
			Content:    content,
			Image:      post.Image,
		})
		if err != nil {
			return sent, err
		}
		sent = append(sent, msg)
	}
	return sent, nil
}

// AssistDraft suggests post text for userID. Failures fall back to a fixed text.
func (s *PostService) AssistDraft(ctx context.Context, userID string) (model.AssistDraft, error) {
	user, found, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return model.AssistDraft{}, err
	}
	if !found {
		return model.AssistDraft{}, model.ErrUserNotFound
	}
	return s.drafter.Draft(ctx, user.Role, user.Name), nil
}
