package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"alumniconnect/internal/model"
)

// AddComment appends a comment carrying a snapshot of the author.
func (s *PostService) AddComment(ctx context.Context, postID, authorID string, req model.CreateCommentRequest) (model.Comment, error) {
	if err := validateStruct(&req); err != nil {
		return model.Comment{}, err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return model.Comment{}, model.ErrEmptyComment
	}

	if _, err := s.Get(ctx, postID); err != nil {
		return model.Comment{}, err
	}
	author, found, err := s.repo.GetUser(ctx, authorID)
	if err != nil {
		return model.Comment{}, err
	}
	if !found {
		return model.Comment{}, model.ErrUserNotFound
	}

	comment := model.Comment{
		ID:           uuid.NewString(),
		AuthorID:     author.ID,
		AuthorName:   author.Name,
		AuthorAvatar: author.Avatar,
		Content:      content,
		Timestamp:    time.Now().UnixMilli(),
	}
	if err := s.repo.AddComment(ctx, postID, comment); err != nil {
		return model.Comment{}, err
	}
	return comment, nil
}
