package model

import "errors"

// Comment is owned by its parent Post and carries an author snapshot.
type Comment struct {
	ID           string `json:"id"`
	AuthorID     string `json:"authorId"`
	AuthorName   string `json:"authorName"`
	AuthorAvatar string `json:"authorAvatar,omitempty"`
	Content      string `json:"content"`
	Timestamp    int64  `json:"timestamp"`
}

// CreateCommentRequest is the request body for POST /posts/{id}/comments.
type CreateCommentRequest struct {
	Content string `json:"content" validate:"max=2000"`
}

// ErrEmptyComment is returned when a comment has no text
var ErrEmptyComment = errors.New("comment content is required")
