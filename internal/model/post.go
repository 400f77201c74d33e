package model

import "errors"

// Post is a feed entry. Author fields are a snapshot taken when the post was created
// and are not resynced when the profile changes.
type Post struct {
	ID             string    `json:"id"`
	AuthorID       string    `json:"authorId"`
	AuthorName     string    `json:"authorName"`
	AuthorHeadline string    `json:"authorHeadline"`
	AuthorAvatar   string    `json:"authorAvatar,omitempty"`
	Content        string    `json:"content"`
	Image          string    `json:"image,omitempty"`
	Timestamp      int64     `json:"timestamp"` // unix millis
	Likes          []string  `json:"likes"`
	Comments       []Comment `json:"comments"`
}

// Normalize fills in the fields older records may be missing.
func (p *Post) Normalize() {
	if p.Likes == nil {
		p.Likes = []string{}
	}
	if p.Comments == nil {
		p.Comments = []Comment{}
	}
}

// LikedBy reports whether userID is in the post's likes.
func (p *Post) LikedBy(userID string) bool {
	return containsID(p.Likes, userID)
}

// CreatePostRequest is the request body for POST /posts.
type CreatePostRequest struct {
	Content string `json:"content" validate:"max=5000"`
	Image   string `json:"image"`
}

// SharePostRequest is the request body for POST /posts/{id}/share.
type SharePostRequest struct {
	RecipientIDs []string `json:"recipientIds" validate:"required,min=1,dive,required"`
}

// AssistDraft is the result of a text-generation request.
type AssistDraft struct {
	Text      string `json:"text"`
	Generated bool   `json:"generated"`
}

var (
	// ErrPostNotFound is returned when a post cannot be found
	ErrPostNotFound = errors.New("post not found")

	// ErrEmptyPost is returned when a post has neither text nor an image
	ErrEmptyPost = errors.New("post must have content or an image")
)

// Error codes for HTTP responses
const (
	CodeEmptyPost = "EMPTY_POST"
)
