package model

import "errors"

// Message is a direct message. Read is part of the stored record but no
// operation ever sets it.
type Message struct {
	ID         string `json:"id"`
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
	Image      string `json:"image,omitempty"`
	Timestamp  int64  `json:"timestamp"`
	Read       bool   `json:"read"`
}

// Involves reports whether the message belongs to the conversation between a and b.
func (m *Message) Involves(a, b string) bool {
	return (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a)
}

// SendMessageRequest is the request body for POST /messages/{userId}.
type SendMessageRequest struct {
	Content string `json:"content" validate:"max=5000"`
	Image   string `json:"image"`
}

// Conversation summarizes a chat partner for the messaging sidebar.
type Conversation struct {
	Partner     UserSummary `json:"partner"`
	LastMessage *Message    `json:"lastMessage,omitempty"`
}

// ErrEmptyMessage is returned when a message has neither text nor an image
var ErrEmptyMessage = errors.New("message must have content or an image")

// Error codes for HTTP responses
const (
	CodeEmptyMessage = "EMPTY_MESSAGE"
)
