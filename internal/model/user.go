package model

import (
	"errors"
	"strings"
)

// Role distinguishes current students from graduates.
type Role string

const (
	RoleStudent Role = "Student"
	RoleAlumni  Role = "Alumni"
)

// User represents a member profile together with its slice of the connection graph.
type User struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Role             Role     `json:"role"`
	Headline         string   `json:"headline"`
	About            string   `json:"about,omitempty"`
	Location         string   `json:"location,omitempty"`
	Avatar           string   `json:"avatar,omitempty"`
	Skills           []string `json:"skills"`
	Connections      []string `json:"connections"`
	IncomingRequests []string `json:"incomingRequests"`
	ProfileViews     int      `json:"profileViews"`
}

// Normalize fills in the fields older records may be missing.
func (u *User) Normalize() {
	if u.Skills == nil {
		u.Skills = []string{}
	}
	if u.Connections == nil {
		u.Connections = []string{}
	}
	if u.IncomingRequests == nil {
		u.IncomingRequests = []string{}
	}
	if u.ProfileViews < 0 {
		u.ProfileViews = 0
	}
}

// IsConnectedTo reports whether id is in the user's connections.
func (u *User) IsConnectedTo(id string) bool {
	return containsID(u.Connections, id)
}

// HasRequestFrom reports whether id has a pending request to this user.
func (u *User) HasRequestFrom(id string) bool {
	return containsID(u.IncomingRequests, id)
}

// NewUser carries the caller-supplied fields for user creation.
// Empty fields receive defaults in the data layer.
type NewUser struct {
	Name     string
	Email    string
	Role     Role
	Headline string
	About    string
	Location string
	Avatar   string
	Skills   []string
}

// UserSummary is the public view of a user embedded in network listings.
type UserSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Headline  string `json:"headline"`
	Avatar    string `json:"avatar,omitempty"`
	Role      Role   `json:"role"`
	IsPending bool   `json:"isPending"`
}

// Summary builds the public view of u.
func (u User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		Name:     u.Name,
		Headline: u.Headline,
		Avatar:   u.Avatar,
		Role:     u.Role,
	}
}

// RegisterRequest represents the data needed to register a new user
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Role     Role   `json:"role" validate:"omitempty,oneof=Student Alumni"`
	Headline string `json:"headline"`
	Skills   string `json:"skills"` // comma separated
	Avatar   string `json:"avatar"`
}

// LoginRequest represents the data needed to log in
type LoginRequest struct {
	Email string `json:"email" validate:"required"`
}

// UpdateProfileRequest replaces the editable part of a profile.
type UpdateProfileRequest struct {
	Name     string   `json:"name" validate:"required"`
	Role     Role     `json:"role" validate:"omitempty,oneof=Student Alumni"`
	Headline string   `json:"headline"`
	About    string   `json:"about"`
	Location string   `json:"location"`
	Avatar   string   `json:"avatar"`
	Skills   []string `json:"skills"`
}

// NetworkResponse is the network page payload.
type NetworkResponse struct {
	Connections []UserSummary `json:"connections"`
	Requests    []UserSummary `json:"requests"`
	Suggestions []UserSummary `json:"suggestions"`
}

// ParseSkills splits a comma separated skill list, trimming entries and dropping empty ones.
func ParseSkills(raw string) []string {
	skills := []string{}
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailExists is returned when attempting to register an email that is taken
	ErrEmailExists = errors.New("email already registered")

	// ErrInvalidCredentials is returned when no user matches the login email
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrNameRequired  = errors.New("name is required")
	ErrEmailRequired = errors.New("email is required")
	ErrInvalidEmail  = errors.New("invalid email")

	// ErrSelfConnection is returned when a user tries to connect with themselves
	ErrSelfConnection = errors.New("cannot connect with yourself")

	// ErrNotConnected is returned when a post is shared with someone outside the sender's connections
	ErrNotConnected = errors.New("recipient is not a connection")
)

// Error codes for HTTP responses
const (
	CodeEmailExists        = "EMAIL_EXISTS"
	CodeNotConnected       = "NOT_CONNECTED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeTokenInvalid       = "TOKEN_INVALID"
)
