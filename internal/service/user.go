package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"alumniconnect/internal/model"
	"alumniconnect/internal/repository"
)

// ImageOffloader turns an image payload into the value to persist.
type ImageOffloader interface {
	Offload(ctx context.Context, payload string, kind model.ImageKind) (string, error)
}

// UserService handles business logic for profiles and the network page.
type UserService struct {
	repo  repository.Repository
	media ImageOffloader
	log   *zap.Logger
}

// NewUserService accepts a nil media offloader, in which case image payloads
// are stored as given.
func NewUserService(repo repository.Repository, media ImageOffloader, log *zap.Logger) *UserService {
	return &UserService{repo: repo, media: media, log: log.Named("user_service")}
}

// Register creates an account. Email uniqueness is checked case-insensitively.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (model.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" {
		return model.User{}, model.ErrNameRequired
	}
	if req.Email == "" {
		return model.User{}, model.ErrEmailRequired
	}
	if err := validateStruct(req); err != nil {
		if ve, ok := err.(*ValidationError); ok {
			if _, bad := ve.Fields["email"]; bad {
				return model.User{}, model.ErrInvalidEmail
			}
		}
		return model.User{}, err
	}

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return model.User{}, err
	}
	for _, u := range users {
		if strings.EqualFold(strings.TrimSpace(u.Email), req.Email) {
			return model.User{}, model.ErrEmailExists
		}
	}

	avatar, err := offload(ctx, s.media, req.Avatar, model.ImageAvatar)
	if err != nil {
		return model.User{}, err
	}

	user, err := s.repo.CreateUser(ctx, model.NewUser{
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		Headline: strings.TrimSpace(req.Headline),
		Avatar:   avatar,
		Skills:   model.ParseSkills(req.Skills),
	})
	if err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("user registered", zap.String("user_id", user.ID))
	return user, nil
}

// Login resolves a member by email. No password is involved.
func (s *UserService) Login(ctx context.Context, email string) (model.User, error) {
	user, found, err := s.repo.Login(ctx, email)
	if err != nil {
		return model.User{}, err
	}
	if !found {
		return model.User{}, model.ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetProfile(ctx context.Context, id string) (model.User, error) {
	user, found, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	if !found {
		return model.User{}, model.ErrUserNotFound
	}
	return user, nil
}

// ListUsers returns every member matching query on name, headline or any
// skill, case-insensitively. An empty query matches everyone.
func (s *UserService) ListUsers(ctx context.Context, query string) ([]model.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return users, nil
	}

	out := make([]model.User, 0, len(users))
	for _, u := range users {
		if matchesUser(u, q) {
			out = append(out, u)
		}
	}
	return out, nil
}

func matchesUser(u model.User, q string) bool {
	if strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(strings.ToLower(u.Headline), q) {
		return true
	}
	for _, skill := range u.Skills {
		if strings.Contains(strings.ToLower(skill), q) {
			return true
		}
	}
	return false
}

// UpdateProfile replaces the editable fields. Identity, email and the
// connection graph come from the stored record at write time.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *model.UpdateProfileRequest) (model.User, error) {
	if err := validateStruct(req); err != nil {
		return model.User{}, err
	}

	current, err := s.GetProfile(ctx, userID)
	if err != nil {
		return model.User{}, err
	}

	avatar := current.Avatar
	if req.Avatar != "" && req.Avatar != current.Avatar {
		if avatar, err = offload(ctx, s.media, req.Avatar, model.ImageAvatar); err != nil {
			return model.User{}, err
		}
	}

	user, found, err := s.repo.UpdateProfile(ctx, userID, func(u *model.User) {
		u.Name = strings.TrimSpace(req.Name)
		u.Headline = req.Headline
		u.About = req.About
		u.Location = req.Location
		u.Avatar = avatar
		u.Skills = req.Skills
		if req.Role != "" {
			u.Role = req.Role
		}
	})
	if err != nil {
		return model.User{}, err
	}
	if !found {
		return model.User{}, model.ErrUserNotFound
	}
	return user, nil
}

// ViewProfile returns the target profile and counts the view unless the
// viewer is looking at their own profile.
func (s *UserService) ViewProfile(ctx context.Context, viewerID, targetID string) (model.User, error) {
	target, err := s.GetProfile(ctx, targetID)
	if err != nil {
		return model.User{}, err
	}
	if viewerID == targetID {
		return target, nil
	}

	if err := s.repo.IncrementProfileViews(ctx, targetID); err != nil {
		return model.User{}, err
	}
	target.ProfileViews++
	return target, nil
}

// Network builds the network page: connections, pending requests and
// suggestions, each flagged with whether the caller's request is pending.
func (s *UserService) Network(ctx context.Context, userID string) (*model.NetworkResponse, error) {
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

	resp := &model.NetworkResponse{
		Connections: []model.UserSummary{},
		Requests:    []model.UserSummary{},
		Suggestions: []model.UserSummary{},
	}
	for _, u := range users {
		if u.ID == userID {
			continue
		}
		summary := u.Summary()
		summary.IsPending = u.HasRequestFrom(userID)

		switch {
		case me.IsConnectedTo(u.ID):
			resp.Connections = append(resp.Connections, summary)
		default:
			resp.Suggestions = append(resp.Suggestions, summary)
		}
		if me.HasRequestFrom(u.ID) {
			resp.Requests = append(resp.Requests, summary)
		}
	}
	return resp, nil
}

func offload(ctx context.Context, media ImageOffloader, payload string, kind model.ImageKind) (string, error) {
	if media == nil {
		return strings.TrimSpace(payload), nil
	}
	return media.Offload(ctx, payload, kind)
}
