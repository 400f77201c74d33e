package repository

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"alumniconnect/internal/events"
	"alumniconnect/internal/model"
	"alumniconnect/internal/store"
)

const avatarSeedURL = "https://picsum.photos/seed/%s/200"

func (r *kvRepository) ListUsers(ctx context.Context) ([]model.User, error) {
	users, _, err := r.store.Users.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *kvRepository) GetUser(ctx context.Context, id string) (model.User, bool, error) {
	users, err := r.ListUsers(ctx)
	if err != nil {
		return model.User{}, false, err
	}
	if i := indexOfUser(users, id); i >= 0 {
		return users[i], true, nil
	}
	return model.User{}, false, nil
}

func (r *kvRepository) CreateUser(ctx context.Context, data model.NewUser) (model.User, error) {
	id := r.newID()
	user := model.User{
		ID:       id,
		Name:     data.Name,
		Email:    data.Email,
		Role:     data.Role,
		Headline: data.Headline,
		About:    data.About,
		Location: data.Location,
		Avatar:   data.Avatar,
		Skills:   data.Skills,
	}
	if user.Role == "" {
		user.Role = model.RoleStudent
	}
	if user.Avatar == "" {
		user.Avatar = fmt.Sprintf(avatarSeedURL, id)
	}
	user.Normalize()

	rev, _, err := r.store.Users.Update(ctx, func(users []model.User) ([]model.User, bool) {
		return append(users, user), true
	})
	if err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	r.log.Info("user created", zap.String("user_id", id), zap.String("role", string(user.Role)))
	r.publish(ctx, events.UserCreated, store.CollectionUsers, rev, id)
	return user, nil
}

func (r *kvRepository) Login(ctx context.Context, email string) (model.User, bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return model.User{}, false, nil
	}

	users, err := r.ListUsers(ctx)
	if err != nil {
		return model.User{}, false, err
	}
	for _, u := range users {
		if strings.EqualFold(strings.TrimSpace(u.Email), email) {
			return u, true, nil
		}
	}
	return model.User{}, false, nil
}

func (r *kvRepository) UpdateUser(ctx context.Context, user model.User) error {
	user.Normalize()

	rev, changed, err := r.store.Users.Update(ctx, func(users []model.User) ([]model.User, bool) {
		i := indexOfUser(users, user.ID)
		if i < 0 {
			return users, false
		}
		users[i] = user
		return users, true
	})
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if changed {
		r.publish(ctx, events.UserUpdated, store.CollectionUsers, rev, user.ID)
	}
	return nil
}

// UpdateProfile applies edit to the freshly loaded record inside the CAS
// update, so graph fields written concurrently by other members survive.
// edit must only touch editable fields; identity and graph are restored after it.
func (r *kvRepository) UpdateProfile(ctx context.Context, id string, edit func(*model.User)) (model.User, bool, error) {
	var updated model.User
	rev, changed, err := r.store.Users.Update(ctx, func(users []model.User) ([]model.User, bool) {
		i := indexOfUser(users, id)
		if i < 0 {
			return users, false
		}
		stored := users[i]
		u := stored
		edit(&u)

		u.ID = stored.ID
		u.Email = stored.Email
		u.Connections = stored.Connections
		u.IncomingRequests = stored.IncomingRequests
		u.ProfileViews = stored.ProfileViews
		u.Normalize()

		users[i] = u
		updated = u
		return users, true
	})
	if err != nil {
		return model.User{}, false, fmt.Errorf("failed to update profile: %w", err)
	}
	if !changed {
		return model.User{}, false, nil
	}

	r.publish(ctx, events.UserUpdated, store.CollectionUsers, rev, id)
	return updated, true, nil
}

func (r *kvRepository) IncrementProfileViews(ctx context.Context, id string) error {
	rev, changed, err := r.store.Users.Update(ctx, func(users []model.User) ([]model.User, bool) {
		i := indexOfUser(users, id)
		if i < 0 {
			return users, false
		}
		users[i].ProfileViews++
		return users, true
	})
	if err != nil {
		return fmt.Errorf("failed to increment profile views: %w", err)
	}
	if changed {
		r.publish(ctx, events.ProfileViewed, store.CollectionUsers, rev, id)
	}
	return nil
}

func indexOfUser(users []model.User, id string) int {
	for i := range users {
		if users[i].ID == id {
			return i
		}
	}
	return -1
}
