package store

import (
	"context"
	"time"

	"go.uber.org/zap"

	"alumniconnect/internal/model"
)

// Collection names, also used as ChangeEvent.Collection.
const (
	CollectionUsers         = "users"
	CollectionPosts         = "posts"
	CollectionMessages      = "messages"
	CollectionNotifications = "notifications"

	sessionKeySuffix = "current_user_id"
)

// Store groups the four collections and the session pointer under one key prefix.
type Store struct {
	kv KV

	Users         *Collection[model.User]
	Posts         *Collection[model.Post]
	Messages      *Collection[model.Message]
	Notifications *Collection[model.Notification]
	Session       Pointer

	log *zap.Logger
}

// New builds a Store over kv with keys named <prefix>_<collection>.
func New(kv KV, prefix string, log *zap.Logger) *Store {
	log = log.Named("store")
	key := func(name string) string { return prefix + "_" + name }

	return &Store{
		kv:            kv,
		Users:         NewCollection(kv, key(CollectionUsers), (*model.User).Normalize, log),
		Posts:         NewCollection(kv, key(CollectionPosts), (*model.Post).Normalize, log),
		Messages:      NewCollection[model.Message](kv, key(CollectionMessages), nil, log),
		Notifications: NewCollection[model.Notification](kv, key(CollectionNotifications), nil, log),
		Session:       &kvPointer{kv: kv, key: key(sessionKeySuffix)},
		log:           log,
	}
}

// Seed fills every absent collection: the demo roster, two demo posts, and
// empty message and notification lists. Existing keys are left alone.
func (s *Store) Seed(ctx context.Context, now time.Time) error {
	seeded, err := s.Users.Seed(ctx, SeedUsers())
	if err != nil {
		return err
	}
	if seeded {
		s.log.Info("seeded collection", zap.String("key", s.Users.Key()))
	}

	if seeded, err = s.Posts.Seed(ctx, SeedPosts(now)); err != nil {
		return err
	}
	if seeded {
		s.log.Info("seeded collection", zap.String("key", s.Posts.Key()))
	}

	if _, err = s.Messages.Seed(ctx, []model.Message{}); err != nil {
		return err
	}
	if _, err = s.Notifications.Seed(ctx, []model.Notification{}); err != nil {
		return err
	}
	return nil
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.kv.Close()
}
