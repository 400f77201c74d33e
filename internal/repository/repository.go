package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alumniconnect/internal/events"
	"alumniconnect/internal/store"
)

// kvRepository implements Repository with whole-collection compare-and-set
// updates on a store.Store.
type kvRepository struct {
	store  *store.Store
	events events.Publisher
	log    *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewRepository creates a Repository. Change events are published to pub after
// every write; pass events.Discard to disable them.
func NewRepository(st *store.Store, pub events.Publisher, log *zap.Logger) Repository {
	if pub == nil {
		pub = events.Discard
	}
	return &kvRepository{
		store:  st,
		events: pub,
		log:    log.Named("repository"),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func (r *kvRepository) nowMillis() int64 {
	return r.now().UnixMilli()
}

// publish announces a committed write. Failures are logged only.
func (r *kvRepository) publish(ctx context.Context, t events.ChangeType, collection string, revision int64, userIDs ...string) {
	event := events.NewChangeEvent(t, collection, revision, userIDs...)
	if err := r.events.Publish(ctx, event); err != nil {
		r.log.Warn("failed to publish change event",
			zap.String("type", string(t)), zap.Int64("revision", revision), zap.Error(err))
	}
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
