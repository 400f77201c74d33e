package worker

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"alumniconnect/internal/events"
)

// Handler relays change events written by other instances into the local
// broker, so sessions connected here refresh on remote writes too.
type Handler struct {
	local      events.Publisher
	instanceID string
	log        *zap.Logger
}

// NewHandler creates a relay for instanceID. Events carrying that origin were
// already delivered locally by events.Fanout and are skipped.
func NewHandler(local events.Publisher, instanceID string, log *zap.Logger) *Handler {
	return &Handler{local: local, instanceID: instanceID, log: log.Named("relay")}
}

// HandleEvent reports whether the event was relayed.
func (h *Handler) HandleEvent(ctx context.Context, event events.ChangeEvent) (bool, error) {
	if event.Origin == h.instanceID {
		return false, nil
	}
	if err := h.local.Publish(ctx, event); err != nil {
		return false, fmt.Errorf("relay %s: %w", event.Type, err)
	}

	h.log.Debug("relayed remote change",
		zap.String("type", string(event.Type)),
		zap.String("origin", event.Origin),
		zap.Int64("revision", event.Revision))
	return true, nil
}
