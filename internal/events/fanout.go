package events

import (
	"context"

	"go.uber.org/zap"
)

// Fanout publishes to the local broker and mirrors events to a remote
// publisher (the shared stream) so other instances see them too. Remote
// failures are logged and never fail the caller.
type Fanout struct {
	local  Publisher
	remote Publisher
	origin string
	log    *zap.Logger
}

// NewFanout creates a Fanout. remote may be nil.
func NewFanout(local, remote Publisher, origin string, log *zap.Logger) *Fanout {
	return &Fanout{local: local, remote: remote, origin: origin, log: log.Named("fanout")}
}

func (f *Fanout) Publish(ctx context.Context, event ChangeEvent) error {
	if event.Origin == "" {
		event.Origin = f.origin
	}

	if err := f.local.Publish(ctx, event); err != nil {
		return err
	}

	if f.remote != nil {
		if err := f.remote.Publish(ctx, event); err != nil {
			f.log.Warn("failed to mirror change event",
				zap.String("type", string(event.Type)), zap.Error(err))
		}
	}
	return nil
}
