package worker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alumniconnect/internal/events"
	"alumniconnect/internal/queue"
	"alumniconnect/internal/worker"
)

// =============================================================================
// Mock Implementations
// =============================================================================

type mockPublisher struct {
	publishFn func(ctx context.Context, event events.ChangeEvent) error
	published []events.ChangeEvent
}

func (m *mockPublisher) Publish(ctx context.Context, event events.ChangeEvent) error {
	if m.publishFn != nil {
		if err := m.publishFn(ctx, event); err != nil {
			return err
		}
	}
	m.published = append(m.published, event)
	return nil
}

// =============================================================================
// Handler
// =============================================================================

func TestHandler_HandleEvent(t *testing.T) {
	tests := []struct {
		name        string
		origin      string
		publishErr  error
		wantRelayed bool
		wantErr     bool
	}{
		{name: "remote event is relayed", origin: "instance-b", wantRelayed: true},
		{name: "own event is skipped", origin: "instance-a"},
		{name: "local publish failure", origin: "instance-b", publishErr: errors.New("boom"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &mockPublisher{
				publishFn: func(context.Context, events.ChangeEvent) error { return tt.publishErr },
			}
			h := worker.NewHandler(pub, "instance-a", zap.NewNop())

			event := events.NewChangeEvent(events.PostLiked, "posts", 4, "user_2")
			event.Origin = tt.origin

			relayed, err := h.HandleEvent(context.Background(), event)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRelayed, relayed)
			if tt.wantRelayed {
				assert.Equal(t, []events.ChangeEvent{event}, pub.published)
			} else {
				assert.Empty(t, pub.published)
			}
		})
	}
}

// =============================================================================
// Manager against a stream
// =============================================================================

func TestManager_RelaysRemoteChangesIntoBroker(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	ctx := context.Background()
	broker := events.NewBroker(zap.NewNop())
	ch, cancel := broker.Subscribe(8)
	defer cancel()

	cfg := worker.DefaultManagerConfig("instance-a")
	cfg.BlockTimeout = 20 * time.Millisecond
	m := worker.NewManager(
		queue.NewConsumer(client, zap.NewNop()),
		worker.NewHandler(broker, "instance-a", zap.NewNop()),
		cfg,
		zap.NewNop(),
	)
	require.NoError(t, m.Start(ctx))
	defer m.Stop()

	pub := queue.NewPublisher(client, queue.StreamChanges, zap.NewNop())

	own := events.NewChangeEvent(events.MessageSent, "messages", 1, "user_1", "user_2")
	own.Origin = "instance-a"
	require.NoError(t, pub.Publish(ctx, own))

	remote := events.NewChangeEvent(events.ConnectionAccepted, "users", 9, "user_2", "user_1")
	remote.Origin = "instance-b"
	require.NoError(t, pub.Publish(ctx, remote))

	select {
	case got := <-ch:
		assert.Equal(t, remote, got)
	case <-time.After(2 * time.Second):
		t.Fatal("remote change was not relayed")
	}

	select {
	case got := <-ch:
		t.Fatalf("unexpected relay %+v", got)
	case <-time.After(100 * time.Millisecond):
	}

	assert.Eventually(t, func() bool {
		n, err := m.Backlog(ctx)
		return err == nil && n == 0
	}, time.Second, 20*time.Millisecond)
}

func TestManager_StopWithoutStart(t *testing.T) {
	m := worker.NewManager(nil, nil, worker.ManagerConfig{}, zap.NewNop())
	m.Stop()
}
