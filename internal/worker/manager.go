package worker

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"alumniconnect/internal/queue"
)

const (
	// DefaultWorkerCount is the default number of worker goroutines
	DefaultWorkerCount = 1

	// DefaultBatchSize is the number of messages to read per batch
	DefaultBatchSize = 32

	// DefaultBlockTimeout is how long to block waiting for new messages
	DefaultBlockTimeout = 5 * time.Second

	errorBackoff = time.Second
	stopTimeout  = 2 * time.Second
)

// Manager runs the goroutines that consume the change stream for this instance.
type Manager struct {
	consumer    queue.Consumer
	handler     *Handler
	stream      string
	group       string
	workerCount int
	batchSize   int64
	blockTime   time.Duration
	log         *zap.Logger

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// ManagerConfig holds configuration for the worker manager.
type ManagerConfig struct {
	Stream       string
	Group        string
	WorkerCount  int           // Number of worker goroutines
	BatchSize    int64         // Messages per read
	BlockTimeout time.Duration // Block time for XREADGROUP
}

// DefaultManagerConfig returns the config for instanceID on the shared change stream.
func DefaultManagerConfig(instanceID string) ManagerConfig {
	return ManagerConfig{
		Stream:       queue.StreamChanges,
		Group:        queue.GroupFor(instanceID),
		WorkerCount:  DefaultWorkerCount,
		BatchSize:    DefaultBatchSize,
		BlockTimeout: DefaultBlockTimeout,
	}
}

func NewManager(consumer queue.Consumer, handler *Handler, cfg ManagerConfig, log *zap.Logger) *Manager {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = DefaultWorkerCount
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BlockTimeout <= 0 {
		cfg.BlockTimeout = DefaultBlockTimeout
	}

	return &Manager{
		consumer:    consumer,
		handler:     handler,
		stream:      cfg.Stream,
		group:       cfg.Group,
		workerCount: cfg.WorkerCount,
		batchSize:   cfg.BatchSize,
		blockTime:   cfg.BlockTimeout,
		log:         log.Named("worker"),
	}
}

// Start ensures the consumer group and spins up the workers.
// Call Stop() to shut down.
func (m *Manager) Start(ctx context.Context) error {
	m.ctx, m.cancel = context.WithCancel(ctx)

	if err := m.consumer.EnsureGroup(m.ctx, m.stream, m.group); err != nil {
		m.cancel()
		return err
	}

	for i := 1; i <= m.workerCount; i++ {
		m.wg.Add(1)
		go m.runWorker(i, consumerName(i))
	}

	m.log.Info("workers started",
		zap.Int("count", m.workerCount), zap.String("stream", m.stream), zap.String("group", m.group))
	return nil
}

// Stop cancels the workers and blocks until they have returned. Entries still
// pending are replayed by the next Start.
func (m *Manager) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	m.wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	pending, err := m.Backlog(ctx)
	if err != nil {
		m.log.Warn("workers stopped, backlog unknown", zap.Error(err))
		return
	}
	m.log.Info("workers stopped", zap.Int64("pending", pending))
}

// Backlog returns how many delivered entries the group has not acknowledged.
func (m *Manager) Backlog(ctx context.Context) (int64, error) {
	return m.consumer.Pending(ctx, m.stream, m.group)
}

func (m *Manager) runWorker(workerID int, consumer string) {
	defer m.wg.Done()
	log := m.log.With(zap.Int("worker", workerID))

	// Pending entries are left over from a crash before Ack.
	m.processPending(log, consumer)

	for {
		select {
		case <-m.ctx.Done():
			return
		default:
			m.processMessages(log, consumer)
		}
	}
}

func (m *Manager) processPending(log *zap.Logger, consumer string) {
	for {
		messages, err := m.consumer.ReadPending(m.ctx, m.stream, m.group, consumer, m.batchSize)
		if err != nil {
			if m.ctx.Err() == nil {
				log.Warn("failed to read pending messages", zap.Error(err))
			}
			return
		}
		if len(messages) == 0 {
			return
		}
		log.Info("replaying pending messages", zap.Int("count", len(messages)))
		m.handleMessages(log, messages)
	}
}

func (m *Manager) processMessages(log *zap.Logger, consumer string) {
	messages, err := m.consumer.Read(m.ctx, m.stream, m.group, consumer, m.batchSize, m.blockTime)
	if err != nil {
		if m.ctx.Err() != nil {
			return
		}
		log.Warn("failed to read stream", zap.Error(err))
		select {
		case <-m.ctx.Done():
		case <-time.After(errorBackoff):
		}
		return
	}

	m.handleMessages(log, messages)
}

// handleMessages relays and acknowledges each message. Handler errors are
// still acked; a lost relay only delays a session until its next poll.
func (m *Manager) handleMessages(log *zap.Logger, messages []queue.Message) {
	for _, msg := range messages {
		if _, err := m.handler.HandleEvent(m.ctx, msg.Event); err != nil {
			log.Warn("handler error", zap.String("msg_id", msg.ID), zap.Error(err))
		}
		if err := m.consumer.Ack(m.ctx, m.stream, m.group, msg.ID); err != nil {
			log.Warn("ack failed", zap.String("msg_id", msg.ID), zap.Error(err))
		}
	}
}

func consumerName(workerID int) string {
	return "worker-" + strconv.Itoa(workerID)
}
