package http

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"alumniconnect/internal/assist"
	"alumniconnect/internal/config"
	"alumniconnect/internal/database"
	"alumniconnect/internal/events"
	"alumniconnect/internal/handler"
	"alumniconnect/internal/logging"
	"alumniconnect/internal/media"
	"alumniconnect/internal/queue"
	"alumniconnect/internal/redis"
	"alumniconnect/internal/repository"
	"alumniconnect/internal/service"
	"alumniconnect/internal/session"
	"alumniconnect/internal/store"
	"alumniconnect/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func Run() error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logging.New(cfg.LogLevel, cfg.IsDevelopment())
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Open the store backend
	kv, rdb, closeBackend, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeBackend()

	st := store.New(kv, cfg.KeyPrefix, log)
	if err := st.Seed(ctx, time.Now()); err != nil {
		return fmt.Errorf("failed to seed store: %w", err)
	}

	// 3. Change events: local broker, optionally mirrored through the Redis stream
	broker := events.NewBroker(log)
	var publisher events.Publisher = broker
	var workers *worker.Manager
	if cfg.EventStreamEnabled {
		if rdb == nil {
			if rdb, err = connectRedis(ctx, cfg); err != nil {
				return err
			}
			defer rdb.Close()
		}
		publisher = events.NewFanout(broker, queue.NewPublisher(rdb.Client, queue.StreamChanges, log), cfg.InstanceID, log)

		workers = worker.NewManager(
			queue.NewConsumer(rdb.Client, log),
			worker.NewHandler(broker, cfg.InstanceID, log),
			worker.DefaultManagerConfig(cfg.InstanceID),
			log,
		)
		if err := workers.Start(ctx); err != nil {
			return fmt.Errorf("failed to start change stream workers: %w", err)
		}
		defer workers.Stop()
	}

	repo := repository.NewRepository(st, publisher, log)

	// 4. Collaborators
	mediaService, err := media.NewService(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to init media service: %w", err)
	}

	var gen assist.TextGenerator
	if client := assist.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel); client != nil {
		gen = client
	}
	drafter := assist.NewDrafter(gen, log)

	// 5. Services and handlers
	userService := service.NewUserService(repo, mediaService, log)
	authService := service.NewAuthService(cfg)
	connService := service.NewConnectionService(repo, log)
	postService := service.NewPostService(repo, mediaService, drafter, log)
	messageService := service.NewMessageService(repo, mediaService, log)
	notifService := service.NewNotificationService(repo)

	sessionOpts := session.Options{PollInterval: cfg.SessionPollInterval}
	router := NewRouter(RouterConfig{
		AuthHandler:         handler.NewAuthHandler(userService, authService, cfg, log),
		UserHandler:         handler.NewUserHandler(userService, log),
		ConnectionHandler:   handler.NewConnectionHandler(connService, log),
		PostHandler:         handler.NewPostHandler(postService, log),
		MessageHandler:      handler.NewMessageHandler(messageService, log),
		NotificationHandler: handler.NewNotificationHandler(notifService, log),
		SessionHandler:      handler.NewSessionHandler(repo, broker, sessionOpts, log),
		JWTSecret:           cfg.JWTSecret,
	})

	// 6. Serve until signalled
	srv := &stdhttp.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server",
			zap.String("addr", srv.Addr),
			zap.String("backend", cfg.StoreBackend),
			zap.String("instance_id", cfg.InstanceID),
			zap.Bool("event_stream", cfg.EventStreamEnabled))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, stdhttp.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", zap.Int("open_sessions", broker.Subscribers()))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

// openBackend returns the KV for cfg.StoreBackend. The Redis client is
// returned too when the backend uses one, so the change stream can share it.
func openBackend(ctx context.Context, cfg *config.Config, log *zap.Logger) (store.KV, *redis.Client, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		rdb, err := connectRedis(ctx, cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		return store.NewRedisKV(rdb.Client), rdb, func() { rdb.Close() }, nil

	case config.BackendPostgres:
		db, err := database.Connect(cfg, log)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		kv := store.NewPostgresKV(db)
		if err := kv.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("failed to prepare schema: %w", err)
		}
		return kv, nil, func() { db.Close() }, nil

	default:
		return store.NewMemoryKV(), nil, func() {}, nil
	}
}

func connectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rdb, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}
	if err := rdb.Ping(ctx); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}
