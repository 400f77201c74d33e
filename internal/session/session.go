package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"alumniconnect/internal/events"
	"alumniconnect/internal/model"
	"alumniconnect/internal/repository"
	"alumniconnect/internal/store"
)

// State is the authentication state of a Session.
type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

const (
	// DefaultPollInterval is the fallback re-read period.
	DefaultPollInterval = 5 * time.Second

	defaultEventBuffer  = 16
	defaultUpdateBuffer = 8
)

// Options tunes a Session.
type Options struct {
	// PollInterval re-reads the user on a timer in addition to change events.
	// Zero disables the timer.
	PollInterval time.Duration
	EventBuffer  int
}

// Update is emitted after every refresh. Tick increases on every refresh;
// Changed reports whether the user snapshot was replaced. State is
// Unauthenticated when the refresh signed the user out.
type Update struct {
	User    model.User
	Changed bool
	Tick    uint64
	State   State
}

// Session keeps the signed-in user in memory and refreshes it whenever the
// store reports a change that concerns this user.
type Session struct {
	repo repository.Repository
	ptr  store.Pointer
	sub  events.Subscriber
	opts Options
	log  *zap.Logger

	mu     sync.RWMutex
	state  State
	user   model.User
	closed bool

	// refresher of the current login, nil when unauthenticated
	cancel context.CancelFunc
	unsub  func()
	done   chan struct{}

	tick    atomic.Uint64
	updates chan Update
}

// New creates an unauthenticated Session. sub may be nil, in which case only
// the poll timer drives refreshes.
func New(repo repository.Repository, ptr store.Pointer, sub events.Subscriber, opts Options, log *zap.Logger) *Session {
	if opts.EventBuffer <= 0 {
		opts.EventBuffer = defaultEventBuffer
	}
	return &Session{
		repo:    repo,
		ptr:     ptr,
		sub:     sub,
		opts:    opts,
		log:     log.Named("session"),
		updates: make(chan Update, defaultUpdateBuffer),
	}
}

// Restore resumes the session stored in the pointer. A pointer to a user that
// no longer exists is cleared.
func (s *Session) Restore(ctx context.Context) (model.User, bool, error) {
	id, ok, err := s.ptr.Get(ctx)
	if err != nil {
		return model.User{}, false, fmt.Errorf("failed to read session pointer: %w", err)
	}
	if !ok {
		return model.User{}, false, nil
	}

	user, found, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return model.User{}, false, err
	}
	if !found {
		s.log.Info("session pointer references missing user, clearing", zap.String("user_id", id))
		if err := s.ptr.Clear(ctx); err != nil {
			return model.User{}, false, fmt.Errorf("failed to clear session pointer: %w", err)
		}
		return model.User{}, false, nil
	}

	s.authenticate(user)
	return user, true, nil
}

// Login signs in by email. No match leaves the session unauthenticated.
func (s *Session) Login(ctx context.Context, email string) (model.User, bool, error) {
	user, found, err := s.repo.Login(ctx, email)
	if err != nil {
		return model.User{}, false, err
	}
	if !found {
		return model.User{}, false, nil
	}
	return user, true, s.Start(ctx, user)
}

// Start authenticates as an already resolved user.
func (s *Session) Start(ctx context.Context, user model.User) error {
	if err := s.ptr.Set(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to write session pointer: %w", err)
	}
	s.authenticate(user)
	return nil
}

// Logout clears the pointer and stops refreshing.
func (s *Session) Logout(ctx context.Context) error {
	s.stopRefresher(true)
	s.reset()
	if err := s.ptr.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session pointer: %w", err)
	}
	return nil
}

// Close stops refreshing without touching the pointer and closes Updates.
func (s *Session) Close() {
	s.stopRefresher(true)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.updates)
	}
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Current returns the in-memory snapshot of the signed-in user.
func (s *Session) Current() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.state == Authenticated
}

// Tick returns the refresh counter.
func (s *Session) Tick() uint64 {
	return s.tick.Load()
}

// Updates delivers one Update per refresh. Updates are dropped when the
// reader falls behind.
func (s *Session) Updates() <-chan Update {
	return s.updates
}

// Refresh re-reads the user now.
func (s *Session) Refresh(ctx context.Context) (bool, error) {
	return s.refresh(ctx, false)
}

func (s *Session) authenticate(user model.User) {
	s.stopRefresher(true)

	s.mu.Lock()
	s.state = Authenticated
	s.user = user
	s.mu.Unlock()

	s.startRefresher(user.ID)
	s.log.Debug("authenticated", zap.String("user_id", user.ID))
}

func (s *Session) reset() {
	s.mu.Lock()
	s.state = Unauthenticated
	s.user = model.User{}
	s.mu.Unlock()
}

func (s *Session) startRefresher(userID string) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	var (
		ch    <-chan events.ChangeEvent
		unsub func()
	)
	if s.sub != nil {
		ch, unsub = s.sub.Subscribe(s.opts.EventBuffer)
	}

	s.mu.Lock()
	s.cancel, s.unsub, s.done = cancel, unsub, done
	s.mu.Unlock()

	go s.run(ctx, userID, ch, done)
}

// stopRefresher cancels the current refresher. wait must be false when called
// from the refresher goroutine itself.
func (s *Session) stopRefresher(wait bool) {
	s.mu.Lock()
	cancel, unsub, done := s.cancel, s.unsub, s.done
	s.cancel, s.unsub, s.done = nil, nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	if unsub != nil {
		unsub()
	}
	if wait {
		<-done
	}
}

func (s *Session) run(ctx context.Context, userID string, changes <-chan events.ChangeEvent, done chan struct{}) {
	defer close(done)

	var tick <-chan time.Time
	if s.opts.PollInterval > 0 {
		ticker := time.NewTicker(s.opts.PollInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			if !ev.Affects(userID) {
				continue
			}
		case <-tick:
		}

		if _, err := s.refresh(ctx, true); err != nil && ctx.Err() == nil {
			s.log.Warn("refresh failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
}

// refresh re-reads the user and replaces the snapshot when the request, connection
// or view counts moved. The tick is bumped whatever the outcome.
func (s *Session) refresh(ctx context.Context, fromRefresher bool) (bool, error) {
	s.mu.RLock()
	state, id := s.state, s.user.ID
	s.mu.RUnlock()
	if state != Authenticated {
		return false, nil
	}

	fresh, found, err := s.repo.GetUser(ctx, id)
	if err != nil {
		s.bump(false)
		return false, err
	}
	if !found {
		s.log.Info("signed-in user disappeared, logging out", zap.String("user_id", id))
		s.stopRefresher(!fromRefresher)
		s.reset()
		s.bump(false)
		// ctx may belong to the refresher that was just cancelled.
		if err := s.ptr.Clear(context.WithoutCancel(ctx)); err != nil {
			return false, fmt.Errorf("failed to clear session pointer: %w", err)
		}
		return false, nil
	}

	changed := false
	s.mu.Lock()
	if s.state == Authenticated && s.user.ID == id && snapshotDiffers(s.user, fresh) {
		s.user = fresh
		changed = true
	}
	s.mu.Unlock()

	s.bump(changed)
	return changed, nil
}

func (s *Session) bump(changed bool) {
	tick := s.tick.Add(1)

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.updates <- Update{User: s.user, Changed: changed, Tick: tick, State: s.state}:
	default:
	}
}

// snapshotDiffers compares the fields other members can change.
func snapshotDiffers(old, fresh model.User) bool {
	return len(old.IncomingRequests) != len(fresh.IncomingRequests) ||
		len(old.Connections) != len(fresh.Connections) ||
		old.ProfileViews != fresh.ProfileViews
}
