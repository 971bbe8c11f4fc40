// Package session tracks the authentication session and the profile attached
// to it as a single observable state machine. The manager listens to identity
// provider events, persists the refresh token for startup resume, and keeps
// the profile in sync with the session without ever doing that work inline
// with the event that triggered it.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"farmferia/internal/domain/entity"
	domainErrors "farmferia/internal/domain/errors"
	"farmferia/internal/domain/service"
	"farmferia/internal/usecase"

	"go.uber.org/fx"
)

// State names a position in the session state machine.
type State string

const (
	// StateUnauthenticated means no session is held.
	StateUnauthenticated State = "unauthenticated"
	// StateAuthenticating means a sign-in, sign-up, or resume is in flight.
	StateAuthenticating State = "authenticating"
	// StateProfileLoading means a session is held and the profile sync is queued or running.
	StateProfileLoading State = "profile_loading"
	// StateProfileReady means a session is held and its profile is loaded.
	StateProfileReady State = "profile_ready"
	// StateNoProfile means a session is held but the profile sync failed.
	StateNoProfile State = "no_profile"
)

// Snapshot is an immutable view of the session state. Err carries the most
// recent failure for the current state; it is cleared on every transition to a
// non-error state.
type Snapshot struct {
	State   State
	Session *entity.Session
	Profile *entity.Profile
	Err     error
}

// Authenticated reports whether the snapshot holds a session.
func (s Snapshot) Authenticated() bool {
	return s.Session != nil
}

const eventQueueDepth = 64

// Options tunes the manager's timeouts.
type Options struct {
	// ResumeTimeout bounds the startup token exchange.
	ResumeTimeout time.Duration
	// SyncTimeout bounds one profile sync attempt.
	SyncTimeout time.Duration
}

func (o *Options) withDefaults() Options {
	out := Options{ResumeTimeout: 10 * time.Second, SyncTimeout: 15 * time.Second}
	if o == nil {
		return out
	}
	if o.ResumeTimeout > 0 {
		out.ResumeTimeout = o.ResumeTimeout
	}
	if o.SyncTimeout > 0 {
		out.SyncTimeout = o.SyncTimeout
	}

	return out
}

// Manager owns the session state machine. All state transitions run on a
// single worker goroutine fed by the provider's session events, so observers
// see transitions in order. Profile syncs run on their own goroutines and are
// discarded when the session they belong to has been replaced.
type Manager struct {
	auth     usecase.AuthUsecase
	profiles usecase.ProfileUsecase
	tokens   TokenStore
	notifier service.Notifier
	logger   *slog.Logger
	opts     Options

	mu          sync.Mutex
	snap        Snapshot
	epoch       uint64
	syncCancel  context.CancelFunc
	watchers    map[uint64]chan Snapshot
	nextWatcher uint64
	resumed     bool

	events      chan service.SessionEvent
	done        chan struct{}
	closeOnce   sync.Once
	unsubscribe func()
}

// ManagerParams holds dependencies for the Manager, injected by Fx.
type ManagerParams struct {
	fx.In

	Lc       fx.Lifecycle
	Provider service.IdentityProvider
	Auth     usecase.AuthUsecase
	Profiles usecase.ProfileUsecase
	Tokens   TokenStore
	Notifier service.Notifier
	Logger   *slog.Logger
	Options  *Options `optional:"true"`
}

// NewManager creates the session manager, subscribes it to the identity
// provider, and resumes any persisted session during Fx startup.
func NewManager(params ManagerParams) *Manager {
	m := newManager(params.Provider, params.Auth, params.Profiles, params.Tokens, params.Notifier, params.Logger, params.Options)

	params.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			m.Resume(ctx)

			return nil
		},
		OnStop: func(context.Context) error {
			m.Close()

			return nil
		},
	})

	return m
}

func newManager(
	provider service.IdentityProvider,
	auth usecase.AuthUsecase,
	profiles usecase.ProfileUsecase,
	tokens TokenStore,
	notifier service.Notifier,
	logger *slog.Logger,
	opts *Options,
) *Manager {
	m := &Manager{
		auth:     auth,
		profiles: profiles,
		tokens:   tokens,
		notifier: notifier,
		logger:   logger,
		opts:     opts.withDefaults(),
		snap:     Snapshot{State: StateUnauthenticated},
		watchers: make(map[uint64]chan Snapshot),
		events:   make(chan service.SessionEvent, eventQueueDepth),
		done:     make(chan struct{}),
	}

	m.unsubscribe = provider.OnSessionChange(m.enqueue)
	go m.run()

	return m
}

// Snapshot returns the current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.snap
}

// Watch registers an observer. The channel holds the latest snapshot only;
// intermediate states may be skipped under load. The current snapshot is
// delivered immediately.
func (m *Manager) Watch() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	m.mu.Lock()
	m.nextWatcher++
	id := m.nextWatcher
	m.watchers[id] = ch
	ch <- m.snap
	m.mu.Unlock()

	return ch, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.watchers, id)
	}
}

// Resume performs the one-shot startup restore of a persisted session. When
// no token is stored, or the exchange fails, the manager settles in the
// unauthenticated state and the stored token is discarded. Repeated calls are
// no-ops.
func (m *Manager) Resume(ctx context.Context) {
	m.mu.Lock()
	if m.resumed {
		m.mu.Unlock()

		return
	}
	m.resumed = true
	m.mu.Unlock()

	refreshToken, err := m.tokens.Load()
	if err != nil {
		m.logger.Warn("failed to load persisted session token", slog.Any("error", err))

		return
	}
	if refreshToken == "" {
		return
	}

	m.setState(func(snap *Snapshot) {
		snap.State = StateAuthenticating
		snap.Err = nil
	})

	ctx, cancel := context.WithTimeout(ctx, m.opts.ResumeTimeout)
	defer cancel()

	if _, err := m.auth.Refresh(ctx, refreshToken); err != nil {
		m.logger.Info("session resume failed, starting signed out", slog.Any("error", err))
		if clearErr := m.tokens.Clear(); clearErr != nil {
			m.logger.Warn("failed to clear stale session token", slog.Any("error", clearErr))
		}
		m.setState(func(snap *Snapshot) {
			snap.State = StateUnauthenticated
			snap.Session = nil
			snap.Profile = nil
			snap.Err = nil
		})
	}
	// On success the provider emits a refreshed event and the worker adopts
	// the session from there.
}

// SignIn authenticates and returns the established session. The session state
// itself is updated through the provider's event, not inline here. The auth
// layer pushes the failure notification; the manager only records the error
// in its snapshot.
func (m *Manager) SignIn(ctx context.Context, input usecase.SignInInput) (*entity.Session, error) {
	m.setState(func(snap *Snapshot) {
		if snap.Session == nil {
			snap.State = StateAuthenticating
		}
		snap.Err = nil
	})

	out, err := m.auth.SignIn(ctx, input)
	if err != nil {
		m.fail(err)

		return nil, err
	}

	return out.Session, nil
}

// SignUp registers a new account and returns its session. As with SignIn, the
// state machine advances through the provider's event.
func (m *Manager) SignUp(ctx context.Context, input usecase.SignUpInput) (*entity.Session, error) {
	m.setState(func(snap *Snapshot) {
		if snap.Session == nil {
			snap.State = StateAuthenticating
		}
		snap.Err = nil
	})

	out, err := m.auth.SignUp(ctx, input)
	if err != nil {
		m.fail(err)

		return nil, err
	}

	return out.Session, nil
}

// SignOut revokes the session with the provider. Local state and the
// persisted token are cleared even when revocation fails; the error is
// returned for logging only.
func (m *Manager) SignOut(ctx context.Context) error {
	snap := m.Snapshot()
	if snap.Session == nil {
		return nil
	}

	err := m.auth.SignOut(ctx, snap.Session.AccessToken)
	if err != nil {
		m.logger.Warn("session revocation failed, clearing local state anyway", slog.Any("error", err))
		// The provider may not emit a signed-out event on failure, so force
		// the clear through the same queue every other transition uses.
		m.enqueue(service.SessionEvent{Type: service.SessionSignedOut})
	}

	return err
}

// Close stops the worker and detaches from the provider. The state held at
// close time is left as is.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		if m.unsubscribe != nil {
			m.unsubscribe()
		}
		close(m.done)

		m.mu.Lock()
		if m.syncCancel != nil {
			m.syncCancel()
		}
		m.mu.Unlock()
	})
}

// enqueue hands a provider event to the worker. It never blocks the caller;
// when the queue is full the event is dropped with a warning.
func (m *Manager) enqueue(event service.SessionEvent) {
	select {
	case m.events <- event:
	case <-m.done:
	default:
		m.logger.Warn("session event queue full, dropping event", slog.String("type", string(event.Type)))
	}
}

func (m *Manager) run() {
	for {
		select {
		case event := <-m.events:
			m.handle(event)
		case <-m.done:
			return
		}
	}
}

func (m *Manager) handle(event service.SessionEvent) {
	switch event.Type {
	case service.SessionSignedIn, service.SessionRefreshed:
		if event.Session == nil {
			m.logger.Warn("session event without session, ignoring", slog.String("type", string(event.Type)))

			return
		}
		m.adopt(event.Session)
	case service.SessionSignedOut:
		m.clear()
	}
}

// adopt installs a new session, persists its refresh token, and replaces any
// in-flight profile sync with one for the new session.
func (m *Manager) adopt(sess *entity.Session) {
	if err := m.tokens.Save(sess.RefreshToken); err != nil {
		m.logger.Warn("failed to persist session token", slog.Any("error", err))
	}

	syncCtx, cancel := context.WithCancel(context.Background())

	m.mu.Lock()
	m.epoch++
	epoch := m.epoch
	if m.syncCancel != nil {
		m.syncCancel()
	}
	m.syncCancel = cancel

	sameUser := m.snap.Session != nil && m.snap.Session.ID == sess.ID
	m.snap.Session = sess
	m.snap.Err = nil
	if sameUser && m.snap.Profile != nil {
		// Token refresh for the signed-in account keeps the loaded profile.
		m.snap.State = StateProfileReady
	} else {
		m.snap.Profile = nil
		m.snap.State = StateProfileLoading
	}
	m.broadcastLocked()
	m.mu.Unlock()

	go m.syncProfile(syncCtx, epoch, sess.Principal)
}

// clear drops the session unconditionally.
func (m *Manager) clear() {
	if err := m.tokens.Clear(); err != nil {
		m.logger.Warn("failed to clear session token", slog.Any("error", err))
	}

	m.mu.Lock()
	m.epoch++
	if m.syncCancel != nil {
		m.syncCancel()
		m.syncCancel = nil
	}
	m.snap = Snapshot{State: StateUnauthenticated}
	m.broadcastLocked()
	m.mu.Unlock()
}

// syncProfile loads or creates the profile for the session. The result is
// discarded when the session changed while the sync was running.
func (m *Manager) syncProfile(ctx context.Context, epoch uint64, principal entity.Principal) {
	ctx, cancel := context.WithTimeout(ctx, m.opts.SyncTimeout)
	defer cancel()

	profile, err := m.profiles.EnsureProfile(ctx, principal)

	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()

		return
	}
	if err != nil {
		m.snap.State = StateNoProfile
		m.snap.Profile = nil
		m.snap.Err = err
	} else {
		m.snap.State = StateProfileReady
		m.snap.Profile = profile
		m.snap.Err = nil
	}
	m.broadcastLocked()
	m.mu.Unlock()

	if err != nil {
		m.logger.Error("profile sync failed",
			slog.String("user_id", principal.ID.String()),
			slog.Any("error", err),
		)
		m.notifier.Notify(context.WithoutCancel(ctx), principal.ID.String(), service.Notification{
			Severity: service.SeverityError,
			Title:    "Profile unavailable",
			Message:  domainErrors.ErrProfileSyncFailed.Message(),
		})
	}
}

// fail records an authentication failure in the snapshot. The session is only
// reset when none was held before the attempt.
func (m *Manager) fail(err error) {
	m.setState(func(snap *Snapshot) {
		if snap.Session == nil {
			snap.State = StateUnauthenticated
		}
		snap.Err = err
	})
}

func (m *Manager) setState(mutate func(*Snapshot)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mutate(&m.snap)
	m.broadcastLocked()
}

// broadcastLocked pushes the current snapshot to every watcher, replacing an
// undelivered older snapshot. Callers hold m.mu.
func (m *Manager) broadcastLocked() {
	for _, ch := range m.watchers {
		select {
		case ch <- m.snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- m.snap:
			default:
			}
		}
	}
}
