package session

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"farmferia/internal/domain/entity"
	domainErrors "farmferia/internal/domain/errors"
	"farmferia/internal/domain/service"
	"farmferia/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider emits session events the way an identity provider would.
type fakeProvider struct {
	mu        sync.Mutex
	listeners []func(service.SessionEvent)
}

func (p *fakeProvider) Authenticate(context.Context, string, string) (*entity.Session, error) {
	return nil, errors.New("not used")
}

func (p *fakeProvider) Register(context.Context, service.RegisterInput) (*entity.Session, error) {
	return nil, errors.New("not used")
}

func (p *fakeProvider) Refresh(context.Context, string) (*entity.Session, error) {
	return nil, errors.New("not used")
}

func (p *fakeProvider) Invalidate(context.Context, string) error { return nil }

func (p *fakeProvider) OnSessionChange(fn func(service.SessionEvent)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)

	return func() {}
}

func (p *fakeProvider) emit(event service.SessionEvent) {
	p.mu.Lock()
	listeners := append([]func(service.SessionEvent){}, p.listeners...)
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(event)
	}
}

// fakeAuth drives the provider like the real auth service does.
type fakeAuth struct {
	provider *fakeProvider

	mu         sync.Mutex
	session    *entity.Session
	signInErr  error
	refreshErr error
	signOutErr error
}

func (a *fakeAuth) SignIn(_ context.Context, _ usecase.SignInInput) (*usecase.SignInOutput, error) {
	a.mu.Lock()
	sess, err := a.session, a.signInErr
	a.mu.Unlock()
	if err != nil {
		return nil, err
	}
	a.provider.emit(service.SessionEvent{Type: service.SessionSignedIn, Session: sess})

	return &usecase.SignInOutput{Session: sess}, nil
}

func (a *fakeAuth) SignUp(_ context.Context, _ usecase.SignUpInput) (*usecase.SignUpOutput, error) {
	a.mu.Lock()
	sess, err := a.session, a.signInErr
	a.mu.Unlock()
	if err != nil {
		return nil, err
	}
	a.provider.emit(service.SessionEvent{Type: service.SessionSignedIn, Session: sess})

	return &usecase.SignUpOutput{Session: sess}, nil
}

func (a *fakeAuth) SignOut(context.Context, string) error {
	a.mu.Lock()
	err := a.signOutErr
	a.mu.Unlock()
	if err != nil {
		return err
	}
	a.provider.emit(service.SessionEvent{Type: service.SessionSignedOut})

	return nil
}

func (a *fakeAuth) Refresh(context.Context, string) (*entity.Session, error) {
	a.mu.Lock()
	sess, err := a.session, a.refreshErr
	a.mu.Unlock()
	if err != nil {
		return nil, err
	}
	a.provider.emit(service.SessionEvent{Type: service.SessionRefreshed, Session: sess})

	return sess, nil
}

// fakeProfiles counts EnsureProfile calls and can be made slow or failing.
type fakeProfiles struct {
	mu      sync.Mutex
	profile *entity.Profile
	err     error
	delay   time.Duration
	calls   int
}

func (p *fakeProfiles) EnsureProfile(ctx context.Context, principal entity.Principal) (*entity.Profile, error) {
	p.mu.Lock()
	p.calls++
	profile, err, delay := p.profile, p.err, p.delay
	p.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = entity.SynthesizeProfile(principal)
	}

	return profile, nil
}

func (p *fakeProfiles) GetProfile(context.Context, uuid.UUID) (*entity.Profile, error) {
	return nil, errors.New("not used")
}

func (p *fakeProfiles) UpdateProfile(context.Context, uuid.UUID, *usecase.UpdateProfileInput) (*entity.Profile, error) {
	return nil, errors.New("not used")
}

func (p *fakeProfiles) ListProfiles(context.Context, entity.Role) ([]*entity.Profile, error) {
	return nil, errors.New("not used")
}

func (p *fakeProfiles) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.calls
}

// memoryTokenStore is an in-memory TokenStore for tests.
type memoryTokenStore struct {
	mu    sync.Mutex
	token string
}

func (s *memoryTokenStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.token, nil
}

func (s *memoryTokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token

	return nil
}

func (s *memoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""

	return nil
}

func (s *memoryTokenStore) current() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.token
}

// capturingNotifier records notifications.
type capturingNotifier struct {
	mu   sync.Mutex
	sent []service.Notification
}

func (n *capturingNotifier) Notify(_ context.Context, _ string, notification service.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification)
}

func (n *capturingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return len(n.sent)
}

type fixture struct {
	manager  *Manager
	provider *fakeProvider
	auth     *fakeAuth
	profiles *fakeProfiles
	tokens   *memoryTokenStore
	notifier *capturingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	provider := &fakeProvider{}
	f := &fixture{
		provider: provider,
		auth:     &fakeAuth{provider: provider, session: testSession()},
		profiles: &fakeProfiles{},
		tokens:   &memoryTokenStore{},
		notifier: &capturingNotifier{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.manager = newManager(provider, f.auth, f.profiles, f.tokens, f.notifier, logger, nil)
	t.Cleanup(f.manager.Close)

	return f
}

func testSession() *entity.Session {
	return &entity.Session{
		Principal: entity.Principal{
			ID:    uuid.New(),
			Email: "farmer@example.com",
			Metadata: map[string]string{
				entity.MetadataName: "Farmer",
				entity.MetadataRole: entity.RoleSeller.String(),
			},
		},
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
}

func waitForState(t *testing.T, m *Manager, want State) Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap := m.Snapshot()
		if snap.State == want {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("state never reached %s, last was %s", want, m.Snapshot().State)

	return Snapshot{}
}

func TestManager_SignInLoadsProfile(t *testing.T) {
	f := newFixture(t)

	sess, err := f.manager.SignIn(context.Background(), usecase.SignInInput{Email: "farmer@example.com", Password: "pw"})
	require.NoError(t, err)
	require.NotNil(t, sess)

	snap := waitForState(t, f.manager, StateProfileReady)
	require.NotNil(t, snap.Profile)
	assert.Equal(t, sess.ID, snap.Profile.ID)
	assert.Equal(t, entity.RoleSeller, snap.Profile.Role)
	assert.Equal(t, "refresh", f.tokens.current())
}

func TestManager_SignInFailureRecordsErrorState(t *testing.T) {
	f := newFixture(t)
	f.auth.signInErr = domainErrors.ErrInvalidCredentials

	_, err := f.manager.SignIn(context.Background(), usecase.SignInInput{Email: "x", Password: "bad"})
	require.Error(t, err)

	snap := f.manager.Snapshot()
	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.Error(t, snap.Err)
	// The auth layer already notified the caller; the manager must not
	// notify a second time.
	assert.Equal(t, 0, f.notifier.count())
}

func TestManager_ProfileSyncFailureIsErrorStateNotSignOut(t *testing.T) {
	f := newFixture(t)
	f.profiles.err = domainErrors.ErrProfileSyncFailed

	_, err := f.manager.SignIn(context.Background(), usecase.SignInInput{Email: "farmer@example.com", Password: "pw"})
	require.NoError(t, err)

	snap := waitForState(t, f.manager, StateNoProfile)
	// The session survives a profile failure; only the profile is missing.
	assert.NotNil(t, snap.Session)
	assert.Nil(t, snap.Profile)
	assert.Error(t, snap.Err)
	assert.Equal(t, 1, f.notifier.count())
}

func TestManager_ResumeRestoresSession(t *testing.T) {
	f := newFixture(t)
	f.tokens.Save("persisted-refresh")

	f.manager.Resume(context.Background())

	snap := waitForState(t, f.manager, StateProfileReady)
	assert.NotNil(t, snap.Session)
	assert.Equal(t, 1, f.profiles.callCount())
}

func TestManager_ResumeFailureClearsTokenSilently(t *testing.T) {
	f := newFixture(t)
	f.tokens.Save("stale-refresh")
	f.auth.refreshErr = errors.New("token revoked")

	f.manager.Resume(context.Background())

	snap := waitForState(t, f.manager, StateUnauthenticated)
	assert.Nil(t, snap.Session)
	assert.NoError(t, snap.Err)
	assert.Empty(t, f.tokens.current())
	// Resume failures are silent, not surfaced as user notifications.
	assert.Equal(t, 0, f.notifier.count())
}

func TestManager_ResumeIsOneShot(t *testing.T) {
	f := newFixture(t)
	f.tokens.Save("persisted-refresh")

	f.manager.Resume(context.Background())
	waitForState(t, f.manager, StateProfileReady)

	f.manager.Resume(context.Background())
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, 1, f.profiles.callCount())
}

func TestManager_SignOutClearsStateEvenWhenRevocationFails(t *testing.T) {
	f := newFixture(t)

	_, err := f.manager.SignIn(context.Background(), usecase.SignInInput{Email: "farmer@example.com", Password: "pw"})
	require.NoError(t, err)
	waitForState(t, f.manager, StateProfileReady)

	f.auth.signOutErr = errors.New("backend unreachable")
	err = f.manager.SignOut(context.Background())
	require.Error(t, err)

	snap := waitForState(t, f.manager, StateUnauthenticated)
	assert.Nil(t, snap.Session)
	assert.Nil(t, snap.Profile)
	assert.Empty(t, f.tokens.current())
}

func TestManager_StaleProfileSyncIsDiscarded(t *testing.T) {
	f := newFixture(t)
	f.profiles.delay = 100 * time.Millisecond

	first := testSession()
	second := testSession()

	// Two sign-ins in quick succession. The first sync is still running when
	// the second session arrives and must not overwrite its result.
	f.provider.emit(service.SessionEvent{Type: service.SessionSignedIn, Session: first})
	time.Sleep(10 * time.Millisecond)
	f.profiles.mu.Lock()
	f.profiles.delay = 0
	f.profiles.mu.Unlock()
	f.provider.emit(service.SessionEvent{Type: service.SessionSignedIn, Session: second})

	snap := waitForState(t, f.manager, StateProfileReady)
	require.NotNil(t, snap.Profile)
	assert.Equal(t, second.ID, snap.Profile.ID)

	// Give the abandoned first sync time to finish and prove it changed nothing.
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, second.ID, f.manager.Snapshot().Profile.ID)
}

func TestManager_RefreshKeepsLoadedProfile(t *testing.T) {
	f := newFixture(t)

	sess, err := f.manager.SignIn(context.Background(), usecase.SignInInput{Email: "farmer@example.com", Password: "pw"})
	require.NoError(t, err)
	waitForState(t, f.manager, StateProfileReady)

	refreshed := *sess
	refreshed.AccessToken = "access-2"
	refreshed.RefreshToken = "refresh-2"
	f.provider.emit(service.SessionEvent{Type: service.SessionRefreshed, Session: &refreshed})

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if f.manager.Snapshot().Session.AccessToken == "access-2" {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	snap := f.manager.Snapshot()
	assert.Equal(t, StateProfileReady, snap.State)
	require.NotNil(t, snap.Profile)
	assert.Equal(t, "refresh-2", f.tokens.current())
}

func TestManager_WatchDeliversSnapshots(t *testing.T) {
	f := newFixture(t)

	ch, unsubscribe := f.manager.Watch()
	defer unsubscribe()

	first := <-ch
	assert.Equal(t, StateUnauthenticated, first.State)

	_, err := f.manager.SignIn(context.Background(), usecase.SignInInput{Email: "farmer@example.com", Password: "pw"})
	require.NoError(t, err)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap := <-ch:
			if snap.State == StateProfileReady {
				return
			}
		case <-deadline:
			t.Fatal("never observed profile_ready through watcher")
		}
	}
}
