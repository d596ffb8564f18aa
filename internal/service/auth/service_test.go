package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listkeeper/internal/domain/entity"
	"listkeeper/internal/repository"
)

// stubUsers is a minimal UserRepository for testing
type stubUsers struct {
	data    []*entity.User
	err     error
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func (s *stubUsers) List(context.Context) ([]*entity.User, error) {
	s.calls.Add(1)
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.release != nil {
		<-s.release
	}
	return s.data, s.err
}
func (s *stubUsers) Get(context.Context, int64) (*entity.User, error) { return nil, nil }
func (s *stubUsers) Create(context.Context, *entity.User) (*entity.User, error) { return nil, nil }
func (s *stubUsers) Update(context.Context, *entity.User) (*entity.User, error) { return nil, nil }
func (s *stubUsers) Delete(context.Context, int64) error { return nil }
func (s *stubUsers) Patch(context.Context, int64, repository.UserPatch) (*entity.User, error) {
	return nil, nil
}

// mockVerifier is a mock implementation of CredentialVerifier for testing
type mockVerifier struct {
	user *entity.User
	err  error
}

func (m *mockVerifier) Verify(context.Context, Credentials) (*entity.User, error) {
	return m.user, m.err
}

func (m *mockVerifier) Name() string { return "mock" }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func directory() *stubUsers {
	return &stubUsers{data: []*entity.User{
		{ID: 1, Name: "fer", Password: "9920"},
		{ID: 2, Name: "ana", Password: "1234"},
	}}
}

func TestNewGate(t *testing.T) {
	v := &mockVerifier{}
	gate := NewGate(v, nil)

	if gate == nil {
		t.Fatal("expected gate to be non-nil")
	}
	if gate.Verifier() != v {
		t.Error("expected verifier to be set correctly")
	}
	if gate.logger == nil {
		t.Error("expected default logger")
	}
}

func TestAuthenticate_Success(t *testing.T) {
	users := directory()
	gate := NewGate(NewDirectoryVerifier(users), quietLogger())

	res, err := gate.Authenticate(context.Background(), "fer", "9920")
	require.NoError(t, err)
	assert.True(t, res.Authorized)
	require.NotNil(t, res.User)
	assert.Equal(t, int64(1), res.User.ID)
	assert.Equal(t, "fer", res.User.Name)
	assert.Empty(t, res.User.Password, "password is not handed back")

	assert.Equal(t, entity.Session{Authenticated: true, UserID: 1, UserName: "fer"}, res.Session())
}

func TestAuthenticate_WrongCredentials(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		password string
	}{
		{name: "wrong password", user: "fer", password: "wrong"},
		{name: "unknown user", user: "nobody", password: "9920"},
		{name: "case differs", user: "Fer", password: "9920"},
		{name: "other user's password", user: "fer", password: "1234"},
		{name: "password prefix", user: "fer", password: "992"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := NewGate(NewDirectoryVerifier(directory()), quietLogger())

			res, err := gate.Authenticate(context.Background(), tt.user, tt.password)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Authorized {
				t.Error("expected Authorized=false")
			}
			if res.User != nil {
				t.Errorf("expected no user, got %+v", res.User)
			}
			if res.Session().Authorized() {
				t.Error("expected unauthorized session")
			}
		})
	}
}

func TestAuthenticate_EmptyInputMakesNoCall(t *testing.T) {
	users := directory()
	gate := NewGate(NewDirectoryVerifier(users), quietLogger())

	for _, creds := range []Credentials{{}, {Name: "fer"}, {Password: "9920"}} {
		res, err := gate.Authenticate(context.Background(), creds.Name, creds.Password)
		require.NoError(t, err)
		assert.False(t, res.Authorized)
	}
	assert.Zero(t, users.calls.Load())
}

func TestAuthenticate_FetchFailure(t *testing.T) {
	remote := &entity.RemoteError{Method: "GET", Path: "/usuarios/", StatusCode: 503, Body: "down"}
	users := &stubUsers{err: remote}
	gate := NewGate(NewDirectoryVerifier(users), quietLogger())

	res, err := gate.Authenticate(context.Background(), "fer", "9920")
	require.Error(t, err)
	assert.False(t, res.Authorized)
	assert.ErrorIs(t, err, entity.ErrServiceUnavailable)
	var re *entity.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 503, re.StatusCode)
}

func TestAuthenticate_VerifierErrorIsWrapped(t *testing.T) {
	gate := NewGate(&mockVerifier{err: errors.New("socket closed")}, quietLogger())

	_, err := gate.Authenticate(context.Background(), "fer", "9920")
	assert.ErrorIs(t, err, entity.ErrServiceUnavailable)
	assert.Contains(t, err.Error(), "socket closed")
}

func TestDirectoryVerifier_DuplicateNames(t *testing.T) {
	users := &stubUsers{data: []*entity.User{
		{ID: 4, Name: "sam", Password: "first"},
		{ID: 9, Name: "sam", Password: "second"},
	}}
	v := NewDirectoryVerifier(users)

	u, err := v.Verify(context.Background(), Credentials{Name: "sam", Password: "second"})
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, int64(9), u.ID)
	assert.Equal(t, "directory", v.Name())
}

func TestResult_SessionRequiresUser(t *testing.T) {
	assert.Equal(t, entity.Session{}, Result{Authorized: true}.Session())
}

func TestDirectoryVerifier_ConcurrentChecksShareOneFetch(t *testing.T) {
	users := directory()
	users.entered = make(chan struct{}, 1)
	users.release = make(chan struct{})
	v := NewDirectoryVerifier(users)

	var wg sync.WaitGroup
	found := make([]*entity.User, 2)
	creds := []Credentials{{Name: "fer", Password: "9920"}, {Name: "ana", Password: "1234"}}
	wg.Add(1)
	go func() {
		defer wg.Done()
		found[0], _ = v.Verify(context.Background(), creds[0])
	}()
	<-users.entered
	wg.Add(1)
	go func() {
		defer wg.Done()
		found[1], _ = v.Verify(context.Background(), creds[1])
	}()
	time.Sleep(50 * time.Millisecond)
	close(users.release)
	wg.Wait()

	assert.Equal(t, int32(1), users.calls.Load())
	require.NotNil(t, found[0])
	require.NotNil(t, found[1])
	assert.Equal(t, int64(1), found[0].ID)
	assert.Equal(t, int64(2), found[1].ID)
}

func TestDirectoryVerifier_CancelledCallerDoesNotFailOthers(t *testing.T) {
	users := directory()
	users.entered = make(chan struct{}, 1)
	users.release = make(chan struct{})
	v := NewDirectoryVerifier(users)

	ctx, cancel := context.WithCancel(context.Background())
	impatient := make(chan error, 1)
	go func() {
		_, err := v.Verify(ctx, Credentials{Name: "fer", Password: "9920"})
		impatient <- err
	}()
	<-users.entered

	patient := make(chan *entity.User, 1)
	go func() {
		u, err := v.Verify(context.Background(), Credentials{Name: "ana", Password: "1234"})
		assert.NoError(t, err)
		patient <- u
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-impatient, context.Canceled)
	close(users.release)
	u := <-patient
	require.NotNil(t, u)
	assert.Equal(t, "ana", u.Name)
}
