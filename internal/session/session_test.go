package session

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listkeeper/internal/domain/entity"
	"listkeeper/internal/service/auth"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var ferResult = auth.Result{Authorized: true, User: &entity.User{ID: 1, Name: "fer"}}

func TestManager_LoginLogout(t *testing.T) {
	m := NewManager(quietLogger())
	assert.False(t, m.Current().Authorized())

	cleared := 0
	m.OnClear(func() { cleared++ })

	s, err := m.Login(ferResult)
	require.NoError(t, err)
	assert.Equal(t, entity.Session{Authenticated: true, UserID: 1, UserName: "fer"}, s)
	assert.Equal(t, s, m.Current())

	m.Logout()
	assert.Equal(t, entity.Session{}, m.Current())
	assert.Equal(t, 1, cleared)
}

func TestManager_LoginOfAnotherUserRunsClearHooks(t *testing.T) {
	m := NewManager(quietLogger())
	cleared := 0
	m.OnClear(func() { cleared++ })

	_, err := m.Login(ferResult)
	require.NoError(t, err)
	assert.Zero(t, cleared, "first login has nothing to drop")

	_, err = m.Login(ferResult)
	require.NoError(t, err)
	assert.Zero(t, cleared, "same user keeps the cache")

	ana := auth.Result{Authorized: true, User: &entity.User{ID: 2, Name: "ana"}}
	s, err := m.Login(ana)
	require.NoError(t, err)
	assert.Equal(t, 1, cleared)
	assert.Equal(t, s, m.Current())

	require.NoError(t, m.Resume(entity.Session{Authenticated: true, UserID: 1, UserName: "fer"}))
	assert.Equal(t, 2, cleared)
}

func TestManager_LoginRefusesUnauthorizedResult(t *testing.T) {
	m := NewManager(quietLogger())

	_, err := m.Login(auth.Result{Authorized: false})
	assert.ErrorIs(t, err, entity.ErrUnauthorized)
	_, err = m.Login(auth.Result{Authorized: true})
	assert.ErrorIs(t, err, entity.ErrUnauthorized)
	assert.False(t, m.Current().Authorized())
}

func TestManager_ConcurrentAccess(t *testing.T) {
	m := NewManager(quietLogger())
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = m.Login(ferResult)
		}()
		go func() {
			defer wg.Done()
			_ = m.Current()
			m.Logout()
		}()
	}
	wg.Wait()
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.yaml")
	store := NewFileStore(path)
	store.now = func() time.Time { return time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC) }

	s := entity.Session{Authenticated: true, UserID: 1, UserName: "fer"}
	require.NoError(t, store.Save(s))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "user_id: 1")
	assert.NotContains(t, string(data), "password")

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, s, got)

	require.NoError(t, store.Clear())
	got, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, entity.Session{}, got)
	require.NoError(t, store.Clear(), "clearing twice is fine")
}

func TestFileStore_SaveRefusesAnonymous(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "session.yaml"))

	err := store.Save(entity.Session{})
	assert.ErrorIs(t, err, entity.ErrUnauthorized)
	_, statErr := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestFileStore_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte("user_id: [oops"), 0o600))

	_, err := NewFileStore(path).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse session")
}

func TestManager_ResumeFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	store := NewFileStore(path)
	require.NoError(t, store.Save(entity.Session{Authenticated: true, UserID: 2, UserName: "ana"}))

	saved, err := store.Load()
	require.NoError(t, err)
	m := NewManager(quietLogger())
	require.NoError(t, m.Resume(saved))
	assert.Equal(t, int64(2), m.Current().UserID)

	assert.ErrorIs(t, m.Resume(entity.Session{}), entity.ErrUnauthorized)
}
