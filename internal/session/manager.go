// Package session owns the lifecycle of the current user's session: it is set
// at login, read by every user-scoped operation and cleared at logout.
package session

import (
	"fmt"
	"log/slog"
	"sync"

	"listkeeper/internal/domain/entity"
	"listkeeper/internal/service/auth"
)

// Manager holds the current session. It is safe for concurrent use.
type Manager struct {
	mu      sync.RWMutex
	current entity.Session
	onClear []func()
	logger  *slog.Logger
}

func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{logger: logger}
}

// OnClear registers fn to run whenever the current user goes away: on Logout
// and when a different user's session replaces it. Use it to drop cached data.
func (m *Manager) OnClear(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onClear = append(m.onClear, fn)
}

// Login starts a session from an authentication result.
func (m *Manager) Login(res auth.Result) (entity.Session, error) {
	s := res.Session()
	if err := m.Resume(s); err != nil {
		return entity.Session{}, fmt.Errorf("login: %w", err)
	}
	m.logger.Info("session started", slog.Int64("user_id", s.UserID), slog.String("user_name", s.UserName))
	return s, nil
}

// Resume installs a previously saved session. If another user was signed in,
// the clear hooks run before it returns.
func (m *Manager) Resume(s entity.Session) error {
	if !s.Authorized() {
		return entity.ErrUnauthorized
	}
	m.mu.Lock()
	prev := m.current
	m.current = s
	switched := prev.Authorized() && prev.UserID != s.UserID
	var hooks []func()
	if switched {
		hooks = append(hooks, m.onClear...)
	}
	m.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	if switched {
		m.logger.Info("session switched user",
			slog.Int64("previous_user_id", prev.UserID),
			slog.Int64("user_id", s.UserID))
	}
	m.logger.Debug("session resumed", slog.Int64("user_id", s.UserID))
	return nil
}

// Logout clears the session and runs the registered hooks.
func (m *Manager) Logout() {
	m.mu.Lock()
	prev := m.current
	m.current = entity.Session{}
	hooks := append([]func(){}, m.onClear...)
	m.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	if prev.Authorized() {
		m.logger.Info("session ended", slog.Int64("user_id", prev.UserID))
	}
}

// Current returns the session; the zero value when nobody is logged in.
func (m *Manager) Current() entity.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}
