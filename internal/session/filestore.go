package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"listkeeper/internal/domain/entity"
)

// FileStore persists a session between CLI invocations.
// Only the user's id and name are written; never the password.
type FileStore struct {
	path string
	now  func() time.Time
}

type sessionFile struct {
	UserID   int64     `yaml:"user_id"`
	UserName string    `yaml:"user_name"`
	SavedAt  time.Time `yaml:"saved_at"`
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

// Path returns the file location.
func (f *FileStore) Path() string {
	return f.path
}

// Save writes the session with owner-only permissions.
func (f *FileStore) Save(s entity.Session) error {
	if !s.Authorized() {
		return fmt.Errorf("save session: %w", entity.ErrUnauthorized)
	}
	data, err := yaml.Marshal(sessionFile{UserID: s.UserID, UserName: s.UserName, SavedAt: f.now().UTC()})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".session-*")
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Load reads the saved session. A missing file yields the zero session.
func (f *FileStore) Load() (entity.Session, error) {
	// #nosec G304 -- path comes from configuration, not user input
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return entity.Session{}, nil
	}
	if err != nil {
		return entity.Session{}, fmt.Errorf("read session: %w", err)
	}

	var sf sessionFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return entity.Session{}, fmt.Errorf("parse session: %w", err)
	}
	if sf.UserID <= 0 {
		return entity.Session{}, nil
	}
	return entity.Session{Authenticated: true, UserID: sf.UserID, UserName: sf.UserName}, nil
}

// Clear removes the file. Clearing a missing file is not an error.
func (f *FileStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
