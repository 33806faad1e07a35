package appclient

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jitendra20661/cbct-fyp/pkg/logging"
)

// Storage keys. The mobile app has persisted under these names since the
// first release, so they stay stable across client rewrites.
const (
	keyAuthToken = "auth_token"
	keyUser      = "user"
)

// SessionStore is the durable key-value mirror of the session. Get returns
// an empty string for absent keys.
type SessionStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// FileStore persists session keys as a JSON object in a single file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a FileStore at path. The file is created lazily on
// first Set.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.read()
	if err != nil {
		return "", err
	}
	return values[key], nil
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.read()
	if err != nil {
		return err
	}
	values[key] = value
	return s.write(values)
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.read()
	if err != nil {
		return err
	}
	delete(values, key)
	return s.write(values)
}

func (s *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("appclient: read session file: %w", err)
	}
	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		// A corrupt session file means starting unauthenticated, not failing.
		return map[string]string{}, nil
	}
	return values, nil
}

func (s *FileStore) write(values map[string]string) error {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("appclient: encode session file: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("appclient: create session dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("appclient: write session file: %w", err)
	}
	return nil
}

// MemoryStore is a SessionStore for tests and fixture-only runs.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key], nil
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// sessionState owns the in-memory token and cached user. The store is a
// durable mirror; once hydrated, the in-memory copy wins.
type sessionState struct {
	store  SessionStore
	logger *logging.Logger

	mu       sync.RWMutex
	token    string
	user     *User
	hydrated bool
}

func newSessionState(store SessionStore, logger *logging.Logger) *sessionState {
	if store == nil {
		store = NewMemoryStore()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &sessionState{store: store, logger: logger}
}

// hydrate restores the persisted session exactly once. Later calls are no-ops.
func (s *sessionState) hydrate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hydrated {
		return
	}
	s.hydrated = true

	token, err := s.store.Get(keyAuthToken)
	if err != nil {
		s.logger.Warn("session restore failed", "error", err)
		return
	}
	s.token = token

	raw, err := s.store.Get(keyUser)
	if err != nil || raw == "" {
		return
	}
	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Warn("cached user unreadable, discarding", "error", err)
		return
	}
	s.user = &user
}

func (s *sessionState) initializing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.hydrated
}

// currentToken lazily hydrates then returns the in-memory token.
func (s *sessionState) currentToken() string {
	s.hydrate()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *sessionState) currentUser() *User {
	s.hydrate()
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	copied := *s.user
	return &copied
}

// establish stores a fresh token and user in memory and mirrors them durably.
func (s *sessionState) establish(token string, user User) {
	s.mu.Lock()
	s.hydrated = true
	s.token = token
	copied := user
	s.user = &copied
	s.mu.Unlock()

	if err := s.store.Set(keyAuthToken, token); err != nil {
		s.logger.Warn("failed to persist token", "error", err)
	}
	if raw, err := json.Marshal(user); err == nil {
		if err := s.store.Set(keyUser, string(raw)); err != nil {
			s.logger.Warn("failed to persist user", "error", err)
		}
	}
}

// refreshUser updates the cached user without touching the token.
func (s *sessionState) refreshUser(user User) {
	s.mu.Lock()
	copied := user
	s.user = &copied
	s.mu.Unlock()

	if raw, err := json.Marshal(user); err == nil {
		if err := s.store.Set(keyUser, string(raw)); err != nil {
			s.logger.Warn("failed to persist user", "error", err)
		}
	}
}

// clear wipes memory and durable storage. It never fails; storage errors are
// logged and swallowed so logout always succeeds locally.
func (s *sessionState) clear() {
	s.mu.Lock()
	s.hydrated = true
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := s.store.Delete(keyAuthToken); err != nil {
		s.logger.Warn("failed to clear token", "error", err)
	}
	if err := s.store.Delete(keyUser); err != nil {
		s.logger.Warn("failed to clear user", "error", err)
	}
}
