package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// StorageKey names the persisted session document, matching the key the web client uses.
const StorageKey = "auth-storage"

// Storage is durable client storage for the session and the raw token copy.
type Storage interface {
	Load() (State, error)
	Save(State) error
	Token() (string, error)
	SaveToken(token string) error
	RemoveToken() error
}

// persisted is the on-disk envelope: {"state": {...}, "version": 0}.
type persisted struct {
	State   State `json:"state"`
	Version int   `json:"version"`
}

// FileStorage keeps the session under a directory, one file per key.
type FileStorage struct {
	dir string
}

// NewFileStorage returns storage rooted at dir (created on first write).
func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{dir: dir}
}

func (f *FileStorage) statePath() string {
	return filepath.Join(f.dir, StorageKey+".json")
}

func (f *FileStorage) tokenPath() string {
	return filepath.Join(f.dir, "token")
}

// Load returns the persisted state, or the empty state when nothing was saved yet.
func (f *FileStorage) Load() (State, error) {
	data, err := os.ReadFile(f.statePath())
	if errors.Is(err, os.ErrNotExist) {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("read session: %w", err)
	}
	var p persisted
	if err := json.Unmarshal(data, &p); err != nil {
		return State{}, fmt.Errorf("decode session: %w", err)
	}
	return p.State, nil
}

// Save writes the state atomically: temp file, then rename.
func (f *FileStorage) Save(st State) error {
	data, err := json.Marshal(persisted{State: st})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return f.write(f.statePath(), data)
}

// Token returns the directly persisted token copy, "" when absent.
func (f *FileStorage) Token() (string, error) {
	data, err := os.ReadFile(f.tokenPath())
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// SaveToken writes the token copy.
func (f *FileStorage) SaveToken(token string) error {
	return f.write(f.tokenPath(), []byte(token))
}

// RemoveToken deletes the token copy; a missing file is not an error.
func (f *FileStorage) RemoveToken() error {
	if err := os.Remove(f.tokenPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

func (f *FileStorage) write(path string, data []byte) error {
	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return fmt.Errorf("create %s: %w", f.dir, err)
	}
	stage := path + ".tmp"
	if err := os.WriteFile(stage, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(stage, path); err != nil {
		os.Remove(stage) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

// MemoryStorage is in-process storage for tests and ephemeral sessions.
type MemoryStorage struct {
	mu    sync.Mutex
	state State
	token string
	saves int
}

// NewMemoryStorage returns storage pre-seeded with st.
func NewMemoryStorage(st State) *MemoryStorage {
	return &MemoryStorage{state: st}
}

func (m *MemoryStorage) Load() (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone(), nil
}

func (m *MemoryStorage) Save(st State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = st.clone()
	m.saves++
	return nil
}

func (m *MemoryStorage) Token() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryStorage) SaveToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryStorage) RemoveToken() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

// Saves reports how many times Save was called.
func (m *MemoryStorage) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
