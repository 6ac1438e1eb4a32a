package client

import (
	"errors"
	"os"
	"strings"
	"sync"
)

// TokenStore persists the session token between runs. FileStore gives the
// browser-localStorage behavior (survives restarts); MemoryStore is for
// tests and short-lived tools.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// MemoryStore keeps the token in memory only.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

func (m *MemoryStore) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryStore) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

// FileStore keeps the token in a single file, created with 0600 since the
// token is a bearer credential.
type FileStore struct {
	Path string
}

func (f *FileStore) Load() (string, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func (f *FileStore) Save(token string) error {
	return os.WriteFile(f.Path, []byte(token+"\n"), 0o600)
}

func (f *FileStore) Clear() error {
	err := os.Remove(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
