package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// UserCache persists the user record alongside the credential so a restart
// restores the full identity without waiting on a verify call.
type UserCache interface {
	Load() (*User, bool, error)
	Save(u *User) error
	Clear() error
}

// FileUserCache stores the user record as JSON on disk.
type FileUserCache struct {
	path string
}

func NewFileUserCache(path string) *FileUserCache {
	return &FileUserCache{path: path}
}

func (c *FileUserCache) Load() (*User, bool, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("user cache load: %w", err)
	}

	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, false, fmt.Errorf("user cache load: %w", err)
	}
	return &u, true, nil
}

func (c *FileUserCache) Save(u *User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("user cache save: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("user cache save: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		return fmt.Errorf("user cache save: %w", err)
	}
	return nil
}

func (c *FileUserCache) Clear() error {
	if err := os.Remove(c.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("user cache clear: %w", err)
	}
	return nil
}
