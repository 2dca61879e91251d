package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	sessionEnv      = "FLEETCTL_SESSION"
	pendingResetExt = ".reset"
)

// storedSession is the on-disk login.
type storedSession struct {
	Server      string `json:"server"`
	AccessToken string `json:"access_token"`
	Email       string `json:"email"`
}

func defaultSessionPath() string {
	if p := os.Getenv(sessionEnv); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".fleetflow", "session.json")
	}
	return filepath.Join(home, ".fleetflow", "session.json")
}

// sessionFile persists the login and the pending password reset next to
// it.
type sessionFile struct {
	path string
}

func (f sessionFile) load() (storedSession, error) {
	var s storedSession
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read session: %w", err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse session %s: %w", f.path, err)
	}
	return s, nil
}

func (f sessionFile) save(s storedSession) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return writePrivate(f.path, data)
}

func (f sessionFile) clear() error {
	return removeIfExists(f.path)
}

func (f sessionFile) resetPath() string {
	return f.path + pendingResetExt
}

func (f sessionFile) savePendingReset(email string) error {
	return writePrivate(f.resetPath(), []byte(email))
}

func (f sessionFile) pendingReset() string {
	data, err := os.ReadFile(f.resetPath())
	if err != nil {
		return ""
	}
	return string(data)
}

func (f sessionFile) clearPendingReset() error {
	return removeIfExists(f.resetPath())
}

func writePrivate(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
