package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("storage: key not found")

// Store is a durable key-value store holding JSON snapshots.
type Store interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9_\-]+(/[A-Za-z0-9_\-]+)*$`)

func checkKey(key string) error {
	if !validKey.MatchString(key) {
		return fmt.Errorf("storage: invalid key %q", key)
	}
	return nil
}

// BaseDir returns the root data directory: $TAT_HOME if set, else ~/.tat.
func BaseDir() (string, error) {
	if dir := os.Getenv("TAT_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".tat"), nil
}

// Open opens the named backend rooted at base.
func Open(backend, base string) (Store, error) {
	switch backend {
	case "", BackendFile:
		return NewFileStore(base), nil
	case BackendSQLite:
		return OpenSQLite(filepath.Join(base, "tat.db"))
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want %q or %q)", backend, BackendFile, BackendSQLite)
	}
}
