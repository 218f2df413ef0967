package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/storage"
)

func backends(t *testing.T) map[string]storage.Store {
	t.Helper()
	sq, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "tat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sq.Close() })
	return map[string]storage.Store{
		"file":   storage.NewFileStore(t.TempDir()),
		"sqlite": sq,
		"memory": storage.NewMemoryStore(),
	}
}

func TestGetMissing(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get("activeTimer")
			assert.ErrorIs(t, err, storage.ErrNotFound)
		})
	}
}

func TestPutAndGet(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put("attendance_2026-02-27", []byte(`{"date":"2026-02-27"}`)))
			got, err := s.Get("attendance_2026-02-27")
			require.NoError(t, err)
			assert.JSONEq(t, `{"date":"2026-02-27"}`, string(got))

			// Overwrite.
			require.NoError(t, s.Put("attendance_2026-02-27", []byte(`{"date":"x"}`)))
			got, err = s.Get("attendance_2026-02-27")
			require.NoError(t, err)
			assert.JSONEq(t, `{"date":"x"}`, string(got))
		})
	}
}

func TestInvalidKey(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, s.Put("../escape", []byte(`{}`)))
			_, err := s.Get("")
			assert.Error(t, err)
		})
	}
}

func TestFileStoreCorruptBackup(t *testing.T) {
	base := t.TempDir()
	s := storage.NewFileStore(base)

	path := filepath.Join(base, "timeEntries.json")
	require.NoError(t, os.WriteFile(path, []byte("{bad json"), 0o600))

	_, err := s.Get("timeEntries")
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrNotFound)

	_, statErr := os.Stat(path + ".corrupt")
	assert.NoError(t, statErr, "expected backup file to exist after corrupt JSON")

	// The corrupt file was moved aside, so the key now reads as missing.
	_, err = s.Get("timeEntries")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestFileStoreLeavesNoTempFile(t *testing.T) {
	base := t.TempDir()
	s := storage.NewFileStore(base)
	require.NoError(t, s.Put("activeTimer", []byte(`{}`)))

	_, err := os.Stat(filepath.Join(base, "activeTimer.json.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestNamespaced(t *testing.T) {
	inner := storage.NewMemoryStore()
	alice := storage.Namespaced(inner, "alice")
	bob := storage.Namespaced(inner, "bob")

	require.NoError(t, alice.Put("activeTimer", []byte(`{"a":1}`)))
	_, err := bob.Get("activeTimer")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	got, err := inner.Get("alice/activeTimer")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(got))

	assert.Same(t, inner, storage.Namespaced(inner, "").(*storage.MemoryStore))
}

func TestNamespacedFileStoreUsesSubdir(t *testing.T) {
	base := t.TempDir()
	s := storage.Namespaced(storage.NewFileStore(base), "alice")
	require.NoError(t, s.Put("timeEntries", []byte(`[]`)))

	_, err := os.Stat(filepath.Join(base, "alice", "timeEntries.json"))
	assert.NoError(t, err)
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := storage.Open("postgres", t.TempDir())
	assert.Error(t, err)
}

func TestOpenSQLiteBackend(t *testing.T) {
	base := t.TempDir()
	s, err := storage.Open(storage.BackendSQLite, base)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Put("timeEntries", []byte(`[]`)))
	_, err = os.Stat(filepath.Join(base, "tat.db"))
	assert.NoError(t, err)
}
