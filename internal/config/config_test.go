package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWritesTemplateOnFirstRun(t *testing.T) {
	base := t.TempDir()
	cfg, err := Load(base)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = os.Stat(FilePath(base))
	require.NoError(t, err)

	// The template parses to the defaults.
	again, err := Load(base)
	require.NoError(t, err)
	assert.Equal(t, Default(), again)
}

func TestLoadFillsDefaults(t *testing.T) {
	base := t.TempDir()
	body := `// partial config
{
  "storage": {"backend": "sqlite"},
  // directory
  "projects": [{"id": "web", "name": "Website Redesign"}]
}`
	require.NoError(t, os.WriteFile(filepath.Join(base, "config.json"), []byte(body), 0o600))

	cfg, err := Load(base)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, DefaultLocation, cfg.Attendance.DefaultLocation)
	assert.Equal(t, DefaultClientID, cfg.Outlook.ClientID)
	assert.Equal(t, "Website Redesign", cfg.ProjectName("web"))
	assert.Equal(t, "other", cfg.ProjectName("other"))
}

func TestLoadInvalidJSON(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(base, "config.json"), []byte("{"), 0o600))
	cfg, err := Load(base)
	assert.Error(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TAT_STORAGE_BACKEND", "sqlite")
	t.Setenv("TAT_NAMESPACE", "alice")
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "alice", cfg.Storage.Namespace)
}

func TestStripLineComments(t *testing.T) {
	in := []byte("// a\n{\n  // b\n  \"x\": 1\n}")
	assert.Equal(t, "{\n  \"x\": 1\n}\n", string(stripLineComments(in)))
}
