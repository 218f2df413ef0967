package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/model"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/storage"
)

// Config is the root configuration for tat, stored in <data dir>/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	Storage    StorageConfig    `json:"storage"`
	Attendance AttendanceConfig `json:"attendance"`
	Projects   []model.Project  `json:"projects"`
	Outlook    OutlookConfig    `json:"outlook"`
}

// StorageConfig selects where snapshots are kept.
type StorageConfig struct {
	// Backend is "file" (one JSON file per key) or "sqlite".
	Backend string `json:"backend"`
	// Namespace scopes all keys to one user. Empty keeps per-device keys.
	Namespace string `json:"namespace"`
}

// AttendanceConfig holds clock-in defaults.
type AttendanceConfig struct {
	DefaultLocation string `json:"default_location"`
	Remote          bool   `json:"remote"`
}

// OutlookConfig holds Microsoft Graph / Outlook calendar sync settings.
type OutlookConfig struct {
	// TenantID is the Azure AD tenant. Use "common" for personal/multi-tenant accounts.
	TenantID string `json:"tenant_id"`
	// ClientID is the Azure app (client) ID for the OAuth2 device code flow.
	ClientID string `json:"client_id"`
	// DefaultProject is the project name assigned to imported Outlook events.
	DefaultProject string `json:"default_project"`
	// DefaultTask is the task used when an event has no subject.
	DefaultTask string `json:"default_task"`
	// Timezone is the IANA timezone for event times (e.g. "Europe/Berlin"). Empty = UTC.
	Timezone string `json:"timezone"`
}

const (
	// DefaultTenantID is the Microsoft "common" tenant (supports personal and
	// multi-tenant organisational accounts without additional registration).
	DefaultTenantID = "common"
	// DefaultClientID is the well-known public Azure CLI app ID.
	// It supports device code flow without a client secret and requires no
	// app registration. Replace with your own registered app ID for
	// organisational or production deployments.
	DefaultClientID = "04b07795-8542-4c4a-95af-30b2c573d5ab"
	// DefaultProject is the project name used for imported meetings.
	DefaultProject = "Meetings"
	// DefaultTask is the task used for imported meetings without a subject.
	DefaultTask = "Meeting"
	// DefaultLocation is the clock-in location used when none is given.
	DefaultLocation = "Office"
)

// Default returns a Config pre-filled with sensible defaults.
func Default() Config {
	return Config{
		Storage: StorageConfig{
			Backend: storage.BackendFile,
		},
		Attendance: AttendanceConfig{
			DefaultLocation: DefaultLocation,
		},
		Projects: []model.Project{},
		Outlook: OutlookConfig{
			TenantID:       DefaultTenantID,
			ClientID:       DefaultClientID,
			DefaultProject: DefaultProject,
			DefaultTask:    DefaultTask,
			Timezone:       "",
		},
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// tat configuration
//
// All settings are optional; the built-in defaults shown below work out of
// the box. Edit this file to customise tat behaviour.
{
  // ── Storage ──────────────────────────────────────────────────────────────
  "storage": {
    // "file"   – one JSON file per key in the data directory (default)
    // "sqlite" – a single tat.db SQLite database in the data directory
    "backend": "file",

    // Scope all stored state to one user, e.g. "alice". Leave empty when a
    // single person uses this machine.
    "namespace": ""
  },

  // ── Attendance ───────────────────────────────────────────────────────────
  "attendance": {
    // Location recorded by "tat clock in" when --location is not given.
    "default_location": "Office",

    // Mark clock-ins as remote unless --remote=false is given.
    "remote": false
  },

  // Project directory used to resolve "tat clock in --project <id>".
  // Example: [{"id": "web", "name": "Website Redesign"}]
  "projects": [],

  // ── Microsoft Graph / Outlook calendar sync ──────────────────────────────
  "outlook": {
    // Azure AD tenant ID.
    // • "common"  – personal Microsoft accounts and any organisation (default)
    // • Your organisation's tenant GUID, e.g. "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx"
    "tenant_id": "common",

    // Azure application (client) ID used for the OAuth2 device code flow.
    // The built-in value is the public Azure CLI app – no app registration needed.
    "client_id": "04b07795-8542-4c4a-95af-30b2c573d5ab",

    // Project and fallback task assigned to imported calendar events.
    // Can be overridden per-sync with: tat outlook sync --project <name>
    "default_project": "Meetings",
    "default_task": "Meeting",

    // IANA timezone for interpreting calendar event times, e.g. "Europe/Berlin".
    // Leave empty to use UTC. Can be overridden with: tat outlook sync --timezone <tz>
    "timezone": ""
  }
}
`

// FilePath returns the path to <base>/config.json.
func FilePath(base string) string {
	return filepath.Join(base, "config.json")
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads <base>/config.json, creating it with annotated defaults on first
// run. Lines starting with // are treated as comments and stripped before
// JSON parsing. TAT_STORAGE_BACKEND and TAT_NAMESPACE override the file.
func Load(base string) (Config, error) {
	path := FilePath(base)

	cfg, err := load(path)
	if err != nil {
		return cfg, err
	}
	applyEnv(&cfg)
	return cfg, nil
}

func load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	cleaned := stripLineComments(data)
	var cfg Config
	if err := json.Unmarshal(cleaned, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	// Fill zero-value fields with built-in defaults so callers always get
	// a usable Config even if the user only partially fills in the file.
	def := Default()
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = def.Storage.Backend
	}
	if cfg.Attendance.DefaultLocation == "" {
		cfg.Attendance.DefaultLocation = def.Attendance.DefaultLocation
	}
	if cfg.Projects == nil {
		cfg.Projects = []model.Project{}
	}
	if cfg.Outlook.TenantID == "" {
		cfg.Outlook.TenantID = DefaultTenantID
	}
	if cfg.Outlook.ClientID == "" {
		cfg.Outlook.ClientID = DefaultClientID
	}
	if cfg.Outlook.DefaultProject == "" {
		cfg.Outlook.DefaultProject = DefaultProject
	}
	if cfg.Outlook.DefaultTask == "" {
		cfg.Outlook.DefaultTask = DefaultTask
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TAT_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("TAT_NAMESPACE"); v != "" {
		cfg.Storage.Namespace = v
	}
}

// ProjectName resolves a project id through the directory. Unknown ids are
// returned unchanged.
func (c Config) ProjectName(id string) string {
	for _, p := range c.Projects {
		if p.ID == id {
			return p.Name
		}
	}
	return id
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
