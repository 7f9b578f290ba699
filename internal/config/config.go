// Package config handles configuration loading and defaults for the notiftest app.
// Configuration is loaded from XDG-compliant paths (typically ~/.config/notiftest/config.yaml).
package config

import (
	"os"
	"path/filepath"
	"strings"

	"notiftest/internal/fsutil"

	"gopkg.in/yaml.v3"
)

// ProjectIDEnv is consulted when push.project_id is not set in the config file.
const ProjectIDEnv = "EAS_PROJECT_ID"

// Permission values accepted in notifications.permission.
const (
	PermissionGranted      = "granted"
	PermissionDenied       = "denied"
	PermissionUndetermined = "undetermined"
)

// Config represents the application configuration.
type Config struct {
	// StateDir overrides the default state directory (~/.local/state/notiftest)
	StateDir string `yaml:"state_dir,omitempty"`

	// Theme customizes the visual appearance
	Theme ThemeConfig `yaml:"theme,omitempty"`

	// Keys customizes keyboard shortcuts
	Keys KeysConfig `yaml:"keys,omitempty"`

	// Push configures the push relay and token registration
	Push PushConfig `yaml:"push,omitempty"`

	// Device describes the device the app runs on
	Device DeviceConfig `yaml:"device,omitempty"`

	// Notifications configures local notification delivery
	Notifications NotificationConfig `yaml:"notifications,omitempty"`

	// Defaults holds the startup values of the schedule controls
	Defaults DefaultsConfig `yaml:"defaults,omitempty"`

	// Log configures the file logger
	Log LogConfig `yaml:"log,omitempty"`
}

// PushConfig defines push relay settings.
type PushConfig struct {
	// ProjectID scopes the push token; falls back to $EAS_PROJECT_ID
	ProjectID string `yaml:"project_id,omitempty"`

	// RelayURL is the base URL of the push relay
	RelayURL string `yaml:"relay_url,omitempty"`

	// TimeoutSeconds bounds every relay request
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`

	// Development requests a development token
	Development bool `yaml:"development,omitempty"`
}

// DeviceConfig describes the host.
type DeviceConfig struct {
	// Physical is false for simulators, containers and CI runners
	Physical bool `yaml:"physical,omitempty"`
}

// NotificationConfig defines local notification settings.
type NotificationConfig struct {
	// Permission is the initial permission status: granted, denied or undetermined
	Permission string `yaml:"permission,omitempty"`

	// ShowAlert displays notifications while the app is in the foreground
	ShowAlert bool `yaml:"show_alert,omitempty"`

	// PlaySound plays the notification sound
	PlaySound bool `yaml:"play_sound,omitempty"`

	// SetBadge updates the badge count
	SetBadge bool `yaml:"set_badge,omitempty"`
}

// DefaultsConfig defines the initial schedule settings.
type DefaultsConfig struct {
	IntervalSeconds int  `yaml:"interval_seconds,omitempty"`
	Repeats         bool `yaml:"repeats,omitempty"`
}

// LogConfig defines logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level,omitempty"`

	// File overrides the log file path (default: <state_dir>/notiftest.log)
	File string `yaml:"file,omitempty"`
}

// ThemeConfig defines color and style settings.
type ThemeConfig struct {
	// Primary color for focused elements (hex, e.g., "#FF5733")
	Primary string `yaml:"primary,omitempty"`

	// Accent color for highlights (hex)
	Accent string `yaml:"accent,omitempty"`

	// Muted color for secondary text (hex)
	Muted string `yaml:"muted,omitempty"`

	// Background color (hex)
	Background string `yaml:"background,omitempty"`

	// Text color (hex)
	Text string `yaml:"text,omitempty"`
}

// KeysConfig defines customizable keyboard shortcuts.
// Each field accepts a comma-separated list of key bindings.
// Examples: "q,ctrl+c", "tab", "r"
type KeysConfig struct {
	Quit string `yaml:"quit,omitempty"` // default: "q,ctrl+c"
	Help string `yaml:"help,omitempty"` // default: "?"

	// Focus movement between controls
	Next string `yaml:"next,omitempty"` // default: "tab,j,down"
	Prev string `yaml:"prev,omitempty"` // default: "shift+tab,k,up"

	// Control keys
	Activate     string `yaml:"activate,omitempty"`      // default: "enter,space"
	Schedule     string `yaml:"schedule,omitempty"`      // default: "s"
	ToggleRepeat string `yaml:"toggle_repeat,omitempty"` // default: "r"
	EditInterval string `yaml:"edit_interval,omitempty"` // default: "i"
	OpenLast     string `yaml:"open_last,omitempty"`     // default: "o"

	// Input keys
	Confirm string `yaml:"confirm,omitempty"` // default: "enter"
	Cancel  string `yaml:"cancel,omitempty"`  // default: "esc"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		StateDir: defaultStateDir(),
		Theme: ThemeConfig{
			Primary:    "#7C3AED", // Violet
			Accent:     "#10B981", // Emerald
			Muted:      "#6B7280", // Gray
			Background: "",        // Terminal default
			Text:       "",        // Terminal default
		},
		Push: PushConfig{
			ProjectID:      "",
			RelayURL:       "https://exp.host",
			TimeoutSeconds: 10,
			Development:    false,
		},
		Device: DeviceConfig{
			Physical: true,
		},
		Notifications: NotificationConfig{
			Permission: PermissionUndetermined,
			ShowAlert:  true,
			PlaySound:  true,
			SetBadge:   false,
		},
		Defaults: DefaultsConfig{
			IntervalSeconds: 5,
			Repeats:         false,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// defaultStateDir returns the default state directory path.
func defaultStateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "notiftest")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".notiftest"
	}
	return filepath.Join(home, ".local", "state", "notiftest")
}

// configDir returns the configuration directory path (XDG compliant).
func configDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "notiftest")
	}

	// Fall back to ~/.config/notiftest
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "notiftest")
}

// Path returns the path to the config file, or "" if no home directory is known.
func Path() string {
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads configuration from disk, merging with defaults.
// If no config file exists, returns default configuration.
func Load() (*Config, error) {
	cfg := Default()

	path := Path()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	var userCfg Config
	if err := yaml.Unmarshal(data, &userCfg); err != nil {
		return nil, err
	}

	var doc yaml.Node
	_ = yaml.Unmarshal(data, &doc) // best-effort; fall back to conservative merge if this fails

	cfg.mergeFromYAML(&userCfg, &doc)

	return cfg, nil
}

// mergeNonEmpty applies non-empty values from other to c.
// Booleans and zero-valid ints are left to mergeFromYAML.
func (c *Config) mergeNonEmpty(other *Config) {
	if other.StateDir != "" {
		c.StateDir = other.StateDir
	}

	if other.Theme.Primary != "" {
		c.Theme.Primary = other.Theme.Primary
	}
	if other.Theme.Accent != "" {
		c.Theme.Accent = other.Theme.Accent
	}
	if other.Theme.Muted != "" {
		c.Theme.Muted = other.Theme.Muted
	}
	if other.Theme.Background != "" {
		c.Theme.Background = other.Theme.Background
	}
	if other.Theme.Text != "" {
		c.Theme.Text = other.Theme.Text
	}

	mergeString(&c.Keys.Quit, other.Keys.Quit)
	mergeString(&c.Keys.Help, other.Keys.Help)
	mergeString(&c.Keys.Next, other.Keys.Next)
	mergeString(&c.Keys.Prev, other.Keys.Prev)
	mergeString(&c.Keys.Activate, other.Keys.Activate)
	mergeString(&c.Keys.Schedule, other.Keys.Schedule)
	mergeString(&c.Keys.ToggleRepeat, other.Keys.ToggleRepeat)
	mergeString(&c.Keys.EditInterval, other.Keys.EditInterval)
	mergeString(&c.Keys.OpenLast, other.Keys.OpenLast)
	mergeString(&c.Keys.Confirm, other.Keys.Confirm)
	mergeString(&c.Keys.Cancel, other.Keys.Cancel)

	mergeString(&c.Push.ProjectID, other.Push.ProjectID)
	mergeString(&c.Push.RelayURL, other.Push.RelayURL)
	if other.Push.TimeoutSeconds > 0 {
		c.Push.TimeoutSeconds = other.Push.TimeoutSeconds
	}

	mergeString(&c.Notifications.Permission, other.Notifications.Permission)

	mergeString(&c.Log.Level, other.Log.Level)
	mergeString(&c.Log.File, other.Log.File)
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (c *Config) mergeFromYAML(other *Config, doc *yaml.Node) {
	c.mergeNonEmpty(other)

	// Without a parsed document we cannot tell "false" from "absent".
	if doc == nil || len(doc.Content) == 0 {
		if other.Defaults.IntervalSeconds > 0 {
			c.Defaults.IntervalSeconds = other.Defaults.IntervalSeconds
		}
		return
	}

	if yamlHasPath(doc, "push", "development") {
		c.Push.Development = other.Push.Development
	}
	if yamlHasPath(doc, "device", "physical") {
		c.Device.Physical = other.Device.Physical
	}
	if yamlHasPath(doc, "notifications", "show_alert") {
		c.Notifications.ShowAlert = other.Notifications.ShowAlert
	}
	if yamlHasPath(doc, "notifications", "play_sound") {
		c.Notifications.PlaySound = other.Notifications.PlaySound
	}
	if yamlHasPath(doc, "notifications", "set_badge") {
		c.Notifications.SetBadge = other.Notifications.SetBadge
	}
	if yamlHasPath(doc, "defaults", "interval_seconds") && other.Defaults.IntervalSeconds >= 0 {
		c.Defaults.IntervalSeconds = other.Defaults.IntervalSeconds
	}
	if yamlHasPath(doc, "defaults", "repeats") {
		c.Defaults.Repeats = other.Defaults.Repeats
	}
}

func yamlHasPath(doc *yaml.Node, path ...string) bool {
	if doc == nil || len(path) == 0 {
		return false
	}

	// Document -> root mapping.
	n := doc
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	for _, key := range path {
		if n == nil || n.Kind != yaml.MappingNode {
			return false
		}
		var next *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind == yaml.ScalarNode && k.Value == key {
				next = n.Content[i+1]
				break
			}
		}
		if next == nil {
			return false
		}
		n = next
	}
	return true
}

// Save writes the configuration to disk.
func (c *Config) Save() error {
	path := Path()
	if path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return fsutil.WriteFileAtomic(path, data, 0600)
}

// ProjectID returns the configured project identifier, falling back to the
// environment. An empty result means no project is configured.
func (c *Config) ProjectID() string {
	if id := strings.TrimSpace(c.Push.ProjectID); id != "" {
		return id
	}
	return strings.TrimSpace(os.Getenv(ProjectIDEnv))
}

// GetStateDir returns the resolved state directory path.
func (c *Config) GetStateDir() string {
	if c.StateDir == "" {
		return defaultStateDir()
	}
	if c.StateDir == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return c.StateDir
	}
	if strings.HasPrefix(c.StateDir, "~/") || strings.HasPrefix(c.StateDir, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, c.StateDir[2:])
		}
	}
	return c.StateDir
}

// LogFile returns the resolved log file path.
func (c *Config) LogFile() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(c.GetStateDir(), "notiftest.log")
}
