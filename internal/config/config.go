package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	configDirName  = "iconbridge"
	configFileName = "config.json"
)

// Launcher is a single application entry shown by the tray and listed over IPC.
type Launcher struct {
	ID         string `json:"id"`
	Order      int    `json:"order"`
	Label      string `json:"label"`
	Path       string `json:"path"`
	CreatedUTC string `json:"createdUtc"`
	UpdatedUTC string `json:"updatedUtc"`
}

// Config represents the persisted configuration file.
type Config struct {
	Launchers []Launcher `json:"launchers"`
}

// ErrLauncherNotFound is returned when an operation references an unknown launcher id.
var ErrLauncherNotFound = errors.New("launcher not found")

// Path returns the resolved configuration file path.
func Path() (string, error) {
	if custom := os.Getenv("ICONBRIDGE_CONFIG_PATH"); custom != "" {
		if err := os.MkdirAll(filepath.Dir(custom), 0o700); err != nil {
			return "", fmt.Errorf("ensure custom config directory: %w", err)
		}
		return custom, nil
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("determine user config dir: %w", err)
	}

	dir := filepath.Join(base, configDirName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("ensure config directory: %w", err)
	}

	return filepath.Join(dir, configFileName), nil
}

// Load reads the configuration from disk. A missing file yields an empty Config.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Save persists the configuration, replacing the previous file atomically.
func Save(cfg *Config) error {
	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	path, err := Path()
	if err != nil {
		return err
	}

	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, raw, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return os.Rename(tempFile, path)
}

// AddLauncher appends a launcher for path, assigning a fresh id and order.
func (c *Config) AddLauncher(label, path string) (Launcher, error) {
	label = strings.TrimSpace(label)
	path = strings.TrimSpace(path)
	if path == "" {
		return Launcher{}, errors.New("launcher path is required")
	}
	if label == "" {
		label = defaultLabel(path)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	item := Launcher{
		ID:         uuid.NewString(),
		Label:      label,
		Path:       path,
		CreatedUTC: now,
		UpdatedUTC: now,
	}
	c.Launchers = append(c.Launchers, item)
	EnsureSequentialOrder(c.Launchers)
	return c.Launchers[len(c.Launchers)-1], nil
}

// RemoveLauncher deletes the launcher with the given id.
func (c *Config) RemoveLauncher(id string) error {
	filtered := c.Launchers[:0]
	removed := false
	for _, item := range c.Launchers {
		if item.ID == id {
			removed = true
			continue
		}
		filtered = append(filtered, item)
	}
	if !removed {
		return fmt.Errorf("%w: %s", ErrLauncherNotFound, id)
	}
	c.Launchers = append([]Launcher(nil), filtered...)
	EnsureSequentialOrder(c.Launchers)
	return nil
}

// EnsureSequentialOrder assigns deterministic order values for launchers.
func EnsureSequentialOrder(items []Launcher) {
	for i := range items {
		items[i].Order = (i + 1) * 10
	}
}

func defaultLabel(path string) string {
	base := path
	if idx := strings.LastIndexAny(base, `/\`); idx >= 0 {
		base = base[idx+1:]
	}
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}
