// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultInterval       = 3 * time.Second
	DefaultContainerClass = "Notifications"
	DefaultKeyPrefix      = "Notification"
	DefaultTrayWidth      = 40
)

// Config is the toastq configuration.
// Loaded from ~/.config/toastq/toastq.toml
type Config struct {
	Display  DisplayConfig  `toml:"display"`
	Behavior BehaviorConfig `toml:"behavior"`
	Tray     TrayConfig     `toml:"tray"`
}

// DisplayConfig contains notification display settings.
type DisplayConfig struct {
	Interval       Duration `toml:"interval"`        // Time before the oldest notification is evicted
	ContainerClass string   `toml:"container_class"` // Identifier of the notification tray element
	MaxRendered    int      `toml:"max_rendered"`    // 0 = unlimited
}

// BehaviorConfig contains queue behavior settings.
type BehaviorConfig struct {
	CacheScope string `toml:"cache_scope"` // "shared" or "instance"
	KeyPrefix  string `toml:"key_prefix"`  // Prefix of generated render keys
}

// TrayConfig contains terminal tray settings.
type TrayConfig struct {
	Position string `toml:"position"` // "bottom-left", "bottom-right", "bottom-center"
	Width    int    `toml:"width"`    // Toast width in cells
}

// CacheScope selects the lifetime of the dedup cache.
type CacheScope string

const (
	// CacheScopeShared uses one cache for the whole process.
	CacheScopeShared CacheScope = "shared"
	// CacheScopeInstance gives each controller its own cache.
	CacheScopeInstance CacheScope = "instance"
)

// ValidCacheScopes returns all valid cache scope values.
func ValidCacheScopes() []CacheScope {
	return []CacheScope{CacheScopeShared, CacheScopeInstance}
}

// Position represents the horizontal placement of the tray.
type Position string

const (
	PositionBottomLeft   Position = "bottom-left"
	PositionBottomRight  Position = "bottom-right"
	PositionBottomCenter Position = "bottom-center"
)

// ValidPositions returns all valid position values.
func ValidPositions() []Position {
	return []Position{
		PositionBottomLeft,
		PositionBottomRight,
		PositionBottomCenter,
	}
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Display: DisplayConfig{
			Interval:       Duration(DefaultInterval),
			ContainerClass: DefaultContainerClass,
			MaxRendered:    0,
		},
		Behavior: BehaviorConfig{
			CacheScope: string(CacheScopeShared),
			KeyPrefix:  DefaultKeyPrefix,
		},
		Tray: TrayConfig{
			Position: string(PositionBottomRight),
			Width:    DefaultTrayWidth,
		},
	}
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "toastq", "toastq.toml"), nil
}

// Load loads configuration from path, or from ConfigPath if path is empty.
// Returns the default config if the file doesn't exist.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = ConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay with file contents
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to path, or to ConfigPath if path is empty.
func (c *Config) Save(path string) error {
	if path == "" {
		var err error
		path, err = ConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Marshal encodes the configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Display.Interval <= 0 {
		return fmt.Errorf("display interval must be positive, got %s", c.Display.Interval.Duration())
	}
	if c.Display.MaxRendered < 0 {
		return fmt.Errorf("max_rendered must not be negative, got %d", c.Display.MaxRendered)
	}

	validScope := false
	for _, s := range ValidCacheScopes() {
		if c.Behavior.CacheScope == string(s) {
			validScope = true
			break
		}
	}
	if !validScope {
		return fmt.Errorf("invalid cache_scope %q, must be one of: %v", c.Behavior.CacheScope, ValidCacheScopes())
	}

	validPos := false
	for _, p := range ValidPositions() {
		if c.Tray.Position == string(p) {
			validPos = true
			break
		}
	}
	if !validPos {
		return fmt.Errorf("invalid position %q, must be one of: %v", c.Tray.Position, ValidPositions())
	}

	if c.Tray.Width < 10 || c.Tray.Width > 200 {
		return fmt.Errorf("tray width must be between 10 and 200, got %d", c.Tray.Width)
	}

	return nil
}

// Interval returns the display interval.
func (c *Config) Interval() time.Duration {
	return c.Display.Interval.Duration()
}
