package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/julianstephens/oversight/internal/constants"
)

// Config is the optional TOML file next to the database.
type Config struct {
	// Questions replaces the built-in question bank when non-empty.
	Questions []string     `toml:"questions,omitempty"`
	Camera    CameraConfig `toml:"camera"`
}

// CameraConfig selects and configures the capture device.
// Device decides which of the other fields apply.
type CameraConfig struct {
	Device   string   `toml:"device"`              // "inbox", "watch" or "command"
	InboxDir string   `toml:"inbox_dir,omitempty"` // inbox and watch
	Patterns []string `toml:"patterns,omitempty"`  // inbox and watch
	Command  string   `toml:"command,omitempty"`   // command, e.g. "fswebcam --no-banner {output}"
	Enabled  *bool    `toml:"enabled,omitempty"`   // false restricts capture entirely
}

// IsEnabled reports whether capture is allowed; unset means enabled.
func (c CameraConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Camera: CameraConfig{
			Device:   string(constants.CameraDeviceInbox),
			InboxDir: constants.DefaultInboxDir,
		},
	}
}

// Validate checks the fields that cannot be defaulted.
func (c *Config) Validate() error {
	for i, q := range c.Questions {
		if strings.TrimSpace(q) == "" {
			return fmt.Errorf("questions[%d] is empty", i)
		}
	}

	switch constants.CameraDeviceType(c.Camera.Device) {
	case constants.CameraDeviceInbox, constants.CameraDeviceWatch:
		if c.Camera.InboxDir == "" {
			return fmt.Errorf("camera.inbox_dir is required for device %q", c.Camera.Device)
		}
	case constants.CameraDeviceCommand:
		if strings.TrimSpace(c.Camera.Command) == "" {
			return errors.New("camera.command is required for device \"command\"")
		}
	default:
		return fmt.Errorf("unknown camera.device %q (expected inbox, watch or command)", c.Camera.Device)
	}
	return nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from r on top of the defaults.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Write encodes cfg to w.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// Load reads and validates the config at path. A missing file yields Default.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			cfg.Camera.InboxDir = ExpandHome(cfg.Camera.InboxDir)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	cfg.Camera.InboxDir = ExpandHome(cfg.Camera.InboxDir)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Init writes cfg to path, refusing to overwrite unless force is set.
func Init(path string, cfg *Config, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
