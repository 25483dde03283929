package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".fbxmon"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Duration is a time.Duration that unmarshals from Go duration strings
// ("2s", "500ms"). The yaml library only decodes durations from integer
// nanoseconds, which nobody wants to write in a config file.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", node.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// File is the on-disk YAML configuration format.
// All fields are optional; zero values leave the corresponding Config
// field untouched.
type File struct {
	// BaseURL overrides the router base URL.
	BaseURL string `yaml:"base_url"`

	// Password overrides the FREEBOX_PASSWORD environment variable.
	// Keeping the password in a root-owned config file instead of the
	// scheduler's environment is the usual Munin deployment.
	Password string `yaml:"password"`

	// Timeout overrides the per-request transport timeout.
	Timeout Duration `yaml:"timeout"`

	// AuthRetries overrides the re-authentication cap.
	AuthRetries int `yaml:"auth_retries"`

	// History enables the sample history database.
	History bool `yaml:"history"`

	// Pages overrides individual router page paths.
	Pages Pages `yaml:"pages"`
}

// LoadConfigFile loads settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound. Callers
// should handle this error appropriately based on whether the config
// file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Apply merges the file's settings into cfg. Only non-zero file fields
// override; flags applied after this call take final precedence.
func (f *File) Apply(cfg *Config) {
	if f.BaseURL != "" {
		cfg.BaseURL = f.BaseURL
	}
	if f.Password != "" {
		cfg.Password = f.Password
	}
	if f.Timeout > 0 {
		cfg.Timeout = time.Duration(f.Timeout)
	}
	if f.AuthRetries > 0 {
		cfg.AuthRetries = f.AuthRetries
	}
	if f.History {
		cfg.History = true
	}
	if f.Pages.Connection != "" {
		cfg.Pages.Connection = f.Pages.Connection
	}
	if f.Pages.System != "" {
		cfg.Pages.System = f.Pages.System
	}
	if f.Pages.DSL != "" {
		cfg.Pages.DSL = f.Pages.DSL
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .fbxmon in the current directory
// 3. Look for .fbxmon in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
