package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestNewConfigDefaults tests that the constructor applies documented defaults.
func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, expected %q", cfg.BaseURL, DefaultBaseURL)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, expected %v", cfg.Timeout, DefaultTimeout)
	}
	if cfg.AuthRetries != DefaultAuthRetries {
		t.Errorf("AuthRetries = %d, expected %d", cfg.AuthRetries, DefaultAuthRetries)
	}
	if cfg.Pages.Connection != DefaultConnectionPage ||
		cfg.Pages.System != DefaultSystemPage ||
		cfg.Pages.DSL != DefaultDSLPage {
		t.Errorf("Pages = %+v, expected firmware defaults", cfg.Pages)
	}
}

// TestConfigValidate tests Validate's sentinel errors.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		return &Config{
			BaseURL:     DefaultBaseURL,
			Password:    "secret",
			Timeout:     DefaultTimeout,
			AuthRetries: DefaultAuthRetries,
		}
	}

	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid config", func(c *Config) {}, nil},
		{"missing password", func(c *Config) { c.Password = "" }, ErrNoPassword},
		{"empty base URL", func(c *Config) { c.BaseURL = "" }, ErrInvalidBaseURL},
		{"relative base URL", func(c *Config) { c.BaseURL = "mafreebox.freebox.fr" }, ErrInvalidBaseURL},
		{"non-http scheme", func(c *Config) { c.BaseURL = "ftp://router" }, ErrInvalidBaseURL},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, ErrInvalidTimeout},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, ErrInvalidTimeout},
		{"zero auth retries", func(c *Config) { c.AuthRetries = 0 }, ErrInvalidAuthRetries},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid()
			tc.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.wantErr) {
				t.Errorf("Validate() = %v, expected %v", err, tc.wantErr)
			}
		})
	}
}

// TestLoadConfigFile tests loading and applying the YAML config file.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()
		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("LoadConfigFile = %v, expected ErrConfigNotFound", err)
		}
	})

	t.Run("invalid duration returns an error", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("timeout: soon\n"), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected a duration parse error")
		}
	})

	t.Run("invalid YAML returns an error", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("base_url: [broken"), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected an unmarshal error")
		}
	})

	t.Run("apply overrides only set fields", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := "base_url: http://192.168.0.254\n" +
			"password: hunter2\n" +
			"timeout: 5s\n" +
			"history: true\n" +
			"pages:\n  dsl: /adsl.php\n"
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		f, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile failed: %v", err)
		}

		cfg := &Config{
			BaseURL:     DefaultBaseURL,
			Timeout:     DefaultTimeout,
			AuthRetries: DefaultAuthRetries,
			Pages: Pages{
				Connection: DefaultConnectionPage,
				System:     DefaultSystemPage,
				DSL:        DefaultDSLPage,
			},
		}
		f.Apply(cfg)

		if cfg.BaseURL != "http://192.168.0.254" {
			t.Errorf("BaseURL = %q", cfg.BaseURL)
		}
		if cfg.Password != "hunter2" {
			t.Errorf("Password = %q", cfg.Password)
		}
		if cfg.Timeout != 5*time.Second {
			t.Errorf("Timeout = %v", cfg.Timeout)
		}
		if !cfg.History {
			t.Error("History = false, expected true")
		}
		if cfg.Pages.DSL != "/adsl.php" {
			t.Errorf("Pages.DSL = %q", cfg.Pages.DSL)
		}
		// Untouched fields keep their defaults.
		if cfg.Pages.System != DefaultSystemPage {
			t.Errorf("Pages.System = %q, expected default", cfg.Pages.System)
		}
		if cfg.AuthRetries != DefaultAuthRetries {
			t.Errorf("AuthRetries = %d, expected default", cfg.AuthRetries)
		}
	})
}

// TestFindConfigFile tests explicit path resolution.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit existing path", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("history: true\n"), 0600); err != nil {
			t.Fatal(err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("FindConfigFile = %q, expected %q", got, path)
		}
	})

	t.Run("explicit missing path yields empty", func(t *testing.T) {
		t.Parallel()
		if got := FindConfigFile(filepath.Join(t.TempDir(), "nope")); got != "" {
			t.Errorf("FindConfigFile = %q, expected empty", got)
		}
	})
}
