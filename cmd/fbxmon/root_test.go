package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/fbxmon/internal/config"
	"github.com/nao1215/fbxmon/internal/freebox"
)

// TestExitCodeFor tests the error-to-exit-code mapping.
func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "bad credentials is an authentication failure",
			err:  freebox.ErrBadCredentials,
			want: exitAuth,
		},
		{
			name: "rejected session is an authentication failure",
			err:  freebox.ErrSessionRejected,
			want: exitAuth,
		},
		{
			name: "missing password is an authentication failure",
			err:  config.ErrNoPassword,
			want: exitAuth,
		},
		{
			name: "unreachable router is a transport failure",
			err:  freebox.ErrRouterUnreachable,
			want: exitTransport,
		},
		{
			name: "wrapped sentinel keeps its class",
			err:  errors.Join(errors.New("context"), freebox.ErrRouterUnreachable),
			want: exitTransport,
		},
		{
			name: "anything else is a usage error",
			err:  errors.New("unknown flag"),
			want: exitUsage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// TestBuildConfigFlagOverrides tests that flags override file settings
// and defaults.
func TestBuildConfigFlagOverrides(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), "fbxmon.yml")
	content := []byte("base_url: http://file.example\ntimeout: 5s\nauth_retries: 7\n")
	if err := os.WriteFile(configPath, content, 0600); err != nil {
		t.Fatal(err)
	}

	cmd := NewRootCmd()
	for flag, value := range map[string]string{
		"config":   configPath,
		"base-url": "http://flag.example",
		"history":  "true",
		"verbose":  "true",
	} {
		if err := cmd.PersistentFlags().Set(flag, value); err != nil {
			t.Fatal(err)
		}
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		t.Fatalf("buildConfig failed: %v", err)
	}

	if cfg.BaseURL != "http://flag.example" {
		t.Errorf("BaseURL = %q, want the flag value", cfg.BaseURL)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want the file value 5s", cfg.Timeout)
	}
	if cfg.AuthRetries != 7 {
		t.Errorf("AuthRetries = %d, want the file value 7", cfg.AuthRetries)
	}
	if !cfg.History {
		t.Error("History = false, want true from flag")
	}
	if !cfg.Verbose {
		t.Error("Verbose = false, want true from flag")
	}
}

// TestBuildConfigExplicitFileMissing tests that a user-specified config
// file that does not exist is an error, unlike the optional default file.
func TestBuildConfigExplicitFileMissing(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	missing := filepath.Join(t.TempDir(), "no-such-file")
	if err := cmd.PersistentFlags().Set("config", missing); err != nil {
		t.Fatal(err)
	}

	if _, err := buildConfig(cmd); err == nil {
		t.Error("buildConfig should fail for an explicit missing config file")
	}
}

// TestRootCmdUnknownSubcommand tests that an unknown subcommand fails.
func TestRootCmdUnknownSubcommand(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"nosuchmetric"})
	if err := cmd.Execute(); err == nil {
		t.Error("Execute should fail for an unknown subcommand")
	}
}
