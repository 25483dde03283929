package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestVersionCmd tests the version command output.
func TestVersionCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if !strings.Contains(buf.String(), "fbxmon version") {
		t.Errorf("output = %q, expected the version line", buf.String())
	}
}

// TestGetVersion tests the ldflags-first fallback chain.
func TestGetVersion(t *testing.T) {
	t.Run("ldflags value wins", func(t *testing.T) {
		original := version
		t.Cleanup(func() { version = original })

		version = "v1.2.3"
		if got := getVersion(); got != "v1.2.3" {
			t.Errorf("getVersion() = %q, want v1.2.3", got)
		}
	})

	t.Run("falls back without ldflags", func(t *testing.T) {
		original := version
		t.Cleanup(func() { version = original })

		version = ""
		if got := getVersion(); got == "" {
			t.Error("getVersion() should never be empty")
		}
	})
}
