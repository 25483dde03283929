package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/fbxmon/internal/metric"
	"github.com/nao1215/fbxmon/internal/report"
)

func testCollection(t *testing.T) *report.Collection {
	t.Helper()

	fan, ok := metric.Lookup("fan")
	if !ok {
		t.Fatal("fan family not registered")
	}
	return &report.Collection{
		BaseURL:     "http://mafreebox.freebox.fr",
		CollectedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Results: []report.FamilyResult{
			{Family: fan, Samples: []metric.Sample{{Key: "fan", Value: "2810"}}},
		},
	}
}

// TestWriteReportStdout tests rendering to the fallback writer.
func TestWriteReportStdout(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := writeReport(&buf, "", testCollection(t)); err != nil {
		t.Fatalf("writeReport failed: %v", err)
	}
	if !strings.Contains(buf.String(), "# Freebox Metrics Report") {
		t.Errorf("output missing the report heading:\n%s", buf.String())
	}
}

// TestWriteReportFile tests rendering to a file, creating parent
// directories as needed.
func TestWriteReportFile(t *testing.T) {
	t.Parallel()

	outputPath := filepath.Join(t.TempDir(), "reports", "freebox.md")
	if err := writeReport(&bytes.Buffer{}, outputPath, testCollection(t)); err != nil {
		t.Fatalf("writeReport failed: %v", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("failed to read report file: %v", err)
	}
	if !strings.Contains(string(data), "2810") {
		t.Errorf("report file missing the sample value:\n%s", data)
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("report file permissions = %o, want 0600", perm)
	}
}

// TestReportCmdRejectsArgs tests that report takes no positional arguments.
func TestReportCmdRejectsArgs(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"report", "extra"})

	if err := cmd.Execute(); err == nil {
		t.Error("Execute should reject positional arguments")
	}
}
