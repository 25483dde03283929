package database

import (
	"context"
	"testing"

	"github.com/nao1215/fbxmon/internal/metric"
)

// TestHistoryDBRoundTrip tests recording and querying samples.
func TestHistoryDBRoundTrip(t *testing.T) {
	t.Parallel()

	hdb, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer hdb.Close()

	ctx := context.Background()

	if err := hdb.Record(ctx, "temp", []metric.Sample{
		{Key: "tcpum", Value: "58"},
		{Key: "tcpub", Value: ""},
		{Key: "tsw", Value: "47"},
	}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := hdb.Record(ctx, "fan", []metric.Sample{{Key: "fan", Value: "2810"}}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	samples, err := hdb.Recent(ctx, "temp", 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("Recent returned %d samples, expected 3", len(samples))
	}

	// Newest first: tsw was inserted last within the run.
	if samples[0].Key != "tsw" || samples[0].Value != "47" {
		t.Errorf("samples[0] = %+v", samples[0])
	}

	// Absent values survive as empty strings, not zeros.
	for _, s := range samples {
		if s.Key == "tcpub" && s.Value != "" {
			t.Errorf("tcpub value = %q, expected empty", s.Value)
		}
		if s.Family != "temp" {
			t.Errorf("family = %q, expected temp", s.Family)
		}
		if s.CollectedAt.IsZero() {
			t.Errorf("sample %s has a zero timestamp", s.Key)
		}
	}
}

// TestHistoryDBRecentLimit tests the query limit and family filter.
func TestHistoryDBRecentLimit(t *testing.T) {
	t.Parallel()

	hdb, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer hdb.Close()

	ctx := context.Background()
	for range 5 {
		if err := hdb.Record(ctx, "fan", []metric.Sample{{Key: "fan", Value: "2810"}}); err != nil {
			t.Fatal(err)
		}
	}

	samples, err := hdb.Recent(ctx, "fan", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 3 {
		t.Errorf("Recent returned %d samples, expected the limit of 3", len(samples))
	}

	other, err := hdb.Recent(ctx, "temp", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != 0 {
		t.Errorf("Recent for an unrecorded family returned %d samples", len(other))
	}
}

// TestHistoryDBReopen tests that samples persist across connections.
func TestHistoryDBReopen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()

	first, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Record(ctx, "uptime", []metric.Sample{{Key: "uptime", Value: "3.17"}}); err != nil {
		t.Fatal(err)
	}
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}

	second, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()

	samples, err := second.Recent(ctx, "uptime", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 1 || samples[0].Value != "3.17" {
		t.Errorf("samples = %+v, expected the persisted uptime", samples)
	}
}
