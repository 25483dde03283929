package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/fbxmon/internal/config"
	"github.com/nao1215/fbxmon/internal/freebox"
	"github.com/nao1215/fbxmon/internal/log"
	"github.com/nao1215/fbxmon/internal/metric"
	"github.com/nao1215/fbxmon/internal/report"
	"github.com/nao1215/fbxmon/internal/scrape"
)

// NewReportCmd creates the report command, which collects every metric
// family in one session and renders a human-readable Markdown summary.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Collect all metric families and render a Markdown summary",
		Long: `Collect every metric family from the router in a single session and
render the values as a Markdown document. This output is for humans;
the monitoring scheduler consumes the per-family subcommands instead.`,
		Args: cobra.NoArgs,
		RunE: runReport,
	}

	cmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")

	return cmd
}

// runReport collects all families and writes the rendered document.
func runReport(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := log.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)

	client, err := freebox.NewClient(cfg.BaseURL, cfg.Password, cfg.Timeout,
		freebox.WithTokenStore(freebox.NewTokenStore(config.TokenPath())),
		freebox.WithScratchPath(config.ScratchPath()),
		freebox.WithAuthRetries(cfg.AuthRetries),
		freebox.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	collection := &report.Collection{
		BaseURL:     cfg.BaseURL,
		CollectedAt: time.Now(),
	}

	// Several families share a page; fetch each page once per run.
	snapshots := make(map[metric.PageKind]string)
	for _, family := range metric.Families() {
		snapshot, ok := snapshots[family.Page]
		if !ok {
			page, err := client.FetchPage(cmd.Context(), pagePath(cfg, family.Page))
			if err != nil {
				return err
			}
			snapshot = scrape.Snapshot(page.Body, page.ContentType)
			snapshots[family.Page] = snapshot
		}

		collection.Results = append(collection.Results, report.FamilyResult{
			Family:  family,
			Samples: family.Collect(snapshot),
		})
	}

	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	return writeReport(cmd.OutOrStdout(), outputPath, collection)
}

// writeReport renders the collection to the output file, or to fallback
// when no file was requested.
func writeReport(fallback io.Writer, outputPath string, collection *report.Collection) error {
	if outputPath == "" {
		return report.NewMarkdownWriter(fallback).Write(collection)
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := report.NewMarkdownWriter(file).Write(collection); err != nil {
		return err
	}
	return file.Close()
}
