package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nao1215/fbxmon/internal/config"
	"github.com/nao1215/fbxmon/internal/database"
	"github.com/nao1215/fbxmon/internal/freebox"
	"github.com/nao1215/fbxmon/internal/log"
	"github.com/nao1215/fbxmon/internal/metric"
	"github.com/nao1215/fbxmon/internal/munin"
	"github.com/nao1215/fbxmon/internal/scrape"
)

// describeArg is the positional argument selecting describe mode.
const describeArg = "config"

// NewMetricCmd creates the subcommand for one metric family.
//
// Design decision: We generate the per-family commands from the metric
// registry instead of hand-writing seven near-identical files because
// the families differ only in data (page, fields, collector); the
// command-side behavior is uniform and belongs in one place.
func NewMetricCmd(family *metric.Family) *cobra.Command {
	return &cobra.Command{
		Use:   family.Name + " [config]",
		Short: family.Short,
		Long: family.Short + `.

Without arguments, fetches the router page and prints one value line per
field. With the "config" argument, prints the static graph metadata
without contacting the router.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if args[0] != describeArg {
					return fmt.Errorf("unknown argument %q (only %q is accepted)", args[0], describeArg)
				}
				// Describe mode is static output: no password, no network.
				return munin.NewWriter(cmd.OutOrStdout()).WriteConfig(family)
			}
			return runMetric(cmd, family)
		},
	}
}

// runMetric runs one fetch-mode invocation of a metric family.
func runMetric(cmd *cobra.Command, family *metric.Family) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := log.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)

	samples, err := collectFamily(cmd, cfg, logger, family)
	if err != nil {
		return err
	}

	if cfg.History {
		recordHistory(cmd, cfg, logger, family, samples)
	}

	return munin.NewWriter(cmd.OutOrStdout()).WriteValues(samples)
}

// collectFamily fetches the family's router page and extracts its samples.
func collectFamily(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, family *metric.Family) ([]metric.Sample, error) {
	client, err := freebox.NewClient(cfg.BaseURL, cfg.Password, cfg.Timeout,
		freebox.WithTokenStore(freebox.NewTokenStore(config.TokenPath())),
		freebox.WithScratchPath(config.ScratchPath()),
		freebox.WithAuthRetries(cfg.AuthRetries),
		freebox.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	path := pagePath(cfg, family.Page)
	page, err := client.FetchPage(cmd.Context(), path)
	if err != nil {
		return nil, err
	}

	snapshot := scrape.Snapshot(page.Body, page.ContentType)
	return family.Collect(snapshot), nil
}

// pagePath resolves a family's page kind to the configured router path.
func pagePath(cfg *config.Config, kind metric.PageKind) string {
	switch kind {
	case metric.PageConnection:
		return cfg.Pages.Connection
	case metric.PageSystem:
		return cfg.Pages.System
	default:
		return cfg.Pages.DSL
	}
}

// recordHistory appends the samples to the history database.
// History is an extra; a recording failure is logged and never fails the
// invocation, because the scheduler's value lines must still go out.
func recordHistory(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, family *metric.Family, samples []metric.Sample) {
	hdb, err := database.Open(config.HistoryDir())
	if err != nil {
		logger.Warn("failed to open history database", "error", err)
		return
	}
	defer func() {
		if err := hdb.Close(); err != nil {
			logger.Warn("failed to close history database", "error", err)
		}
	}()

	if err := hdb.Record(cmd.Context(), family.Name, samples); err != nil {
		logger.Warn("failed to record samples", "family", family.Name, "error", err)
	}
}
