package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/fbxmon/internal/config"
	"github.com/nao1215/fbxmon/internal/freebox"
	"github.com/nao1215/fbxmon/internal/metric"
)

// Process exit codes. The scheduler only distinguishes zero from
// non-zero, but distinct codes tell a human which class of failure
// killed the run without reading logs.
const (
	exitOK        = 0
	exitUsage     = 1
	exitAuth      = 2
	exitTransport = 3
)

// NewRootCmd creates the root command for fbxmon.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fbxmon",
		Short: "Munin metrics agent for the Freebox ADSL router",
		Long: `fbxmon collects operational telemetry from a Freebox ADSL router by
scraping its web management interface, and reports the values in the
Munin plugin protocol on stdout.

Each metric family is a subcommand, invoked once per scheduler interval.
Passing "config" as the positional argument emits the static graph
metadata instead of fetching data:

  fbxmon status          # fetch and report the link state
  fbxmon status config   # emit the graph metadata for the status family

The router password comes from the ` + config.PasswordEnv + ` environment
variable or the optional ` + config.DefaultConfigFile + ` config file.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: "+config.DefaultConfigFile+" in current or home directory)")
	cmd.PersistentFlags().String("base-url", "",
		"Router base URL (default: "+config.DefaultBaseURL+")")
	cmd.PersistentFlags().Duration("timeout", 0,
		fmt.Sprintf("Per-request transport timeout (default: %s)", config.DefaultTimeout))
	cmd.PersistentFlags().Bool("history", false,
		"Record collected samples to the history database")

	// One subcommand per metric family, plus the extras
	for _, family := range metric.Families() {
		cmd.AddCommand(NewMetricCmd(family))
	}
	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command and maps failures to exit codes.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps an error to the process exit code.
// Credential problems (including a missing password and an exhausted
// re-auth loop) are authentication failures; an unreachable router is a
// transport failure; everything else is a usage error.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, freebox.ErrBadCredentials),
		errors.Is(err, freebox.ErrSessionRejected),
		errors.Is(err, config.ErrNoPassword):
		return exitAuth
	case errors.Is(err, freebox.ErrRouterUnreachable):
		return exitTransport
	default:
		return exitUsage
	}
}

// buildConfig assembles the configuration from defaults, the
// environment, the optional config file, and flags, in that order.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath = configPath

	// If the user explicitly specified a config file, it must exist.
	// Otherwise a missing file just means defaults.
	found := config.FindConfigFile(configPath)
	if found != "" {
		f, err := config.LoadConfigFile(found)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", found, err)
		}
		f.Apply(cfg)
	} else if configPath != "" {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	if baseURL, err := cmd.Flags().GetString("base-url"); err != nil {
		return nil, err
	} else if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	if timeout, err := cmd.Flags().GetDuration("timeout"); err != nil {
		return nil, err
	} else if timeout > 0 {
		cfg.Timeout = timeout
	}

	if history, err := cmd.Flags().GetBool("history"); err != nil {
		return nil, err
	} else if history {
		cfg.History = true
	}

	cfg.Verbose, err = cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
