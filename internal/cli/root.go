// Package cli provides the command-line interface for regcompare.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/agenthands/regcompare/internal/config"
	"github.com/agenthands/regcompare/internal/core"
	"github.com/agenthands/regcompare/internal/core/matcher"
	"github.com/agenthands/regcompare/internal/driver"
	"github.com/agenthands/regcompare/internal/metrics"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	configPath string
	verbose    bool

	cfg      *config.Config
	logger   *slog.Logger
	closeLog func() error
)

var rootCmd = &cobra.Command{
	Use:   "regcompare",
	Short: "Compare two sources of the same genealogical register page",
	Long: `regcompare measures how well one source of a register page (usually an
automatic extraction) reproduces another (usually a manual transcription).

Persons are matched entry by entry, then references, relationships and
events of every matched pair are compared.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		var err error
		cfg, err = config.LoadOrDefault(configPath)
		if err != nil {
			return err
		}
		if err := cfg.ApplyEnv(); err != nil {
			return err
		}
		if verbose {
			cfg.Log.Level = "debug"
		}

		logger, closeLog, err = cfg.Logger()
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if closeLog != nil {
			if err := closeLog(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "regcompare", Version)
	},
}

// openEngine builds an engine from the loaded configuration. With archive
// set, the Memgraph connection is required and closed by the returned func.
func openEngine(ctx context.Context, archive bool) (*core.Engine, func(), error) {
	opts := matcher.Options{SimilarityThreshold: cfg.Matcher.SimilarityThreshold}
	if !archive {
		return core.NewEngine(nil, opts, metrics.New(), logger), func() {}, nil
	}
	if cfg.Memgraph.URI == "" {
		return nil, nil, fmt.Errorf("archive requested but no memgraph uri configured")
	}

	d, err := driver.NewMemgraphDriver(ctx, cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to memgraph: %w", err)
	}
	engine := core.NewEngine(d, opts, metrics.New(), logger)
	if err := engine.BuildIndices(ctx); err != nil {
		logger.Warn("failed to build indices", "error", err)
	}
	return engine, func() { _ = d.Close(context.Background()) }, nil
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("CONFIG_PATH"), "TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(versionCmd)
}
