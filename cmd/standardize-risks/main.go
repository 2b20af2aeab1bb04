// cmd/standardize-risks/main.go
//
// Entry point for the Primary Risks maintenance tool. Run from the project
// root with no arguments it rewrites data/companies.json and prints a single
// summary line.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kingrea/primary-risks/internal/config"
	"github.com/kingrea/primary-risks/internal/logbook"
	"github.com/kingrea/primary-risks/internal/logging"
	"github.com/kingrea/primary-risks/internal/report"
	"github.com/kingrea/primary-risks/internal/runner"
	"github.com/kingrea/primary-risks/internal/tui"
	"github.com/kingrea/primary-risks/internal/watch"
)

var (
	// Global flags
	configPath  string
	datasetPath string
	verbose     bool

	// Root flags
	dryRun bool
	review bool
	watchF bool

	// History flags
	historyLimit int

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "standardize-risks",
	Short: "Fold Primary Risks bullet lists into a narrative body",
	Long: `Rewrites the companies dataset so that every outlook bullet numbered 5
(Primary Risks) that still carries a "risks" list and no "body" gets the
risks joined into one paragraph stored as "body". The "risks" key is removed.

The dataset is written back only when at least one bullet changed.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		projectDir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("determine working directory: %w", err)
		}
		cfg, err = config.Load(projectDir, configPath)
		if err != nil {
			return err
		}
		if datasetPath != "" {
			if err := cfg.SetDatasetPath(datasetPath); err != nil {
				return err
			}
		}
		level := cfg.LogLevel()
		if verbose {
			level = zapcore.DebugLevel
		}
		logger, err = logging.New(logging.Options{Level: level, File: cfg.LogFile()})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runStandardize,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent standardization runs",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default ./"+config.FileName+")")
	rootCmd.PersistentFlags().StringVar(&datasetPath, "data", "", "path to the companies JSON file (default data/companies.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without writing")
	rootCmd.Flags().BoolVar(&review, "review", false, "review pending changes in a terminal UI before writing")
	rootCmd.Flags().BoolVar(&watchF, "watch", false, "keep running and re-standardize when the dataset changes")
	rootCmd.MarkFlagsMutuallyExclusive("review", "watch")

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if logger != nil {
			logger.Error("standardize-risks failed", zap.Error(err))
			_ = logger.Sync()
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func runStandardize(cmd *cobra.Command, args []string) error {
	var history *logbook.Logbook
	if path := cfg.HistoryPath(); path != "" {
		var err error
		history, err = logbook.New(path)
		if err != nil {
			logger.Warn("run history disabled", zap.Error(err))
			history = nil
		}
	}
	opts := runner.Options{
		DatasetPath: cfg.DatasetPath(),
		Bullet:      cfg.Bullet(),
		DryRun:      dryRun,
		History:     history,
		Reporter:    report.New(cmd.OutOrStdout()),
		Logger:      logger,
	}
	if review {
		opts.Reviewer = tui.NewConfirmer()
	}
	r := runner.New(opts)

	ctx := cmd.Context()
	if _, err := r.Run(ctx); err != nil {
		return err
	}
	if !watchF {
		return nil
	}

	w, err := watch.New(cfg.DatasetPath(), cfg.Debounce(), func(ctx context.Context) error {
		_, err := r.Run(ctx)
		return err
	}, logger)
	if err != nil {
		return err
	}
	return w.Watch(ctx)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if cfg.HistoryPath() == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Run history is disabled; set \"history\" in %s to enable it.\n", config.FileName)
		return nil
	}
	history, err := logbook.New(cfg.HistoryPath())
	if err != nil {
		return err
	}
	entries, total, err := history.Tail(historyLimit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if total == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}
	fmt.Fprintf(out, "Showing %d of %d run(s) from %s\n", len(entries), total, history.Path())
	for _, e := range entries {
		line := fmt.Sprintf("%s  %-3d %s", e.Time.Local().Format("2006-01-02 15:04:05"), e.Changed, e.Dataset)
		if e.Declined {
			line += "  (declined)"
		}
		fmt.Fprintln(out, line)
		for _, c := range e.Companies {
			fmt.Fprintf(out, "    - %s\n", c)
		}
	}
	return nil
}
