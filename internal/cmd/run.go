package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Iron-Ham/parsort/internal/config"
	"github.com/Iron-Ham/parsort/internal/coordinator"
	"github.com/Iron-Ham/parsort/internal/heartbeat"
	"github.com/Iron-Ham/parsort/internal/logging"
	"github.com/Iron-Ham/parsort/internal/render"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var runCmd = &cobra.Command{
	Use:   "run <FILE>",
	Short: "Sort a data file",
	Long: `Sort the integers stored in FILE. The first integer of the file is the
element count; that many integers follow.

Levels above 10 and workers above 512 are lowered to those limits.
Press Ctrl+C to stop the run; shared resources are released either way.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	defaults := config.Default()
	runCmd.Flags().IntP("levels", "l", defaults.Sort.Levels, "number of merge levels (1-10)")
	runCmd.Flags().IntP("workers", "w", defaults.Sort.Workers, "number of workers (1-512)")
	runCmd.Flags().Duration("delay", defaults.Sort.Delay, "artificial delay per sort step")
	runCmd.Flags().Duration("interval", defaults.Heartbeat.Interval, "heartbeat interval")
	runCmd.Flags().Bool("tui", defaults.Render.TUI, "show the run in an interactive viewer")

	_ = viper.BindPFlag("sort.levels", runCmd.Flags().Lookup("levels"))
	_ = viper.BindPFlag("sort.workers", runCmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("sort.delay", runCmd.Flags().Lookup("delay"))
	_ = viper.BindPFlag("heartbeat.interval", runCmd.Flags().Lookup("interval"))
	_ = viper.BindPFlag("render.tui", runCmd.Flags().Lookup("tui"))

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, warnings, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Close() }()
	logger = logger.WithRun(cfg.Runtime.Name)

	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
		logger.Warn("configuration adjusted", "detail", w)
	}

	// A signal cancels the run; the coordinator then takes the shutdown path.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var renderer heartbeat.Renderer
	if cfg.Render.TUI {
		viewer := render.NewViewer(cmd.OutOrStdout(), cfg.Render.Width, stop)
		defer func() { _ = viewer.Close() }()
		renderer = viewer
	} else {
		renderer = render.NewText(cmd.OutOrStdout(), cfg.Render.Width)
	}

	coord := coordinator.New(coordinator.Options{
		Path:          args[0],
		Levels:        cfg.Sort.Levels,
		Workers:       cfg.Sort.Workers,
		Delay:         cfg.Sort.Delay,
		QueueCapacity: cfg.Sort.QueueCapacity,
		Interval:      cfg.Heartbeat.Interval,
		RuntimeDir:    cfg.Runtime.Dir,
		Name:          cfg.Runtime.Name,
		Renderer:      renderer,
		Logger:        logger,
	})

	report, err := coord.Run(ctx)
	if err != nil {
		return err
	}
	printReport(cmd.OutOrStdout(), report)
	return nil
}

func printReport(w io.Writer, r *coordinator.Report) {
	if r.Interrupted {
		fmt.Fprintf(w, "\nInterrupted after %s\n", r.Elapsed.Round(time.Millisecond))
	} else {
		fmt.Fprintf(w, "\nSorted %s elements in %s (%d tasks, %d heartbeat rounds)\n",
			humanize.Comma(int64(r.Elements)), r.Elapsed.Round(time.Millisecond), r.Dispatched, r.Rounds)
	}
	for slot, s := range r.Workers {
		fmt.Fprintf(w, "  worker %d: %d tasks, %s elements\n", slot, s.Tasks, humanize.Comma(int64(s.Elements)))
	}
}
