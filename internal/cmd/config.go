package cmd

import (
	"fmt"

	"github.com/Iron-Ham/parsort/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the effective configuration after defaults, the config file and
PARSORT_* environment variables have been applied.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, warnings, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	out := cmd.OutOrStdout()
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "# config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "# config file: (none - using defaults)\n")
	}
	for _, w := range warnings {
		fmt.Fprintf(out, "# warning: %s\n", w)
	}

	doc := map[string]any{
		"sort": map[string]any{
			"levels":         cfg.Sort.Levels,
			"workers":        cfg.Sort.Workers,
			"delay":          cfg.Sort.Delay.String(),
			"queue_capacity": cfg.Sort.QueueCapacity,
		},
		"heartbeat": map[string]any{
			"interval": cfg.Heartbeat.Interval.String(),
		},
		"runtime": map[string]any{
			"dir":  cfg.Runtime.Dir,
			"name": cfg.Runtime.Name,
		},
		"logging": map[string]any{
			"level": cfg.Logging.Level,
			"dir":   cfg.Logging.Dir,
		},
		"render": map[string]any{
			"tui":   cfg.Render.TUI,
			"width": cfg.Render.Width,
		},
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()
	return enc.Encode(doc)
}
