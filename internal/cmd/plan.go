package cmd

import (
	"fmt"

	"github.com/Iron-Ham/parsort/internal/config"
	"github.com/Iron-Ham/parsort/internal/dataset"
	"github.com/Iron-Ham/parsort/internal/tasktable"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var planCmd = &cobra.Command{
	Use:   "plan <FILE>",
	Short: "Print the merge tree for a data file without sorting",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().IntP("levels", "l", 0, "number of merge levels (default from config)")
	rootCmd.AddCommand(planCmd)
}

// planOutput is the YAML document printed by plan.
type planOutput struct {
	File     string             `yaml:"file"`
	Elements int                `yaml:"elements"`
	Levels   int                `yaml:"levels"`
	Tasks    [][]tasktable.Task `yaml:"tasks"`
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, warnings, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if f := cmd.Flags().Lookup("levels"); f != nil && f.Changed {
		levels, err := cmd.Flags().GetInt("levels")
		if err != nil {
			return err
		}
		cfg.Sort.Levels = levels
		warnings = append(warnings, cfg.Clamp()...)
		if errs := cfg.Validate(); len(errs) > 0 {
			return fmt.Errorf("invalid configuration: %w", config.ValidationErrors(errs))
		}
	}
	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}

	table, err := dataset.Initialize(afero.NewOsFs(), args[0], cfg.Sort.Levels, cfg.Sort.Workers, 0)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", args[0], err)
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()
	return enc.Encode(planOutput{
		File:     args[0],
		Elements: table.Len(),
		Levels:   table.Levels(),
		Tasks:    table.Snapshot(),
	})
}
