package cli

import (
	"fmt"
	"os"

	"github.com/aryankumar/taskium/internal/config"
	"github.com/aryankumar/taskium/internal/output"
	"github.com/spf13/cobra"
)

// newConfigCmd creates the config command and its subcommands
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the taskium configuration file",
		Long: `Inspect or create the taskium configuration file.

Values are read from $HOME/.taskium.yaml (or --config) and may be overridden
with TASKIUM_DEFAULTS_* environment variables, for example
TASKIUM_DEFAULTS_THREADS=8.`,
	}

	cmd.AddCommand(newConfigViewCmd())
	cmd.AddCommand(newConfigInitCmd())

	return cmd
}

func newConfigViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			format, err := output.ParseFormat(cfg.Defaults.OutputFormat)
			if err != nil {
				return err
			}

			formatter := output.NewFormatter(format, output.WithNoColor(cfg.Defaults.NoColor))
			if format == output.FormatTable {
				return formatter.Format(cmd.OutOrStdout(), configTable(cfg))
			}
			return formatter.Format(cmd.OutOrStdout(), cfg)
		},
	}
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr := config.NewManager(cfgFile)

			path, err := mgr.Path()
			if err != nil {
				return err
			}

			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
				}
			}

			mgr.SetConfig(config.Default())

			path, err = mgr.Save()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	return cmd
}

// configTable flattens the configuration into key/value pairs
func configTable(cfg *config.Config) map[string]interface{} {
	d := cfg.Defaults
	return map[string]interface{}{
		"defaults.threads":      d.Threads,
		"defaults.points":       d.Points,
		"defaults.tasks":        d.Tasks,
		"defaults.seed":         d.Seed,
		"defaults.timeout":      d.Timeout,
		"defaults.outputFormat": d.OutputFormat,
		"defaults.noColor":      d.NoColor,
	}
}
