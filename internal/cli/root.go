package cli

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/aryankumar/taskium/internal/config"
	"github.com/aryankumar/taskium/internal/util"
	"github.com/aryankumar/taskium/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
)

// Execute runs the root command with the provided context
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

// newRootCmd creates the root command
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "taskium",
		Short: "Taskium - fixed-size worker pool with a Monte-Carlo Pi demo",
		Long: `Taskium runs independent tasks on a fixed number of worker goroutines
sharing a single FIFO queue. The pi command estimates π by submitting
Monte-Carlo sampling tasks to the pool and aggregating their results.`,
		Version:       version.Get().Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd)
		},
	}

	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Define persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.taskium.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format (json, yaml, table)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output with debug logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().Duration("timeout", config.DefaultTimeout, "timeout for a whole run (0 disables it)")

	// Bind flags to viper
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("no-color", rootCmd.PersistentFlags().Lookup("no-color"))
	viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))

	// Add subcommands
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newPiCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// initConfig initializes global flag/env binding and logging
// TASKIUM_OUTPUT, TASKIUM_NO_COLOR and TASKIUM_TIMEOUT behave like their flags
func initConfig(cmd *cobra.Command) error {
	viper.SetEnvPrefix("TASKIUM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	setupLogging(cmd)

	return nil
}

// loadConfig reads the config file and TASKIUM_DEFAULTS_* environment, then applies
// the global flags and their environment variables on top
func loadConfig() (*config.Config, error) {
	mgr := config.NewManager(cfgFile)
	cfg, err := mgr.Load()
	if err != nil {
		return nil, err
	}

	if viper.IsSet("output") {
		cfg.Defaults.OutputFormat = viper.GetString("output")
	}
	if viper.IsSet("no-color") {
		cfg.Defaults.NoColor = viper.GetBool("no-color")
	}
	if viper.IsSet("timeout") {
		cfg.Defaults.Timeout = viper.GetDuration("timeout")
		if cfg.Defaults.Timeout < 0 {
			return nil, util.NewValidationError("timeout", cfg.Defaults.Timeout, "must not be negative (0 disables the timeout)")
		}
	}

	if used := mgr.ConfigFileUsed(); used != "" {
		slog.Debug("loaded configuration", "file", used)
	}

	return cfg, nil
}

// setupLogging configures structured logging with slog
func setupLogging(cmd *cobra.Command) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	noColor, _ := cmd.Flags().GetBool("no-color")

	// Set log level based on verbose flag
	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if noColor {
		// Machine-readable logs when colour is off
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))

	if verbose {
		slog.Debug("verbose logging enabled")
	}
}
