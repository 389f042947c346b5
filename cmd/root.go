package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mj1618/desktop-recorder/internal/config"
	"github.com/mj1618/desktop-recorder/internal/logging"
	"github.com/mj1618/desktop-recorder/internal/output"
	"github.com/mj1618/desktop-recorder/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "desktop-recorder",
	Short: "Turn recorded desktop interactions into pywinauto scripts",
	Long: `A CLI tool that replays captured hook and accessibility events against a
control-tree snapshot and generates the pywinauto code reproducing them.`,
	SilenceUsage: true,
}

// appConfig and appLogger are populated by the root PersistentPreRunE.
var (
	appConfig = config.Default()
	appLogger = slog.Default()
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("config", "", "Config file (default ./"+config.DefaultFileName+" if present)")
	rootCmd.PersistentFlags().String("format", "", "Output format for structured results: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Indent JSON output")
	rootCmd.PersistentFlags().Bool("key-only", false, "Always emit [u'name'] accessors")
	rootCmd.PersistentFlags().Bool("scale-click", false, "Emit clicks relative to the element rectangle")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text, json")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return setupRoot(cmd)
	}
}

// setupRoot loads the config file, applies flag overrides, and builds the
// logger and output settings shared by every subcommand.
func setupRoot(cmd *cobra.Command) error {
	flags := rootCmd.PersistentFlags()
	path, _ := flags.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	if flags.Changed("key-only") {
		cfg.Recorder.KeyOnly, _ = flags.GetBool("key-only")
	}
	if flags.Changed("scale-click") {
		cfg.Recorder.ScaleClick, _ = flags.GetBool("scale-click")
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.Logging.Level = v
	}
	if v, _ := flags.GetString("log-format"); v != "" {
		cfg.Logging.Format = v
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	format, _ := flags.GetString("format")
	f, err := output.ParseFormat(format)
	if err != nil {
		return err
	}
	output.OutputFormat = f
	output.PrettyOutput, _ = flags.GetBool("pretty")

	appConfig = cfg
	appLogger = logger
	logger.Debug("configuration loaded", "source", cfg.Source)
	return nil
}
