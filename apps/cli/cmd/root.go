package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/abdul-hamid-achik/snapmatch/packages/core/config"
	"github.com/abdul-hamid-achik/snapmatch/packages/core/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	configFlag   string
	noColorFlag  bool
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "snapmatch",
	Short: "Named snapshots for rendered content.",
	Long: `snapmatch stores rendered content as named snapshot files and compares
later renders against them. Snapshots live in a __snapshots__ directory
next to the content they describe.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitError carries a process exit code through cobra's error return.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func withExitCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitUsageError
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to a config file")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads the config file and SNAPMATCH_ environment settings and
// applies the persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadWithEnv(configFlag, ".")
	if err != nil {
		return nil, withExitCode(ExitConfigError, fmt.Errorf("failed to load config: %w", err))
	}

	override := &config.Config{LogLevel: logLevelFlag}
	if cmd.Flags().Changed("no-color") {
		override.NoColor = config.BoolPtr(noColorFlag)
	}
	return cfg.Merge(override), nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) *logrus.Logger {
	return logging.New(logging.Options{
		Level:   cfg.LogLevel,
		NoColor: !cfg.GetColor(),
		Output:  cmd.ErrOrStderr(),
	})
}
