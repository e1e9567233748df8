// Package main provides the vocafit command line: the HTTP API server and
// offline scoring tools.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/okian/vocafit/internal/config"
	"github.com/okian/vocafit/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:           "vocafit",
	Short:         "Career compatibility scoring engine",
	Long:          "vocafit scores RIASEC, Gardner and GOPC questionnaire results against a curated catalog of careers and ranks the most compatible ones.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setup(cmd)
	},
}

// cfg is loaded once per invocation before any subcommand runs.
var cfg *config.Config

// setup loads configuration and initializes logging. Logs go to stderr so
// command output on stdout stays machine readable.
func setup(cmd *cobra.Command) error {
	loaded, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	if err := logger.Init(logger.WithFormat(loaded.LogFormat), logger.WithOutput(cmd.ErrOrStderr())); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	if err := logger.SetLevelString(loaded.LogLevel); err != nil {
		logger.Get().Warn(cmd.Context(), "invalid log_level; falling back to info",
			logger.String("log_level", loaded.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	cfg = loaded
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
