package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bilgisen/breakdown/internal/api"
	"github.com/bilgisen/breakdown/internal/config"
	"github.com/bilgisen/breakdown/internal/logger"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:          "breakdown",
	Short:        "The Breakdown content service",
	Long:         "breakdown serves the satirical news site's articles, comics and reader submissions over HTTP and in the terminal.",
	SilenceUsage: true,
}

func init() {
	api.Version = version

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "breakdown %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

// setup loads configuration and starts logging to output. An empty output
// falls back to LOG_FILE, then stdout.
func setup(output string) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if output == "" {
		output = cfg.LogFile
	}
	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: output,
		Pretty: cfg.LogPretty,
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
