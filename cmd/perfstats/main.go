// Command perfstats computes performance reports and matrices from the
// command line, sharing the price cache with the server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aristath/perfstats/internal/config"
	"github.com/aristath/perfstats/internal/di"
	"github.com/aristath/perfstats/pkg/logger"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var (
	cfg *config.Config
	log zerolog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "perfstats",
	Short:         "Performance statistics for price series",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := cfg.LogLevel
		if override, _ := cmd.Flags().GetString("log-level"); override != "" {
			level = override
		}
		if offline, _ := cmd.Flags().GetBool("offline"); offline {
			cfg.OfflineMode = true
		}

		log = logger.New(logger.Config{
			Level:  level,
			Pretty: true,
			Output: os.Stderr,
		})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("offline", false, "serve prices from the cache only")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(matrixCmd)
	rootCmd.AddCommand(portfolioCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("perfstats %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// withContainer wires dependencies for a single command run
func withContainer(ctx context.Context, fn func(*di.Container) error) error {
	container, err := di.Wire(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer container.Close()
	return fn(container)
}
