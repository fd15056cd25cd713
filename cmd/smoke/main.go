// Command smoke drives a running users API through its CRUD workflow.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okian/usersapi/internal/smoke"
	"github.com/okian/usersapi/pkg/logger"
)

var cfg = smoke.Config{
	BaseURL:  smoke.DefaultBaseURL,
	NumUsers: smoke.DefaultNumUsers,
	Workers:  smoke.DefaultWorkers,
	Timeout:  smoke.DefaultTimeout,
}

var rootCmd = &cobra.Command{
	Use:   "smoke",
	Short: "Run a create/update/delete/reset smoke test against the users API",
	Long: `Checks health, resets the registry, creates users concurrently,
verifies them, patches and deletes them, then resets again and verifies
the four seed users are back.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := logger.Init(); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if cfg.Verbose {
			_ = logger.SetLevelString("debug")
		}
		log := logger.Named("smoke")

		stats, err := smoke.Run(cmd.Context(), &cfg, log)
		if stats != nil {
			smoke.LogStats(cmd.Context(), log, stats)
		}
		return err
	},
}

func init() {
	rootCmd.Flags().StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "Base URL of the service")
	rootCmd.Flags().IntVar(&cfg.NumUsers, "users", cfg.NumUsers, "Number of users to create")
	rootCmd.Flags().IntVar(&cfg.Workers, "workers", cfg.Workers, "Number of concurrent workers")
	rootCmd.Flags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "HTTP request timeout")
	rootCmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Log every request")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "smoke test failed: %v\n", err)
		stop()
		os.Exit(1)
	}
}
