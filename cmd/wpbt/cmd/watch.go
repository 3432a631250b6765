package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/wpbt/beta-tester/internal/service/checker"
)

var (
	// watchInterval is the delay between downgrade checks.
	watchInterval time.Duration

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Keep checking the configuration for downgrades.",
		Long: `Asks wpbt-server for a downgrade check right away and then on every
interval, logging a warning whenever the update on offer is older than the
installed release. Runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signalContext()
			defer stop()

			return checker.Run(ctx, &checker.Options{
				ConfigPath:    configPath,
				ServerAddress: serverAddress,
				PollInterval:  watchInterval,
			})
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	watchCmd.Flags().DurationVarP(&watchInterval, "interval", "i", checker.DefaultPollInterval, "delay between checks")

	rootCmd.AddCommand(watchCmd)
}
