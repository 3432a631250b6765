package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wpbt/beta-tester/internal/config"
	"github.com/wpbt/beta-tester/internal/service/client"
	"github.com/wpbt/beta-tester/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// serverAddress overrides server_addr from the configuration.
	serverAddress string

	// rootCmd represents the base command of the operator CLI.
	rootCmd = &cobra.Command{
		Use:   "wpbt",
		Short: "Manage WordPress beta testing.",
		Long: `Operator CLI for wpbt-server.

Choose the release stream WordPress is updated to, inspect the version sent
in core update checks, check the configuration for downgrades, and prepare
the beta-testing dashboard and bug report templates.`,
		SilenceUsage: true,
	}
)

// Execute runs the wpbt CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// signalContext returns a context canceled on SIGTERM or SIGINT.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
}

// clientOptions builds the options shared by commands talking to wpbt-server.
func clientOptions(cmd *cobra.Command) *client.Options {
	return &client.Options{
		ConfigPath:    configPath,
		ServerAddress: serverAddress,
		Out:           cmd.OutOrStdout(),
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().
		StringVarP(&serverAddress, "server", "s", "", "wpbt-server admin API address (overrides server_addr)")
}
