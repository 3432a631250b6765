package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wpbt/beta-tester/internal/config"
	"github.com/wpbt/beta-tester/internal/service/server"
	"github.com/wpbt/beta-tester/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// proxyAddress overrides the update-check proxy address.
	proxyAddress string

	// rootCmd represents the base command for running wpbt-server.
	rootCmd = &cobra.Command{
		Use:   "wpbt-server [listen-address]",
		Short: "Steer WordPress core update checks to a release stream.",
		Long: `Starts the update-check proxy and the admin gRPC API.

Point WordPress at the proxy instead of api.wordpress.org. Core version checks
passing through it report a synthesized version and the configured channel, so
the update server offers the release of the selected stream. Every other
request is forwarded unchanged.

Only the port from server_addr config is used for the admin API (e.g., :50051).
Listen address can be provided as argument to override config (e.g., :9090, 0.0.0.0:50051).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			return server.Run(ctx, &server.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				ProxyAddress:  proxyAddress,
			})
		},
	}
)

// Execute runs the wpbt-server CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&proxyAddress, "proxy", "p", "", "update-check proxy listen address (overrides proxy_addr)")
}
