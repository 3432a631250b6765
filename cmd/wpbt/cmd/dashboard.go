package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wpbt/beta-tester/internal/render"
	"github.com/wpbt/beta-tester/internal/service/dashboard"
)

var (
	dashboardHTML  bool
	dashboardWidth int

	dashboardCmd = &cobra.Command{
		Use:   "dashboard",
		Short: "Show the beta-testing dashboard.",
		Long: `Shows where to read about the release being tested, the latest
development news about it and where to report bugs. Only available while a
pre-release (alpha, beta or RC) is installed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signalContext()
			defer stop()

			return dashboard.Run(ctx, &dashboard.Options{
				ConfigPath: configPath,
				HTML:       dashboardHTML,
				Width:      dashboardWidth,
				Out:        cmd.OutOrStdout(),
			})
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	dashboardCmd.Flags().BoolVar(&dashboardHTML, "html", false, "print the dashboard widget markup")
	dashboardCmd.Flags().IntVarP(&dashboardWidth, "width", "w", render.DefaultWidth, "terminal word-wrap width")

	rootCmd.AddCommand(dashboardCmd)
}
