package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wpbt/beta-tester/internal/service/client"
)

var (
	// noticeHTML prints the downgrade warning as admin notice markup.
	noticeHTML bool

	requestVersionCmd = &cobra.Command{
		Use:   "request-version",
		Short: "Print the version reported in core update checks.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signalContext()
			defer stop()

			return client.ShowRequestVersion(ctx, clientOptions(cmd))
		},
	}

	checkDowngradeCmd = &cobra.Command{
		Use:   "check-downgrade",
		Short: "Check whether the selected stream downgrades the install.",
		Long: `Refreshes the update check and compares the offered version with the
installed one. Exits with a non-zero status when the offer is older.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signalContext()
			defer stop()

			return client.CheckDowngrade(ctx, clientOptions(cmd), noticeHTML)
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	checkDowngradeCmd.Flags().BoolVar(&noticeHTML, "html", false, "print the warning as an admin notice")

	rootCmd.AddCommand(requestVersionCmd, checkDowngradeCmd)
}
