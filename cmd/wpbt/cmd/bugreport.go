package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/wpbt/beta-tester/internal/service/bugreport"
)

var (
	reportFormat         string
	reportOutput         string
	reportUserAgent      string
	reportMobile         bool
	reportServerSoftware string

	bugReportCmd = &cobra.Command{
		Use:   "bug-report",
		Short: "Print bug report templates for Trac and GitHub.",
		Long: `Collects the environment of the install and fills the bug report
templates. After pasting a template, complete the Steps to Reproduce,
Expected Results and Actual Results sections.`,
		Example: `  wpbt bug-report --format markdown --user-agent "$UA"
  wpbt bug-report --output terminal`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signalContext()
			defer stop()

			return bugreport.Run(ctx, &bugreport.Options{
				ConfigPath: configPath,
				Format:     reportFormat,
				Output:     reportOutput,
				Request: bugreport.Request{
					UserAgent:      reportUserAgent,
					MobileHint:     reportMobile,
					ServerSoftware: reportServerSoftware,
				},
				Out: cmd.OutOrStdout(),
			})
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := bugReportCmd.Flags()

	flags.StringVarP(&reportFormat, "format", "f", "", "template format: wiki or markdown (default: both)")
	flags.StringVarP(&reportOutput, "output", "o", bugreport.OutputText, "output mode: text, html or terminal")
	flags.StringVar(&reportUserAgent, "user-agent", "", "browser User-Agent the bug was seen with")
	flags.BoolVar(&reportMobile, "mobile", false, "the browser is a mobile browser")
	flags.StringVar(&reportServerSoftware, "server-software", os.Getenv("SERVER_SOFTWARE"),
		"web server SERVER_SOFTWARE value (default: detected)")

	rootCmd.AddCommand(bugReportCmd)
}
