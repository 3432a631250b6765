package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wpbt/beta-tester/internal/service/client"
	"github.com/wpbt/beta-tester/internal/service/common"
)

var (
	// settingsCmd groups the option store commands.
	settingsCmd = &cobra.Command{
		Use:   "settings",
		Short: "Show or change the release stream settings.",
	}

	settingsGetCmd = &cobra.Command{
		Use:   "get",
		Short: "Print the stored settings.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signalContext()
			defer stop()

			return client.ShowSettings(ctx, clientOptions(cmd))
		},
	}

	settingsSetCmd = &cobra.Command{
		Use:   "set",
		Short: "Change the stored settings.",
		Long: `Changes the settings passed as flags and keeps the others.

Streams: point, unstable, beta-rc-point, beta-rc-unstable, beta-rc.
The cached update check is refreshed right away so that the new stream is
offered on the next visit to the updates screen.`,
		Example: `  wpbt settings set --stream beta-rc-unstable --stream-option rc
  wpbt settings set --revert=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signalContext()
			defer stop()

			return client.UpdateSettings(ctx, clientOptions(cmd), settingsPatch(cmd))
		},
	}

	settingsStream       string
	settingsRevert       bool
	settingsChannel      string
	settingsStreamOption string
)

// settingsPatch keeps only the flags given on the command line.
func settingsPatch(cmd *cobra.Command) common.SettingsPatch {
	var patch common.SettingsPatch

	flags := cmd.Flags()

	if flags.Changed("stream") {
		patch.Stream = &settingsStream
	}

	if flags.Changed("revert") {
		patch.Revert = &settingsRevert
	}

	if flags.Changed("channel") {
		patch.Channel = &settingsChannel
	}

	if flags.Changed("stream-option") {
		patch.StreamOption = &settingsStreamOption
	}

	return patch
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	settingsSetCmd.Flags().StringVar(&settingsStream, "stream", "", "release stream to follow")
	settingsSetCmd.Flags().BoolVar(&settingsRevert, "revert", true, "correct the request version after switching to an earlier stream")
	settingsSetCmd.Flags().StringVar(&settingsChannel, "channel", "", "channel sent with update checks")
	settingsSetCmd.Flags().StringVar(&settingsStreamOption, "stream-option", "", "sub-option of the stream, e.g. beta or rc")

	settingsCmd.AddCommand(settingsGetCmd, settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}
