package cli

import (
	"github.com/spf13/cobra"

	"github.com/five82/wpreport/internal/app"
)

func newTUICommand(root *rootOptions) *cobra.Command {
	var (
		logType   string
		pollEvery int
		prefsPath string
	)

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse recent errors interactively",
		Long: `Open a terminal viewer that refreshes when log files change.

Logs are written to the [logging] file so the screen stays clean.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := parseType(logType)
			if err != nil {
				return err
			}
			cfg, err := root.load()
			if err != nil {
				return err
			}
			return app.Run(cmd.Context(), app.Options{
				Config:    cfg,
				PrefsPath: prefsPath,
				PollEvery: pollEvery,
				Filter:    filter,
				HasFilter: cmd.Flags().Changed("type"),
			})
		},
	}

	addTypeFlag(cmd, &logType)
	cmd.Flags().IntVar(&pollEvery, "poll", 0, "refresh interval in seconds (default 5)")
	cmd.Flags().StringVar(&prefsPath, "prefs", "", "preferences file (default: ~/.config/wpreport/prefs.toml)")
	return cmd
}
