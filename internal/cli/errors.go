package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/wpreport/internal/app"
	"github.com/five82/wpreport/internal/client"
	"github.com/five82/wpreport/internal/errorlog"
	"github.com/five82/wpreport/internal/report"
)

const defaultTermWidth = 120

func newErrorsCommand(root *rootOptions) *cobra.Command {
	var (
		logType string
		limit   int
		format  string
		width   int
		remote  remoteOptions
	)

	cmd := &cobra.Command{
		Use:   "errors",
		Short: "Print the most recent errors",
		Long: `Print the most recent errors from the WordPress debug log and the
server error logs, newest first.

Examples:
  wpreport errors
  wpreport errors --type server --limit 25
  wpreport errors --format json | jq '.[].message'
  wpreport errors --remote web1:7490 --token $TOKEN`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := parseType(logType)
			if err != nil {
				return err
			}
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}
			cfg, err := root.load()
			if err != nil {
				return err
			}

			logger := consoleLogger(cmd, cfg)
			var records []errorlog.Record
			if remote.enabled() {
				c, err := remote.client(cfg)
				if err != nil {
					return err
				}
				records, err = c.FetchErrors(cmd.Context(), client.Query{Filter: filter, Limit: limit})
				if err != nil {
					return err
				}
			} else {
				records = app.NewService(cfg, logger).Records(cmd.Context(), filter, limit)
			}
			logger.Debug().Int("count", len(records)).Str("type", filter.Label()).Msg("extracted")

			out := cmd.OutOrStdout()
			switch strings.ToLower(format) {
			case "json":
				return report.WriteJSON(out, records)
			case "csv":
				return report.WriteCSV(out, records)
			case "table", "":
				return report.WriteTable(out, records, terminalWidth(width))
			default:
				return fmt.Errorf("unknown format %q (want table, json or csv)", format)
			}
		},
	}

	addTypeFlag(cmd, &logType)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum records (default: logs.max_results)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json, csv")
	cmd.Flags().IntVar(&width, "width", 0, "table width (default: $COLUMNS or 120)")
	remote.register(cmd)
	return cmd
}

func terminalWidth(flag int) int {
	if flag > 0 {
		return flag
	}
	if cols, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && cols > 0 {
		return cols
	}
	return defaultTermWidth
}
