package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/wpreport/internal/app"
	"github.com/five82/wpreport/internal/client"
	"github.com/five82/wpreport/internal/report"
	"github.com/five82/wpreport/internal/sources"
)

func newExportCommand(root *rootOptions) *cobra.Command {
	var (
		logType string
		limit   int
		outPath string
		remote  remoteOptions
	)

	cmd := &cobra.Command{
		Use:   "export csv|pdf",
		Short: "Write recent errors to a CSV or PDF file",
		Long: `Write the most recent errors to a CSV or PDF file. Without --out the
file is named wp-reporter-errors-<timestamp>.<ext> in the export directory.

Examples:
  wpreport export csv
  wpreport export pdf --type wordpress --out /tmp/errors.pdf
  wpreport export pdf --remote web1:7490`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"csv", "pdf"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := args[0]
			if kind != "csv" && kind != "pdf" {
				return fmt.Errorf("unknown export kind %q (want csv or pdf)", kind)
			}
			filter, err := parseType(logType)
			if err != nil {
				return err
			}
			cfg, err := root.load()
			if err != nil {
				return err
			}
			logger := consoleLogger(cmd, cfg)

			now := time.Now()
			name := report.Filename("errors", kind, now)
			var write func(io.Writer) error

			if remote.enabled() {
				c, err := remote.client(cfg)
				if err != nil {
					return err
				}
				export, err := c.FetchExport(cmd.Context(), kind, client.Query{Filter: filter, Limit: limit})
				if err != nil {
					return err
				}
				if export.Filename != "" {
					name = filepath.Base(export.Filename)
				}
				write = func(w io.Writer) error {
					_, err := io.Copy(w, bytes.NewReader(export.Body))
					return err
				}
			} else {
				records := app.NewService(cfg, logger).Records(cmd.Context(), filter, limit)
				logger.Debug().Int("records", len(records)).Msg("extracted")
				write = func(w io.Writer) error {
					if kind == "csv" {
						return report.WriteCSV(w, records)
					}
					opts := report.PDFOptions{Site: cfg.WordPress.ABSPath, GeneratedAt: now}
					if filter != sources.FilterAll {
						opts.Filter = filter.Label()
					}
					return report.WritePDF(w, records, opts)
				}
			}

			path := outPath
			if path == "" {
				path = filepath.Join(cfg.Export.Dir, name)
			}
			if err := createFile(path, write); err != nil {
				return err
			}

			logger.Info().Str("path", path).Msg("export written")
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	addTypeFlag(cmd, &logType)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum records (default: logs.max_results)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default: export dir + generated name)")
	remote.register(cmd)
	return cmd
}

func createFile(path string, write func(io.Writer) error) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close export file: %w", cerr)
		}
	}()
	if err := write(f); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}
