// Package cli defines the wpreport command tree.
package cli

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/five82/wpreport/internal/client"
	"github.com/five82/wpreport/internal/config"
	"github.com/five82/wpreport/internal/logging"
	"github.com/five82/wpreport/internal/sources"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

// NewRootCommand builds the wpreport command with all subcommands attached.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "wpreport",
		Short: "wpreport - recent WordPress and server errors",
		Long: `wpreport reads the tail of WordPress debug logs and web server error
logs, classifies PHP, Apache, Nginx and generic error lines, and shows the
most recent ones with install paths redacted.

Output goes to the terminal, CSV, PDF, an interactive viewer or a small
HTTP API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default: ~/.config/wpreport/config.toml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	root.AddCommand(
		newErrorsCommand(opts),
		newExportCommand(opts),
		newTUICommand(opts),
		newServeCommand(opts),
	)
	return root
}

// load reads the config and applies the --log-level override.
func (o *rootOptions) load() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if level := strings.TrimSpace(o.logLevel); level != "" {
		lvl, err := logging.ParseLevel(level)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Logging.Level = lvl.String()
	}
	return cfg, nil
}

// consoleLogger logs to the command's stderr.
func consoleLogger(cmd *cobra.Command, cfg config.Config) zerolog.Logger {
	return logging.Console(cmd.ErrOrStderr(), cfg.Logging.Level)
}

// addTypeFlag registers --type on cmd.
func addTypeFlag(cmd *cobra.Command, dst *string) {
	cmd.Flags().StringVarP(dst, "type", "t", "", "log type: wordpress or server (default: both)")
}

// remoteOptions point a command at a wpreport serve instance instead of the
// local log files.
type remoteOptions struct {
	addr  string
	token string
}

func (r *remoteOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&r.addr, "remote", "", "read from a wpreport serve instance at host:port or URL")
	cmd.Flags().StringVar(&r.token, "token", "", "bearer token for --remote (default: server.token)")
}

func (r *remoteOptions) enabled() bool {
	return strings.TrimSpace(r.addr) != ""
}

func (r *remoteOptions) client(cfg config.Config) (*client.Client, error) {
	token := r.token
	if token == "" {
		token = cfg.Server.Token
	}
	return client.NewClient(r.addr, token)
}

func parseType(value string) (sources.Filter, error) {
	return sources.ParseFilter(value)
}
