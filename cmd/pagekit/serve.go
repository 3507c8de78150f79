package main

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pagekit/internal/config"
	"github.com/vango-dev/pagekit/internal/errors"
	"github.com/vango-dev/pagekit/internal/logging"
	"github.com/vango-dev/pagekit/pkg/api"
)

type serveFlags struct {
	host      string
	port      int
	debug     bool
	logFile   string
	logLevel  string
	logFormat string
	quiet     bool
	metrics   bool
	tz        string
}

func serveCmd() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dispatch server",
		Long: `Start the dispatch server.

The server renders the index page, answers {"method", "data"} calls on
/bp/post/read and /bp/get/read, and drives connected pages' history over
the /bp/ws socket. Flags override pagekit.json.

Examples:
  pagekit serve
  pagekit serve --port=8080 --debug
  pagekit serve --log-file=pagekit.log --log-level=debug`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			applyServeFlags(cmd, cfg, flags)
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, closer, err := logging.New(cfg.Log)
			if err != nil {
				return errors.New("config.invalid").WithDetail(err.Error()).Wrap(err)
			}
			defer closer.Close()
			slog.SetDefault(logger)

			srvConfig, err := buildServerConfig(cfg, logger)
			if err != nil {
				return err
			}

			if !cfg.Log.Quiet {
				printBanner()
				fmt.Println()
				success("Listening on %s", displayURL(cfg))
				info("Index:    %s%s", displayURL(cfg), api.PathIndex)
				info("Dispatch: %s%s%s", displayURL(cfg), api.PathPrefix, api.PathPost)
				if cfg.Metrics.Enabled {
					info("Metrics:  %s%s", displayURL(cfg), api.PathMetrics)
				}
				fmt.Println()
			}

			return api.New(srvConfig).Run(cmd.Context())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.host, "host", "H", config.DefaultHost, "Host to bind to")
	f.IntVarP(&flags.port, "port", "p", config.DefaultPort, "Port to listen on")
	f.BoolVarP(&flags.debug, "debug", "d", false, "Include panic stacks in error responses and log at debug level")
	f.StringVar(&flags.logFile, "log-file", "", "Append logs to this file instead of stderr")
	f.StringVar(&flags.logLevel, "log-level", config.DefaultLogLevel, "Log level: debug, info, warn or error")
	f.StringVar(&flags.logFormat, "log-format", "text", "Log format: text or json")
	f.BoolVarP(&flags.quiet, "quiet", "q", false, "Discard all log output")
	f.BoolVar(&flags.metrics, "metrics", true, "Serve Prometheus metrics on /metrics")
	f.StringVar(&flags.tz, "tz", "", "Time zone for the datetime method")

	return cmd
}

// applyServeFlags copies the flags the user set onto cfg.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config, flags serveFlags) {
	changed := cmd.Flags().Changed
	if changed("host") {
		cfg.Server.Host = flags.host
	}
	if changed("port") {
		cfg.Server.Port = flags.port
	}
	if changed("debug") {
		cfg.Server.Debug = flags.debug
	}
	if cfg.Server.Debug && !changed("log-level") {
		cfg.Log.Level = "debug"
	}
	if changed("log-file") {
		cfg.Log.File = flags.logFile
	}
	if changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if changed("log-format") {
		cfg.Log.Format = flags.logFormat
	}
	if changed("quiet") {
		cfg.Log.Quiet = flags.quiet
	}
	if changed("metrics") {
		cfg.Metrics.Enabled = flags.metrics
	}
	if changed("tz") {
		cfg.Timezone = flags.tz
	}
}

func buildServerConfig(cfg *config.Config, logger *slog.Logger) (api.Config, error) {
	loc, err := cfg.Location()
	if err != nil {
		return api.Config{}, errors.New("datetime.zone").WithInput(cfg.Timezone, 0).Wrap(err)
	}
	timeout, err := cfg.ShutdownTimeout()
	if err != nil {
		return api.Config{}, errors.New("config.invalid").
			WithDetail("server.shutdownTimeout: " + err.Error()).Wrap(err)
	}

	return api.Config{
		Addr:             cfg.Address(),
		Title:            "pagekit",
		Debug:            cfg.Server.Debug,
		Location:         loc,
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		ShutdownTimeout:  timeout,
		Metrics:          cfg.Metrics.Enabled,
		MetricsNamespace: cfg.Metrics.Namespace,
		Logger:           logger,
	}, nil
}

// displayURL is the address to print for humans; the unspecified host is
// shown as localhost.
func displayURL(cfg *config.Config) string {
	host := cfg.Server.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(cfg.Server.Port))
}
