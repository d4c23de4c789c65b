// Package cli is the command-line surface: a cobra root that launches the
// dashboard, plus the scriptable subcommands around it. Flags default from
// the same environment variables config.Load reads, so flags, env, or a
// mix all land on the same Config.
package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"flowdeck/internal/client"
	"flowdeck/internal/config"
	"flowdeck/internal/kinds"
	"flowdeck/internal/logging"
	"flowdeck/internal/nav"
	"flowdeck/internal/poller"
	"flowdeck/internal/store"
	"flowdeck/internal/tui"
	"flowdeck/internal/worker"
)

// version is stamped by the release build via -ldflags.
var version = "dev"

type App struct {
	Address      string
	Namespace    string
	APIKey       string
	TLSCert      string
	TLSKey       string
	PollInterval time.Duration
	PageSize     int
	LogFile      string
	LogLevel     string
	DBPath       string
	Theme        string
	Resume       bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "flowdeck",
		Short:        "Terminal dashboard for Temporal workflows and schedules",
		Version:      version,
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Dashboard against a local dev server
  flowdeck

  # Another cluster and namespace
  flowdeck --address temporal.prod.internal:7233 --namespace payments

  # Jump straight to a deep link
  flowdeck open "temporal://tui/namespaces/payments/workflows?q=ExecutionStatus%3D'Failed'"

  # List links you visited recently
  flowdeck recent
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app, nil)
		},
	}

	fs := cmd.PersistentFlags()
	fs.StringVar(&app.Address, "address", envOr("TEMPORAL_ADDRESS", "localhost:7233"), "Temporal frontend host:port")
	fs.StringVar(&app.Namespace, "namespace", envOr("TEMPORAL_NAMESPACE", "default"), "Namespace to open")
	fs.StringVar(&app.APIKey, "api-key", envOr("TEMPORAL_API_KEY", ""), "API key for header-based auth (Temporal Cloud)")
	fs.StringVar(&app.TLSCert, "tls-cert", envOr("TEMPORAL_TLS_CERT", ""), "Client TLS certificate path (requires --tls-key)")
	fs.StringVar(&app.TLSKey, "tls-key", envOr("TEMPORAL_TLS_KEY", ""), "Client TLS key path (requires --tls-cert)")
	fs.DurationVar(&app.PollInterval, "poll-interval", 3*time.Second, "Auto-refresh cadence while healthy (env FLOWDECK_POLL_INTERVAL)")
	fs.IntVar(&app.PageSize, "page-size", 50, "Rows per visibility page, 1..1000 (env FLOWDECK_PAGE_SIZE)")
	fs.StringVar(&app.LogFile, "log-file", envOr("FLOWDECK_LOG_FILE", ""), "Structured log destination; empty disables logging")
	fs.StringVar(&app.LogLevel, "log-level", envOr("FLOWDECK_LOG_LEVEL", "info"), "Log level (debug|info|warn|error)")
	fs.StringVar(&app.DBPath, "db", envOr("FLOWDECK_DB", ""), "SQLite file for presets and history (default: user config dir)")
	fs.StringVar(&app.Theme, "theme", envOr("FLOWDECK_THEME", "auto"), "Color theme (auto|dark|light)")

	// Root-only: subcommands pick their own start location.
	cmd.Flags().BoolVar(&app.Resume, "resume", false, "Start at the last visited location")

	cmd.AddCommand(newOpenCmd(app))
	cmd.AddCommand(newRecentCmd(app))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// loadConfig layers explicit flags over the environment baseline. String
// flags carry env-backed defaults, so assigning them is a no-op unless the
// user overrode; the numeric flags only win when actually passed, keeping
// env values authoritative otherwise.
func loadConfig(cmd *cobra.Command, app *App) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}

	cfg.Address = app.Address
	cfg.Namespace = app.Namespace
	cfg.APIKey = app.APIKey
	cfg.TLSCertPath = app.TLSCert
	cfg.TLSKeyPath = app.TLSKey
	cfg.LogFile = app.LogFile
	cfg.LogLevel = app.LogLevel
	cfg.Theme = app.Theme
	if app.DBPath != "" {
		cfg.DBPath = app.DBPath
	}
	fs := cmd.Flags()
	if fs.Changed("poll-interval") {
		cfg.PollInterval = app.PollInterval
	}
	if fs.Changed("page-size") {
		cfg.PageSize = app.PageSize
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// runTUI assembles the program and blocks until the dashboard exits.
func runTUI(cmd *cobra.Command, app *App, startAt *nav.Location) error {
	cfg, err := loadConfig(cmd, app)
	if err != nil {
		return err
	}

	log, closeLog, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	st, err := store.Open(cmd.Context(), cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open state db: %w", err)
	}
	defer st.Close()

	if startAt == nil && app.Resume {
		if uri, ok, err := st.LastLocation(cmd.Context()); err == nil && ok {
			if loc, perr := nav.Parse(uri); perr == nil {
				startAt = &loc
			} else {
				log.Warn("ignoring unparseable last location", "uri", uri, "err", perr)
			}
		}
	}

	reg, err := kinds.NewRegistry(kinds.BuiltinSpecs()...)
	if err != nil {
		return err
	}

	cl := client.NewTemporal(client.Options{
		Address:     cfg.Address,
		APIKey:      cfg.APIKey,
		TLSCertPath: cfg.TLSCertPath,
		TLSKeyPath:  cfg.TLSKeyPath,
		Logger:      logging.NewSDKAdapter(log),
	})
	defer cl.Close()

	pool := worker.New(cl, st, log, worker.Config{})
	pool.Start()
	defer pool.Close()

	log.Info("starting", "version", version, "address", cfg.Address, "namespace", cfg.Namespace)
	return tui.Run(tui.Config{
		Registry:  reg,
		Pool:      pool,
		Namespace: cfg.Namespace,
		Address:   cfg.Address,
		PageSize:  cfg.PageSize,
		Poll:      poller.Config{Base: cfg.PollInterval},
		Theme:     cfg.Theme,
		Log:       log,
		StartAt:   startAt,
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
