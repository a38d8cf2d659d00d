package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"healthmate-hq/healthgate/pkg/config"
	"healthmate-hq/healthgate/pkg/ratelimit"
	"healthmate-hq/healthgate/pkg/secrets"
	"healthmate-hq/healthgate/pkg/server"
	"healthmate-hq/healthgate/pkg/telemetry/logging"
	"healthmate-hq/healthgate/pkg/telemetry/metrics"
	"healthmate-hq/healthgate/pkg/upstream"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the healthgate server",
	Long: `Start the healthgate server with the specified configuration.

The server listens on the configured address and forwards assistance
requests to the upstream completion API after validation and rate limiting.

Examples:
  # Start with default config
  healthgate run

  # Start with custom config
  healthgate run --config /etc/healthgate/config.yaml

  # Override listen address
  healthgate run --listen 0.0.0.0:8080

  # Validate config without starting the server
  healthgate run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.Setup(logging.Config{
		Level:  cfg.Telemetry.Logging.Level,
		Format: cfg.Telemetry.Logging.Format,
	})
	if err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Credential provider: a watched file wins over the inline value.
	var creds secrets.Provider
	if cfg.Upstream.APIKeyFile != "" {
		fp, err := secrets.NewFileProvider(cfg.Upstream.APIKeyFile)
		if err != nil {
			return fmt.Errorf("failed to open API key file: %w", err)
		}
		creds = fp
	} else {
		creds = secrets.Static(cfg.Upstream.APIKey)
	}
	defer creds.Close()

	completer, err := upstream.NewClient(upstream.Config{
		BaseURL:     cfg.Upstream.BaseURL,
		Model:       cfg.Upstream.Model,
		Credentials: creds,
		Timeout:     cfg.Upstream.Timeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create upstream client: %w", err)
	}

	var m *metrics.Metrics
	if cfg.Telemetry.Metrics.Enabled {
		m = metrics.New(cfg.Telemetry.Metrics.Namespace)
	}

	var limiter *ratelimit.FixedWindow
	if cfg.RateLimit.Enabled {
		var store ratelimit.Store
		switch cfg.RateLimit.Storage.Backend {
		case "sqlite":
			s, err := ratelimit.NewSQLiteStore(cfg.RateLimit.Storage.Path)
			if err != nil {
				return fmt.Errorf("failed to open rate limit database: %w", err)
			}
			store = s
		default:
			store = ratelimit.NewMemoryStore()
		}
		defer store.Close()

		limiter = ratelimit.New(ratelimit.Config{
			Limit:  cfg.RateLimit.Limit,
			Window: cfg.RateLimit.Window,
			Store:  store,
		})

		if cfg.RateLimit.CleanupSchedule != "" {
			janitor := ratelimit.NewJanitor(limiter)
			if err := janitor.Start(ctx, cfg.RateLimit.CleanupSchedule); err != nil {
				return fmt.Errorf("failed to start rate limit janitor: %w", err)
			}
			defer janitor.Stop()
		}
	}

	srv, err := server.New(server.Options{
		Config:    cfg,
		Completer: completer,
		Limiter:   limiter,
		Metrics:   m,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	logger.Info("starting healthgate",
		"version", Version,
		"listen", cfg.Server.ListenAddress,
		"model", completer.Model(),
		"rate_limit_enabled", cfg.RateLimit.Enabled)

	return srv.Start(ctx)
}
