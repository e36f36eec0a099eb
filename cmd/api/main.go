// Package main is the entrypoint for the stash API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/stash/stash/internal/config"
	"github.com/stash/stash/internal/events"
	"github.com/stash/stash/internal/handler"
	"github.com/stash/stash/internal/metrics"
	"github.com/stash/stash/internal/middleware"
	"github.com/stash/stash/internal/server"
	"github.com/stash/stash/internal/store"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// flagOverrides holds command-line values that take precedence over the environment.
type flagOverrides struct {
	host            string
	port            int
	logLevel        string
	duplicatePolicy string
}

func (f *flagOverrides) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.host, "host", "", "listen host (overrides APP_HOST)")
	cmd.Flags().IntVarP(&f.port, "port", "p", 0, "listen port (overrides APP_PORT)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
	cmd.Flags().StringVar(&f.duplicatePolicy, "duplicate-policy", "", "overwrite or reject (overrides DUPLICATE_POLICY)")
}

func (f *flagOverrides) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("host") {
		cfg.AppHost = f.host
	}
	if cmd.Flags().Changed("port") {
		cfg.AppPort = f.port
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if cmd.Flags().Changed("duplicate-policy") {
		cfg.DuplicatePolicy = f.duplicatePolicy
	}
}

// loadConfig reads the environment, applies flag overrides, then validates.
func loadConfig(cmd *cobra.Command, flags *flagOverrides) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	flags.apply(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	flags := &flagOverrides{}

	root := &cobra.Command{
		Use:           "stash",
		Short:         "In-memory users and items HTTP service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				slog.Error("failed to load config", "error", err)
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	flags.bind(root)

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	})

	return root
}

func run(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger := initLogger(cfg)

	policy, err := cfg.Policy()
	if err != nil {
		return err
	}

	// Store lives for the whole process; handlers share this one instance.
	st := store.New(store.Options{Policy: policy})
	recorder := metrics.NewInMemory()

	var (
		publisher events.Publisher = events.NewNoop()
		eventsPing handler.HealthChecker
		closers    []func(context.Context) error
	)
	if cfg.EventsEnabled() {
		connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		client, err := events.NewClient(connectCtx, cfg.RedisURL)
		cancel()
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			return err
		}
		sp := events.NewStreamPublisher(client, cfg.EventStream, logger, recorder)
		publisher = sp
		eventsPing = sp
		closers = append(closers, sp.Close)
		logger.Info("record events enabled", "stream", sp.Stream())
	}

	deps := routerDeps{
		store:     st,
		recorder:  recorder,
		publisher: publisher,
		health:    eventsPing,
		cfg:       cfg,
		logger:    logger,
	}
	r := setupRouter(deps)

	srv := server.New(r, server.Options{
		Addr:            cfg.Addr(),
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)
	for _, closeFn := range closers {
		srv.OnShutdown("redis", closeFn)
	}

	logger.Info("starting server",
		"addr", cfg.Addr(),
		"env", cfg.AppEnv,
		"duplicate_policy", string(policy),
		"events", cfg.EventsEnabled(),
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		return err
	}
	return nil
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type routerDeps struct {
	store     *store.Store
	recorder  *metrics.InMemoryRecorder
	publisher events.Publisher
	health    handler.HealthChecker
	cfg       *config.Config
	logger    *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps) *chi.Mux {
	h := handler.New()
	healthHandler := handler.NewHealthHandler(deps.health)
	metricsHandler := handler.NewMetricsHandler(deps.recorder)
	userHandler := handler.NewUserHandler(deps.store, deps.logger, deps.recorder, deps.publisher)
	itemHandler := handler.NewItemHandler(deps.store, deps.logger, deps.recorder, deps.publisher)
	stateHandler := handler.NewStateHandler(deps.store)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Recoverer(deps.logger, deps.cfg.IsDevelopment()))
	r.Use(middleware.Security(deps.cfg.IsDevelopment()))
	r.Use(middleware.MaxBodySize(deps.cfg.MaxRequestBodySize))

	// Operational endpoints
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)

	r.Get("/", h.Hello)

	r.Route("/users", func(r chi.Router) {
		r.Get("/", userHandler.List)
		r.Post("/", userHandler.Create)
		r.Get("/{id}", userHandler.Get)
	})

	r.Route("/items", func(r chi.Router) {
		r.Get("/", itemHandler.List)
		r.Post("/", itemHandler.Create)
		r.Get("/{id}", itemHandler.Get)
	})

	r.Get("/state", stateHandler.Get)

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
