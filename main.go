package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/joho/godotenv/autoload"

	"storefront-cms/internal/admin"
	"storefront-cms/internal/catalog"
	"storefront-cms/internal/drafts"
	"storefront-cms/pkg/circuit"
	"storefront-cms/pkg/config"
	"storefront-cms/pkg/container"
	"storefront-cms/pkg/events"
	"storefront-cms/pkg/health"
	"storefront-cms/pkg/logging"
	"storefront-cms/pkg/metrics"
	"storefront-cms/pkg/monitoring"
)

const version = "1.0.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "storefront-cms:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := container.New()
	defer c.Close()
	if err := provide(ctx, c); err != nil {
		return err
	}

	cfg, err := container.Resolve[*config.Config](c)
	if err != nil {
		return err
	}
	logger, err := container.Resolve[*logging.Logger](c)
	if err != nil {
		return err
	}
	router, err := container.Resolve[*mux.Router](c)
	if err != nil {
		logger.Error("failed to wire server", err)
		return err
	}
	sessions, err := container.Resolve[*drafts.SessionStore](c)
	if err != nil {
		return err
	}

	server := &http.Server{Addr: ":" + cfg.Port, Handler: router}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", logging.String("port", cfg.Port), logging.String("base_path", cfg.BasePath),
			logging.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("http server failed", err)
			return err
		}
	case <-ctx.Done():
		logger.Info("received shutdown signal, initiating graceful shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", err)
	}
	sessions.CloseAll(shutdownCtx)
	logger.Info("application shutdown complete")
	return nil
}

// provide registers every constructor the server needs.
func provide(ctx context.Context, c *container.Container) error {
	providers := []any{
		func() (*config.Config, error) {
			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return nil, err
			}
			return cfg, nil
		},
		newLogger,
		func(cfg *config.Config, logger *logging.Logger) (*catalog.MemoryStore, error) {
			store, err := catalog.Open(cfg.CatalogFile)
			if err != nil {
				return nil, err
			}
			logger.Info("catalog loaded", logging.Int("hotels", store.Len()), logging.String("file", cfg.CatalogFile))
			return store, nil
		},
		func(cfg *config.Config, logger *logging.Logger) (events.EventStore, error) {
			if cfg.EventsDBPath == "" {
				return events.NewMemoryStore(), nil
			}
			store, err := events.OpenSQLite(ctx, cfg.EventsDBPath)
			if err != nil {
				return nil, err
			}
			b := circuit.New(circuit.Config{
				Name:              "events",
				OperationTimeout:  5 * time.Second,
				OpenFor:           30 * time.Second,
				MaxConsecFailures: 5,
				WindowSize:        20,
				FailureRate:       0.5,
			}, logger)
			return events.NewGuardedStore(store, b), nil
		},
		func() *metrics.Editor { return metrics.NewEditor(metrics.Default) },
		func(cfg *config.Config, cat *catalog.MemoryStore, ev events.EventStore, logger *logging.Logger, m *metrics.Editor) *drafts.SessionStore {
			return drafts.NewSessionStore(drafts.Deps{Catalog: cat, Events: ev, Logger: logger, Metrics: m}, cfg.SessionLimit)
		},
		func(st *drafts.SessionStore, cat *catalog.MemoryStore, ev events.EventStore, logger *logging.Logger) *admin.Handler {
			return admin.NewHandler(st, cat, ev, logger)
		},
		newHealth,
		newRouter,
	}
	for _, p := range providers {
		if err := c.Provide(p); err != nil {
			return err
		}
	}
	return nil
}

func newLogger(cfg *config.Config) (*logging.Logger, error) {
	lc := logging.DefaultLogConfig()
	lc.Level = logging.ParseLevel(cfg.LogLevel)
	lc.Format = cfg.LogFormat
	lc.EnableFile = cfg.EnableFileLogging
	if cfg.LogFile != "" {
		lc.FilePath = cfg.LogFile
	}
	lc.EnableAsync = cfg.Env == "production"
	return logging.NewLogger(lc)
}

func newHealth(cfg *config.Config, cat *catalog.MemoryStore, st *drafts.SessionStore, ev events.EventStore, logger *logging.Logger) *health.HealthManager {
	hm := health.NewHealthManager(version, 0, logger)
	hm.RegisterChecker(health.NewCatalogChecker("catalog", cat.Len))
	hm.RegisterChecker(health.NewCapacityChecker("sessions", st.Count, cfg.SessionLimit))
	if p, ok := ev.(interface{ Ping(context.Context) error }); ok {
		hm.RegisterChecker(health.NewPingChecker("events", p.Ping))
	}
	return hm
}

func newRouter(cfg *config.Config, h *admin.Handler, hm *health.HealthManager, m *metrics.Editor, logger *logging.Logger) *mux.Router {
	root := mux.NewRouter()
	root.Use(monitoring.Middleware(m, logger))

	hm.Register(root)
	if cfg.MetricsEnabled {
		root.Handle(cfg.MetricsPath, metrics.Handler()).Methods(http.MethodGet)
	}

	base := root
	if prefix := strings.TrimSuffix(cfg.BasePath, "/"); prefix != "" {
		base = root.PathPrefix(prefix).Subrouter()
	}
	h.Register(base)
	return root
}
