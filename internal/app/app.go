package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/heraldry-backend/internal/data/graph"
	"github.com/yungbote/heraldry-backend/internal/http"
	"github.com/yungbote/heraldry-backend/internal/observability"
	"github.com/yungbote/heraldry-backend/internal/platform/logger"
	"github.com/yungbote/heraldry-backend/internal/platform/neo4jdb"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Clients  Clients
	Store    graph.Store
	Services Services
	Router   *gin.Engine

	server       *http.Server
	shutdownOTel func(context.Context) error
}

func New(ctx context.Context, cfg Config, version string) (*App, error) {
	log, err := logger.New(cfg.Server.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	shutdownOTel := func(context.Context) error { return nil }
	if cfg.Telemetry.Tracing {
		shutdownOTel = observability.InitOTel(ctx, log, observability.OtelConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Environment: cfg.Telemetry.Environment,
			Version:     version,
		})
	}
	var metrics *observability.Metrics
	if cfg.Telemetry.Metrics {
		metrics = observability.Init(log)
	}

	clients, err := wireClients(cfg, log, metrics)
	if err != nil {
		log.Sync()
		return nil, err
	}
	store, err := wireGraphStore(ctx, cfg, clients, log, metrics)
	if err != nil {
		clients.Close(ctx)
		log.Sync()
		return nil, err
	}

	serviceset := wireServices(store, clients, log)
	handlerset := wireHandlers(log, serviceset, store)
	router := wireRouter(cfg, log, metrics, handlerset)

	return &App{
		Log:          log,
		Cfg:          cfg,
		Clients:      clients,
		Store:        store,
		Services:     serviceset,
		Router:       router,
		server:       &http.Server{Engine: router},
		shutdownOTel: shutdownOTel,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := ":" + a.Cfg.Server.Port
	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("HTTP server listening", "addr", addr, "graph_store", a.Cfg.Graph.Backend)
		errCh <- a.server.Run(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := a.Cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	a.Log.Info("Shutting down HTTP server")
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return <-errCh
}

func (a *App) Close() {
	if a == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.Clients.Close(ctx)
	if a.shutdownOTel != nil {
		if err := a.shutdownOTel(ctx); err != nil && a.Log != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}

// EnsureSchema creates the Neo4j constraints and indexes and exits. It is
// idempotent.
func EnsureSchema(ctx context.Context, cfg Config) error {
	if cfg.Graph.Backend != GraphBackendNeo4j {
		return fmt.Errorf("schema bootstrap requires the neo4j backend, got %q", cfg.Graph.Backend)
	}
	log, err := logger.New(cfg.Server.LogMode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	client, err := neo4jdb.New(cfg.Graph.Neo4j, log)
	if err != nil {
		return fmt.Errorf("init neo4j: %w", err)
	}
	defer client.Close(ctx)

	store, err := graph.NewNeo4jStore(client, log)
	if err != nil {
		return err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	log.Info("Graph schema ensured")
	return nil
}
