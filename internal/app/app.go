package app

import (
	"context"
	"fmt"
	"time"

	"github.com/yungbote/lexiprogress-backend/internal/data/db"
	"github.com/yungbote/lexiprogress-backend/internal/data/repos"
	"github.com/yungbote/lexiprogress-backend/internal/domain/events"
	"github.com/yungbote/lexiprogress-backend/internal/http"
	"github.com/yungbote/lexiprogress-backend/internal/observability"
	"github.com/yungbote/lexiprogress-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	DB       *db.Service
	Repos    repos.Set
	Clients  Clients
	Services Services
	Metrics  *observability.Metrics
	Server   *http.Server

	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

// NewLogger builds the process logger from LOG_MODE.
func NewLogger(mode string) (*logger.Logger, error) {
	if mode == "" {
		mode = "development"
	}
	log, err := logger.New(mode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

// OpenDB loads config and opens the configured database.
func OpenDB(log *logger.Logger) (Config, *db.Service, error) {
	log.Info("Loading environment variables...")
	cfg, err := LoadConfig(log)
	if err != nil {
		return Config{}, nil, err
	}
	svc, err := db.Open(cfg.DB, log)
	if err != nil {
		return Config{}, nil, fmt.Errorf("open database: %w", err)
	}
	return cfg, svc, nil
}

func New(ctx context.Context, log *logger.Logger) (*App, error) {
	cfg, dbs, err := OpenDB(log)
	if err != nil {
		return nil, err
	}
	if err := dbs.Migrate(); err != nil {
		_ = dbs.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	theDB := dbs.DB()

	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)
	metrics := observability.Init(log, cfg.MetricsEnabled, cfg.MetricsScrape)

	clients, err := wireClients(log, cfg)
	if err != nil {
		_ = dbs.Close()
		return nil, err
	}

	set := repos.NewSet(theDB, log)
	aggs := wireAggregates(theDB, log, cfg, set, clients, metrics)
	svcs := wireServices(log, cfg, set, aggs)

	sqlDB, err := theDB.DB()
	if err != nil {
		clients.Close()
		_ = dbs.Close()
		return nil, fmt.Errorf("sql handle: %w", err)
	}
	handlers := wireHandlers(log, sqlDB, svcs)
	mw := wireMiddleware(log, svcs)

	return &App{
		Log:          log,
		Cfg:          cfg,
		DB:           dbs,
		Repos:        set,
		Clients:      clients,
		Services:     svcs,
		Metrics:      metrics,
		Server:       wireServer(log, cfg, metrics, handlers, mw),
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches background collectors and the event log forwarder.
func (a *App) Start(ctx context.Context) {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.Metrics.StartServer(ctx, a.Log, a.Cfg.MetricsAddr)
	a.Metrics.StartPostgresCollector(ctx, a.Log, a.DB.DB())
	if a.Clients.Redis != nil {
		a.Metrics.StartRedisCollector(ctx, a.Log, a.Clients.Redis)
	}
	if a.Clients.EventBus != nil {
		evLog := a.Log.With("component", "ProgressEventLog")
		if err := a.Clients.EventBus.StartForwarder(ctx, func(e events.Event) {
			evLog.Debug("progress event", "type", e.Type, "user_id", e.UserID, "at", e.At)
		}); err != nil {
			a.Log.Warn("event forwarder not started", "error", err)
		}
	}
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := ":" + a.Cfg.Port
	a.Log.Info("HTTP server listening", "addr", addr)
	return a.Server.Run(addr)
}

// Shutdown stops the HTTP server, then background work, then flushes spans.
func (a *App) Shutdown(ctx context.Context) error {
	if a == nil {
		return nil
	}
	var firstErr error
	if a.Server != nil {
		firstErr = a.Server.Shutdown(ctx)
	}
	a.Close()
	if a.otelShutdown != nil {
		flushCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := a.otelShutdown(flushCtx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.Clients.Close()
	if a.DB != nil {
		_ = a.DB.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
