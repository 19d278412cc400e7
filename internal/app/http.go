package app

import (
	"database/sql"

	"github.com/yungbote/lexiprogress-backend/internal/http"
	httpH "github.com/yungbote/lexiprogress-backend/internal/http/handlers"
	httpMW "github.com/yungbote/lexiprogress-backend/internal/http/middleware"
	"github.com/yungbote/lexiprogress-backend/internal/observability"
	"github.com/yungbote/lexiprogress-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health    *httpH.HealthHandler
	Auth      *httpH.AuthHandler
	Bot       *httpH.BotHandler
	Dashboard *httpH.DashboardHandler
	Catalog   *httpH.CatalogHandler
	Progress  *httpH.ProgressHandler
	BlockTest *httpH.BlockTestHandler
}

func wireHandlers(log *logger.Logger, sqlDB *sql.DB, svcs Services) Handlers {
	log.Info("Wiring handlers...")
	var pinger httpH.Pinger
	if sqlDB != nil {
		pinger = sqlDB
	}
	return Handlers{
		Health:    httpH.NewHealthHandler(pinger),
		Auth:      httpH.NewAuthHandler(svcs.Auth),
		Bot:       httpH.NewBotHandler(svcs.Provisioning),
		Dashboard: httpH.NewDashboardHandler(svcs.Dashboard),
		Catalog:   httpH.NewCatalogHandler(svcs.Catalog),
		Progress:  httpH.NewProgressHandler(svcs.Progress),
		BlockTest: httpH.NewBlockTestHandler(svcs.Progress),
	}
}

func wireMiddleware(log *logger.Logger, svcs Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, svcs.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, mw Middleware) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:              log,
		Metrics:          metrics,
		ServiceName:      cfg.Otel.ServiceName,
		AllowedOrigins:   cfg.AllowedOrigins,
		Tracing:          cfg.Otel.Enabled,
		AuthMiddleware:   mw.Auth,
		HealthHandler:    handlers.Health,
		AuthHandler:      handlers.Auth,
		BotHandler:       handlers.Bot,
		DashboardHandler: handlers.Dashboard,
		CatalogHandler:   handlers.Catalog,
		ProgressHandler:  handlers.Progress,
		BlockTestHandler: handlers.BlockTest,
	})
}
