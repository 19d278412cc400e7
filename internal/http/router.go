package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/lexiprogress-backend/internal/http/handlers"
	httpMW "github.com/yungbote/lexiprogress-backend/internal/http/middleware"
	"github.com/yungbote/lexiprogress-backend/internal/observability"
	"github.com/yungbote/lexiprogress-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	AllowedOrigins []string
	// Tracing enables the otelgin span middleware.
	Tracing bool

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler    *httpH.HealthHandler
	AuthHandler      *httpH.AuthHandler
	BotHandler       *httpH.BotHandler
	DashboardHandler *httpH.DashboardHandler
	CatalogHandler   *httpH.CatalogHandler
	ProgressHandler  *httpH.ProgressHandler
	BlockTestHandler *httpH.BlockTestHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Tracing {
		name := cfg.ServiceName
		if name == "" {
			name = "lexiprogress-api"
		}
		r.Use(otelgin.Middleware(name))
	}
	r.Use(httpMW.AttachTraceContext())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/auth/token", cfg.AuthHandler.ExchangeToken)
		}
	}

	bot := api.Group("/bot")
	{
		if cfg.AuthMiddleware != nil {
			bot.Use(cfg.AuthMiddleware.RequireBotKey())
		}
		if cfg.BotHandler != nil {
			bot.POST("/users", cfg.BotHandler.EnsureUser)
			bot.POST("/payments/confirm", cfg.BotHandler.ConfirmPayment)
		}
	}

	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Dashboard + history
		if cfg.DashboardHandler != nil {
			protected.GET("/dashboard", cfg.DashboardHandler.GetDashboard)
			protected.GET("/progress/history", cfg.DashboardHandler.GetHistory)
			protected.GET("/progress/sessions", cfg.DashboardHandler.ListSessions)
		}

		// Catalog
		if cfg.CatalogHandler != nil {
			protected.GET("/blocks", cfg.CatalogHandler.ListBlocks)
			protected.GET("/blocks/:id", cfg.CatalogHandler.GetBlock)
			protected.GET("/lessons/:id", cfg.CatalogHandler.GetLesson)
		}

		// Attempts + sessions
		if cfg.ProgressHandler != nil {
			protected.POST("/progress/attempts", cfg.ProgressHandler.RecordAttempt)
			protected.POST("/sessions", cfg.ProgressHandler.StartSession)
			protected.POST("/sessions/:id/end", cfg.ProgressHandler.EndSession)
		}

		// Block tests
		if cfg.BlockTestHandler != nil {
			protected.GET("/block-tests/blocks/:id/start", cfg.BlockTestHandler.Start)
			protected.POST("/block-tests/:id/submit", cfg.BlockTestHandler.Submit)
		}
	}

	return r
}
