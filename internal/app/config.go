package app

import (
	"fmt"
	"time"

	"github.com/yungbote/lexiprogress-backend/internal/data/db"
	"github.com/yungbote/lexiprogress-backend/internal/http/middleware"
	"github.com/yungbote/lexiprogress-backend/internal/observability"
	"github.com/yungbote/lexiprogress-backend/internal/platform/envutil"
	"github.com/yungbote/lexiprogress-backend/internal/platform/logger"
)

type Config struct {
	Port    string
	LogMode string

	DB db.Config

	JWTSecretKey   string
	AccessTokenTTL time.Duration
	BotKeyHash     string
	AppBaseURL     string
	Location       *time.Location

	RedisAddr    string
	RedisChannel string

	MetricsEnabled bool
	MetricsAddr    string
	MetricsScrape  time.Duration

	Otel observability.OtelConfig

	AllowedOrigins []string
}

func LoadConfig(log *logger.Logger) (Config, error) {
	tzName := envutil.String("APP_TIMEZONE", "UTC", log)
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return Config{}, fmt.Errorf("APP_TIMEZONE %q: %w", tzName, err)
	}
	cfg := Config{
		Port:    envutil.String("PORT", "8080", log),
		LogMode: envutil.String("LOG_MODE", "development", log),
		DB: db.Config{
			Driver:           envutil.String("DB_DRIVER", db.DriverPostgres, log),
			PostgresHost:     envutil.String("POSTGRES_HOST", "localhost", log),
			PostgresPort:     envutil.String("POSTGRES_PORT", "5432", log),
			PostgresUser:     envutil.String("POSTGRES_USER", "postgres", log),
			PostgresPassword: envutil.String("POSTGRES_PASSWORD", "", log),
			PostgresName:     envutil.String("POSTGRES_NAME", "lexiprogress", log),
			SQLitePath:       envutil.String("SQLITE_PATH", "lexiprogress.db", log),
		},
		JWTSecretKey:   envutil.String("JWT_SECRET_KEY", "", log),
		AccessTokenTTL: envutil.Seconds("ACCESS_TOKEN_TTL", time.Hour, log),
		BotKeyHash:     envutil.String("BOT_API_KEY_HASH", "", log),
		AppBaseURL:     envutil.String("APP_BASE_URL", "http://localhost:5173/login", log),
		Location:       loc,
		RedisAddr:      envutil.String("REDIS_ADDR", "", log),
		RedisChannel:   envutil.String("REDIS_CHANNEL", "progress-events", log),
		MetricsEnabled: envutil.Bool("METRICS_ENABLED", false, log),
		MetricsAddr:    envutil.String("METRICS_ADDR", ":9090", log),
		MetricsScrape:  envutil.Seconds("METRICS_SCRAPE_INTERVAL_SECONDS", 10*time.Second, log),
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false, log),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "lexiprogress-api", log),
			Environment: envutil.String("APP_ENV", "development", log),
			Version:     envutil.String("APP_VERSION", "dev", log),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Headers:     envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "", log),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false, log),
			SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 0.1, log),
		},
		AllowedOrigins: envutil.List("CORS_ALLOWED_ORIGINS", middleware.DefaultAllowedOrigins, log),
	}
	if cfg.JWTSecretKey == "" {
		return Config{}, fmt.Errorf("JWT_SECRET_KEY is required")
	}
	return cfg, nil
}
