package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/lexiprogress-backend/internal/data/aggregates"
	"github.com/yungbote/lexiprogress-backend/internal/data/repos"
	domainagg "github.com/yungbote/lexiprogress-backend/internal/domain/aggregates"
	"github.com/yungbote/lexiprogress-backend/internal/learning/achievements"
	"github.com/yungbote/lexiprogress-backend/internal/observability"
	"github.com/yungbote/lexiprogress-backend/internal/platform/logger"
	"github.com/yungbote/lexiprogress-backend/internal/services"
)

type Aggregates struct {
	Progress     domainagg.ProgressAggregate
	Sessions     domainagg.SessionAggregate
	BlockTests   domainagg.BlockTestAggregate
	Provisioning domainagg.ProvisioningAggregate
}

type Services struct {
	Auth         services.AuthService
	Catalog      services.CatalogService
	Dashboard    services.DashboardService
	Progress     services.ProgressService
	Provisioning services.ProvisioningService
}

func wireAggregates(db *gorm.DB, log *logger.Logger, cfg Config, set repos.Set, clients Clients, metrics *observability.Metrics) Aggregates {
	log.Info("Wiring aggregates...")
	base := aggregates.BaseDeps{
		DB:       db,
		Log:      log,
		Hooks:    aggregates.NewObservabilityHooks(metrics),
		CASGuard: aggregates.NewCASGuard(db),
		Events:   clients.publisher(),
	}
	ladder := achievements.Default(log)

	return Aggregates{
		Progress: aggregates.NewProgressAggregate(aggregates.ProgressAggregateDeps{
			Base:             base,
			Words:            set.Words,
			Lessons:          set.Lessons,
			Mastery:          set.Mastery,
			LessonProgress:   set.LessonProgress,
			BlockProgress:    set.BlockProgress,
			Daily:            set.Daily,
			Stats:            set.Stats,
			Achievements:     set.Achievements,
			UserAchievements: set.UserAchievements,
			Ladder:           ladder,
			Location:         cfg.Location,
		}),
		Sessions: aggregates.NewSessionAggregate(aggregates.SessionAggregateDeps{
			Base:     base,
			Sessions: set.Sessions,
			Stats:    set.Stats,
			Lessons:  set.Lessons,
			Words:    set.Words,
		}),
		BlockTests: aggregates.NewBlockTestAggregate(aggregates.BlockTestAggregateDeps{
			Base:             base,
			Blocks:           set.Blocks,
			Lessons:          set.Lessons,
			Words:            set.Words,
			BlockTests:       set.BlockTests,
			Mastery:          set.Mastery,
			LessonProgress:   set.LessonProgress,
			BlockProgress:    set.BlockProgress,
			UserBlockTests:   set.UserBlockTests,
			Stats:            set.Stats,
			Achievements:     set.Achievements,
			UserAchievements: set.UserAchievements,
			Ladder:           ladder,
		}),
		Provisioning: aggregates.NewProvisioningAggregate(aggregates.ProvisioningAggregateDeps{
			Base:  base,
			Users: set.Users,
			Stats: set.Stats,
		}),
	}
}

func wireServices(log *logger.Logger, cfg Config, set repos.Set, aggs Aggregates) Services {
	log.Info("Wiring services...")
	catalog := services.NewCatalogService(log, set)
	return Services{
		Auth:         services.NewAuthService(log, set.Users, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.BotKeyHash),
		Catalog:      catalog,
		Dashboard:    services.NewDashboardService(log, set, catalog, cfg.Location),
		Progress:     services.NewProgressService(log, aggs.Progress, aggs.Sessions, aggs.BlockTests),
		Provisioning: services.NewProvisioningService(log, aggs.Provisioning, cfg.AppBaseURL),
	}
}
