package app

import (
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/lexiprogress-backend/internal/clients/redis"
	"github.com/yungbote/lexiprogress-backend/internal/domain/events"
	"github.com/yungbote/lexiprogress-backend/internal/platform/logger"
)

type Clients struct {
	// EventBus is nil when REDIS_ADDR is unset.
	EventBus events.Bus
	Redis    *goredis.Client
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		log.Info("REDIS_ADDR not set; progress events are dropped")
		return out, nil
	}
	bus, err := redis.NewEventBus(redis.Config{Addr: cfg.RedisAddr, Channel: cfg.RedisChannel}, log)
	if err != nil {
		return Clients{}, fmt.Errorf("init redis event bus: %w", err)
	}
	out.EventBus = bus
	if c, ok := bus.(interface{ Client() *goredis.Client }); ok {
		out.Redis = c.Client()
	}
	return out, nil
}

func (c Clients) publisher() events.Publisher {
	if c.EventBus == nil {
		return events.Nop()
	}
	return c.EventBus
}

func (c Clients) Close() {
	if c.EventBus != nil {
		_ = c.EventBus.Close()
	}
}
