package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/codepath-backend/internal/clients/redis"
	"github.com/yungbote/codepath-backend/internal/platform/logger"
)

type Clients struct {
	Cache redis.Cache
}

// wireClients connects optional backends. Without REDIS_ADDR navigation reads
// the catalog on every request.
func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	var cache redis.Cache
	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		c, err := redis.NewCache(log, cfg.Redis)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis cache: %w", err)
		}
		cache = c
	} else {
		log.Info("REDIS_ADDR not set; navigation cache disabled")
	}

	return Clients{Cache: cache}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
}

type cachePinger struct{ cache redis.Cache }

func (p cachePinger) PingContext(ctx context.Context) error { return p.cache.Ping(ctx) }
