package service

import (
	"context"

	log "github.com/sirupsen/logrus"

	"fleetflow/internal/redis"
)

// statsInvalidator drops cached dashboard figures after a mutation.
type statsInvalidator struct {
	cache redis.StatsCacheInterface
}

func (i statsInvalidator) invalidate(ctx context.Context) {
	if i.cache == nil {
		return
	}
	if err := i.cache.InvalidateDashboard(ctx); err != nil {
		log.WithError(err).Warn("dashboard cache invalidation failed")
	}
}
