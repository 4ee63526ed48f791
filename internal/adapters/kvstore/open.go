package kvstore

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tanjung-residence/siskamling/attendance-service/internal/config"
	"github.com/tanjung-residence/siskamling/attendance-service/internal/core/ports"
)

// lookup carries a Get result through the circuit breaker, which only
// passes back interface{}.
type lookup struct {
	value string
	found bool
}

// Open returns the store selected by cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.KeyValueStore, error) {
	logger = logger.Named("kvstore").With(zap.String("driver", cfg.StoreDriver))

	switch cfg.StoreDriver {
	case "memory":
		logger.Warn("using in-memory store, submissions are lost on exit")
		return NewMemoryStore(), nil
	case "redis":
		return DialRedis(ctx, cfg.RedisAddress, cfg.RedisPassword, cfg.RedisDB, logger)
	case "postgres":
		return OpenPostgres(ctx, cfg.DatabaseURL, logger)
	case "sqlite":
		return OpenSQLite(ctx, cfg.SQLitePath, logger)
	}
	return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
}
