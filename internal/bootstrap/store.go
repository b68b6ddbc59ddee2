package bootstrap

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	infralogger "github.com/jonesrussell/north-cloud/article-service/infrastructure/logger"
	infraredis "github.com/jonesrussell/north-cloud/article-service/infrastructure/redis"
	"github.com/jonesrussell/north-cloud/article-service/internal/config"
	"github.com/jonesrussell/north-cloud/article-service/internal/events"
	"github.com/jonesrussell/north-cloud/article-service/internal/store"
)

// SetupStore builds the configured article store. The returned func releases
// any connection the store holds.
func SetupStore(ctx context.Context, cfg *config.Config, log infralogger.Logger) (store.Store, func(), error) {
	switch cfg.Store.Driver {
	case store.DriverPostgres:
		db, dbErr := SetupDatabase(ctx, &cfg.Database, log)
		if dbErr != nil {
			return nil, nil, dbErr
		}
		log.Info("Database connection established",
			infralogger.String("host", cfg.Database.Host),
			infralogger.String("database", cfg.Database.Database),
		)
		closeDB := func() {
			if closeErr := db.Close(); closeErr != nil {
				log.Error("Failed to close database", infralogger.Error(closeErr))
			}
		}
		return store.NewPostgresStore(db), closeDB, nil
	case store.DriverMemory:
		log.Warn("Using in-memory article store; articles are lost on restart")
		return store.NewMemoryStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// SetupEvents connects to Redis when enabled and returns the article event
// publisher. A disabled or unreachable Redis yields a nil publisher; events
// are best effort and never block startup.
func SetupEvents(ctx context.Context, cfg *config.Config, log infralogger.Logger) (*events.Publisher, func(), error) {
	if !cfg.Redis.Enabled {
		log.Info("Redis disabled, article events will not be published")
		return nil, func() {}, nil
	}

	client, clientErr := infraredis.NewClient(ctx, cfg.Redis.Config)
	if clientErr != nil {
		log.Warn("Redis unavailable, article events disabled",
			infralogger.String("address", cfg.Redis.Address),
			infralogger.Error(clientErr),
		)
		return nil, func() {}, nil
	}

	log.Info("Redis connected, publishing article events",
		infralogger.String("address", cfg.Redis.Address),
		infralogger.String("stream", events.StreamName),
	)

	return events.NewPublisher(client, log), closeRedis(client, log), nil
}

func closeRedis(client *redis.Client, log infralogger.Logger) func() {
	return func() {
		if closeErr := client.Close(); closeErr != nil {
			log.Error("Failed to close redis client", infralogger.Error(closeErr))
		}
	}
}
