// Package bootstrap handles application initialization and lifecycle management
// for the article service.
package bootstrap

import (
	"context"
	"fmt"

	infralogger "github.com/jonesrussell/north-cloud/article-service/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/article-service/infrastructure/profiling"
	"github.com/jonesrussell/north-cloud/article-service/internal/metrics"
)

// Start initializes and runs the article service until ctx is cancelled or the
// process is signalled.
func Start(ctx context.Context) error {
	cfg, configErr := LoadConfig()
	if configErr != nil {
		return fmt.Errorf("config: %w", configErr)
	}

	log, logErr := CreateLogger(cfg)
	if logErr != nil {
		return fmt.Errorf("logger: %w", logErr)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting Article Service",
		infralogger.String("name", cfg.Service.Name),
		infralogger.String("version", cfg.Service.Version),
		infralogger.Int("port", cfg.Service.Port),
		infralogger.String("store", cfg.Store.Driver),
	)

	profiling.StartPprofServer(log)
	profiler, profilerErr := profiling.StartPyroscope(cfg.Service.Name, cfg.Service.Version, log)
	if profilerErr != nil {
		log.Warn("Continuous profiling disabled", infralogger.Error(profilerErr))
	}
	defer func() {
		if stopErr := profiler.Stop(); stopErr != nil {
			log.Warn("Stop profiler", infralogger.Error(stopErr))
		}
	}()

	st, closeStore, storeErr := SetupStore(ctx, cfg, log)
	if storeErr != nil {
		return fmt.Errorf("store: %w", storeErr)
	}
	defer closeStore()

	pub, closeRedis, redisErr := SetupEvents(ctx, cfg, log)
	if redisErr != nil {
		return fmt.Errorf("events: %w", redisErr)
	}
	defer closeRedis()

	server := SetupHTTPServer(cfg, st, pub, metrics.New(), log)

	if runErr := server.Run(ctx); runErr != nil {
		log.Error("Server error", infralogger.Error(runErr))
		return fmt.Errorf("server: %w", runErr)
	}

	log.Info("Article Service stopped")
	return nil
}
