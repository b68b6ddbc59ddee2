package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	infracontext "github.com/jonesrussell/north-cloud/article-service/infrastructure/context"
	infralogger "github.com/jonesrussell/north-cloud/article-service/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/article-service/infrastructure/retry"
	"github.com/jonesrussell/north-cloud/article-service/internal/config"
)

const (
	dbConnectAttempts     = 5
	dbConnectInitialDelay = 500 * time.Millisecond
)

// SetupDatabase opens the PostgreSQL pool and waits for the server to accept
// connections, retrying transient failures.
func SetupDatabase(ctx context.Context, cfg *config.DatabaseConfig, log infralogger.Logger) (*sqlx.DB, error) {
	db, openErr := sqlx.Open("postgres", cfg.DSN())
	if openErr != nil {
		return nil, fmt.Errorf("open database: %w", openErr)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnectionMaxLifetime)

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = dbConnectAttempts
	retryCfg.InitialDelay = dbConnectInitialDelay
	retryCfg.OnRetry = func(attempt int, delay time.Duration, err error) {
		log.Warn("Database not ready, retrying",
			infralogger.Int("attempt", attempt),
			infralogger.Duration("delay", delay),
			infralogger.Error(err),
		)
	}

	pingErr := retry.Do(ctx, retryCfg, func(ctx context.Context) error {
		pingCtx, cancel := infracontext.WithPingTimeout(ctx)
		defer cancel()
		return db.PingContext(pingCtx)
	})
	if pingErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", pingErr)
	}

	return db, nil
}
