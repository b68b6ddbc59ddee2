package bootstrap

import (
	"time"

	"github.com/gin-gonic/gin"

	infragin "github.com/jonesrussell/north-cloud/article-service/infrastructure/gin"
	infralogger "github.com/jonesrussell/north-cloud/article-service/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/article-service/internal/api"
	"github.com/jonesrussell/north-cloud/article-service/internal/config"
	"github.com/jonesrussell/north-cloud/article-service/internal/events"
	"github.com/jonesrussell/north-cloud/article-service/internal/filter"
	"github.com/jonesrussell/north-cloud/article-service/internal/metrics"
	"github.com/jonesrussell/north-cloud/article-service/internal/service"
	"github.com/jonesrussell/north-cloud/article-service/internal/store"
)

const (
	defaultReadTimeout  = 30 * time.Second
	defaultWriteTimeout = 60 * time.Second
	defaultIdleTimeout  = 120 * time.Second
)

// SetupHTTPServer creates the HTTP server with all handlers wired.
// pub and m may be nil.
func SetupHTTPServer(
	cfg *config.Config,
	st store.Store,
	pub *events.Publisher,
	m *metrics.Metrics,
	log infralogger.Logger,
) *infragin.Server {
	engine := filter.NewEngine(st, filter.WithCaseSensitive(cfg.Filter.CaseSensitive))
	articleSvc := service.NewArticleService(st, engine, pub, m, log)
	articleHandler := api.NewArticleHandler(articleSvc)

	builder := infragin.NewServerBuilder(cfg.Service.Name, cfg.Service.Port).
		WithLogger(log).
		WithDebug(cfg.Service.Debug).
		WithVersion(cfg.Service.Version).
		WithTimeouts(defaultReadTimeout, defaultWriteTimeout, defaultIdleTimeout).
		WithRateLimit(float64(cfg.Service.RateLimitRPS), cfg.Service.RateLimitBurst).
		WithMiddleware(m.Middleware()).
		WithStoreHealthCheck(st.Ping)

	if pub != nil {
		builder = builder.WithRedisHealthCheck(pub.Ping)
	}

	return builder.
		WithRoutes(func(router *gin.Engine) {
			api.SetupRoutes(router, articleHandler, m.Handler())
		}).
		Build()
}
