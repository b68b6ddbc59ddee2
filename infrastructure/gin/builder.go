package gin

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	infralogger "github.com/jonesrussell/north-cloud/article-service/infrastructure/logger"
)

// ServerBuilder assembles a Server fluently.
type ServerBuilder struct {
	cfg         Config
	log         infralogger.Logger
	checks      map[string]HealthChecker
	middleware  []gin.HandlerFunc
	setupRoutes func(*gin.Engine)
}

// NewServerBuilder starts a builder for serviceName listening on port.
func NewServerBuilder(serviceName string, port int) *ServerBuilder {
	return &ServerBuilder{
		cfg:    Config{ServiceName: serviceName, Port: port},
		checks: make(map[string]HealthChecker),
	}
}

// WithLogger sets the server logger.
func (b *ServerBuilder) WithLogger(log infralogger.Logger) *ServerBuilder {
	b.log = log
	return b
}

// WithDebug switches gin into debug mode.
func (b *ServerBuilder) WithDebug(debug bool) *ServerBuilder {
	b.cfg.Debug = debug
	return b
}

// WithVersion sets the version reported by /health.
func (b *ServerBuilder) WithVersion(version string) *ServerBuilder {
	b.cfg.ServiceVersion = version
	return b
}

// WithTimeouts sets read, write and idle timeouts.
func (b *ServerBuilder) WithTimeouts(read, write, idle time.Duration) *ServerBuilder {
	b.cfg.ReadTimeout = read
	b.cfg.WriteTimeout = write
	b.cfg.IdleTimeout = idle
	return b
}

// WithCORS replaces the CORS settings.
func (b *ServerBuilder) WithCORS(cors CORSConfig) *ServerBuilder {
	b.cfg.CORS = cors
	return b
}

// WithRateLimit limits the whole server to rps requests per second with the
// given burst. rps <= 0 disables limiting.
func (b *ServerBuilder) WithRateLimit(rps float64, burst int) *ServerBuilder {
	b.cfg.RateLimit = RateLimitConfig{RequestsPerSecond: rps, Burst: burst}
	return b
}

// WithHealthCheck registers a named dependency check on /health.
func (b *ServerBuilder) WithHealthCheck(name string, check HealthChecker) *ServerBuilder {
	b.checks[name] = check
	return b
}

// WithStoreHealthCheck registers the article store ping as a critical check.
func (b *ServerBuilder) WithStoreHealthCheck(ping func(context.Context) error) *ServerBuilder {
	return b.WithHealthCheck("store", PingChecker(ping, HealthStatusUnhealthy))
}

// WithRedisHealthCheck registers a Redis ping. Redis only carries events so a
// failure degrades rather than fails the service.
func (b *ServerBuilder) WithRedisHealthCheck(ping func(context.Context) error) *ServerBuilder {
	return b.WithHealthCheck("redis", PingChecker(ping, HealthStatusDegraded))
}

// WithMiddleware appends handlers that run after the standard stack and
// before every route, health routes included.
func (b *ServerBuilder) WithMiddleware(mw ...gin.HandlerFunc) *ServerBuilder {
	b.middleware = append(b.middleware, mw...)
	return b
}

// WithRoutes sets the service route registration.
func (b *ServerBuilder) WithRoutes(setup func(*gin.Engine)) *ServerBuilder {
	b.setupRoutes = setup
	return b
}

// Build creates the Server.
func (b *ServerBuilder) Build() *Server {
	if b.log == nil {
		b.log = infralogger.NewNop()
	}

	cfg := b.cfg
	checks := b.checks
	setup := b.setupRoutes
	middleware := b.middleware

	return NewServer(&cfg, b.log, func(router *gin.Engine) {
		if len(middleware) > 0 {
			router.Use(middleware...)
		}
		RegisterHealthRoutes(router, cfg.ServiceName, cfg.ServiceVersion, checks)
		if setup != nil {
			setup(router)
		}
	})
}
