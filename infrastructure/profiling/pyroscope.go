package profiling

import (
	"fmt"
	"os"
	"runtime"

	"github.com/grafana/pyroscope-go"

	infralogger "github.com/jonesrussell/north-cloud/article-service/infrastructure/logger"
)

const (
	defaultPyroscopeServer = "http://pyroscope:4040"
	defaultEnvironment     = "development"
)

// PyroscopeProfiler wraps a running Pyroscope profiler. A nil value is valid
// and Stop on it does nothing.
type PyroscopeProfiler struct {
	profiler *pyroscope.Profiler
}

// StartPyroscope starts continuous profiling when ENABLE_CONTINUOUS_PROFILING
// is "true". PYROSCOPE_SERVER_URL and PYROSCOPE_ENVIRONMENT override the
// server and environment tag. Disabled profiling returns nil, nil.
func StartPyroscope(serviceName, version string, log infralogger.Logger) (*PyroscopeProfiler, error) {
	cfg, enabled := pyroscopeConfig(serviceName, version)
	if !enabled {
		return nil, nil
	}

	profiler, err := pyroscope.Start(cfg)
	if err != nil {
		return nil, fmt.Errorf("start pyroscope profiler: %w", err)
	}

	log.Info("Pyroscope continuous profiling started",
		infralogger.String("application", cfg.ApplicationName),
		infralogger.String("server", cfg.ServerAddress),
		infralogger.String("environment", cfg.Tags["environment"]),
	)

	return &PyroscopeProfiler{profiler: profiler}, nil
}

// Stop flushes and stops the profiler.
func (p *PyroscopeProfiler) Stop() error {
	if p == nil || p.profiler == nil {
		return nil
	}
	return p.profiler.Stop()
}

func pyroscopeConfig(serviceName, version string) (pyroscope.Config, bool) {
	if os.Getenv("ENABLE_CONTINUOUS_PROFILING") != "true" {
		return pyroscope.Config{}, false
	}

	if version == "" {
		version = "unknown"
	}

	return pyroscope.Config{
		ApplicationName: "north-cloud." + serviceName,
		ServerAddress:   envOr("PYROSCOPE_SERVER_URL", defaultPyroscopeServer),
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
		Tags: map[string]string{
			"environment": envOr("PYROSCOPE_ENVIRONMENT", defaultEnvironment),
			"version":     version,
			"hostname":    hostname(),
			"go_version":  runtime.Version(),
		},
	}, true
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}
