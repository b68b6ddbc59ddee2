// Package profiling exposes opt-in pprof endpoints and Pyroscope continuous
// profiling. Both stay off unless their environment switch is "true".
package profiling

import (
	"errors"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"time"

	infralogger "github.com/jonesrussell/north-cloud/article-service/infrastructure/logger"
)

const (
	defaultPprofPort  = "6060"
	pprofReadTimeout  = 5 * time.Second
	pprofWriteTimeout = 60 * time.Second
)

// StartPprofServer serves /debug/pprof/ on localhost when ENABLE_PROFILING is
// "true". PPROF_PORT picks the port. It returns the bound address, or "" when
// profiling is disabled or the port cannot be bound.
func StartPprofServer(log infralogger.Logger) string {
	if os.Getenv("ENABLE_PROFILING") != "true" {
		return ""
	}

	port := os.Getenv("PPROF_PORT")
	if port == "" {
		port = defaultPprofPort
	}

	// localhost only; the endpoints leak heap contents.
	ln, listenErr := net.Listen("tcp", net.JoinHostPort("localhost", port))
	if listenErr != nil {
		log.Error("pprof server not started", infralogger.String("port", port), infralogger.Error(listenErr))
		return ""
	}

	srv := &http.Server{
		Handler:           pprofMux(),
		ReadHeaderTimeout: pprofReadTimeout,
		WriteTimeout:      pprofWriteTimeout,
	}

	addr := ln.Addr().String()
	log.Info("Starting pprof server",
		infralogger.String("addr", addr),
		infralogger.String("profiles", "http://"+addr+"/debug/pprof/"),
	)

	go func() {
		if serveErr := srv.Serve(ln); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			log.Error("pprof server error", infralogger.Error(serveErr))
		}
	}()

	return addr
}

func pprofMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}
