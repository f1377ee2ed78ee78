// Command splinter is the interactive shell and one-shot CLI for a
// Splinter bus.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/splinter-kv/splinter/internal/cli"
	"github.com/splinter-kv/splinter/internal/config"
	"github.com/splinter-kv/splinter/internal/metrics"
)

func main() {
	os.Exit(run())
}

func run() int {
	workDir, _ := os.Getwd()
	cfg, err := config.Load(workDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: loading config: %v\n", err)
		return cli.ExitIOError
	}

	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}
	defer logger.Sync()

	var sink metrics.Sink = metrics.Noop
	if addr := os.Getenv("SPLINTER_METRICS_ADDR"); addr != "" {
		reg := prometheus.NewRegistry()
		sink = metrics.New(reg)
		serveMetrics(addr, reg, logger)
	}

	app := cli.NewApp(cfg, workDir, os.Stdout, os.Stderr, logger, sink)
	defer app.Close()

	args := os.Args[1:]
	if len(args) == 0 {
		repl := cli.NewREPL(app, "")
		return repl.Run()
	}

	code := app.Dispatch(args)
	if code == -1 {
		return cli.ExitOK
	}
	return code
}

// serveMetrics starts a background Prometheus /metrics endpoint. A
// failure to bind is logged, not fatal: metrics are diagnostic only.
func serveMetrics(addr string, reg *prometheus.Registry, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
		srv.Close()
	}()

	go func() {
		logger.Info("cli: metrics server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn("cli: metrics server stopped", zap.Error(err))
		}
	}()
}
