package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"pricefeed-api/internal/cli"
	"pricefeed-api/internal/config"
	"pricefeed-api/internal/metrics"
	"pricefeed-api/internal/svc"
	"pricefeed-api/pkg/scheduler"
)

const shutdownTimeout = 10 * time.Second // Grace period for shutdown

var configFile = flag.String("f", "etc/pricefeed.yaml", "the config file")

func main() {
	flag.Parse()

	cfg := config.MustLoad(*configFile)
	logx.MustSetup(cfg.Log)
	defer logx.Close()

	logx.Info("[main] Starting price ingestion scheduler...")
	cli.LogConfigSummary(cfg)

	sc := svc.NewServiceContext(*cfg, *configFile)
	sched, err := scheduler.New(sc.Ingest, scheduler.Config{
		Spec:       cfg.Scheduler.Spec,
		Tickers:    cfg.Scheduler.Tickers,
		JobTimeout: cfg.Scheduler.JobTimeout,
	})
	if err != nil {
		logx.Must(err)
	}

	// Create context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metricsSrv := startMetricsServer(cfg.Scheduler.MetricsAddr)

	// Run once immediately on startup, then on schedule
	sched.RunOnce(ctx)
	sched.Start()
	logx.Infof("[main] Scheduler started for %v. Press Ctrl+C to stop.", sched.Tickers())

	<-ctx.Done()
	logx.Info("[main] Shutdown signal received, stopping jobs...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := sched.Stop(shutdownCtx); err != nil {
		logx.Errorf("[main] Shutdown timeout exceeded, forcing exit: %v", err)
	} else {
		logx.Info("[main] All jobs stopped cleanly")
	}
	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logx.Errorf("[main] metrics server shutdown: %v", err)
		}
	}

	logx.Info("[main] Scheduler stopped")
}

// startMetricsServer exposes /metrics for the daemon; returns nil when addr is empty.
func startMetricsServer(addr string) *http.Server {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Errorf("[main] metrics server: %v", err)
		}
	}()
	logx.Infof("[main] Metrics listening on %s/metrics", addr)
	return srv
}
