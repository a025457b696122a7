// Command smond is the composition root: it loads a YAML check
// configuration, wires a CheckRegistry into a Scheduler and WorkerPool,
// and serves the HTTP front-end, mirroring the original smon.py's role
// without carrying over its aiohttp/asyncio machinery.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/kopchik/smon"
	"github.com/kopchik/smon/httpapi"
)

func main() {
	listen := flag.String("listen", ":8181", "address to listen on, overriding the config file's listen value")
	configPath := flag.String("config", "/etc/smond.yaml", "path to the YAML check configuration")
	debug := flag.Bool("debug", false, "enable debug logging")
	workers := flag.Int("workers", smon.DefaultWorkerCount, "number of worker goroutines")
	flag.Parse()

	logger := log.StandardLogger()
	if *debug {
		logger.SetLevel(log.DebugLevel)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.WithError(err).Fatal("failed to load configuration")
	}

	registry, err := buildRegistry(cfg)
	if err != nil {
		logger.WithError(err).Fatal("failed to build check registry")
	}
	logger.WithField("count", registry.Len()).Info("loaded checks")

	addr := *listen
	if addr == ":8181" && cfg.Listen != "" {
		addr = cfg.Listen
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scheduler := smon.NewScheduler(smon.WithSchedulerLogger(logger))
	scheduler.Start(ctx)
	scheduler.ScheduleAll(registry)

	pool := smon.NewWorkerPool(scheduler, *workers, logger)
	pool.Start(ctx)

	reg := prometheus.NewRegistry()
	metrics := smon.NewMetrics(reg)
	go reportMetrics(ctx, scheduler, registry, metrics)

	handler := httpapi.New(scheduler, registry, httpapi.WithLogger(logger))
	mux := handler.Mux(httpapi.RequestLogging(logger))
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		logger.WithField("addr", addr).Info("listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
}

// reportMetrics periodically pushes scheduler- and check-level state into
// the Prometheus gauges until ctx is canceled.
func reportMetrics(ctx context.Context, scheduler *smon.Scheduler, registry *smon.CheckRegistry, metrics *smon.Metrics) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.ObservePendingDepth(scheduler.PendingDepth())
			metrics.ObserveGlobalHistoryLength(scheduler.GlobalHistory().Len())
			for _, c := range registry.Checks() {
				metrics.ObserveCheck(c.Name, c.LastOutcome().Status)
			}
		}
	}
}
