package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chankit-dev/chankit"
	"github.com/chankit-dev/chankit/internal/config"
	"github.com/chankit-dev/chankit/internal/logger"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "chanwatch.yaml", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(configPath)
	logger.Initialize(cfg.LogLevel, cfg.LogJSON)

	client := chankit.NewClient(chankit.Options{
		APIBase:   cfg.APIBase,
		UserAgent: cfg.UserAgent,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr)
	}

	var wg sync.WaitGroup
	started := 0
	for _, name := range cfg.Boards {
		board, err := chankit.NewBoard(client, name)
		if err != nil {
			logger.Log.Error("skipping board", "board", name, "error", err)
			continue
		}

		w := NewWatcher(board, cfg.Query, cfg.FetchThreads)
		wg.Add(1)
		started++
		go func() {
			defer wg.Done()
			w.Run(ctx, cfg.Interval())
		}()
	}

	if started == 0 {
		logger.Log.Error("no boards to watch")
		os.Exit(1)
	}

	wg.Wait()
	logger.Log.Info("chanwatch stopped")
}

func serveMetrics(addr string) {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	logger.Log.Info("metrics listening", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Log.Error("metrics server failed", "error", err)
	}
}
