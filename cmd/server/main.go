package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crawlextract/internal/config"
	"crawlextract/internal/crawler"
	"crawlextract/internal/engine"
	"crawlextract/internal/metrics"
	"crawlextract/internal/store"
	"crawlextract/pkg/logger"
)

func main() {
	cfg := config.Load()
	l := logger.New(cfg.LogLevel)

	var st store.Store = store.NewMemory()
	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pg, err := store.OpenPostgres(ctx, store.DefaultPostgresConfig(cfg.DatabaseURL))
		cancel()
		if err != nil {
			l.Errorf("open store: %v", err)
			os.Exit(1)
		}
		st = pg
	} else {
		l.Infof("DATABASE_URL not set; using in-memory store")
	}
	defer st.Close()

	m := metrics.New()
	runner := &engine.Runner{
		Engine: engine.New(st, engine.Options{
			MaxFieldLength: cfg.MaxFieldLength,
			Logger:         l,
			Metrics:        m,
		}),
		Pages: st,
		Fetcher: crawler.NewHTTPClient(crawler.Options{
			Timeout:     cfg.FetchTimeout,
			DialTimeout: cfg.FetchTimeout / 3,
			SizeCap:     cfg.FetchMaxBytes,
			UserAgent:   cfg.UserAgent,
			Rate:        cfg.FetchRate,
			Burst:       cfg.FetchBurst,
		}),
	}

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      logRequest(l, newMux(runner, m, cfg.Concurrency)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		l.Infof("server listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			l.Errorf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	l.Infof("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	l.Infof("bye")
}

func logRequest(l *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		l.WithFields(logger.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).String(),
		}).Infof("request")
	})
}
