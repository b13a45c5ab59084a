package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"crawlextract/internal/config"
	"crawlextract/internal/crawler"
	"crawlextract/internal/engine"
	"crawlextract/internal/ioformats"
	"crawlextract/internal/metrics"
	"crawlextract/internal/store"
	"crawlextract/pkg/logger"
)

func main() {
	cfg := config.Load()

	in := flag.String("input", "", "input file (ndjson of captured responses, or csv/ndjson of urls)")
	out := flag.String("output", "", "output NDJSON file (default stdout)")
	concurrency := flag.Int("concurrency", cfg.Concurrency, "worker concurrency")
	dryRun := flag.Bool("dry-run", false, "use the in-memory store even when DATABASE_URL is set")
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "missing --input")
		os.Exit(2)
	}

	l := logger.New(cfg.LogLevel)
	recs, err := ioformats.ReadRecords(*in)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read input:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var st store.Store = store.NewMemory()
	if cfg.DatabaseURL != "" && !*dryRun {
		pg, err := store.OpenPostgres(ctx, store.DefaultPostgresConfig(cfg.DatabaseURL))
		if err != nil {
			fmt.Fprintln(os.Stderr, "open store:", err)
			os.Exit(1)
		}
		st = pg
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

	results := runner.RunAll(ctx, recs, *concurrency)

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			fmt.Fprintln(os.Stderr, "create output:", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}
	if err := ioformats.WriteNDJSON(w, results); err != nil {
		fmt.Fprintln(os.Stderr, "write output:", err)
		os.Exit(1)
	}
	printSummary(results)
}

func printSummary(results []engine.Outcome) {
	var ok, failed, links, rejected, redirects int
	for _, r := range results {
		if r.Error != "" {
			failed++
		} else {
			ok++
		}
		if r.Result != nil {
			links += len(r.Result.Links)
			rejected += r.Result.Rejected
			if r.Result.Redirect != "" {
				redirects++
			}
		}
	}
	fmt.Fprintf(os.Stderr, "%s %d pages  %s %d links  %s %d rejected  %s %d redirects\n",
		color.GreenString("ok"), ok,
		color.CyanString("→"), links,
		color.YellowString("!"), rejected,
		color.BlueString("↪"), redirects)
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%s %d pages failed\n", color.RedString("✗"), failed)
	}
}
