package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"crawlextract/internal/engine"
	"crawlextract/internal/metrics"
	"crawlextract/internal/models"
)

type batchReq struct {
	Records []models.Response `json:"records"`
}

func newMux(runner *engine.Runner, m *metrics.Collector, concurrency int) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("/metrics", m.Handler())

	// POST /extract  {"url": "...", "pageId": 1, "header": "...", "body": "..."}
	// header and body may be omitted to fetch the url instead.
	mux.HandleFunc("/extract", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
			return
		}
		var req models.Response
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
		defer cancel()

		res, err := runner.Run(ctx, req)
		if res == nil {
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
			return
		}
		out := engine.Outcome{URL: req.URL, Result: res}
		if err != nil {
			// store failures still carry a full extraction
			out.Error = err.Error()
		}
		writeJSON(w, http.StatusOK, out)
	})

	// POST /extract/batch  {"records": [...]}
	mux.HandleFunc("/extract/batch", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
			return
		}
		var req batchReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Records) == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
		defer cancel()
		writeJSON(w, http.StatusOK, runner.RunAll(ctx, req.Records, concurrency))
	})

	return mux
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
