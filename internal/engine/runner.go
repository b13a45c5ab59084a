package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"crawlextract/internal/classifier"
	"crawlextract/internal/models"
	"crawlextract/internal/store"
)

// Fetcher turns a URL into a raw response.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (models.Response, error)
}

// Runner feeds records to an Engine, fetching records that carry no header
// and registering pages whose id is missing or unknown to Pages.
type Runner struct {
	Engine  *Engine
	Pages   store.PageStore
	Fetcher Fetcher
}

var ErrNoFetcher = errors.New("record has no header and no fetcher is configured")

func (r *Runner) Run(ctx context.Context, rec models.Response) (*models.Extraction, error) {
	if rec.Header == "" {
		if r.Fetcher == nil {
			return nil, ErrNoFetcher
		}
		fetched, err := r.Fetcher.Fetch(ctx, rec.URL)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", rec.URL, err)
		}
		fetched.PageID = rec.PageID
		rec = fetched
	}
	if rec.PageID != 0 && r.Pages != nil {
		// captured ids may come from another store; re-register unknown ones by url
		known, err := r.Pages.HasPage(ctx, rec.PageID)
		if err != nil {
			return nil, fmt.Errorf("look up page %d: %w", rec.PageID, err)
		}
		if !known {
			rec.PageID = 0
		}
	}
	if rec.PageID == 0 && r.Pages != nil {
		id, err := r.Pages.SavePage(ctx, rec.URL, classifier.StatusCode(rec.Header))
		if err != nil {
			return nil, fmt.Errorf("save page %s: %w", rec.URL, err)
		}
		rec.PageID = id
	}
	return r.Engine.Process(ctx, Input{
		PageID: rec.PageID,
		URL:    rec.URL,
		Header: rec.Header,
		Body:   rec.Body,
	})
}

// Outcome pairs a record with its result.
type Outcome struct {
	URL    string             `json:"url"`
	Result *models.Extraction `json:"result,omitempty"`
	Error  string             `json:"error,omitempty"`
}

// RunAll processes recs with at most concurrency workers and returns the
// outcomes in input order.
func (r *Runner) RunAll(ctx context.Context, recs []models.Response, concurrency int) []Outcome {
	if concurrency < 1 {
		concurrency = 1
	}
	out := make([]Outcome, len(recs))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	for i, rec := range recs {
		i, rec := i, rec
		sem <- struct{}{} // acquire
		wg.Add(1)
		go func() {
			defer func() { <-sem; wg.Done() }()
			res, err := r.Run(ctx, rec)
			out[i] = Outcome{URL: rec.URL, Result: res}
			if err != nil {
				out[i].Error = err.Error()
			}
		}()
	}
	wg.Wait()
	return out
}
