// Package engine runs the full extraction pass for one fetched response.
// An Engine holds no per-page state and may be shared by many workers.
package engine

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"crawlextract/internal/classifier"
	"crawlextract/internal/links"
	"crawlextract/internal/metrics"
	"crawlextract/internal/models"
	"crawlextract/internal/parser"
	"crawlextract/internal/store"
	"crawlextract/internal/textconv"
	"crawlextract/pkg/logger"
)

type Engine struct {
	sink    store.Sink
	parser  *parser.Parser
	links   *links.Extractor
	log     *logger.Logger
	metrics *metrics.Collector
}

type Options struct {
	MaxFieldLength int
	Logger         *logger.Logger
	Metrics        *metrics.Collector
}

func New(sink store.Sink, opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	return &Engine{
		sink:    sink,
		parser:  parser.New(opts.MaxFieldLength),
		links:   links.New(sink, log, opts.Metrics),
		log:     log,
		metrics: opts.Metrics,
	}
}

// Input is one response to process. Host is the crawled host used to
// recognise redirects; when empty it is taken from URL.
type Input struct {
	PageID int64
	URL    string
	Host   string
	Header string
	Body   string
}

// Process classifies the response and, for HTML bodies, extracts and stores
// title, description, tags and links. Each field is best effort: sink
// failures are joined into the returned error while the result is still
// filled in as far as extraction got.
func (e *Engine) Process(ctx context.Context, in Input) (*models.Extraction, error) {
	host := in.Host
	if host == "" {
		host = hostOf(in.URL)
	}
	cls := classifier.Classify(in.Header, host)
	res := &models.Extraction{
		PageID:     in.PageID,
		URL:        in.URL,
		StatusCode: cls.StatusCode,
		HTML:       cls.HTML,
	}
	if cls.HasRedirect {
		res.Redirect = cls.Redirect
	}
	e.metrics.Page(cls.HTML)
	if !cls.HTML {
		return res, nil
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	log := e.log.WithFields(logger.Fields{"page_id": in.PageID, "url": in.URL})
	var errs []error
	record := func(op string, err error) {
		if err == nil {
			return
		}
		e.metrics.SinkError(op)
		log.WithError(err).Warnf("%s failed", op)
		errs = append(errs, fmt.Errorf("%s: %w", op, err))
	}

	f := e.parser.Extract(in.Body)
	res.Title = f.Title
	res.Truncated = f.Truncated
	if f.Title != "" {
		record("set_title", e.sink.SetTitle(ctx, in.PageID, f.Title))
	}
	if f.HasDescription {
		res.Description = f.Description
		record("set_description", e.sink.SetDescription(ctx, in.PageID, f.Description))
	}
	if f.HasTags {
		res.Tags = f.Tags
		encoded, err := textconv.ToIndexCharset(f.Tags)
		if err != nil {
			record("encode_tags", err)
		} else {
			record("set_tags", e.sink.SetTags(ctx, in.PageID, encoded))
		}
	}

	rep, err := e.links.Extract(ctx, in.PageID, in.URL, in.Body)
	res.Links = rep.Links
	res.Rejected = rep.Rejected
	if err != nil {
		errs = append(errs, err)
	}
	log.WithFields(logger.Fields{
		"links":    len(rep.Links),
		"rejected": rep.Rejected,
	}).Debugf("page extracted")

	return res, errors.Join(errs...)
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}
