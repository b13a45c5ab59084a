// Package links finds href and src values in raw markup, normalizes them and
// forwards them to the sink in document order.
package links

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"crawlextract/internal/metrics"
	"crawlextract/internal/models"
	"crawlextract/internal/urlnorm"
	"crawlextract/pkg/logger"
)

// Attribute patterns, run in this order over the whole body.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)href="([^'"<>]+)"`),
	regexp.MustCompile(`(?i)src="([^'"<>]+)"`),
}

// LinkSink is the part of store.Sink the pipeline writes to.
type LinkSink interface {
	InsertUniqueLocalLink(ctx context.Context, sourceID int64, url string) error
	InsertExternalLink(ctx context.Context, url string) error
}

type Extractor struct {
	sink    LinkSink
	log     *logger.Logger
	metrics *metrics.Collector
}

func New(sink LinkSink, log *logger.Logger, m *metrics.Collector) *Extractor {
	if log == nil {
		log = logger.Discard()
	}
	return &Extractor{sink: sink, log: log, metrics: m}
}

// Report lists what one page produced.
type Report struct {
	Links    []models.Link
	Rejected int
}

// Extract forwards every link in body. Rejected links are dropped and sink
// failures are collected; neither stops the scan. The returned error joins
// all sink failures.
func (e *Extractor) Extract(ctx context.Context, sourceID int64, pageURL, body string) (Report, error) {
	var rep Report
	var errs []error
	dir := urlnorm.CurrentDir(pageURL)

	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(body, -1) {
			link, ok := normalize(dir, strings.TrimLeft(m[1], " \r"))
			if !ok {
				rep.Rejected++
				e.metrics.LinkRejected()
				e.log.WithFields(logger.Fields{"page_id": sourceID, "link": m[1]}).Debugf("link rejected")
				continue
			}
			if link.URL == "" {
				continue
			}

			var err error
			if link.Kind == models.LinkLocal {
				link.SourceID = sourceID
				err = e.sink.InsertUniqueLocalLink(ctx, sourceID, link.URL)
			} else {
				err = e.sink.InsertExternalLink(ctx, link.URL)
			}
			if err != nil {
				op := "insert_" + string(link.Kind) + "_link"
				e.metrics.SinkError(op)
				e.log.WithError(err).WithFields(logger.Fields{"page_id": sourceID, "link": link.URL}).Warnf("%s failed", op)
				errs = append(errs, err)
				continue
			}
			e.metrics.LinkForwarded(string(link.Kind))
			rep.Links = append(rep.Links, link)
		}
	}
	return rep, errors.Join(errs...)
}

// normalize turns a trimmed attribute value into the form stored by the
// sink. An empty URL with ok set means the value was skipped as invalid.
func normalize(dir, raw string) (models.Link, bool) {
	switch urlnorm.Classify(raw) {
	case urlnorm.Local:
		u, err := urlnorm.Canonical(dir, raw)
		if err != nil {
			return models.Link{}, false
		}
		return models.Link{URL: u, Kind: models.LinkLocal}, true
	case urlnorm.External:
		if strings.ContainsAny(raw, "()") {
			return models.Link{}, false
		}
		return models.Link{URL: urlnorm.PercentEncode(raw), Kind: models.LinkExternal}, true
	default:
		return models.Link{}, true
	}
}
