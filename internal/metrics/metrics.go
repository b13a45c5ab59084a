package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector counts extraction outcomes. A nil *Collector is valid and
// records nothing.
type Collector struct {
	registry       *prometheus.Registry
	pagesTotal     *prometheus.CounterVec
	linksForwarded *prometheus.CounterVec
	linksRejected  prometheus.Counter
	sinkErrors     *prometheus.CounterVec
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		pagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "extract_pages_total",
				Help: "Responses processed, by whether the body was HTML",
			},
			[]string{"html"},
		),
		linksForwarded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "extract_links_forwarded_total",
				Help: "Links handed to the sink, by kind",
			},
			[]string{"kind"},
		),
		linksRejected: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "extract_links_rejected_total",
				Help: "Links dropped for disallowed characters",
			},
		),
		sinkErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "extract_sink_errors_total",
				Help: "Failed sink operations, by operation",
			},
			[]string{"op"},
		),
	}
	c.registry.MustRegister(c.pagesTotal, c.linksForwarded, c.linksRejected, c.sinkErrors)
	return c
}

func (c *Collector) Page(html bool) {
	if c == nil {
		return
	}
	c.pagesTotal.WithLabelValues(strconv.FormatBool(html)).Inc()
}

func (c *Collector) LinkForwarded(kind string) {
	if c == nil {
		return
	}
	c.linksForwarded.WithLabelValues(kind).Inc()
}

func (c *Collector) LinkRejected() {
	if c == nil {
		return
	}
	c.linksRejected.Inc()
}

func (c *Collector) SinkError(op string) {
	if c == nil {
		return
	}
	c.sinkErrors.WithLabelValues(op).Inc()
}

// Registry exposes the underlying registry for tests and custom exporters.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
