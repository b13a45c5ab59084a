
// Package crawler fetches a single page and hands back its raw header text
// and decoded body. It does not follow redirects or links; deciding what to
// fetch next is the caller's job.
package crawler

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"crawlextract/internal/models"
	"crawlextract/internal/textconv"
)

type HTTPClient struct {
	client    *http.Client
	limiter   *rate.Limiter
	sizeCap   int64
	userAgent string
}

type Options struct {
	Timeout     time.Duration
	DialTimeout time.Duration
	SizeCap     int64
	UserAgent   string
	// Rate is the sustained request rate per second; zero disables throttling.
	Rate  float64
	Burst int
}

func NewHTTPClient(opts Options) *HTTPClient {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   opts.DialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.Rate > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.Rate), burst)
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "crawlextract/1.0"
	}
	return &HTTPClient{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
			// redirects are reported through the Location header
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		limiter:   limiter,
		sizeCap:   opts.SizeCap,
		userAgent: ua,
	}
}

// Fetch issues one GET and returns the response as the engine consumes it.
// Non-2xx responses are returned too; their status lives in the header text.
func (h *HTTPClient) Fetch(ctx context.Context, rawURL string) (models.Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return models.Response{}, fmt.Errorf("invalid url %q", rawURL)
	}
	if err := h.limiter.Wait(ctx); err != nil {
		return models.Response{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return models.Response{}, err
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return models.Response{}, err
	}
	defer resp.Body.Close()

	var body io.Reader = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return models.Response{}, err
		}
		defer gz.Close()
		body = gz
		resp.Header.Del("Content-Encoding")
	}
	if h.sizeCap > 0 {
		// enforce a size cap
		body = io.LimitReader(body, h.sizeCap)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return models.Response{}, err
	}
	text, err := textconv.DecodeBody(data, resp.Header.Get("Content-Type"))
	if err != nil {
		return models.Response{}, fmt.Errorf("decode body: %w", err)
	}
	return models.Response{
		URL:    u.String(),
		Header: RawHeader(resp),
		Body:   text,
	}, nil
}

// RawHeader renders the status line and header fields as HTTP/1.x text,
// CRLF terminated. Responses received over HTTP/2 are written as HTTP/1.1.
func RawHeader(resp *http.Response) string {
	var buf bytes.Buffer
	proto := resp.Proto
	if resp.ProtoMajor != 1 || proto == "" {
		proto = "HTTP/1.1"
	}
	fmt.Fprintf(&buf, "%s %s\r\n", proto, resp.Status)
	_ = resp.Header.Write(&buf)
	buf.WriteString("\r\n")
	return buf.String()
}
