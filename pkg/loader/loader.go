// Package loader fetches form pages over HTTP and parses them into
// documents the decoder and filler can work on.
package loader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/usestring/formpilot-mcp/internal/cache"
	"github.com/usestring/formpilot-mcp/pkg/page"
)

// DefaultWorkers caps concurrent fetches in LoadAll.
const DefaultWorkers = 4

// maxPageBytes bounds how much of a page body is read.
const maxPageBytes = 16 << 20

// FetchError is a non-success response for a page.
type FetchError struct {
	URL        string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: status %d", e.URL, e.StatusCode)
}

// Loader loads form pages. It is safe for concurrent use.
type Loader struct {
	httpClient *http.Client
	workers    int
	pages      *cache.PageCache
	selectors  *page.SelectorCache
	group      singleflight.Group
}

// Option is a functional option for configuring the Loader.
type Option func(*Loader)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(l *Loader) {
		if httpClient != nil {
			l.httpClient = httpClient
		}
	}
}

// WithWorkers caps concurrent fetches in LoadAll.
func WithWorkers(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithPageCache keeps fetched bodies so repeated loads skip the network.
func WithPageCache(c *cache.PageCache) Option {
	return func(l *Loader) {
		l.pages = c
	}
}

// WithSelectorCache shares a compiled selector cache across loaded documents.
func WithSelectorCache(c *page.SelectorCache) Option {
	return func(l *Loader) {
		l.selectors = c
	}
}

// New creates a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		httpClient: http.DefaultClient,
		workers:    DefaultWorkers,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Result is the outcome of loading one URL.
type Result struct {
	URL string
	Doc *page.HTMLDocument
	Err error
}

// Load fetches and parses one page. Concurrent loads of the same URL share a
// single request; each caller still gets its own document.
func (l *Loader) Load(ctx context.Context, url string) (*page.HTMLDocument, error) {
	return l.load(ctx, url, true)
}

// Reload is Load without reading the page cache. The fetched body still
// replaces the cached one.
func (l *Loader) Reload(ctx context.Context, url string) (*page.HTMLDocument, error) {
	return l.load(ctx, url, false)
}

func (l *Loader) load(ctx context.Context, url string, useCache bool) (*page.HTMLDocument, error) {
	body, err := l.body(ctx, url, useCache)
	if err != nil {
		return nil, err
	}
	return l.Parse(body, url)
}

// Parse builds a document from markup already in hand.
func (l *Loader) Parse(body []byte, pageURL string) (*page.HTMLDocument, error) {
	var opts []page.Option
	if l.selectors != nil {
		opts = append(opts, page.WithSelectorCache(l.selectors))
	}
	return page.Parse(body, pageURL, opts...)
}

// LoadAll loads urls with at most the configured number of concurrent
// fetches. Results keep input order; per-URL failures are reported in
// Result.Err. The returned error is non-nil only when ctx is done.
func (l *Loader) LoadAll(ctx context.Context, urls []string) ([]Result, error) {
	results := make([]Result, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)

	for i, u := range urls {
		results[i].URL = u
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return err
			}
			doc, err := l.Load(gctx, u)
			if err != nil {
				slog.Debug("failed to load form page",
					slog.String("url", u),
					slog.String("error", err.Error()),
				)
			}
			results[i].Doc = doc
			results[i].Err = err
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

// body returns the page body from cache or the network. The shared fetch is
// detached from any one caller's cancellation; each caller stops waiting when
// its own ctx is done. The HTTP client timeout still bounds the request.
func (l *Loader) body(ctx context.Context, url string, useCache bool) ([]byte, error) {
	if useCache && l.pages != nil {
		if cached, ok := l.pages.Get(url); ok {
			return cached, nil
		}
	}

	ch := l.group.DoChan(url, func() (any, error) {
		body, err := l.fetch(context.WithoutCancel(ctx), url)
		if err == nil && l.pages != nil {
			l.pages.Put(url, body)
		}
		return body, err
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			slog.Debug("shared in-flight page fetch", slog.String("url", url))
		}
		return res.Val.([]byte), nil
	}
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}

	slog.Debug("form page fetched",
		slog.String("url", url),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(body)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return body, nil
}
