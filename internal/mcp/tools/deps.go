package tools

import (
	"context"
	"fmt"
	"net/http"

	"github.com/usestring/formpilot-mcp/internal/cache"
	"github.com/usestring/formpilot-mcp/internal/config"
	"github.com/usestring/formpilot-mcp/pkg/answers"
	"github.com/usestring/formpilot-mcp/pkg/fill"
	"github.com/usestring/formpilot-mcp/pkg/loader"
	"github.com/usestring/formpilot-mcp/pkg/page"
	"github.com/usestring/formpilot-mcp/pkg/pipeline"
	"github.com/usestring/formpilot-mcp/pkg/types"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Config    *config.Config
	Loader    *loader.Loader
	Answers   *answers.Client
	Pages     *cache.PageCache // nil when PAGE_CACHE_TTL_MS is 0
	Selectors *page.SelectorCache
}

// NewDeps builds the loader and answer client from cfg. httpClient is shared
// by both; nil means a client with cfg.HTTPClientTimeout.
func NewDeps(cfg *config.Config, httpClient *http.Client) (*Deps, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPClientTimeout}
	}

	selectors, err := page.NewSelectorCache(cfg.SelectorCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating selector cache: %w", err)
	}
	loaderOpts := []loader.Option{
		loader.WithHTTPClient(httpClient),
		loader.WithWorkers(cfg.FetchWorkers),
		loader.WithSelectorCache(selectors),
	}
	var pages *cache.PageCache
	if cfg.PageCacheTTL > 0 {
		pages, err = cache.NewPageCache(cfg.PageCacheMaxItems, cfg.PageCacheTTL)
		if err != nil {
			return nil, fmt.Errorf("creating page cache: %w", err)
		}
		loaderOpts = append(loaderOpts, loader.WithPageCache(pages))
	}

	client, err := answers.New(
		answers.WithEndpoint(cfg.AnswerEndpoint),
		answers.WithHTTPClient(httpClient),
	).WithExpression(cfg.AnswersExpr)
	if err != nil {
		return nil, fmt.Errorf("ANSWERS_EXPR: %w", err)
	}

	return &Deps{
		Config:    cfg,
		Loader:    loader.New(loaderOpts...),
		Answers:   client,
		Pages:     pages,
		Selectors: selectors,
	}, nil
}

// PageSource says where a tool reads its form page from. Inline markup wins
// over a URL. Fresh skips the page cache.
type PageSource struct {
	URL     string
	HTML    string
	PageURL string
	Fresh   bool
}

// LoadPage returns a fresh document for src.
func (d *Deps) LoadPage(ctx context.Context, src PageSource) (*page.HTMLDocument, error) {
	switch {
	case src.HTML != "":
		pageURL := src.PageURL
		if pageURL == "" {
			pageURL = src.URL
		}
		doc, err := d.Loader.Parse([]byte(src.HTML), pageURL)
		if err != nil {
			return nil, ErrInvalidInput(fmt.Sprintf("parsing html: %v", err))
		}
		return doc, nil
	case src.URL != "":
		load := d.Loader.Load
		if src.Fresh {
			load = d.Loader.Reload
		}
		doc, err := load(ctx, src.URL)
		if err != nil {
			return nil, WrapError(err)
		}
		return doc, nil
	default:
		return nil, ErrInvalidInput("url or html is required")
	}
}

// FillOptions returns the filler configuration. verify overrides the
// configured verification setting when non-nil.
func (d *Deps) FillOptions(verify *bool) []fill.Option {
	v := d.Config.VerifyFill
	if verify != nil {
		v = *verify
	}
	return []fill.Option{
		fill.WithDelay(d.Config.FillDelay),
		fill.WithScaleFallback(d.Config.ScaleFallback),
		fill.WithVerify(v),
	}
}

// Filler returns a filler cross-checking against expected when it is set.
func (d *Deps) Filler(expected *types.FormDocument, verify *bool) *fill.Filler {
	opts := d.FillOptions(verify)
	if expected != nil {
		opts = append(opts, fill.WithExpected(expected))
	}
	return fill.New(opts...)
}

// Pipeline returns a pipeline backed by the configured answer service.
func (d *Deps) Pipeline(verify *bool) *pipeline.Pipeline {
	return pipeline.New(d.Answers, d.FillOptions(verify)...)
}
