package loader

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/formpilot-mcp/internal/cache"
	"github.com/usestring/formpilot-mcp/pkg/decode"
	"github.com/usestring/formpilot-mcp/pkg/page"
)

func formServer(t *testing.T, hits *atomic.Int32, gate <-chan struct{}) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if gate != nil {
			<-gate
		}
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `<html><head><title>Form %s</title></head><body></body></html>`, r.URL.Path)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoad(t *testing.T) {
	var hits atomic.Int32
	srv := formServer(t, &hits, nil)

	doc, err := New().Load(context.Background(), srv.URL+"/a")
	require.NoError(t, err)
	assert.Equal(t, "Form /a", doc.Title())
	assert.Equal(t, srv.URL+"/a", doc.URL())
}

func TestLoadNonSuccess(t *testing.T) {
	var hits atomic.Int32
	srv := formServer(t, &hits, nil)

	_, err := New().Load(context.Background(), srv.URL+"/missing")
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
}

func TestLoadUsesPageCache(t *testing.T) {
	var hits atomic.Int32
	srv := formServer(t, &hits, nil)

	pages, err := cache.NewPageCache(8, time.Minute)
	require.NoError(t, err)
	l := New(WithPageCache(pages))

	first, err := l.Load(context.Background(), srv.URL+"/a")
	require.NoError(t, err)
	second, err := l.Load(context.Background(), srv.URL+"/a")
	require.NoError(t, err)

	assert.Equal(t, int32(1), hits.Load())
	assert.NotSame(t, first, second)
}

// changingServer serves whatever markup is stored in body at request time.
func changingServer(t *testing.T, body *atomic.Value) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, body.Load().(string))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func questionPage(n int) string {
	var sb strings.Builder
	sb.WriteString("<html><head><title>Survey</title></head><body>")
	for i := range n {
		raw := fmt.Sprintf(`%%.@.[[%d,"Q%d","",0,[[%d,null,0]]],0,0,0]`, i, i, 100+i)
		fmt.Fprintf(&sb, `<div data-params="%s"></div>`, html.EscapeString(raw))
	}
	sb.WriteString("</body></html>")
	return sb.String()
}

func questionCount(t *testing.T, load func(context.Context, string) (*page.HTMLDocument, error), url string) int {
	t.Helper()
	doc, err := load(context.Background(), url)
	require.NoError(t, err)
	return decode.Decode(doc).Count
}

func TestLoadSeesChangedPage(t *testing.T) {
	tests := []struct {
		name  string
		cache func(t *testing.T) *cache.PageCache
	}{
		{"no cache", func(t *testing.T) *cache.PageCache { return nil }},
		{"expired cache", func(t *testing.T) *cache.PageCache {
			pages, err := cache.NewPageCache(8, 20*time.Millisecond)
			require.NoError(t, err)
			return pages
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body atomic.Value
			body.Store(questionPage(1))
			srv := changingServer(t, &body)

			var opts []Option
			pages := tt.cache(t)
			if pages != nil {
				opts = append(opts, WithPageCache(pages))
			}
			l := New(opts...)

			assert.Equal(t, 1, questionCount(t, l.Load, srv.URL))
			body.Store(questionPage(2))

			if pages != nil {
				require.Eventually(t, func() bool {
					_, ok := pages.Get(srv.URL)
					return !ok
				}, time.Second, 5*time.Millisecond)
			}
			assert.Equal(t, 2, questionCount(t, l.Load, srv.URL))
		})
	}
}

func TestReloadBypassesPageCache(t *testing.T) {
	var body atomic.Value
	body.Store(questionPage(1))
	srv := changingServer(t, &body)

	pages, err := cache.NewPageCache(8, time.Minute)
	require.NoError(t, err)
	l := New(WithPageCache(pages))

	assert.Equal(t, 1, questionCount(t, l.Load, srv.URL))
	body.Store(questionPage(2))

	assert.Equal(t, 1, questionCount(t, l.Load, srv.URL), "cached body within ttl")
	assert.Equal(t, 2, questionCount(t, l.Reload, srv.URL))
	assert.Equal(t, 2, questionCount(t, l.Load, srv.URL), "reload refreshes the cache")
}

func TestSharedFetchSurvivesCallerCancel(t *testing.T) {
	var hits atomic.Int32
	gate := make(chan struct{})
	srv := formServer(t, &hits, gate)
	l := New()
	url := srv.URL + "/shared"

	ctx, cancel := context.WithCancel(context.Background())
	cancelledErr := make(chan error, 1)
	go func() {
		_, err := l.Load(ctx, url)
		cancelledErr <- err
	}()
	require.Eventually(t, func() bool { return hits.Load() >= 1 }, time.Second, 5*time.Millisecond)

	type result struct {
		title string
		err   error
	}
	other := make(chan result, 1)
	go func() {
		doc, err := l.Load(context.Background(), url)
		if err != nil {
			other <- result{err: err}
			return
		}
		other <- result{title: doc.Title()}
	}()

	cancel()
	assert.ErrorIs(t, <-cancelledErr, context.Canceled)

	close(gate)
	res := <-other
	require.NoError(t, res.err)
	assert.Equal(t, "Form /shared", res.title)
}

func TestLoadSharesInFlightRequest(t *testing.T) {
	var hits atomic.Int32
	gate := make(chan struct{})
	srv := formServer(t, &hits, gate)
	l := New()

	var wg sync.WaitGroup
	docs := make([]string, 4)
	for i := range docs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc, err := l.Load(context.Background(), srv.URL+"/shared")
			if err == nil {
				docs[i] = doc.Title()
			}
		}()
	}

	require.Eventually(t, func() bool { return hits.Load() >= 1 }, time.Second, 5*time.Millisecond)
	close(gate)
	wg.Wait()

	for _, title := range docs {
		assert.Equal(t, "Form /shared", title)
	}
	assert.LessOrEqual(t, hits.Load(), int32(len(docs)))
}

func TestLoadAll(t *testing.T) {
	var hits atomic.Int32
	srv := formServer(t, &hits, nil)

	urls := []string{srv.URL + "/a", srv.URL + "/missing", srv.URL + "/b"}
	results, err := New(WithWorkers(2)).LoadAll(context.Background(), urls)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, urls[0], results[0].URL)
	require.NoError(t, results[0].Err)
	assert.Equal(t, "Form /a", results[0].Doc.Title())

	assert.Error(t, results[1].Err)
	assert.Nil(t, results[1].Doc)

	require.NoError(t, results[2].Err)
	assert.Equal(t, "Form /b", results[2].Doc.Title())
}

func TestLoadAllCancelled(t *testing.T) {
	var hits atomic.Int32
	srv := formServer(t, &hits, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().LoadAll(ctx, []string{srv.URL + "/a"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParse(t *testing.T) {
	doc, err := New().Parse([]byte(`<title>Inline</title>`), "https://example.com/form")
	require.NoError(t, err)
	assert.Equal(t, "Inline", doc.Title())
}
