// internal/workers/qa/extract-page-content/handler_test.go
package extractpagecontent

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qa-workers/internal/common/config"
	httpclient "qa-workers/internal/common/http"
	"qa-workers/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout:   time.Second,
		UserAgent: httpclient.BrowserUserAgent,
	}
}

func newPageServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Mozilla/5.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><body><nav>menu</nav><p>Regular   exercise
			improves health.</p><script>alert(1)</script></body></html>`))
	})
	mux.HandleFunc("/other", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<p>Second page</p>`))
	})
	mux.HandleFunc("/error", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/empty", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><script>only script</script></body></html>`))
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(`<p>too late</p>`))
	})
	return httptest.NewServer(mux)
}

type fakeCache struct {
	pages  map[string]string
	getErr error
	setErr error
	sets   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{pages: map[string]string{}}
}

func (c *fakeCache) Get(ctx context.Context, url string) (string, bool, error) {
	if c.getErr != nil {
		return "", false, c.getErr
	}
	text, ok := c.pages[url]
	return text, ok, nil
}

func (c *fakeCache) Set(ctx context.Context, url, text string) error {
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	c.pages[url] = text
	return nil
}

// ==========================
// Core Functionality Tests
// ==========================

func TestLoadConfig(t *testing.T) {
	cfg := LoadConfig(&config.Config{SearchResults: config.SearchResultsConfig{Timeout: 8}})

	assert.Equal(t, 8*time.Second, cfg.Timeout)
	assert.Equal(t, "Mozilla/5.0", cfg.UserAgent)
	assert.Equal(t, 300*time.Second, cfg.JobTimeout)
}

func TestHandler_ExtractURL_Success(t *testing.T) {
	server := newPageServer(t)
	defer server.Close()

	handler := NewHandler(createTestConfig(), logger.NewTestLogger(t))
	text := handler.ExtractURL(context.Background(), server.URL+"/ok")

	assert.Equal(t, "Regular exercise improves health.", text)
}

func TestHandler_ExtractURL_FailuresReturnEmpty(t *testing.T) {
	server := newPageServer(t)
	defer server.Close()

	cfg := createTestConfig()
	cfg.Timeout = 50 * time.Millisecond
	handler := NewHandler(cfg, logger.NewTestLogger(t))

	for _, path := range []string{"/error", "/slow", "/missing"} {
		t.Run(path, func(t *testing.T) {
			assert.Equal(t, "", handler.ExtractURL(context.Background(), server.URL+path))
		})
	}
	assert.Equal(t, "", handler.ExtractURL(context.Background(), "http://127.0.0.1:1/unreachable"))
	assert.Equal(t, "", handler.ExtractURL(context.Background(), "::not a url"))
}

func TestHandler_Execute_SkipsFailedAndEmptyPages(t *testing.T) {
	server := newPageServer(t)
	defer server.Close()

	handler := NewHandler(createTestConfig(), logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), &Input{URLs: []string{
		server.URL + "/error",
		server.URL + "/ok",
		server.URL + "/empty",
		server.URL + "/other",
		server.URL + "/ok",
	}})

	require.NoError(t, err)
	assert.Equal(t, []string{server.URL + "/ok", server.URL + "/other"}, output.Pages.URLs())
	for _, page := range output.Pages {
		assert.NotEmpty(t, page.Text)
		assert.NotContains(t, page.Text, "alert(1)")
	}
}

func TestHandler_Execute_NoURLs(t *testing.T) {
	handler := NewHandler(createTestConfig(), logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), &Input{})

	require.NoError(t, err)
	assert.Empty(t, output.Pages)
}

// ==========================
// Page Cache Tests
// ==========================

func TestHandler_ExtractURL_CacheHitSkipsFetch(t *testing.T) {
	cache := newFakeCache()
	cache.pages["http://cached.invalid/page"] = "cached text"

	handler := NewHandler(createTestConfig(), logger.NewTestLogger(t), WithPageCache(cache))
	assert.Equal(t, "cached text", handler.ExtractURL(context.Background(), "http://cached.invalid/page"))
	assert.Equal(t, 0, cache.sets)
}

func TestHandler_ExtractURL_CacheMissStores(t *testing.T) {
	server := newPageServer(t)
	defer server.Close()

	cache := newFakeCache()
	handler := NewHandler(createTestConfig(), logger.NewTestLogger(t), WithPageCache(cache))

	url := server.URL + "/ok"
	assert.Equal(t, "Regular exercise improves health.", handler.ExtractURL(context.Background(), url))
	assert.Equal(t, "Regular exercise improves health.", cache.pages[url])

	// failures are never cached
	assert.Equal(t, "", handler.ExtractURL(context.Background(), server.URL+"/error"))
	assert.Len(t, cache.pages, 1)
}

func TestHandler_ExtractURL_CacheErrorsIgnored(t *testing.T) {
	server := newPageServer(t)
	defer server.Close()

	cache := newFakeCache()
	cache.getErr = errors.New("redis down")
	cache.setErr = errors.New("redis down")
	handler := NewHandler(createTestConfig(), logger.NewTestLogger(t), WithPageCache(cache))

	text := handler.ExtractURL(context.Background(), server.URL+"/ok")
	assert.True(t, strings.HasPrefix(text, "Regular exercise"))
	assert.Equal(t, 1, cache.sets)
}
