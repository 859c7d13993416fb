// internal/workers/qa/extract-page-content/handler.go
package extractpagecontent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"qa-workers/internal/common/camunda"
	apperrors "qa-workers/internal/common/errors"
	httpclient "qa-workers/internal/common/http"
	"qa-workers/internal/common/logger"
	"qa-workers/internal/common/metrics"
	"qa-workers/internal/models"
)

const (
	TaskType = "extract-page-content"
)

// PageCache is an optional store of extracted text keyed by URL.
type PageCache interface {
	Get(ctx context.Context, url string) (string, bool, error)
	Set(ctx context.Context, url, text string) error
}

type Handler struct {
	config     *Config
	client     *httpclient.Client
	cache      PageCache
	logger     logger.Logger
	errHandler *apperrors.ErrorHandler
}

type Option func(*Handler)

// WithPageCache enables cache lookups before fetching and cache writes
// after successful extractions.
func WithPageCache(cache PageCache) Option {
	return func(h *Handler) { h.cache = cache }
}

func NewHandler(config *Config, log logger.Logger, opts ...Option) *Handler {
	l := log.With(map[string]interface{}{
		"taskType": TaskType,
	})
	h := &Handler{
		config:     config,
		client:     httpclient.NewClient(config.Timeout, httpclient.WithUserAgent(config.UserAgent)),
		logger:     l,
		errHandler: apperrors.NewErrorHandler(l),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := camunda.JobContext(job, h.config.JobTimeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errHandler.HandleJobError(ctx, client, job, apperrors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.errHandler.HandleJobError(ctx, client, job, err)
		return
	}

	camunda.CompleteJob(client, job, output, h.logger)
}

// Execute extracts every URL in order. Pages that fail or yield no text
// are left out; the batch itself never fails.
func (h *Handler) Execute(ctx context.Context, input *Input) (output *Output, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStage(TaskType, start, err) }()

	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	pages := models.PageContent{}
	for _, url := range input.URLs {
		if pages.Has(url) {
			continue
		}
		if !pages.Add(url, h.ExtractURL(ctx, url)) {
			metrics.PagesProcessed.WithLabelValues("dropped").Inc()
		}
	}

	h.logger.Info("page extraction completed", map[string]interface{}{
		"urlCount":  len(input.URLs),
		"pageCount": len(pages),
	})

	return &Output{Pages: pages}, nil
}

// ExtractURL fetches url and returns its visible text. Every failure
// returns "".
func (h *Handler) ExtractURL(ctx context.Context, url string) string {
	if text, ok := h.cached(ctx, url); ok {
		metrics.PagesProcessed.WithLabelValues("cached").Inc()
		return text
	}

	body, contentType, err := h.client.Fetch(ctx, url)
	if err != nil {
		h.logger.Warn("page fetch failed", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
		return ""
	}

	r, err := decodeBody(body, contentType)
	if err != nil {
		h.logger.Warn("page decode failed", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
		return ""
	}

	text, err := ExtractText(r)
	if err != nil {
		h.logger.Warn("page parse failed", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
		return ""
	}
	if text == "" {
		return ""
	}

	metrics.PagesProcessed.WithLabelValues("extracted").Inc()
	h.store(ctx, url, text)
	return text
}

func (h *Handler) cached(ctx context.Context, url string) (string, bool) {
	if h.cache == nil {
		return "", false
	}
	text, ok, err := h.cache.Get(ctx, url)
	if err != nil {
		metrics.PageCacheOperations.WithLabelValues("get", "error").Inc()
		h.logger.Warn("page cache lookup failed", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
		return "", false
	}
	if !ok || text == "" {
		metrics.PageCacheOperations.WithLabelValues("get", "miss").Inc()
		return "", false
	}
	metrics.PageCacheOperations.WithLabelValues("get", "hit").Inc()
	return text, true
}

func (h *Handler) store(ctx context.Context, url, text string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Set(ctx, url, text); err != nil {
		metrics.PageCacheOperations.WithLabelValues("set", "error").Inc()
		h.logger.Warn("page cache write failed", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
		return
	}
	metrics.PageCacheOperations.WithLabelValues("set", "ok").Inc()
}
