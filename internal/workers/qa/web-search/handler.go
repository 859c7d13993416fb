// internal/workers/qa/web-search/handler.go
package websearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"qa-workers/internal/common/camunda"
	apperrors "qa-workers/internal/common/errors"
	httpclient "qa-workers/internal/common/http"
	"qa-workers/internal/common/logger"
	"qa-workers/internal/common/metrics"
)

const (
	TaskType = "web-search"
)

type Handler struct {
	config     *Config
	client     *httpclient.Client
	logger     logger.Logger
	errHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	l := log.With(map[string]interface{}{
		"taskType": TaskType,
	})
	return &Handler{
		config:     config,
		client:     httpclient.NewClient(config.Timeout),
		logger:     l,
		errHandler: apperrors.NewErrorHandler(l),
	}
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

// Execute queries the Custom Search API and returns result links in
// upstream order.
func (h *Handler) Execute(ctx context.Context, input *Input) (output *Output, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStage(TaskType, start, err) }()

	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	searchURL, err := h.buildSearchURL(input.SearchQuery)
	if err != nil {
		return nil, apperrors.NewSearchRequestFailedError(err)
	}

	body, err := h.client.Get(ctx, searchURL)
	if err != nil {
		var statusErr *httpclient.StatusError
		if errors.As(err, &statusErr) {
			return nil, apperrors.NewSearchHTTPStatusError(statusErr.StatusCode, statusErr.Body)
		}
		return nil, apperrors.NewSearchRequestFailedError(err)
	}

	var apiResponse searchResponse
	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return nil, apperrors.NewSearchRequestFailedError(fmt.Errorf("decode response: %w", err))
	}

	urls := make([]string, 0, len(apiResponse.Items))
	for _, item := range apiResponse.Items {
		if item.Link == nil || *item.Link == "" {
			continue
		}
		urls = append(urls, *item.Link)
		if len(urls) == h.config.NumResults {
			break
		}
	}

	h.logger.Info("web search completed", map[string]interface{}{
		"query":       input.SearchQuery,
		"itemCount":   len(apiResponse.Items),
		"resultCount": len(urls),
	})

	return &Output{URLs: urls}, nil
}

func (h *Handler) buildSearchURL(query string) (string, error) {
	baseURL, err := url.Parse(h.config.SearchAPIBaseURL)
	if err != nil {
		return "", fmt.Errorf("parse search base url: %w", err)
	}
	params := url.Values{}
	params.Add("key", h.config.SearchAPIKey)
	params.Add("cx", h.config.SearchEngineID)
	params.Add("q", query)
	params.Add("num", fmt.Sprintf("%d", h.config.NumResults))
	baseURL.RawQuery = params.Encode()
	return baseURL.String(), nil
}
