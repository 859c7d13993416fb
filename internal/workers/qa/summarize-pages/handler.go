// internal/workers/qa/summarize-pages/handler.go
package summarizepages

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"qa-workers/internal/common/camunda"
	apperrors "qa-workers/internal/common/errors"
	"qa-workers/internal/common/logger"
	"qa-workers/internal/common/metrics"
	"qa-workers/internal/llm"
	"qa-workers/internal/models"
)

const (
	TaskType = "summarize-pages"
)

type Handler struct {
	config     *Config
	generator  llm.Generator
	logger     logger.Logger
	errHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, generator llm.Generator, log logger.Logger) *Handler {
	l := log.With(map[string]interface{}{
		"taskType": TaskType,
		"mode":     string(config.Mode),
	})
	return &Handler{
		config:     config,
		generator:  generator,
		logger:     l,
		errHandler: apperrors.NewErrorHandler(l),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := camunda.JobContext(job, h.config.Timeout)
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

// Execute summarizes each page in order. The first model failure aborts
// the batch.
func (h *Handler) Execute(ctx context.Context, input *Input) (output *Output, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStage(TaskType, start, err) }()

	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	summaries := make(models.PageSummaries, 0, len(input.Pages))
	for _, page := range input.Pages {
		summary, err := h.summarize(ctx, page)
		if err != nil {
			return nil, apperrors.NewSummarizationFailedError(page.URL, err)
		}
		summaries = append(summaries, models.Summary{URL: page.URL, Summary: summary})
	}

	h.logger.Info("pages summarized", map[string]interface{}{
		"pageCount": len(summaries),
	})

	return &Output{Summaries: summaries}, nil
}

func (h *Handler) summarize(ctx context.Context, page models.Page) (string, error) {
	text := Truncate(page.Text, h.config.TextLengthLimit)

	prompt, err := llm.Render(h.config.PromptTemplate, map[string]string{
		"text": text,
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}

	h.logger.Debug("summarizing page", map[string]interface{}{
		"url":       page.URL,
		"textChars": len([]rune(text)),
	})

	return h.generator.Generate(ctx, prompt)
}

// Truncate returns the first limit characters of text. A limit of zero
// or less returns text unchanged.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	count := 0
	for i := range text {
		if count == limit {
			return text[:i]
		}
		count++
	}
	return text
}
