// internal/workers/qa/generate-search-query/handler.go
package generatesearchquery

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"qa-workers/internal/common/camunda"
	apperrors "qa-workers/internal/common/errors"
	"qa-workers/internal/common/logger"
	"qa-workers/internal/common/metrics"
	"qa-workers/internal/llm"
)

const (
	TaskType = "generate-search-query"
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

// Execute renders the query prompt for the question and returns the
// model's query text.
func (h *Handler) Execute(ctx context.Context, input *Input) (output *Output, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStage(TaskType, start, err) }()

	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, apperrors.NewInvalidInputError("question is required")
	}

	prompt, err := llm.Render(h.config.PromptTemplate, map[string]string{
		"question": input.Question,
	})
	if err != nil {
		return nil, apperrors.NewQueryGenerationFailedError(fmt.Errorf("render prompt: %w", err))
	}

	query, err := h.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, apperrors.NewQueryGenerationFailedError(err)
	}
	if query == "" {
		h.logger.Warn("model returned an empty search query", map[string]interface{}{
			"question": input.Question,
		})
	}

	h.logger.Debug("search query generated", map[string]interface{}{
		"question":    input.Question,
		"searchQuery": query,
	})

	return &Output{
		Question:    input.Question,
		SearchQuery: query,
	}, nil
}
