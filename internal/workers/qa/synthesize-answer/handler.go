// internal/workers/qa/synthesize-answer/handler.go
package synthesizeanswer

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
	"qa-workers/internal/models"
)

const (
	TaskType = "synthesize-answer"
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

// Execute asks the model to answer the question from every summary.
func (h *Handler) Execute(ctx context.Context, input *Input) (output *Output, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStage(TaskType, start, err) }()

	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, apperrors.NewInvalidInputError("question is required")
	}

	if len(input.Summaries) == 0 {
		h.logger.Warn("answering without source summaries", map[string]interface{}{
			"question": input.Question,
		})
	}

	prompt, err := llm.Render(h.config.PromptTemplate, map[string]string{
		"question":  input.Question,
		"summaries": FormatSummaries(input.Summaries),
	})
	if err != nil {
		return nil, apperrors.NewAnswerGenerationFailedError(fmt.Errorf("render prompt: %w", err))
	}

	answer, err := h.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, apperrors.NewAnswerGenerationFailedError(err)
	}

	h.logger.Info("answer generated", map[string]interface{}{
		"question":     input.Question,
		"sourceCount":  len(input.Summaries),
		"answerLength": len(answer),
	})

	return &Output{
		Question: input.Question,
		Answer:   answer,
	}, nil
}

// FormatSummaries renders summaries as "Source: <url>" blocks separated
// by a blank line, in order.
func FormatSummaries(summaries models.PageSummaries) string {
	blocks := make([]string, 0, len(summaries))
	for _, s := range summaries {
		blocks = append(blocks, fmt.Sprintf("Source: %s\n%s", s.URL, s.Summary))
	}
	return strings.Join(blocks, "\n\n")
}
