// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"qa-workers/internal/common/config"
	apperrors "qa-workers/internal/common/errors"
	"qa-workers/internal/common/logger"
	"qa-workers/internal/common/metrics"
	"qa-workers/internal/common/validation"
	"qa-workers/pkg/registry"
)

// JobHandler is implemented by every stage handler. Handle completes or
// fails the job itself.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

type CamundaWorker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	taskType string
}

// NewWorker opens a job worker for taskType and starts polling. Job
// variables are checked against the activity's input schema from the
// registry before the handler runs.
func NewWorker(
	client zbc.Client,
	taskType string,
	cfg config.WorkerConfig,
	handler JobHandler,
	log logger.Logger,
) *CamundaWorker {
	active := metrics.WorkerJobsActive.WithLabelValues(taskType)
	l := log.With(map[string]interface{}{"taskType": taskType})
	guarded := ValidateInput(inputSchema(taskType, l), handler, apperrors.NewErrorHandler(l))

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(func(client worker.JobClient, job entities.Job) {
			active.Inc()
			defer active.Dec()
			guarded.Handle(client, job)
		}).
		MaxJobsActive(cfg.MaxJobsActive).
		Timeout(config.GetDuration(cfg.Timeout)).
		Name(taskType + "-worker").
		Open()

	return &CamundaWorker{
		worker:   jobWorker,
		logger:   l,
		taskType: taskType,
	}
}

func (w *CamundaWorker) Start() {
	w.logger.Info("worker started", nil)
}

// Stop closes the job worker and waits for in-flight handlers.
func (w *CamundaWorker) Stop(ctx context.Context) {
	w.logger.Info("stopping worker", nil)

	done := make(chan struct{})
	go func() {
		w.worker.Close()
		w.worker.AwaitClose()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		w.logger.Warn("worker did not stop before deadline", nil)
	}
}

// CompleteJob sends the stage output as job variables.
func CompleteJob(client worker.JobClient, job entities.Job, output interface{}, log logger.Logger) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		log.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := cmd.Send(ctx); err != nil {
		log.Error("Failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	log.Info("job completed", map[string]interface{}{
		"jobKey": job.Key,
	})
}

// JobContext returns a context bounded by the job deadline, or by
// fallback when the job carries none.
func JobContext(job entities.Job, fallback time.Duration) (context.Context, context.CancelFunc) {
	if job.Deadline > 0 {
		deadline := time.UnixMilli(job.Deadline)
		if time.Until(deadline) > 0 {
			return context.WithDeadline(context.Background(), deadline)
		}
	}
	if fallback <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), fallback)
}

// JobHandlerFunc adapts a function to JobHandler.
type JobHandlerFunc func(client worker.JobClient, job entities.Job)

func (f JobHandlerFunc) Handle(client worker.JobClient, job entities.Job) {
	f(client, job)
}

// ValidateInput wraps next so that jobs whose variables fail schema are
// thrown as INVALID_INPUT without reaching next. A nil schema passes
// every job through.
func ValidateInput(schema *validation.Schema, next JobHandler, errHandler *apperrors.ErrorHandler) JobHandler {
	if schema == nil {
		return next
	}
	return JobHandlerFunc(func(client worker.JobClient, job entities.Job) {
		result, err := schema.ValidateJSON(job.Variables)
		if err == nil && result.Valid {
			next.Handle(client, job)
			return
		}

		details := "job variables are not valid JSON"
		if err == nil {
			details = result.Summary()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		errHandler.HandleJobError(ctx, client, job, apperrors.NewInvalidInputError(details))
	})
}

func inputSchema(taskType string, log logger.Logger) *validation.Schema {
	activity, ok := registry.Default().Find(taskType)
	if !ok || len(activity.InputSchema) == 0 {
		return nil
	}
	raw, err := json.Marshal(activity.InputSchema)
	if err != nil {
		log.Warn("input schema not usable", map[string]interface{}{"error": err.Error()})
		return nil
	}
	schema, err := validation.Compile(string(raw))
	if err != nil {
		log.Warn("input schema not usable", map[string]interface{}{"error": err.Error()})
		return nil
	}
	return schema
}
