// internal/common/errors/handler.go
package errors

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// Logger is the subset of logger.Logger the handler needs.
type Logger interface {
	Error(msg string, fields map[string]interface{})
}

// ErrorHandler reports a failed stage job back to Zeebe. Stage failures are
// never retried: every error is thrown as a BPMN error so the process model
// decides what happens next.
type ErrorHandler struct {
	logger Logger
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleJobError throws err on job as a BPMN error carrying the error
// variables. Errors that are not a *StandardError are reported as INTERNAL.
func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := asStandardError(err)
	bpmnErr := ConvertToBPMNError(stdErr)

	fields := map[string]interface{}{
		"jobKey":          job.Key,
		"jobType":         job.Type,
		"processInstance": job.ProcessInstanceKey,
		"errorCode":       bpmnErr.Code,
		"errorCategory":   GetErrorCategory(stdErr.Code),
		"message":         stdErr.Message,
		"details":         stdErr.Details,
	}
	for k, v := range stdErr.Metadata {
		fields[k] = v
	}
	h.logger.Error("stage job failed", fields)

	cmd := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message)

	withVars, varErr := cmd.VariablesFromMap(bpmnErr.ToErrorVariables())
	if varErr != nil {
		h.logger.Error("error variables not attached", map[string]interface{}{
			"jobKey": job.Key,
			"error":  varErr.Error(),
		})
		_, err = cmd.Send(ctx)
	} else {
		_, err = withVars.Send(ctx)
	}
	if err != nil {
		h.logger.Error("failed to throw BPMN error", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
	}
}

func asStandardError(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
		Err:       err,
	}
}
