// internal/common/errors/errors.go
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

type ErrorCode string

const (
	ErrCodeInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"

	ErrCodeQueryGenerationFailed  ErrorCode = "QUERY_GENERATION_FAILED"
	ErrCodeSummarizationFailed    ErrorCode = "SUMMARIZATION_FAILED"
	ErrCodeAnswerGenerationFailed ErrorCode = "ANSWER_GENERATION_FAILED"
	ErrCodeLLMRequestFailed       ErrorCode = "LLM_REQUEST_FAILED"

	ErrCodeSearchRequestFailed ErrorCode = "SEARCH_REQUEST_FAILED"
	ErrCodeSearchHTTPStatus    ErrorCode = "SEARCH_HTTP_STATUS"

	ErrCodeArchiveWriteFailed ErrorCode = "ARCHIVE_WRITE_FAILED"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
)

// StandardError is the error shape shared by every stage.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	Err error `json:"-"`
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.Err
}

// BPMNError is what a Zeebe job throws back to the process.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

func newError(code ErrorCode, message string, err error, details string) *StandardError {
	if details == "" && err != nil {
		details = err.Error()
	}
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
		Err:       err,
	}
}

func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Invalid stage input", nil, details)
}

func NewConfigInvalidError(details string) *StandardError {
	return newError(ErrCodeConfigInvalid, "Invalid configuration", nil, details)
}

func NewQueryGenerationFailedError(err error) *StandardError {
	return newError(ErrCodeQueryGenerationFailed, "Search query generation failed", err, "")
}

func NewSummarizationFailedError(url string, err error) *StandardError {
	e := newError(ErrCodeSummarizationFailed, "Page summarization failed", err, fmt.Sprintf("url: %s, error: %v", url, err))
	e.Metadata = map[string]interface{}{"url": url}
	return e
}

func NewAnswerGenerationFailedError(err error) *StandardError {
	return newError(ErrCodeAnswerGenerationFailed, "Answer generation failed", err, "")
}

func NewLLMRequestFailedError(backend string, err error) *StandardError {
	e := newError(ErrCodeLLMRequestFailed, fmt.Sprintf("Language model backend '%s' error", backend), err, "")
	e.Metadata = map[string]interface{}{"backend": backend}
	return e
}

func NewSearchRequestFailedError(err error) *StandardError {
	return newError(ErrCodeSearchRequestFailed, "Search API request failed", err, "")
}

func NewSearchHTTPStatusError(status int, body string) *StandardError {
	e := newError(ErrCodeSearchHTTPStatus, fmt.Sprintf("Search API returned %d", status), nil, body)
	e.Metadata = map[string]interface{}{"status": status}
	return e
}

func NewArchiveWriteFailedError(err error) *StandardError {
	return newError(ErrCodeArchiveWriteFailed, "Answer archive write failed", err, "")
}

// CodeOf returns the code of the first StandardError in err's chain,
// or ErrCodeInternal.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ErrCodeInternal
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	return &BPMNError{
		Code:    string(stdErr.Code),
		Message: stdErr.Message,
		Details: stdErr.Details,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"errorCategory":     GetErrorCategory(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "LLM") ||
		strings.Contains(codeStr, "GENERATION") ||
		strings.Contains(codeStr, "SUMMARIZATION"):
		return "AI"
	case strings.Contains(codeStr, "ARCHIVE"):
		return "DATABASE"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
