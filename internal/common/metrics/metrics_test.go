package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	apperrors "qa-workers/internal/common/errors"
)

func TestObserveStage(t *testing.T) {
	const task = "metrics-test-stage"

	ObserveStage(task, time.Now(), nil)
	ObserveStage(task, time.Now(), apperrors.NewSearchHTTPStatusError(403, "quota"))
	ObserveStage(task, time.Now(), errors.New("plain"))

	assert.Equal(t, 1.0, testutil.ToFloat64(StageExecutions.WithLabelValues(task, "completed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(StageExecutions.WithLabelValues(task, "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(StageFailures.WithLabelValues(task, "SEARCH_HTTP_STATUS")))
	assert.Equal(t, 1.0, testutil.ToFloat64(StageFailures.WithLabelValues(task, "INTERNAL_ERROR")))
}
