package observability

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qa-workers/internal/common/config"
)

func TestNew_RecordsQuestionMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := New(config.ObservabilityConfig{ServiceName: "qa-test"}, WithRegisterer(reg), WithoutGlobal())
	require.NoError(t, err)
	defer obs.Shutdown(context.Background())

	ctx, span := obs.StartSpan(context.Background(), "question")
	obs.RecordQuestion(ctx, "local", "ok", 150*time.Millisecond)
	span.End()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["qa_questions_total"], "gathered: %v", names)
}

func TestNewNoop(t *testing.T) {
	obs := NewNoop()
	ctx, span := obs.StartSpan(context.Background(), "noop")
	obs.RecordQuestion(ctx, "cloud", "failed", time.Second)
	span.End()
	assert.NoError(t, obs.Shutdown(context.Background()))
}
