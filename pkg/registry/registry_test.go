package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_ListsStageWorkers(t *testing.T) {
	reg := Default()

	for _, taskType := range []string{
		"generate-search-query",
		"web-search",
		"extract-page-content",
		"summarize-pages",
		"synthesize-answer",
	} {
		activity, ok := reg.Find(taskType)
		require.True(t, ok, taskType)
		assert.NotEmpty(t, activity.InputSchema, taskType)
		assert.Equal(t, 0, activity.Retries, taskType)
	}

	_, ok := reg.Find("enrich-web-search")
	assert.False(t, ok)
}

func TestParse(t *testing.T) {
	reg, err := Parse([]byte(`{"version":"2","activities":[{"id":"a","taskType":"a"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "2", reg.Version)
	assert.Len(t, reg.Activities, 1)

	_, err = Parse([]byte(`{"activities":`))
	assert.Error(t, err)
}
