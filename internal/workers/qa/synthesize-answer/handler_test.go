package synthesizeanswer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qa-workers/internal/common/config"
	apperrors "qa-workers/internal/common/errors"
	"qa-workers/internal/common/logger"
	"qa-workers/internal/llm"
	"qa-workers/internal/models"
)

func createTestConfig() *Config {
	return &Config{
		Mode:           config.ModeCloud,
		PromptTemplate: "Q: {question}\n\n{summaries}\n\nA:",
	}
}

func TestHandler_Execute_IncludesEverySummary(t *testing.T) {
	var gotPrompt string
	gen := llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		gotPrompt = prompt
		return "Paris.", nil
	})

	handler := NewHandler(createTestConfig(), gen, logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), &Input{
		Question: "What is the capital of France?",
		Summaries: models.PageSummaries{
			{URL: "https://a.example", Summary: "Paris is the capital of France."},
			{URL: "https://b.example", Summary: "France's capital city is Paris."},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "Paris.", output.Answer)
	assert.Equal(t, "Q: What is the capital of France?\n\n"+
		"Source: https://a.example\nParis is the capital of France.\n\n"+
		"Source: https://b.example\nFrance's capital city is Paris.\n\nA:", gotPrompt)
}

func TestHandler_Execute_NoSummaries(t *testing.T) {
	gen := llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		assert.Equal(t, "Q: q\n\n\n\nA:", prompt)
		return "I could not find sources.", nil
	})

	handler := NewHandler(createTestConfig(), gen, logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), &Input{Question: "q"})

	require.NoError(t, err)
	assert.Equal(t, "I could not find sources.", output.Answer)
}

func TestHandler_Execute_BackendError(t *testing.T) {
	gen := llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("quota exceeded")
	})

	handler := NewHandler(createTestConfig(), gen, logger.NewTestLogger(t))
	_, err := handler.Execute(context.Background(), &Input{Question: "q"})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeAnswerGenerationFailed, apperrors.CodeOf(err))
}

func TestHandler_Execute_EmptyQuestion(t *testing.T) {
	gen := llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		t.Fatal("generator must not be called")
		return "", nil
	})

	handler := NewHandler(createTestConfig(), gen, logger.NewTestLogger(t))
	_, err := handler.Execute(context.Background(), &Input{})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.CodeOf(err))
}

func TestFormatSummaries(t *testing.T) {
	assert.Equal(t, "", FormatSummaries(nil))
	assert.Equal(t, "Source: u\ns", FormatSummaries(models.PageSummaries{{URL: "u", Summary: "s"}}))
}
