package generatesearchquery

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
)

func createTestConfig() *Config {
	return &Config{
		Mode:           config.ModeLocal,
		PromptTemplate: "Write a search query for: {question}",
	}
}

func TestHandler_Execute_Success(t *testing.T) {
	var gotPrompt string
	gen := llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		gotPrompt = prompt
		return "capital of France", nil
	})

	handler := NewHandler(createTestConfig(), gen, logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), &Input{Question: "What is the capital of France?"})

	require.NoError(t, err)
	assert.Equal(t, "Write a search query for: What is the capital of France?", gotPrompt)
	assert.Equal(t, "capital of France", output.SearchQuery)
	assert.Equal(t, "What is the capital of France?", output.Question)
}

func TestHandler_Execute_EmptyQuestion(t *testing.T) {
	called := false
	gen := llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		called = true
		return "", nil
	})

	handler := NewHandler(createTestConfig(), gen, logger.NewTestLogger(t))
	_, err := handler.Execute(context.Background(), &Input{Question: "   "})

	require.Error(t, err)
	assert.False(t, called)
	assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.CodeOf(err))
}

func TestHandler_Execute_BackendError(t *testing.T) {
	backendErr := apperrors.NewLLMRequestFailedError(llm.BackendOllama, errors.New("connection refused"))
	gen := llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "", backendErr
	})

	handler := NewHandler(createTestConfig(), gen, logger.NewTestLogger(t))
	_, err := handler.Execute(context.Background(), &Input{Question: "How does photosynthesis work?"})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeQueryGenerationFailed, apperrors.CodeOf(err))
	assert.True(t, errors.Is(err, backendErr))
}

func TestHandler_Execute_BadTemplate(t *testing.T) {
	cfg := createTestConfig()
	cfg.PromptTemplate = "Query for {topic}"
	gen := llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		t.Fatal("generator must not be called")
		return "", nil
	})

	handler := NewHandler(cfg, gen, logger.NewTestLogger(t))
	_, err := handler.Execute(context.Background(), &Input{Question: "q"})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeQueryGenerationFailed, apperrors.CodeOf(err))
}

func TestLoadConfig_SelectsModeTemplate(t *testing.T) {
	appCfg := &config.Config{
		UseCloud: true,
		SystemPrompts: config.SystemPromptsConfig{
			QueryGeneration: config.PromptPair{Local: "local {question}", Cloud: "cloud {question}"},
		},
	}

	cfg := LoadConfig(appCfg)
	assert.Equal(t, config.ModeCloud, cfg.Mode)
	assert.Equal(t, "cloud {question}", cfg.PromptTemplate)
	assert.Greater(t, int64(cfg.Timeout), int64(0))
}
