package summarizepages

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

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
		Mode:            config.ModeLocal,
		PromptTemplate:  "{text}",
		TextLengthLimit: 5000,
	}
}

type recordingGenerator struct {
	prompts []string
	fail    map[int]error
}

func (g *recordingGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if err := g.fail[len(g.prompts)]; err != nil {
		return "", err
	}
	return "summary " + string(rune('0'+len(g.prompts))), nil
}

func TestHandler_Execute_TruncatesToLimit(t *testing.T) {
	gen := &recordingGenerator{}
	handler := NewHandler(createTestConfig(), gen, logger.NewTestLogger(t))

	page := strings.Repeat("abcdefghij", 1000) // 10000 chars
	output, err := handler.Execute(context.Background(), &Input{Pages: models.PageContent{
		{URL: "https://a.example", Text: page},
	}})

	require.NoError(t, err)
	require.Len(t, gen.prompts, 1)
	assert.Equal(t, page[:5000], gen.prompts[0])
	assert.Equal(t, models.PageSummaries{{URL: "https://a.example", Summary: "summary 1"}}, output.Summaries)
}

func TestHandler_Execute_PreservesPageOrder(t *testing.T) {
	gen := &recordingGenerator{}
	cfg := createTestConfig()
	cfg.PromptTemplate = "Summarize: {text}"
	handler := NewHandler(cfg, gen, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{Pages: models.PageContent{
		{URL: "https://b.example", Text: "second site"},
		{URL: "https://a.example", Text: "first site"},
	}})

	require.NoError(t, err)
	assert.Equal(t, []string{"Summarize: second site", "Summarize: first site"}, gen.prompts)
	assert.Equal(t, "https://b.example", output.Summaries[0].URL)
	assert.Equal(t, "https://a.example", output.Summaries[1].URL)
	assert.Equal(t, map[string]string{
		"https://b.example": "summary 1",
		"https://a.example": "summary 2",
	}, output.Summaries.Map())
}

func TestHandler_Execute_BackendErrorAborts(t *testing.T) {
	gen := &recordingGenerator{fail: map[int]error{2: errors.New("model unavailable")}}
	handler := NewHandler(createTestConfig(), gen, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{Pages: models.PageContent{
		{URL: "https://a.example", Text: "one"},
		{URL: "https://b.example", Text: "two"},
		{URL: "https://c.example", Text: "three"},
	}})

	require.Error(t, err)
	assert.Len(t, gen.prompts, 2)
	assert.Equal(t, apperrors.ErrCodeSummarizationFailed, apperrors.CodeOf(err))

	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, "https://b.example", stdErr.Metadata["url"])
}

func TestHandler_Execute_NoPages(t *testing.T) {
	gen := &recordingGenerator{}
	handler := NewHandler(createTestConfig(), gen, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{})
	require.NoError(t, err)
	assert.Empty(t, output.Summaries)
	assert.Empty(t, gen.prompts)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "abc", Truncate("abc", 3))
	assert.Equal(t, "ab", Truncate("ab", 3))
	assert.Equal(t, "abc", Truncate("abc", 0))

	multi := strings.Repeat("é", 10)
	got := Truncate(multi, 4)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 4, utf8.RuneCountInString(got))
}

var _ llm.Generator = (*recordingGenerator)(nil)
