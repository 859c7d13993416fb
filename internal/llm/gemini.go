package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"qa-workers/internal/common/config"
	apperrors "qa-workers/internal/common/errors"
	httpclient "qa-workers/internal/common/http"
)

const geminiKeyHeader = "x-goog-api-key"

// Gemini calls the Generative Language API generateContent endpoint.
type Gemini struct {
	baseURL string
	model   string
	apiKey  string
	client  *httpclient.Client
}

func NewGemini(endpoint config.ModelEndpoint, apiKey string, client *httpclient.Client) *Gemini {
	return &Gemini{
		baseURL: strings.TrimRight(endpoint.BaseURL, "/"),
		model:   endpoint.Model,
		apiKey:  apiKey,
		client:  client,
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", apperrors.NewLLMRequestFailedError(BackendGemini, fmt.Errorf("marshal request: %w", err))
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))

	header := http.Header{}
	header.Set(geminiKeyHeader, g.apiKey)
	respBody, err := g.client.PostJSON(ctx, endpoint, body, header)
	if err != nil {
		return "", apperrors.NewLLMRequestFailedError(BackendGemini, err)
	}

	if !gjson.ValidBytes(respBody) {
		return "", apperrors.NewLLMRequestFailedError(BackendGemini, fmt.Errorf("response is not valid JSON"))
	}

	parts := gjson.GetBytes(respBody, "candidates.0.content.parts.#.text")
	if !parts.Exists() || len(parts.Array()) == 0 {
		reason := gjson.GetBytes(respBody, "promptFeedback.blockReason").String()
		if reason == "" {
			reason = gjson.GetBytes(respBody, "candidates.0.finishReason").String()
		}
		if reason != "" {
			return "", apperrors.NewLLMRequestFailedError(BackendGemini, fmt.Errorf("no text in response: %s", reason))
		}
		return "", apperrors.NewLLMRequestFailedError(BackendGemini, fmt.Errorf("no text in response"))
	}

	var sb strings.Builder
	for _, part := range parts.Array() {
		sb.WriteString(part.String())
	}
	return strings.TrimSpace(sb.String()), nil
}
