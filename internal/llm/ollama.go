package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"qa-workers/internal/common/config"
	apperrors "qa-workers/internal/common/errors"
	httpclient "qa-workers/internal/common/http"
)

// Ollama calls a local Ollama server's /api/generate endpoint.
type Ollama struct {
	baseURL string
	model   string
	client  *httpclient.Client
}

func NewOllama(endpoint config.ModelEndpoint, client *httpclient.Client) *Ollama {
	return &Ollama{
		baseURL: strings.TrimRight(endpoint.BaseURL, "/"),
		model:   endpoint.Model,
		client:  client,
	}
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

func (o *Ollama) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(ollamaRequest{Model: o.model, Prompt: prompt, Stream: false})
	if err != nil {
		return "", apperrors.NewLLMRequestFailedError(BackendOllama, fmt.Errorf("marshal request: %w", err))
	}

	respBody, err := o.client.PostJSON(ctx, o.baseURL+"/api/generate", body, nil)
	if err != nil {
		return "", apperrors.NewLLMRequestFailedError(BackendOllama, err)
	}

	if !gjson.ValidBytes(respBody) {
		return "", apperrors.NewLLMRequestFailedError(BackendOllama, fmt.Errorf("response is not valid JSON"))
	}
	if msg := gjson.GetBytes(respBody, "error"); msg.Exists() {
		return "", apperrors.NewLLMRequestFailedError(BackendOllama, fmt.Errorf("%s", msg.String()))
	}
	text := gjson.GetBytes(respBody, "response")
	if !text.Exists() {
		return "", apperrors.NewLLMRequestFailedError(BackendOllama, fmt.Errorf("response field missing"))
	}

	return strings.TrimSpace(text.String()), nil
}
