package generator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

const defaultOllamaURL = "http://localhost:11434"

// OllamaLLM talks to a local Ollama server through its native chat API.
type OllamaLLM struct {
	client *api.Client
}

func NewOllamaLLM(cfg LLMSettings) (*OllamaLLM, error) {
	base := cfg.BaseURL
	if base == "" {
		base = defaultOllamaURL
	}
	// api.NewClient expects the root URL, without the OpenAI-style /v1 suffix.
	base = strings.TrimSuffix(strings.TrimSuffix(base, "/"), "/v1")
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse ollama base url %q: %w", base, err)
	}
	httpClient := &http.Client{Timeout: cfg.Timeout}
	return &OllamaLLM{client: api.NewClient(u, httpClient)}, nil
}

func (o *OllamaLLM) Complete(ctx context.Context, prompt Prompt, params Params) (string, error) {
	stream := false
	req := &api.ChatRequest{
		Model: params.Model,
		Messages: []api.Message{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.User},
		},
		Stream: &stream,
		Options: map[string]interface{}{
			"temperature": params.Temperature,
		},
	}

	var resp api.ChatResponse
	err := o.client.Chat(ctx, req, func(r api.ChatResponse) error {
		resp = r
		return nil
	})
	if err != nil {
		return "", classifyOllamaError(err)
	}
	return resp.Message.Content, nil
}

// classifyOllamaError marks an unknown model as permanent. The client only
// returns StatusError when the body carries no "error" field; otherwise the
// server message comes back as a plain error.
func classifyOllamaError(err error) error {
	var statusErr api.StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		return Permanent(err)
	}
	if strings.Contains(err.Error(), "not found") {
		return Permanent(err)
	}
	return err
}
