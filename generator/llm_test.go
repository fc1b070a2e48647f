package generator

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/ollama/ollama/api"
	openai "github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLM_Providers(t *testing.T) {
	llm, err := NewLLM(LLMSettings{Provider: "mock"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &RetryLLM{}, llm)

	_, err = NewLLM(LLMSettings{Provider: "openai"}, nil)
	assert.ErrorContains(t, err, "api key")

	_, err = NewLLM(LLMSettings{Provider: "deepseek", APIKey: "k"}, nil)
	assert.ErrorContains(t, err, "base_url")

	_, err = NewLLM(LLMSettings{Provider: "DeepSeek", APIKey: "k", BaseURL: "https://api.deepseek.com"}, nil)
	assert.NoError(t, err)

	_, err = NewLLM(LLMSettings{Provider: "ollama", BaseURL: "http://localhost:11434/v1/"}, nil)
	assert.NoError(t, err)

	_, err = NewLLM(LLMSettings{Provider: "bard"}, nil)
	assert.ErrorContains(t, err, "not supported")
}

func TestClassifyOpenAIError(t *testing.T) {
	cases := []struct {
		status    int
		permanent bool
	}{
		{http.StatusBadRequest, true},
		{http.StatusUnauthorized, true},
		{http.StatusNotFound, true},
		{http.StatusRequestTimeout, false},
		{http.StatusConflict, false},
		{http.StatusTooManyRequests, false},
		{http.StatusInternalServerError, false},
		{http.StatusBadGateway, false},
	}
	for _, tc := range cases {
		err := classifyOpenAIError(&openai.Error{StatusCode: tc.status})
		assert.Equal(t, tc.permanent, isPermanent(err), "status %d", tc.status)
	}

	plain := errors.New("connection reset")
	assert.Same(t, plain, classifyOpenAIError(plain))
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRecorder answers every request with a fixed status and body and keeps
// the last request body.
type chatRecorder struct {
	mu    sync.Mutex
	calls int
	last  []byte
}

func (r *chatRecorder) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func (r *chatRecorder) Last() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func recordingServer(t *testing.T, status int, body string) (*httptest.Server, *chatRecorder) {
	t.Helper()
	rec := &chatRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.calls++
		rec.last = b
		rec.mu.Unlock()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

const chatCompletionOK = `{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4.1",
"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Olá, mundo"}}]}`

func TestOpenAILLM_Complete_SendsPromptAndParams(t *testing.T) {
	srv, rec := recordingServer(t, http.StatusOK, chatCompletionOK)
	llm, err := NewOpenAILLM(LLMSettings{APIKey: "k", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)

	text, err := llm.Complete(context.Background(), Prompt{System: "s", User: "u"}, Params{Model: "gpt-4.1", Temperature: 0})
	require.NoError(t, err)
	assert.Equal(t, "Olá, mundo", text)
	assert.Equal(t, 1, rec.Calls())

	var req struct {
		Model       string        `json:"model"`
		Temperature *float64      `json:"temperature"`
		Messages    []wireMessage `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Last(), &req))
	assert.Equal(t, "gpt-4.1", req.Model)
	require.NotNil(t, req.Temperature, "temperature 0 must still be sent")
	assert.Zero(t, *req.Temperature)
	assert.Equal(t, []wireMessage{{Role: "system", Content: "s"}, {Role: "user", Content: "u"}}, req.Messages)
}

func TestNewLLM_OpenAIUnauthorizedNotRetried(t *testing.T) {
	srv, rec := recordingServer(t, http.StatusUnauthorized,
		`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`)
	llm, err := NewLLM(LLMSettings{Provider: "openai", APIKey: "bad", BaseURL: srv.URL + "/v1", MaxRetries: 2}, nil)
	require.NoError(t, err)

	_, err = llm.Complete(context.Background(), Prompt{System: "s", User: "u"}, testParams)
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, 1, genErr.Attempts)
	assert.Equal(t, 1, rec.Calls())
}

func TestNewLLM_OpenAIServerErrorRetried(t *testing.T) {
	srv, rec := recordingServer(t, http.StatusInternalServerError, `{"error":{"message":"boom"}}`)
	llm, err := NewLLM(LLMSettings{Provider: "openai", APIKey: "k", BaseURL: srv.URL + "/v1", MaxRetries: 2}, nil)
	require.NoError(t, err)

	_, err = llm.Complete(context.Background(), Prompt{System: "s", User: "u"}, testParams)
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, 3, genErr.Attempts)
	assert.Equal(t, 3, rec.Calls())
}

func TestOllamaLLM_Complete_SendsPromptAndParams(t *testing.T) {
	srv, rec := recordingServer(t, http.StatusOK,
		`{"model":"llama3","created_at":"2025-01-01T00:00:00Z","message":{"role":"assistant","content":"Olá"},"done":true}`+"\n")
	llm, err := NewOllamaLLM(LLMSettings{BaseURL: srv.URL + "/v1/"})
	require.NoError(t, err)

	text, err := llm.Complete(context.Background(), Prompt{System: "s", User: "u"}, Params{Model: "llama3", Temperature: 0})
	require.NoError(t, err)
	assert.Equal(t, "Olá", text)
	assert.Equal(t, 1, rec.Calls())

	var req struct {
		Model    string         `json:"model"`
		Stream   *bool          `json:"stream"`
		Options  map[string]any `json:"options"`
		Messages []wireMessage  `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Last(), &req))
	assert.Equal(t, "llama3", req.Model)
	require.NotNil(t, req.Stream)
	assert.False(t, *req.Stream)
	assert.Contains(t, req.Options, "temperature")
	assert.EqualValues(t, 0, req.Options["temperature"])
	assert.Equal(t, []wireMessage{{Role: "system", Content: "s"}, {Role: "user", Content: "u"}}, req.Messages)
}

func TestNewLLM_OllamaUnknownModelNotRetried(t *testing.T) {
	for name, body := range map[string]string{
		"server message": `{"error":"model \"llama9\" not found, try pulling it first"}`,
		"bare status":    `{}`,
	} {
		t.Run(name, func(t *testing.T) {
			srv, rec := recordingServer(t, http.StatusNotFound, body)
			llm, err := NewLLM(LLMSettings{Provider: "ollama", BaseURL: srv.URL, MaxRetries: 2}, nil)
			require.NoError(t, err)

			_, err = llm.Complete(context.Background(), Prompt{System: "s", User: "u"}, Params{Model: "llama9"})
			var genErr *GenerationError
			require.ErrorAs(t, err, &genErr)
			assert.Equal(t, 1, genErr.Attempts)
			assert.Equal(t, 1, rec.Calls())
		})
	}
}

func TestClassifyOllamaError(t *testing.T) {
	assert.True(t, isPermanent(classifyOllamaError(api.StatusError{StatusCode: http.StatusNotFound})))
	assert.False(t, isPermanent(classifyOllamaError(api.StatusError{StatusCode: http.StatusServiceUnavailable})))
	assert.False(t, isPermanent(classifyOllamaError(errors.New("connection refused"))))
}
