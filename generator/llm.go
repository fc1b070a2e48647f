package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// LLMClient 抽象大模型客户端，便于替换/Mock。
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt, params Params) (string, error)
}

// LLMSettings 提供给具体实现的基础配置。
type LLMSettings struct {
	Provider   string
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// NewLLM 按 provider 构造客户端，并包一层有限次数的重试。
func NewLLM(cfg LLMSettings, logger *zap.Logger) (LLMClient, error) {
	var (
		base LLMClient
		err  error
	)
	switch strings.ToLower(cfg.Provider) {
	case "", "openai":
		base, err = NewOpenAILLM(cfg)
	case "deepseek":
		// DeepSeek 提供 OpenAI 兼容接口，需填写 base_url。
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
		base, err = NewOpenAILLM(cfg)
	case "ollama":
		base, err = NewOllamaLLM(cfg)
	case "mock":
		base = MockLLM{}
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return NewRetryLLM(base, cfg.MaxRetries, cfg.RetryDelay, logger), nil
}
