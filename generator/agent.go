package generator

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Agent validates a Brief, compiles it and calls the model.
type Agent struct {
	llm     LLMClient
	logger  *zap.Logger
	counter TokenCounter
}

type AgentOption func(*Agent)

// WithLogger sets the logger used for generation events.
func WithLogger(l *zap.Logger) AgentOption {
	return func(a *Agent) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithTokenCounter enables prompt-size accounting.
func WithTokenCounter(c TokenCounter) AgentOption {
	return func(a *Agent) { a.counter = c }
}

func NewAgent(llm LLMClient, opts ...AgentOption) (*Agent, error) {
	if llm == nil {
		return nil, ErrLLMRequired
	}
	a := &Agent{llm: llm, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.Named("agent")
	return a, nil
}

// Generate runs one request. A *ValidationError means nothing was sent to the
// model; any other failure is a *GenerationError.
func (a *Agent) Generate(ctx context.Context, brief Brief, params Params) (string, error) {
	if err := brief.Validate(); err != nil {
		completionRequests.WithLabelValues(params.Model, statusInvalid).Inc()
		return "", err
	}

	prompt := Compile(brief)
	class := Classify(brief.Platform)
	log := a.logger.With(
		zap.String("model", params.Model),
		zap.Float64("temperature", params.Temperature),
		zap.String("platform", string(brief.Platform)),
		zap.Stringer("platform_class", class),
	)
	a.observePromptSize(log, params.Model, class, prompt)

	start := time.Now()
	raw, err := a.llm.Complete(ctx, prompt, params)
	completionDuration.WithLabelValues(params.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		completionRequests.WithLabelValues(params.Model, statusError).Inc()
		log.Error("completion failed", zap.Error(err))
		return "", asGenerationError(err)
	}

	text, err := PostProcess(raw)
	if err != nil {
		completionRequests.WithLabelValues(params.Model, statusEmptyReply).Inc()
		log.Warn("completion returned no usable text")
		return "", &GenerationError{Attempts: 1, Cause: err}
	}

	completionRequests.WithLabelValues(params.Model, statusSuccess).Inc()
	log.Info("content generated",
		zap.Duration("duration", time.Since(start)),
		zap.Int("chars", len(text)),
	)
	return text, nil
}

func (a *Agent) observePromptSize(log *zap.Logger, model string, class PlatformClass, p Prompt) {
	if a.counter == nil {
		return
	}
	n, err := a.counter.Count(model, p.System+"\n"+p.User)
	if err != nil {
		log.Debug("token count unavailable", zap.Error(err))
		return
	}
	promptTokens.WithLabelValues(model, class.String()).Observe(float64(n))
	log.Debug("prompt compiled", zap.Int("prompt_tokens", n))
}

func asGenerationError(err error) *GenerationError {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr
	}
	return &GenerationError{Attempts: 1, Cause: err}
}
