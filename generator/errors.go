package generator

import (
	"errors"
	"fmt"
)

var (
	ErrTopicRequired   = errors.New("topic is required")
	ErrInvalidOption   = errors.New("invalid option")
	ErrEmptyCompletion = errors.New("model returned empty text")
	ErrLLMRequired     = errors.New("llm client is required")
)

// User-facing messages, in the language of the generated content.
const (
	MsgTopicRequired   = "Informe pelo menos o tema do conteúdo."
	msgGenerationError = "Erro ao chamar a IA"
)

// ValidationError blocks a request before anything is compiled.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalidOption(field, value string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("valor inválido %q", value),
		Err:     ErrInvalidOption,
	}
}

// GenerationError is returned when the completion client gave up.
// Attempts counts calls made, including the first one.
type GenerationError struct {
	Attempts int
	Cause    error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: %v", msgGenerationError, e.Cause)
}

func (e *GenerationError) Unwrap() error { return e.Cause }

// permanentError marks a failure that retrying cannot fix.
type permanentError struct{ err error }

func (p *permanentError) Error() string { return p.err.Error() }

func (p *permanentError) Unwrap() error { return p.err }

// Permanent wraps err so RetryLLM stops immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

func isPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}
