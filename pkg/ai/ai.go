package ai

import (
	"context"
)

// Usage carries the token accounting a backend reported for one call.
// A nil Usage on a Completion means the backend returned no usage metadata.
type Usage struct {
	TotalTokens int `json:"total_tokens"`
}

// Completion is the result of a single oracle call. Content is always set on
// success but is not guaranteed to be valid JSON even when JSON was requested.
type Completion struct {
	Content string
	Usage   *Usage
}

// ResponseSchema asks a backend to constrain output to the JSON shape of the
// given Go value. Backends without structured-output support may ignore it;
// callers must validate the content regardless.
type ResponseSchema struct {
	Name        string
	Description string
	Shape       any
}

// GenerateOptions holds configuration for oracle completion requests.
type GenerateOptions struct {
	Deployment    string   // Model/deployment identifier to use
	SystemPrompts []string // System prompts prepended to the request
	Temperature   float64  // Sampling temperature (0.0-2.0)
	MaxTokens     int      // Output token cap, 0 means backend default
	Schema        *ResponseSchema
}

// GenerateOption is a functional option for configuring oracle requests.
type GenerateOption func(*GenerateOptions)

// WithDeployment returns a GenerateOption that sets the model deployment
// to use for the call.
func WithDeployment(deployment string) GenerateOption {
	return func(o *GenerateOptions) {
		o.Deployment = deployment
	}
}

// WithSystemPrompts returns a GenerateOption that sets the system prompts
// to prepend to the request.
func WithSystemPrompts(prompts ...string) GenerateOption {
	return func(o *GenerateOptions) {
		o.SystemPrompts = prompts
	}
}

// WithTemperature returns a GenerateOption that sets the sampling temperature.
// Higher values (e.g., 1.0) produce more random outputs, while lower values
// (e.g., 0.1) make outputs more focused and deterministic.
func WithTemperature(temp float64) GenerateOption {
	return func(o *GenerateOptions) {
		o.Temperature = temp
	}
}

// WithMaxTokens returns a GenerateOption that caps the output token count.
func WithMaxTokens(maxTokens int) GenerateOption {
	return func(o *GenerateOptions) {
		o.MaxTokens = maxTokens
	}
}

// WithResponseShape returns a GenerateOption that requests structured output
// matching the JSON shape of the given value.
func WithResponseShape(name string, description string, shape any) GenerateOption {
	return func(o *GenerateOptions) {
		o.Schema = &ResponseSchema{
			Name:        name,
			Description: description,
			Shape:       shape,
		}
	}
}

// ModelMetrics contains accumulated performance metrics from oracle calls.
type ModelMetrics struct {
	InputTokens  int   `json:"input_tokens"`
	OutputTokens int   `json:"output_tokens"`
	TotalTokens  int   `json:"total_tokens"`
	DurationMs   int64 `json:"duration_ms"`
}

// OracleClient is the external language-model boundary. Implementations fail
// on configuration or transport errors; otherwise they always return some
// string content, which may be malformed even when JSON was requested.
type OracleClient interface {
	Complete(
		ctx context.Context,
		prompt string,
		opts ...GenerateOption,
	) (*Completion, error)

	ResetMetrics()
	GetMetrics() ModelMetrics
}
