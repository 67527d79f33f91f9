package ollama

import (
	"context"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/pkoukk/tiktoken-go"

	"github.com/doclens/doclens/pkg/ai"
)

// Complete sends a single-turn prompt and returns the assistant text together
// with the token usage the server reported. Structured-output schemas are
// ignored; callers must validate the content regardless.
func (c *OracleOllamaClient) Complete(
	ctx context.Context,
	prompt string,
	opts ...ai.GenerateOption,
) (*ai.Completion, error) {
	options := ai.GenerateOptions{
		Deployment:  c.deployment,
		Temperature: 0.1,
	}
	for _, o := range opts {
		o(&options)
	}

	if err := c.reqLock.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.reqLock.Release(1)

	stream := false
	req := &api.ChatRequest{
		Model:    options.Deployment,
		Messages: []api.Message{},
		Stream:   &stream,
		Options:  map[string]any{"temperature": options.Temperature},
	}
	for _, sp := range options.SystemPrompts {
		req.Messages = append(req.Messages, api.Message{Role: "system", Content: sp})
	}
	req.Messages = append(req.Messages, api.Message{Role: "user", Content: prompt})

	if options.MaxTokens > 0 {
		req.Options["num_predict"] = options.MaxTokens
	}

	// Size the context window to the prompt; Ollama silently truncates when
	// the default num_ctx is too small.
	if enc, err := tiktoken.GetEncoding("o200k_base"); err == nil {
		full := prompt
		for _, sp := range options.SystemPrompts {
			full += sp
		}
		tokens := 200 + len(enc.Encode(full, nil, nil))
		if tokens > 4096 {
			req.Options["num_ctx"] = tokens
		}
	}

	start := time.Now()
	var final api.ChatResponse
	if err := c.Client.Chat(ctx, req, func(cr api.ChatResponse) error {
		final.Message.Content += cr.Message.Content
		if cr.Done {
			final.Done = true
			final.Metrics = cr.Metrics
		}
		return nil
	}); err != nil {
		return nil, err
	}
	duration := time.Since(start).Milliseconds()

	totalTokens := final.Metrics.PromptEvalCount + final.Metrics.EvalCount
	metrics := ai.ModelMetrics{
		InputTokens:  final.Metrics.PromptEvalCount,
		OutputTokens: final.Metrics.EvalCount,
		TotalTokens:  totalTokens,
		DurationMs:   duration,
	}
	c.modifyMetrics(metrics)

	completion := &ai.Completion{
		Content: final.Message.Content,
	}
	if totalTokens > 0 {
		completion.Usage = &ai.Usage{TotalTokens: totalTokens}
	}

	return completion, nil
}
