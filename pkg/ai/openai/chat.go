package openai

import (
	"context"
	"errors"
	"time"

	"github.com/openai/openai-go/v3"

	"github.com/doclens/doclens/pkg/ai"
)

// Complete sends a single-turn prompt to the chat model and returns the
// generated completion together with the usage the endpoint reported.
//
// When a response schema is set via ai.WithResponseShape, the request uses
// JSON-schema structured output; the returned content is still plain text and
// callers must validate it themselves.
func (c *OracleOpenAIClient) Complete(
	ctx context.Context,
	prompt string,
	opts ...ai.GenerateOption,
) (*ai.Completion, error) {
	client := c.ChatClient

	options := ai.GenerateOptions{
		Deployment:  c.deployment,
		Temperature: 0.1,
	}
	for _, o := range opts {
		o(&options)
	}
	if options.Deployment == "" {
		return nil, errors.New("openai oracle: no deployment configured")
	}

	msgs := []openai.ChatCompletionMessageParamUnion{}
	for _, sp := range options.SystemPrompts {
		msgs = append(msgs, openai.SystemMessage(sp))
	}
	msgs = append(msgs, openai.UserMessage(prompt))

	body := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(options.Deployment),
		Messages:    msgs,
		Temperature: openai.Float(options.Temperature),
	}
	if options.MaxTokens > 0 {
		body.MaxTokens = openai.Int(int64(options.MaxTokens))
	}

	if options.Schema != nil {
		schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
			Name:        options.Schema.Name,
			Description: openai.String(options.Schema.Description),
			Schema:      ai.GenerateSchema(options.Schema.Shape),
			Strict:      openai.Bool(true),
		}
		body.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: schemaParam,
			},
		}
	}

	start := time.Now()
	response, err := client.Chat.Completions.New(ctx, body)
	if err != nil {
		return nil, err
	}
	duration := time.Since(start).Milliseconds()

	metrics := ai.ModelMetrics{
		InputTokens:  int(response.Usage.PromptTokens),
		OutputTokens: int(response.Usage.CompletionTokens),
		TotalTokens:  int(response.Usage.TotalTokens),
		DurationMs:   duration,
	}
	c.modifyMetrics(metrics)

	completion := &ai.Completion{
		Content: response.Choices[0].Message.Content,
	}
	if response.Usage.TotalTokens > 0 {
		completion.Usage = &ai.Usage{TotalTokens: int(response.Usage.TotalTokens)}
	}

	return completion, nil
}
