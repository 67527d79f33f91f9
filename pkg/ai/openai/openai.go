package openai

import (
	"errors"
	"sync"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/doclens/doclens/pkg/ai"
)

// OracleOpenAIClient implements ai.OracleClient against an OpenAI-compatible
// chat completions endpoint.
//
// An OracleOpenAIClient should be created using NewOracleOpenAIClient.
type OracleOpenAIClient struct {
	deployment string

	baseURL string
	apiKey  string

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	ChatClient *openai.Client
}

// NewOracleOpenAIClientParams defines the configuration parameters for
// creating a new OracleOpenAIClient.
//
// Deployment is the default model/deployment used when a call does not
// override it. BaseURL may be empty for the public OpenAI endpoint.
type NewOracleOpenAIClientParams struct {
	Deployment string
	BaseURL    string
	APIKey     string
}

// NewOracleOpenAIClient creates and returns a new OracleOpenAIClient
// configured with the provided parameters. Missing credentials or a missing
// default deployment are configuration errors and fail here, before any
// analysis run can start.
func NewOracleOpenAIClient(
	params NewOracleOpenAIClientParams,
) (*OracleOpenAIClient, error) {
	if params.APIKey == "" {
		return nil, errors.New("openai oracle: missing API key")
	}
	if params.Deployment == "" {
		return nil, errors.New("openai oracle: missing deployment")
	}

	opts := []option.RequestOption{option.WithAPIKey(params.APIKey)}
	if params.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(params.BaseURL))
	}
	client := openai.NewClient(opts...)

	return &OracleOpenAIClient{
		deployment: params.Deployment,

		baseURL: params.BaseURL,
		apiKey:  params.APIKey,

		metricsLock: sync.Mutex{},
		metrics:     ai.ModelMetrics{},

		ChatClient: &client,
	}, nil
}

func (c *OracleOpenAIClient) modifyMetrics(m ai.ModelMetrics) {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	c.metrics.InputTokens += m.InputTokens
	c.metrics.OutputTokens += m.OutputTokens
	c.metrics.TotalTokens += m.TotalTokens
	c.metrics.DurationMs += m.DurationMs
}

// ResetMetrics clears the accumulated metrics.
func (c *OracleOpenAIClient) ResetMetrics() {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	c.metrics = ai.ModelMetrics{}
}

// GetMetrics returns a snapshot of the accumulated metrics.
func (c *OracleOpenAIClient) GetMetrics() ai.ModelMetrics {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	return c.metrics
}
