package main

import (
	"github.com/doclens/doclens/internal/metrics"
	"github.com/doclens/doclens/internal/server"
	"github.com/doclens/doclens/internal/util"
	"github.com/doclens/doclens/pkg/ai"
	"github.com/doclens/doclens/pkg/ai/ollama"
	"github.com/doclens/doclens/pkg/ai/openai"
	"github.com/doclens/doclens/pkg/analyze"
	"github.com/doclens/doclens/pkg/logger"
	"github.com/doclens/doclens/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	if util.GetEnvBool("METRICS_ENABLED", false) {
		addr := util.GetEnvString("METRICS_ADDR", ":9090")
		if err := metrics.EnablePrometheus(addr); err != nil {
			logger.Fatal("Failed to enable metrics", "err", err)
		}
	}

	var (
		client     ai.OracleClient
		deployment string
		err        error
	)

	switch util.GetEnvString("AI_ADAPTER", "openai") {
	case "ollama":
		deployment = util.GetEnv("OLLAMA_MODEL")
		client, err = ollama.NewOracleOllamaClient(ollama.NewOracleOllamaClientParams{
			Deployment:            deployment,
			BaseURL:               util.GetEnv("OLLAMA_BASE_URL"),
			APIKey:                util.GetEnv("OLLAMA_API_KEY"),
			MaxConcurrentRequests: int64(util.GetEnvInt("OLLAMA_MAX_CONCURRENT", 1)),
		})
	default:
		deployment = util.GetEnv("OPENAI_DEPLOYMENT")
		client, err = openai.NewOracleOpenAIClient(openai.NewOracleOpenAIClientParams{
			Deployment: deployment,
			BaseURL:    util.GetEnv("OPENAI_BASE_URL"),
			APIKey:     util.GetEnv("OPENAI_API_KEY"),
		})
	}
	if err != nil {
		logger.Fatal("Failed to create oracle client", "err", err)
	}

	analyzer, err := analyze.NewAnalyzer(analyze.NewAnalyzerParams{
		Client:        client,
		Deployment:    util.GetEnvString("ANALYZE_DEPLOYMENT", deployment),
		SubDeployment: util.GetEnv("ANALYZE_SUB_DEPLOYMENT"),
	})
	if err != nil {
		logger.Fatal("Failed to create analyzer", "err", err)
	}

	server.Init(analyzer)
}
