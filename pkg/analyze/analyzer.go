package analyze

import (
	"context"
	"fmt"
	"strings"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pkoukk/tiktoken-go"

	"github.com/doclens/doclens/internal/metrics"
	"github.com/doclens/doclens/pkg/ai"
	"github.com/doclens/doclens/pkg/graph"
	"github.com/doclens/doclens/pkg/logger"
)

const documentSeparator = "\n\n---\n\n"

// Analyzer drives one of the four analysis strategies over a document set.
// It owns no state between runs; the oracle client is injected so tests can
// substitute their own.
type Analyzer struct {
	client        ai.OracleClient
	deployment    string
	subDeployment string
}

type NewAnalyzerParams struct {
	// Client is the external oracle boundary. Required.
	Client ai.OracleClient
	// Deployment handles the aggregation and rewrite calls.
	Deployment string
	// SubDeployment handles the per-chunk calls. Falls back to Deployment
	// when empty.
	SubDeployment string
}

func NewAnalyzer(params NewAnalyzerParams) (*Analyzer, error) {
	if params.Client == nil {
		return nil, fmt.Errorf("analyzer: missing oracle client")
	}
	if params.Deployment == "" {
		return nil, fmt.Errorf("analyzer: missing deployment")
	}
	sub := params.SubDeployment
	if sub == "" {
		sub = params.Deployment
	}
	return &Analyzer{
		client:        params.Client,
		deployment:    params.Deployment,
		subDeployment: sub,
	}, nil
}

// Request is one analysis run.
type Request struct {
	Question  string          `json:"question" validate:"required"`
	Documents []DocumentInput `json:"documents" validate:"required,min=1,dive"`
	Mode      string          `json:"mode"`
	Options   Options         `json:"options"`
}

// usageCounter sums token usage across every oracle call of a run. Calls
// that report no usage metadata are skipped rather than counted as zero.
type usageCounter struct {
	lock  sync.Mutex
	total int
}

func (u *usageCounter) add(usage *ai.Usage) {
	if usage == nil {
		return
	}
	u.lock.Lock()
	u.total += usage.TotalTokens
	u.lock.Unlock()
}

// Analyze runs the request synchronously and returns only the final result.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*Result, error) {
	return a.run(ctx, req, nil)
}

// AnalyzeStream runs the request and streams progress as events. The channel
// carries log events for each milestone, at most one graph event, then
// exactly one result or error event, and is closed afterwards.
func (a *Analyzer) AnalyzeStream(ctx context.Context, req Request) <-chan Event {
	events := make(chan Event)
	go func() {
		defer close(events)

		emit := func(e Event) {
			select {
			case events <- e:
			case <-ctx.Done():
			}
		}

		result, err := a.run(ctx, req, emit)
		if err != nil {
			emit(Event{Type: EventError, Err: err.Error()})
			return
		}
		emit(Event{Type: EventResult, Result: result})
	}()
	return events
}

func (a *Analyzer) run(ctx context.Context, req Request, emit func(Event)) (result *Result, err error) {
	if emit == nil {
		emit = func(Event) {}
	}

	mode := ParseMode(req.Mode)
	opts := req.Options.withDefaults()
	usage := &usageCounter{}

	runID, idErr := gonanoid.New()
	if idErr != nil {
		return nil, fmt.Errorf("analyzer: generating run id: %w", idErr)
	}

	done := metrics.TimeRun(string(mode))
	defer func() { done(err == nil) }()

	logger.Debug("Starting analysis run", "run", runID, "mode", mode, "documents", len(req.Documents))
	emit(logEvent(LogInfo, fmt.Sprintf("Starting %s analysis of %d document(s)", mode, len(req.Documents))))

	var (
		answer string
		debug  Debug
		kg     *graph.KnowledgeGraph
	)

	switch mode {
	case ModeBase:
		answer, debug, err = a.runBase(ctx, req.Question, req.Documents, opts, usage, emit)
	case ModeRetrieval:
		answer, debug, err = a.runRetrieval(ctx, req.Question, req.Documents, opts, usage, emit)
	case ModeRecursive:
		answer, debug, err = a.runRecursive(ctx, req.Question, req.Documents, opts, usage, emit)
	case ModeRecursiveGraph:
		answer, debug, kg, err = a.runRecursiveGraph(ctx, req.Question, req.Documents, opts, usage, emit)
	}
	if err != nil {
		return nil, err
	}
	debug.TokensEstimated = estimateTokens(req.Documents)

	answer, err = a.rewrite(ctx, answer, usage, emit)
	if err != nil {
		return nil, err
	}

	emit(logEvent(LogSuccess, "Analysis complete"))

	return &Result{
		RunID:  runID,
		Answer: answer,
		Mode:   mode,
		Usage:  Usage{TotalTokens: usage.total},
		Debug:  debug,
		Graph:  kg,
	}, nil
}

func (a *Analyzer) runBase(ctx context.Context, question string, documents []DocumentInput, opts Options, usage *usageCounter, emit func(Event)) (string, Debug, error) {
	var parts []string
	for i, doc := range documents {
		docID := doc.ID
		if docID == "" {
			docID = fmt.Sprintf("doc-%d", i)
		}
		parts = append(parts, fmt.Sprintf("Document %d (%s):\n%s", i+1, docID, doc.Text))
	}
	contextText := strings.Join(parts, documentSeparator)

	debug := Debug{}
	if len(contextText) > opts.BaseMaxChars {
		contextText = contextText[:opts.BaseMaxChars]
		debug.Truncated = true
	}

	emit(logEvent(LogInfo, "Answering from full document context"))

	completion, err := a.complete(ctx, "base",
		fmt.Sprintf("Question: %s\n\nDocuments:\n\n%s", question, contextText),
		ai.WithDeployment(a.deployment),
		ai.WithSystemPrompts(ai.BasePrompt),
		ai.WithTemperature(0.2),
	)
	if err != nil {
		return "", debug, err
	}
	usage.add(completion.Usage)

	return completion.Content, debug, nil
}

func (a *Analyzer) runRetrieval(ctx context.Context, question string, documents []DocumentInput, opts Options, usage *usageCounter, emit func(Event)) (string, Debug, error) {
	chunks := BuildChunks(documents, opts.ChunkSize)
	emit(logEvent(LogInfo, fmt.Sprintf("Split documents into %d fragment(s)", len(chunks))))

	selected := RankChunks(chunks, question, opts.TopK)
	if len(selected) == 0 {
		// Nothing matched the query terms. Fall back to the leading chunks
		// so the oracle always sees some context.
		selected = chunks
		if len(selected) > opts.TopK {
			selected = selected[:opts.TopK]
		}
		emit(logEvent(LogDim, "No fragments matched the question, using leading fragments"))
	}

	debug := Debug{ChunksTotal: len(chunks), ChunksUsed: len(selected)}

	var parts []string
	for _, chunk := range selected {
		parts = append(parts, fmt.Sprintf("[#%s] (doc: %s)\n%s", chunk.ID, chunk.DocID, chunk.Text))
	}

	emit(logEvent(LogInfo, fmt.Sprintf("Answering from %d retrieved fragment(s)", len(selected))))

	completion, err := a.complete(ctx, "retrieval",
		fmt.Sprintf("Question: %s\n\nFragments:\n\n%s", question, strings.Join(parts, "\n\n")),
		ai.WithDeployment(a.deployment),
		ai.WithSystemPrompts(ai.RetrievalPrompt),
		ai.WithTemperature(0.2),
	)
	if err != nil {
		return "", debug, err
	}
	usage.add(completion.Usage)

	return completion.Content, debug, nil
}

func (a *Analyzer) runRecursive(ctx context.Context, question string, documents []DocumentInput, opts Options, usage *usageCounter, emit func(Event)) (string, Debug, error) {
	chunks := BuildChunks(documents, opts.ChunkSize)
	emit(logEvent(LogInfo, fmt.Sprintf("Split documents into %d fragment(s)", len(chunks))))

	selected := chunks
	if len(selected) > opts.MaxSubcalls {
		selected = selected[:opts.MaxSubcalls]
		emit(logEvent(LogDim, fmt.Sprintf("Capping analysis at %d fragment(s)", opts.MaxSubcalls)))
	}

	debug := Debug{ChunksTotal: len(chunks), ChunksUsed: len(selected), Subcalls: len(selected)}

	type findingShape struct {
		Relevant  bool     `json:"relevant"`
		Summary   string   `json:"summary"`
		Citations []string `json:"citations"`
	}

	results, err := ProcessWithPool(ctx, selected, func(ctx context.Context, chunk Chunk, _ int) (SubFinding, error) {
		completion, callErr := a.complete(ctx, "sub",
			chunk.Text,
			ai.WithDeployment(a.subDeployment),
			ai.WithSystemPrompts(fmt.Sprintf(ai.SubFindingPrompt, question, chunk.ID)),
			ai.WithTemperature(a.subTemperature()),
			ai.WithResponseShape("finding", "Relevance finding for one document fragment", findingShape{}),
		)
		if callErr != nil {
			logger.Warn("Fragment analysis failed", "chunk", chunk.ID, "err", callErr)
			return fallbackFinding(chunk), nil
		}
		usage.add(completion.Usage)
		return ParseSubFinding(completion.Content, chunk), nil
	}, PoolOptions{
		Concurrency: opts.Concurrency,
		OnProgress: func(completed, total int) {
			emit(logEvent(LogDim, fmt.Sprintf("Analyzed %d/%d fragment(s)", completed, total)))
		},
	})
	if err != nil {
		return "", debug, err
	}

	var findings []SubFinding
	for _, r := range results {
		if r.Result.Relevant {
			findings = append(findings, r.Result)
		}
	}
	emit(logEvent(LogInfo, fmt.Sprintf("Collected %d relevant finding(s)", len(findings))))

	return a.aggregate(ctx, question, findings, "", usage, emit, debug)
}

func (a *Analyzer) runRecursiveGraph(ctx context.Context, question string, documents []DocumentInput, opts Options, usage *usageCounter, emit func(Event)) (string, Debug, *graph.KnowledgeGraph, error) {
	chunks := BuildChunks(documents, opts.ChunkSize)
	emit(logEvent(LogInfo, fmt.Sprintf("Split documents into %d fragment(s)", len(chunks))))

	selected := chunks
	if len(selected) > opts.MaxSubcalls {
		selected = selected[:opts.MaxSubcalls]
		emit(logEvent(LogDim, fmt.Sprintf("Capping analysis at %d fragment(s)", opts.MaxSubcalls)))
	}

	debug := Debug{ChunksTotal: len(chunks), ChunksUsed: len(selected), Subcalls: len(selected)}

	type subResult struct {
		finding    SubFinding
		extraction graph.EntityExtraction
	}

	results, err := ProcessWithPool(ctx, selected, func(ctx context.Context, chunk Chunk, _ int) (subResult, error) {
		completion, callErr := a.complete(ctx, "sub",
			chunk.Text,
			ai.WithDeployment(a.subDeployment),
			ai.WithSystemPrompts(fmt.Sprintf(
				ai.GraphSubFindingPrompt,
				question,
				chunk.ID,
				joinEntityTypes(),
				joinRelationTypes(),
			)),
			ai.WithTemperature(a.subTemperature()),
		)
		if callErr != nil {
			logger.Warn("Fragment analysis failed", "chunk", chunk.ID, "err", callErr)
			return subResult{finding: fallbackFinding(chunk)}, nil
		}
		usage.add(completion.Usage)
		finding, extraction := ParseGraphSubResult(completion.Content, chunk)
		return subResult{finding: finding, extraction: extraction}, nil
	}, PoolOptions{
		Concurrency: opts.Concurrency,
		OnProgress: func(completed, total int) {
			emit(logEvent(LogDim, fmt.Sprintf("Analyzed %d/%d fragment(s)", completed, total)))
		},
	})
	if err != nil {
		return "", debug, nil, err
	}

	var findings []SubFinding
	var extractions []graph.ChunkExtraction
	for _, r := range results {
		if r.Result.finding.Relevant {
			findings = append(findings, r.Result.finding)
		}
		// Extractions feed the graph even when the finding itself was not
		// relevant to the question.
		if !r.Result.extraction.Empty() {
			extractions = append(extractions, graph.ChunkExtraction{
				ChunkID:    r.Item.ID,
				Extraction: r.Result.extraction,
			})
		}
	}
	emit(logEvent(LogInfo, fmt.Sprintf("Collected %d relevant finding(s) and %d extraction(s)", len(findings), len(extractions))))

	kg := graph.BuildGraph(extractions, len(documents), a.subDeployment)
	debug.GraphNodes = len(kg.Nodes)
	debug.GraphEdges = len(kg.Edges)

	emit(logEvent(LogSuccess, fmt.Sprintf("Built knowledge graph with %d entities and %d relationships", len(kg.Nodes), len(kg.Edges))))
	emit(Event{Type: EventGraph, Graph: kg})

	answer, debug, err := a.aggregate(ctx, question, findings, graph.Summarize(kg), usage, emit, debug)
	return answer, debug, kg, err
}

// aggregate issues the single oracle call that synthesizes findings (and,
// in graph mode, the graph summary) into one cited answer.
func (a *Analyzer) aggregate(ctx context.Context, question string, findings []SubFinding, graphSummary string, usage *usageCounter, emit func(Event), debug Debug) (string, Debug, error) {
	findingsText := renderFindings(findings)

	prompt := fmt.Sprintf("Findings:\n\n%s", findingsText)
	systemPrompt := fmt.Sprintf(ai.AggregatePrompt, question)
	if graphSummary != "" {
		prompt = fmt.Sprintf("Findings:\n\n%s\n\nKnowledge graph summary:\n\n%s", findingsText, graphSummary)
		systemPrompt = fmt.Sprintf(ai.GraphAggregatePrompt, question)
	}

	emit(logEvent(LogInfo, "Aggregating findings"))

	completion, err := a.complete(ctx, "aggregate",
		prompt,
		ai.WithDeployment(a.deployment),
		ai.WithSystemPrompts(systemPrompt),
		ai.WithTemperature(0.2),
	)
	if err != nil {
		return "", debug, err
	}
	usage.add(completion.Usage)

	emit(logEvent(LogSuccess, "Aggregation complete"))
	return completion.Content, debug, nil
}

// rewrite issues the final polish call. An empty aggregate skips the call
// entirely, and an empty rewrite keeps the original draft.
func (a *Analyzer) rewrite(ctx context.Context, draft string, usage *usageCounter, emit func(Event)) (string, error) {
	if strings.TrimSpace(draft) == "" {
		return draft, nil
	}

	emit(logEvent(LogInfo, "Rewriting answer for clarity"))

	completion, err := a.complete(ctx, "rewrite",
		draft,
		ai.WithDeployment(a.deployment),
		ai.WithSystemPrompts(ai.RewritePrompt),
		ai.WithTemperature(0.2),
	)
	if err != nil {
		return "", err
	}
	usage.add(completion.Usage)

	if strings.TrimSpace(completion.Content) == "" {
		return draft, nil
	}

	emit(logEvent(LogSuccess, "Rewrite complete"))
	return completion.Content, nil
}

func (a *Analyzer) complete(ctx context.Context, kind string, prompt string, opts ...ai.GenerateOption) (completion *ai.Completion, err error) {
	done := metrics.TimeOracleCall(kind)
	defer func() { done(err == nil) }()
	return a.client.Complete(ctx, prompt, opts...)
}

// subTemperature picks the sampling temperature for per-chunk calls.
// Constrained "nano" deployments tend toward repetitive output at low
// temperature, so they run at 1.0.
func (a *Analyzer) subTemperature() float64 {
	if strings.Contains(a.subDeployment, "nano") {
		return 1.0
	}
	return 0.1
}

func renderFindings(findings []SubFinding) string {
	if len(findings) == 0 {
		return "No relevant findings were extracted."
	}
	var lines []string
	for _, f := range findings {
		lines = append(lines, fmt.Sprintf("- %s (citations: %s)", f.Summary, strings.Join(f.Citations, ", ")))
	}
	return strings.Join(lines, "\n")
}

func joinEntityTypes() string {
	types := graph.EntityTypes()
	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, string(t))
	}
	return strings.Join(parts, ", ")
}

func joinRelationTypes() string {
	types := graph.RelationTypes()
	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, string(t))
	}
	return strings.Join(parts, ", ")
}

// estimateTokens is a rough token count over the raw document text, used
// only as a debug metric for sizing runs. Returns 0 when the encoding is
// unavailable.
func estimateTokens(documents []DocumentInput) int {
	enc, err := tiktoken.GetEncoding("o200k_base")
	if err != nil {
		return 0
	}
	total := 0
	for _, doc := range documents {
		total += len(enc.Encode(doc.Text, nil, nil))
	}
	return total
}
