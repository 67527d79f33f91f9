package analyze

import (
	"time"

	"github.com/doclens/doclens/pkg/graph"
)

// Mode selects the analysis strategy for one run.
type Mode string

const (
	// ModeBase answers from the concatenated (possibly truncated) documents
	// in a single oracle call.
	ModeBase Mode = "base"
	// ModeRetrieval answers from the topK term-frequency-ranked chunks.
	ModeRetrieval Mode = "retrieval"
	// ModeRecursive analyzes every chunk independently in parallel and
	// aggregates the distilled findings.
	ModeRecursive Mode = "recursive"
	// ModeRecursiveGraph is ModeRecursive plus entity/relationship
	// extraction and a knowledge graph fed into aggregation.
	ModeRecursiveGraph Mode = "recursive_graph"
)

// ParseMode maps a request string onto a Mode, defaulting to ModeRecursive
// for anything unrecognized or empty.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeBase, ModeRetrieval, ModeRecursive, ModeRecursiveGraph:
		return Mode(s)
	default:
		return ModeRecursive
	}
}

// LogType classifies a progress log line for the presentation layer.
type LogType string

const (
	LogInfo    LogType = "info"
	LogSuccess LogType = "success"
	LogError   LogType = "error"
	LogDim     LogType = "dim"
)

// EventType tags one entry of the progress stream.
type EventType string

const (
	EventLog    EventType = "log"
	EventGraph  EventType = "graph"
	EventResult EventType = "result"
	EventError  EventType = "error"
)

// LogEvent is one orchestration milestone.
type LogEvent struct {
	Message   string    `json:"message"`
	LogType   LogType   `json:"logType"`
	Timestamp time.Time `json:"timestamp"`
}

// Usage is the token total summed over every oracle call of a run.
type Usage struct {
	TotalTokens int `json:"totalTokens"`
}

// Debug carries per-mode run metrics.
type Debug struct {
	ChunksTotal     int  `json:"chunksTotal"`
	ChunksUsed      int  `json:"chunksUsed"`
	Subcalls        int  `json:"subcalls"`
	Truncated       bool `json:"truncated"`
	GraphNodes      int  `json:"graphNodes,omitempty"`
	GraphEdges      int  `json:"graphEdges,omitempty"`
	TokensEstimated int  `json:"tokensEstimated,omitempty"`
}

// Result is the terminal output of one run.
type Result struct {
	RunID  string                `json:"runId"`
	Answer string                `json:"answer"`
	Mode   Mode                  `json:"mode"`
	Usage  Usage                 `json:"usage"`
	Debug  Debug                 `json:"debug"`
	Graph  *graph.KnowledgeGraph `json:"graph,omitempty"`
}

// Event is one entry of a streamed run: a sequence of log events, at most
// one graph event, then exactly one of result or error.
type Event struct {
	Type   EventType
	Log    *LogEvent
	Graph  *graph.KnowledgeGraph
	Result *Result
	Err    string
}

func logEvent(logType LogType, message string) Event {
	return Event{
		Type: EventLog,
		Log: &LogEvent{
			Message:   message,
			LogType:   logType,
			Timestamp: time.Now(),
		},
	}
}
