package analyze

import (
	"fmt"
	"testing"
)

func TestRankChunksFrequencyOrdering(t *testing.T) {
	chunks := []Chunk{
		{ID: "a", Text: "the penalty clause applies once"},
		{ID: "b", Text: "penalty penalty penalty everywhere"},
	}

	ranked := RankChunks(chunks, "penalty", 8)
	if len(ranked) != 2 {
		t.Fatalf("expected 2 ranked chunks, got %d", len(ranked))
	}
	if ranked[0].ID != "b" {
		t.Errorf("expected the higher-frequency chunk first, got %s", ranked[0].ID)
	}
}

func TestRankChunksExcludesZeroScores(t *testing.T) {
	chunks := []Chunk{
		{ID: "a", Text: "payment schedule and amounts"},
		{ID: "b", Text: "completely unrelated content"},
	}

	ranked := RankChunks(chunks, "payment", 8)
	if len(ranked) != 1 {
		t.Fatalf("expected 1 ranked chunk, got %d", len(ranked))
	}
	if ranked[0].ID != "a" {
		t.Errorf("unexpected chunk %s", ranked[0].ID)
	}
}

func TestRankChunksTopKBound(t *testing.T) {
	var chunks []Chunk
	for i := 0; i < 20; i++ {
		chunks = append(chunks, Chunk{ID: fmt.Sprintf("c%d", i), Text: "termination notice"})
	}

	if got := len(RankChunks(chunks, "termination", 5)); got != 5 {
		t.Errorf("expected topK=5 chunks, got %d", got)
	}
}

func TestRankChunksEmptyQuery(t *testing.T) {
	chunks := []Chunk{{ID: "a", Text: "anything"}}

	if got := RankChunks(chunks, "", 8); len(got) != 0 {
		t.Errorf("expected no chunks for an empty query, got %d", len(got))
	}
	if got := RankChunks(chunks, "  ... !!", 8); len(got) != 0 {
		t.Errorf("expected no chunks for a punctuation-only query, got %d", len(got))
	}
}

func TestRankChunksCaseAndPunctuationInsensitive(t *testing.T) {
	chunks := []Chunk{{ID: "a", Text: "The PENALTY, as defined."}}

	if got := RankChunks(chunks, "penalty", 8); len(got) != 1 {
		t.Errorf("expected case-insensitive match, got %d chunks", len(got))
	}
}

func TestRankChunksStableTies(t *testing.T) {
	chunks := []Chunk{
		{ID: "first", Text: "notice period"},
		{ID: "second", Text: "notice period"},
	}

	ranked := RankChunks(chunks, "notice", 8)
	if len(ranked) != 2 || ranked[0].ID != "first" {
		t.Errorf("expected original order preserved for ties, got %v", ranked)
	}
}
