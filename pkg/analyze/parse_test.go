package analyze

import (
	"reflect"
	"testing"

	"github.com/doclens/doclens/pkg/graph"
)

var parseChunk = Chunk{ID: "doc-0-chunk-3", DocID: "contract"}

func TestParseSubFindingFallback(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json at all", "the oracle rambled instead of answering"},
		{"unclosed brace", `{"relevant": true`},
		{"empty input", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			finding := ParseSubFinding(tt.raw, parseChunk)
			want := SubFinding{
				Relevant:  false,
				Summary:   "",
				Citations: []string{},
				ChunkID:   "doc-0-chunk-3",
				DocID:     "contract",
			}
			if !reflect.DeepEqual(finding, want) {
				t.Errorf("got %+v, want %+v", finding, want)
			}
		})
	}
}

func TestParseSubFindingProseWrapped(t *testing.T) {
	raw := "Here is my analysis:\n```json\n{\"relevant\": true, \"summary\": \"Payment is due monthly.\", \"citations\": [\"doc-0-chunk-3\"]}\n```\nHope that helps."

	finding := ParseSubFinding(raw, parseChunk)
	if !finding.Relevant {
		t.Error("expected relevant=true")
	}
	if finding.Summary != "Payment is due monthly." {
		t.Errorf("unexpected summary %q", finding.Summary)
	}
	if !reflect.DeepEqual(finding.Citations, []string{"doc-0-chunk-3"}) {
		t.Errorf("unexpected citations %v", finding.Citations)
	}
}

func TestParseSubFindingDefaultsCitationsToChunk(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing citations", `{"relevant": true, "summary": "found it"}`},
		{"empty citations", `{"relevant": true, "summary": "found it", "citations": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			finding := ParseSubFinding(tt.raw, parseChunk)
			if !reflect.DeepEqual(finding.Citations, []string{"doc-0-chunk-3"}) {
				t.Errorf("expected self-citation fallback, got %v", finding.Citations)
			}
		})
	}
}

func TestParseSubFindingCoercesRelevant(t *testing.T) {
	finding := ParseSubFinding(`{"relevant": "true", "summary": "s"}`, parseChunk)
	if !finding.Relevant {
		t.Error("expected string \"true\" coerced to boolean")
	}

	finding = ParseSubFinding(`{"relevant": 1, "summary": "s"}`, parseChunk)
	if finding.Relevant {
		t.Error("expected non-boolean relevant to default to false")
	}
}

func TestParseSubFindingRepairsSloppyJSON(t *testing.T) {
	finding := ParseSubFinding(`{relevant: true, summary: "missing quotes", citations: ["doc-0-chunk-3"],}`, parseChunk)
	if !finding.Relevant {
		t.Error("expected repaired JSON to parse")
	}
	if finding.Summary != "missing quotes" {
		t.Errorf("unexpected summary %q", finding.Summary)
	}
}

func TestParseGraphSubResultFiltersInvalidTypes(t *testing.T) {
	raw := `{
		"relevant": true,
		"summary": "entities present",
		"citations": ["doc-0-chunk-3"],
		"entities": [
			{"type": "party", "name": "Acme Corp", "confidence": 0.9},
			{"type": "spaceship", "name": "Nostromo"},
			{"type": "date", "name": ""}
		],
		"relationships": [
			{"type": "has_obligation", "sourceName": "Acme Corp", "targetName": "monthly payment"},
			{"type": "invented_relation", "sourceName": "a", "targetName": "b"},
			{"type": "references", "sourceName": "Acme Corp", "targetName": ""}
		]
	}`

	_, extraction := ParseGraphSubResult(raw, parseChunk)

	if len(extraction.Entities) != 1 {
		t.Fatalf("expected 1 valid entity, got %d", len(extraction.Entities))
	}
	if extraction.Entities[0].Type != graph.EntityParty || extraction.Entities[0].Name != "Acme Corp" {
		t.Errorf("unexpected entity %+v", extraction.Entities[0])
	}
	if extraction.Entities[0].Confidence != 0.9 {
		t.Errorf("expected explicit confidence kept, got %v", extraction.Entities[0].Confidence)
	}

	if len(extraction.Relationships) != 1 {
		t.Fatalf("expected 1 valid relationship, got %d", len(extraction.Relationships))
	}
	rel := extraction.Relationships[0]
	if rel.Type != graph.RelationHasObligation || rel.SourceName != "Acme Corp" || rel.TargetName != "monthly payment" {
		t.Errorf("unexpected relationship %+v", rel)
	}
	if rel.Confidence != 0.8 {
		t.Errorf("expected default confidence 0.8, got %v", rel.Confidence)
	}
}

func TestParseGraphSubResultFallback(t *testing.T) {
	finding, extraction := ParseGraphSubResult("no braces here", parseChunk)
	if finding.Relevant || finding.Summary != "" || len(finding.Citations) != 0 {
		t.Errorf("expected fallback finding, got %+v", finding)
	}
	if !extraction.Empty() {
		t.Errorf("expected empty extraction, got %+v", extraction)
	}
}

func TestParseGraphSubResultNonNumericConfidence(t *testing.T) {
	raw := `{"relevant": false, "entities": [{"type": "amount", "name": "$500", "confidence": "high"}]}`

	_, extraction := ParseGraphSubResult(raw, parseChunk)
	if len(extraction.Entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(extraction.Entities))
	}
	if extraction.Entities[0].Confidence != 0.8 {
		t.Errorf("expected default confidence for non-numeric value, got %v", extraction.Entities[0].Confidence)
	}
}
