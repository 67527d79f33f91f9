package analyze

import (
	"github.com/doclens/doclens/pkg/ai"
	"github.com/doclens/doclens/pkg/graph"
)

// SubFinding is the structured relevance verdict produced by one per-chunk
// oracle call. Citations is never nil; when the oracle marks a chunk
// relevant without citing anything, the chunk cites itself.
type SubFinding struct {
	Relevant  bool     `json:"relevant"`
	Summary   string   `json:"summary"`
	Citations []string `json:"citations"`
	ChunkID   string   `json:"chunkId"`
	DocID     string   `json:"docId"`
}

const defaultExtractionConfidence = 0.8

func fallbackFinding(chunk Chunk) SubFinding {
	return SubFinding{
		Relevant:  false,
		Summary:   "",
		Citations: []string{},
		ChunkID:   chunk.ID,
		DocID:     chunk.DocID,
	}
}

// ParseSubFinding decodes one raw oracle response into a SubFinding. The
// response may wrap its JSON object in prose or markdown fences; everything
// between the first "{" and the last "}" is treated as the payload. Any
// parse failure degrades to the zero-value fallback, never an error.
func ParseSubFinding(raw string, chunk Chunk) SubFinding {
	payload, ok := ai.ExtractJSONObject(raw)
	if !ok {
		return fallbackFinding(chunk)
	}

	var fields map[string]any
	if err := ai.UnmarshalFlexible(payload, &fields); err != nil {
		return fallbackFinding(chunk)
	}

	finding := SubFinding{
		Relevant:  coerceBool(fields["relevant"]),
		Summary:   coerceString(fields["summary"]),
		Citations: coerceStringSlice(fields["citations"]),
		ChunkID:   chunk.ID,
		DocID:     chunk.DocID,
	}
	if len(finding.Citations) == 0 {
		finding.Citations = []string{chunk.ID}
	}
	return finding
}

// ParseGraphSubResult decodes the combined finding+extraction response used
// by the graph mode. The finding follows the same rules as ParseSubFinding.
// Extracted entities and relationships are filtered, not trusted: entries
// with an unknown type or a missing name are dropped, and confidence
// defaults to 0.8 when absent or non-numeric.
func ParseGraphSubResult(raw string, chunk Chunk) (SubFinding, graph.EntityExtraction) {
	payload, ok := ai.ExtractJSONObject(raw)
	if !ok {
		return fallbackFinding(chunk), graph.EntityExtraction{}
	}

	var fields map[string]any
	if err := ai.UnmarshalFlexible(payload, &fields); err != nil {
		return fallbackFinding(chunk), graph.EntityExtraction{}
	}

	finding := SubFinding{
		Relevant:  coerceBool(fields["relevant"]),
		Summary:   coerceString(fields["summary"]),
		Citations: coerceStringSlice(fields["citations"]),
		ChunkID:   chunk.ID,
		DocID:     chunk.DocID,
	}
	if len(finding.Citations) == 0 {
		finding.Citations = []string{chunk.ID}
	}

	var extraction graph.EntityExtraction
	for _, rawEntity := range coerceObjectSlice(fields["entities"]) {
		entityType, valid := graph.ParseEntityType(coerceString(rawEntity["type"]))
		name := coerceString(rawEntity["name"])
		if !valid || name == "" {
			continue
		}
		extraction.Entities = append(extraction.Entities, graph.Entity{
			Type:       entityType,
			Name:       name,
			Properties: coerceObject(rawEntity["properties"]),
			Confidence: coerceConfidence(rawEntity["confidence"]),
		})
	}
	for _, rawRel := range coerceObjectSlice(fields["relationships"]) {
		relationType, valid := graph.ParseRelationType(coerceString(rawRel["type"]))
		sourceName := coerceString(rawRel["sourceName"])
		targetName := coerceString(rawRel["targetName"])
		if !valid || sourceName == "" || targetName == "" {
			continue
		}
		extraction.Relationships = append(extraction.Relationships, graph.Relationship{
			Type:       relationType,
			SourceName: sourceName,
			TargetName: targetName,
			Properties: coerceObject(rawRel["properties"]),
			Confidence: coerceConfidence(rawRel["confidence"]),
		})
	}

	return finding, extraction
}

func coerceBool(v any) bool {
	switch value := v.(type) {
	case bool:
		return value
	case string:
		return value == "true"
	default:
		return false
	}
}

func coerceString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func coerceStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func coerceObject(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}

func coerceObjectSlice(v any) []map[string]any {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []map[string]any
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func coerceConfidence(v any) float64 {
	if f, ok := v.(float64); ok {
		return f
	}
	return defaultExtractionConfidence
}
