package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGraphResolvesEdges(t *testing.T) {
	extractions := []ChunkExtraction{
		{
			ChunkID: "doc-0-chunk-0",
			Extraction: EntityExtraction{
				Entities: []Entity{
					{Type: EntityParty, Name: "Acme Corp", Confidence: 0.9},
					{Type: EntityObligation, Name: "monthly payment", Confidence: 0.8},
				},
				Relationships: []Relationship{
					{Type: RelationHasObligation, SourceName: "Acme Corp", TargetName: "monthly payment", Confidence: 0.85},
				},
			},
		},
	}

	g := BuildGraph(extractions, 1, "test-model")
	require.Len(t, g.Nodes, 2)
	require.Len(t, g.Edges, 1)

	edge := g.Edges[0]
	assert.Equal(t, "e1", edge.ID)
	assert.Equal(t, RelationHasObligation, edge.Type)
	assert.Equal(t, "n1", edge.Source)
	assert.Equal(t, "n2", edge.Target)
	assert.Equal(t, "doc-0-chunk-0", edge.SourceChunk)
	assert.Equal(t, 0.85, edge.Confidence)

	assert.Equal(t, 1, g.Metadata.DocumentCount)
	assert.Equal(t, 1, g.Metadata.ChunkCount)
	assert.Equal(t, "test-model", g.Metadata.ExtractionModel)
}

func TestBuildGraphDuplicateEdgeKeepsFirstConfidence(t *testing.T) {
	extractions := []ChunkExtraction{
		{
			ChunkID: "doc-0-chunk-0",
			Extraction: EntityExtraction{
				Entities: []Entity{
					{Type: EntityParty, Name: "Acme Corp", Confidence: 0.9},
					{Type: EntityObligation, Name: "monthly payment", Confidence: 0.8},
				},
				Relationships: []Relationship{
					{Type: RelationHasObligation, SourceName: "Acme Corp", TargetName: "monthly payment", Confidence: 0.4},
				},
			},
		},
		{
			ChunkID: "doc-0-chunk-1",
			Extraction: EntityExtraction{
				Relationships: []Relationship{
					{Type: RelationHasObligation, SourceName: "Acme Corp", TargetName: "monthly payment", Confidence: 0.95},
				},
			},
		},
	}

	g := BuildGraph(extractions, 1, "test-model")
	require.Len(t, g.Edges, 1)
	assert.Equal(t, 0.4, g.Edges[0].Confidence)
	assert.Equal(t, "doc-0-chunk-0", g.Edges[0].SourceChunk)
}

func TestBuildGraphUnresolvedEndpointDropsEdge(t *testing.T) {
	extractions := []ChunkExtraction{
		{
			ChunkID: "doc-0-chunk-0",
			Extraction: EntityExtraction{
				Entities: []Entity{
					{Type: EntityParty, Name: "Acme Corp", Confidence: 0.9},
				},
				Relationships: []Relationship{
					{Type: RelationReferences, SourceName: "Acme Corp", TargetName: "Nonexistent Entity XYZ", Confidence: 0.9},
				},
			},
		},
	}

	g := BuildGraph(extractions, 1, "test-model")
	assert.Len(t, g.Nodes, 1)
	assert.Empty(t, g.Edges)
}

func TestResolveEndpointFirstMatchWins(t *testing.T) {
	nodes := []Node{
		{ID: "n1", Type: EntityClause, Name: "payment terms"},
		{ID: "n2", Type: EntityClause, Name: "payment schedule"},
	}
	idx := newNodeIndex(nodes)

	// "payment" is a substring of both names; the fuzzy fallback takes the
	// earliest inserted match, not the highest scoring one.
	resolved := idx.resolve("payment", DefaultMergeThreshold)
	require.NotNil(t, resolved)
	assert.Equal(t, "n1", resolved.ID)
}

func TestResolveExactBeatsFuzzy(t *testing.T) {
	nodes := []Node{
		{ID: "n1", Type: EntityClause, Name: "payment terms extended"},
		{ID: "n2", Type: EntityClause, Name: "Payment Terms"},
	}
	idx := newNodeIndex(nodes)

	resolved := idx.resolve("payment terms", DefaultMergeThreshold)
	require.NotNil(t, resolved)
	assert.Equal(t, "n2", resolved.ID)
}

func TestBuildGraphSequentialEdgeIDs(t *testing.T) {
	extractions := []ChunkExtraction{
		{
			ChunkID: "doc-0-chunk-0",
			Extraction: EntityExtraction{
				Entities: []Entity{
					{Type: EntityParty, Name: "Acme Corp", Confidence: 0.9},
					{Type: EntityParty, Name: "Globex Ltd", Confidence: 0.9},
					{Type: EntityDate, Name: "March 1, 2026", Confidence: 0.9},
				},
				Relationships: []Relationship{
					{Type: RelationReferences, SourceName: "Acme Corp", TargetName: "Globex Ltd", Confidence: 0.9},
					{Type: RelationEffectiveOn, SourceName: "Acme Corp", TargetName: "March 1, 2026", Confidence: 0.9},
				},
			},
		},
	}

	g := BuildGraph(extractions, 1, "test-model")
	require.Len(t, g.Edges, 2)
	assert.Equal(t, "e1", g.Edges[0].ID)
	assert.Equal(t, "e2", g.Edges[1].ID)
}

func TestSummarizeEmptyGraph(t *testing.T) {
	assert.Equal(t, "The knowledge graph contains no entities.", Summarize(nil))
	assert.Equal(t, "The knowledge graph contains no entities.", Summarize(&KnowledgeGraph{}))
}

func TestSummarizeGroupsByType(t *testing.T) {
	g := &KnowledgeGraph{
		Nodes: []Node{
			{ID: "n1", Type: EntityParty, Name: "Acme Corp"},
			{ID: "n2", Type: EntityParty, Name: "Globex Ltd"},
			{ID: "n3", Type: EntityDate, Name: "March 1, 2026"},
		},
		Edges: []Edge{
			{ID: "e1", Type: RelationReferences, Source: "n1", Target: "n2"},
		},
	}

	summary := Summarize(g)
	assert.Contains(t, summary, "3 entities, 1 relationships")
	assert.Contains(t, summary, "- party: Acme Corp, Globex Ltd")
	assert.Contains(t, summary, "- date: March 1, 2026")
	assert.Contains(t, summary, "- Acme Corp --[references]--> Globex Ltd")
}

func TestSummarizeTruncatesEdgeList(t *testing.T) {
	g := &KnowledgeGraph{
		Nodes: []Node{
			{ID: "n1", Type: EntityParty, Name: "Acme Corp"},
			{ID: "n2", Type: EntityParty, Name: "Globex Ltd"},
		},
	}
	for i := 0; i < 25; i++ {
		g.Edges = append(g.Edges, Edge{Type: RelationReferences, Source: "n1", Target: "n2"})
	}

	summary := Summarize(g)
	assert.Equal(t, 20, strings.Count(summary, "--[references]-->"))
	assert.Contains(t, summary, "... and 5 more relationships")
}
