package graph

import (
	"fmt"
	"strings"
)

const summaryEdgeLimit = 20

// Summarize renders the graph as a fixed-format plain-text report: counts,
// entities grouped by type, and up to the first 20 edges. The text is fed
// verbatim into the aggregation prompt in graph mode, so the formatting
// matters for answer quality but is not machine-parsed.
func Summarize(g *KnowledgeGraph) string {
	if g == nil || len(g.Nodes) == 0 {
		return "The knowledge graph contains no entities."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Knowledge graph: %d entities, %d relationships.\n", len(g.Nodes), len(g.Edges))

	b.WriteString("\nEntities by type:\n")
	var typeOrder []EntityType
	namesByType := make(map[EntityType][]string)
	for _, node := range g.Nodes {
		if _, seen := namesByType[node.Type]; !seen {
			typeOrder = append(typeOrder, node.Type)
		}
		namesByType[node.Type] = append(namesByType[node.Type], node.Name)
	}
	for _, typ := range typeOrder {
		fmt.Fprintf(&b, "- %s: %s\n", typ, strings.Join(namesByType[typ], ", "))
	}

	if len(g.Edges) > 0 {
		nameByID := make(map[string]string, len(g.Nodes))
		for _, node := range g.Nodes {
			nameByID[node.ID] = node.Name
		}

		b.WriteString("\nRelationships:\n")
		shown := len(g.Edges)
		if shown > summaryEdgeLimit {
			shown = summaryEdgeLimit
		}
		for _, edge := range g.Edges[:shown] {
			fmt.Fprintf(&b, "- %s --[%s]--> %s\n", nameByID[edge.Source], edge.Type, nameByID[edge.Target])
		}
		if len(g.Edges) > summaryEdgeLimit {
			fmt.Fprintf(&b, "... and %d more relationships\n", len(g.Edges)-summaryEdgeLimit)
		}
	}

	return b.String()
}
