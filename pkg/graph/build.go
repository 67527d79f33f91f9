package graph

import (
	"fmt"
)

// nodeIndex resolves entity names to merged nodes. Insertion order of names
// is kept explicitly so the fuzzy fallback scans deterministically.
type nodeIndex struct {
	byName    map[string]*Node
	nameOrder []string
}

func newNodeIndex(nodes []Node) *nodeIndex {
	idx := &nodeIndex{
		byName: make(map[string]*Node, len(nodes)),
	}
	for i := range nodes {
		key := NormalizeName(nodes[i].Name)
		if _, exists := idx.byName[key]; exists {
			continue
		}
		idx.byName[key] = &nodes[i]
		idx.nameOrder = append(idx.nameOrder, key)
	}
	return idx
}

// resolve looks a name up exactly first, then falls back to a fuzzy scan in
// insertion order, taking the FIRST name above the threshold rather than the
// best one. Greedy first-match is deliberate; changing it to best-match would
// silently re-route edges between similarly-named nodes.
func (idx *nodeIndex) resolve(name string, threshold float64) *Node {
	key := NormalizeName(name)
	if node, ok := idx.byName[key]; ok {
		return node
	}
	for _, candidate := range idx.nameOrder {
		if Similarity(key, candidate) >= threshold {
			return idx.byName[candidate]
		}
	}
	return nil
}

// BuildGraph merges all chunk extractions into a deduplicated knowledge
// graph. Entities merge per MergeEntities; relationships become edges once
// both endpoint names resolve to a node. A relationship whose
// (type, source, target) triple matches an existing edge is dropped entirely,
// keeping the first-seen edge's confidence and properties.
func BuildGraph(extractions []ChunkExtraction, documentCount int, extractionModel string) *KnowledgeGraph {
	nodes := MergeEntities(extractions, DefaultMergeThreshold)
	idx := newNodeIndex(nodes)

	var edges []Edge
	edgeSeen := make(map[string]struct{})

	for _, ce := range extractions {
		for _, rel := range ce.Extraction.Relationships {
			source := idx.resolve(rel.SourceName, DefaultMergeThreshold)
			target := idx.resolve(rel.TargetName, DefaultMergeThreshold)
			if source == nil || target == nil {
				continue
			}

			tripleKey := fmt.Sprintf("%s|%s|%s", rel.Type, source.ID, target.ID)
			if _, dup := edgeSeen[tripleKey]; dup {
				continue
			}
			edgeSeen[tripleKey] = struct{}{}

			edges = append(edges, Edge{
				ID:          fmt.Sprintf("e%d", len(edges)+1),
				Type:        rel.Type,
				Source:      source.ID,
				Target:      target.ID,
				Properties:  rel.Properties,
				SourceChunk: ce.ChunkID,
				Confidence:  rel.Confidence,
			})
		}
	}

	return &KnowledgeGraph{
		Nodes: nodes,
		Edges: edges,
		Metadata: Metadata{
			DocumentCount:   documentCount,
			ChunkCount:      len(extractions),
			ExtractionModel: extractionModel,
		},
	}
}
