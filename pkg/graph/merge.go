package graph

import (
	"fmt"
	"strings"
)

// DefaultMergeThreshold is the similarity above which two entity names of the
// same type are considered the same entity.
const DefaultMergeThreshold = 0.7

// NormalizeName canonicalizes an entity name for comparison: lower-case,
// trimmed, internal whitespace runs collapsed to a single space.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Similarity scores two entity names in [0,1]: 1.0 for equal normalized
// names, 0.8 when one contains the other, otherwise the Jaccard similarity
// of their word sets.
func Similarity(a, b string) float64 {
	na := NormalizeName(a)
	nb := NormalizeName(b)

	if na == nb {
		return 1.0
	}
	if na != "" && nb != "" && (strings.Contains(na, nb) || strings.Contains(nb, na)) {
		return 0.8
	}

	wordsA := strings.Fields(na)
	wordsB := strings.Fields(nb)

	setA := make(map[string]struct{}, len(wordsA))
	for _, w := range wordsA {
		setA[w] = struct{}{}
	}
	setB := make(map[string]struct{}, len(wordsB))
	for _, w := range wordsB {
		setB[w] = struct{}{}
	}

	intersection := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}

type entityInstance struct {
	entity  Entity
	chunkID string
}

// mergedEntity accumulates instances before final node IDs are assigned.
type mergedEntity struct {
	typ          EntityType
	name         string
	properties   map[string]any
	sourceChunks []string
	confidence   float64
}

func (m *mergedEntity) absorb(inst entityInstance) {
	seen := false
	for _, existing := range m.sourceChunks {
		if existing == inst.chunkID {
			seen = true
			break
		}
	}
	if !seen {
		m.sourceChunks = append(m.sourceChunks, inst.chunkID)
	}

	if inst.entity.Confidence > m.confidence {
		m.confidence = inst.entity.Confidence
	}
	for k, v := range inst.entity.Properties {
		if m.properties == nil {
			m.properties = make(map[string]any)
		}
		m.properties[k] = v
	}
}

// MergeEntities collapses raw per-chunk entity instances into deduplicated
// nodes. Type is a hard partition key: instances of different types never
// merge, even with identical names. Within a type, each instance merges into
// the first already-merged entry whose name similarity meets the threshold,
// or starts a new entry. Node IDs (n1, n2, ...) are assigned in type-partition
// order, then discovery order within the partition.
func MergeEntities(extractions []ChunkExtraction, threshold float64) []Node {
	if threshold <= 0 {
		threshold = DefaultMergeThreshold
	}

	var instances []entityInstance
	for _, ce := range extractions {
		for _, e := range ce.Extraction.Entities {
			instances = append(instances, entityInstance{entity: e, chunkID: ce.ChunkID})
		}
	}

	var typeOrder []EntityType
	byType := make(map[EntityType][]entityInstance)
	for _, inst := range instances {
		if _, seen := byType[inst.entity.Type]; !seen {
			typeOrder = append(typeOrder, inst.entity.Type)
		}
		byType[inst.entity.Type] = append(byType[inst.entity.Type], inst)
	}

	var merged []*mergedEntity
	for _, typ := range typeOrder {
		for _, inst := range byType[typ] {
			var match *mergedEntity
			for _, m := range merged {
				if m.typ != typ {
					continue
				}
				if Similarity(inst.entity.Name, m.name) >= threshold {
					match = m
					break
				}
			}
			if match == nil {
				match = &mergedEntity{
					typ:  typ,
					name: inst.entity.Name,
				}
				merged = append(merged, match)
			}
			match.absorb(inst)
		}
	}

	nodes := make([]Node, 0, len(merged))
	for i, m := range merged {
		nodes = append(nodes, Node{
			ID:           fmt.Sprintf("n%d", i+1),
			Type:         m.typ,
			Name:         m.name,
			Properties:   m.properties,
			SourceChunks: m.sourceChunks,
			Confidence:   m.confidence,
		})
	}

	return nodes
}
