package analyze

import (
	"sort"
	"strings"
	"unicode"
)

func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return fields
}

// RankChunks orders chunks by raw term-frequency overlap with the query:
// a chunk's score is the total occurrence count of every query token in its
// text. Zero-scoring chunks are excluded, ties keep original order, and the
// result is capped at topK. An empty query ranks nothing.
func RankChunks(chunks []Chunk, query string, topK int) []Chunk {
	if topK <= 0 {
		topK = defaultTopK
	}

	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return nil
	}

	type scored struct {
		chunk Chunk
		score int
	}

	var candidates []scored
	for _, chunk := range chunks {
		counts := make(map[string]int)
		for _, token := range tokenize(chunk.Text) {
			counts[token]++
		}

		score := 0
		for _, token := range queryTokens {
			score += counts[token]
		}
		if score > 0 {
			candidates = append(candidates, scored{chunk: chunk, score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	ranked := make([]Chunk, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, c.chunk)
	}
	return ranked
}
