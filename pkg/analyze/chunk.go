package analyze

import (
	"fmt"
	"regexp"
	"strings"
)

// DocumentInput is one raw document supplied by the caller. An empty ID is
// replaced with a positional default on entry.
type DocumentInput struct {
	ID   string `json:"id"`
	Text string `json:"text" validate:"required"`
}

// Chunk is a bounded, citable slice of one source document. The ID is the
// unit of citation throughout the system and is deterministic for a given
// (documents, chunkSize) input. Start and End are character offsets into the
// document's paragraph-joined text.
type Chunk struct {
	ID       string `json:"id"`
	DocID    string `json:"docId"`
	Index    int    `json:"index"`
	Text     string `json:"text"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	DocIndex int    `json:"docIndex"`
}

var paragraphSplit = regexp.MustCompile(`\n\s*\n`)

// BuildChunks splits documents into paragraph-aligned chunks of at most
// chunkSize characters. Paragraphs accumulate into a buffer joined by a
// double newline; the buffer is flushed before a paragraph that would
// overflow it, and immediately after reaching the limit. A single paragraph
// longer than chunkSize is emitted whole, oversized. Offsets count the
// paragraph-joined text, each paragraph consuming len(paragraph)+2 for the
// synthetic separator, so consecutive chunks of one document are contiguous.
func BuildChunks(documents []DocumentInput, chunkSize int) []Chunk {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}

	var chunks []Chunk
	for docIndex, doc := range documents {
		docID := doc.ID
		if docID == "" {
			docID = fmt.Sprintf("doc-%d", docIndex)
		}

		var paragraphs []string
		for _, p := range paragraphSplit.Split(doc.Text, -1) {
			p = strings.TrimSpace(p)
			if p != "" {
				paragraphs = append(paragraphs, p)
			}
		}

		var (
			buffer     strings.Builder
			chunkIndex int
			offset     int
			start      int
		)

		flush := func() {
			if buffer.Len() == 0 {
				return
			}
			chunks = append(chunks, Chunk{
				ID:       fmt.Sprintf("doc-%d-chunk-%d", docIndex, chunkIndex),
				DocID:    docID,
				Index:    chunkIndex,
				Text:     buffer.String(),
				Start:    start,
				End:      offset,
				DocIndex: docIndex,
			})
			chunkIndex++
			buffer.Reset()
			start = offset
		}

		for _, paragraph := range paragraphs {
			if buffer.Len() > 0 && buffer.Len()+2+len(paragraph) > chunkSize {
				flush()
			}
			if buffer.Len() > 0 {
				buffer.WriteString("\n\n")
			}
			buffer.WriteString(paragraph)
			offset += len(paragraph) + 2

			if buffer.Len() >= chunkSize {
				flush()
			}
		}
		flush()
	}

	return chunks
}
