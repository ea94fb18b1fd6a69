// Package segment splits long text into overlapping, sentence-boundary-aware
// chunks of bounded size.
package segment

import (
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Piece is one emitted segment. Metadata carries chunk_index, start_pos and
// end_pos; offsets count runes in the whitespace-normalized text, not bytes
// in the source document.
type Piece struct {
	Content  string
	Metadata map[string]any
}

// Segmenter produces pieces of at most chunkSize runes, preferring to end
// on `.`, `!`, `?` or newline, with up to overlap runes shared between
// consecutive pieces.
type Segmenter struct {
	chunkSize int
	overlap   int
}

// New returns a segmenter with the given size and overlap. Non-positive
// size and negative overlap fall back to 1000/200.
func New(chunkSize, overlap int) *Segmenter {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 {
		overlap = 200
	}
	return &Segmenter{chunkSize: chunkSize, overlap: overlap}
}

// Segment splits text into pieces. Empty or whitespace-only input yields
// exactly one piece with empty content and empty metadata.
func (s *Segmenter) Segment(text string) []Piece {
	if strings.TrimSpace(text) == "" {
		return []Piece{{Content: "", Metadata: map[string]any{}}}
	}

	// Collapse whitespace runs before splitting so boundary search sees a
	// flat stream.
	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))

	// Window arithmetic counts runes so a hard cut never lands inside a
	// multibyte character.
	runes := []rune(text)

	var pieces []Piece
	start := 0
	index := 0

	for start < len(runes) {
		end := start + s.chunkSize

		if end < len(runes) {
			// Rightmost sentence terminator within the window; only accept
			// one strictly after start so the piece is never empty.
			if cut := lastBoundary(runes, start, end); cut > start {
				end = cut + 1
			}
		} else {
			end = len(runes)
		}

		piece := strings.TrimSpace(string(runes[start:end]))
		if piece != "" {
			pieces = append(pieces, Piece{
				Content: piece,
				Metadata: map[string]any{
					"chunk_index": index,
					"start_pos":   start,
					"end_pos":     end,
				},
			})
			index++
		}

		// Overlap with the previous piece, but always move forward even
		// when overlap >= chunkSize or the boundary search collapsed the
		// window.
		next := end - s.overlap
		if next < start+1 {
			next = start + 1
		}
		start = next
	}

	if len(pieces) == 0 {
		return []Piece{{Content: text, Metadata: map[string]any{}}}
	}
	return pieces
}

// lastBoundary returns the largest index in (start, end) holding a sentence
// terminator, or -1.
func lastBoundary(runes []rune, start, end int) int {
	for i := end - 1; i > start; i-- {
		switch runes[i] {
		case '.', '!', '?', '\n':
			return i
		}
	}
	return -1
}
