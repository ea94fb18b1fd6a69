package query

import (
	"sort"
	"strings"

	"omniquery/internal/models"
)

// Rank scores every chunk against the query by keyword overlap and returns
// at most limit chunks, best first.
//
// The score of a chunk is the number of distinct query words that occur as
// substrings anywhere in its canonical text (case-insensitive). Duplicate
// query words count once. Zero-score chunks are dropped; ties keep the
// input enumeration order. An empty query matches nothing.
func Rank(queryText string, chunks []models.StoredChunk, limit int) []models.StoredChunk {
	words := queryWords(queryText)
	if len(words) == 0 || len(chunks) == 0 || limit <= 0 {
		return nil
	}

	type scored struct {
		chunk models.StoredChunk
		score int
	}

	matched := make([]scored, 0, len(chunks))
	for _, ch := range chunks {
		text := strings.ToLower(models.CanonicalText(ch.Content))
		score := 0
		for _, w := range words {
			if strings.Contains(text, w) {
				score++
			}
		}
		if score > 0 {
			matched = append(matched, scored{chunk: ch, score: score})
		}
	}

	// Stable: equal scores preserve enumeration order.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].score > matched[j].score
	})

	if limit > len(matched) {
		limit = len(matched)
	}
	out := make([]models.StoredChunk, 0, limit)
	for _, m := range matched[:limit] {
		out = append(out, m.chunk)
	}
	return out
}

// queryWords lower-cases the query and splits it into the set of distinct
// words, preserving first-occurrence order.
func queryWords(queryText string) []string {
	fields := strings.Fields(strings.ToLower(queryText))
	seen := make(map[string]struct{}, len(fields))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		words = append(words, f)
	}
	return words
}
