package services

import (
	"sort"
	"strings"
)

// minKept floors the reranked result count, mirroring the vector store's
// own result floor.
const minKept = 3

// containsBonus is added to a document's score for each satisfied
// substring constraint.
const containsBonus = 1.0

// scoredDoc holds one document with its combined relevance score.
type scoredDoc struct {
	text  string
	score float64
}

// Rerank reorders retrieved documents by combined score: the negated
// similarity distance (closer is higher) plus a bonus per satisfied
// case-insensitive substring constraint. The sort is stable, so ties keep
// their encounter order. The result is truncated to max(3, topK).
//
// When scoring produces nothing but raw documents exist, the first
// max(3, topK) raw documents are returned unscored - retrieval never
// discards results just because reranking found nothing to prefer.
func Rerank(docs []string, distances []float64, contains []string, topK int) []string {
	keep := topK
	if keep < minKept {
		keep = minKept
	}

	scored := make([]scoredDoc, 0, len(docs))
	for i, doc := range docs {
		var dist float64
		if i < len(distances) {
			dist = distances[i]
		}
		score := -dist
		lower := strings.ToLower(doc)
		for _, c := range contains {
			if c == "" {
				continue
			}
			if strings.Contains(lower, strings.ToLower(c)) {
				score += containsBonus
			}
		}
		scored = append(scored, scoredDoc{text: doc, score: score})
	}

	if len(scored) == 0 {
		if len(docs) > keep {
			return docs[:keep]
		}
		return docs
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if len(scored) > keep {
		scored = scored[:keep]
	}
	out := make([]string, len(scored))
	for i, s := range scored {
		out[i] = s.text
	}
	return out
}
