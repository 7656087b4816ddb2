package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRerank_OrdersByDistance(t *testing.T) {
	docs := []string{"near", "far", "middle"}
	distances := []float64{0.1, 0.5, 0.2}

	ranked := Rerank(docs, distances, nil, 5)

	assert.Equal(t, []string{"near", "middle", "far"}, ranked)
}

func TestRerank_ConstraintBonusOverridesDistance(t *testing.T) {
	// "far" carries the constraint: score -0.9+1.0 = 0.1 beats -0.1.
	docs := []string{"plain text", "mentions Amount column"}
	distances := []float64{0.1, 0.9}

	ranked := Rerank(docs, distances, []string{"amount"}, 5)

	assert.Equal(t, []string{"mentions Amount column", "plain text"}, ranked)
}

func TestRerank_ContainsIsCaseInsensitive(t *testing.T) {
	docs := []string{"no match here", "HAS REGNUMBER FIELD"}
	distances := []float64{0.0, 0.0}

	ranked := Rerank(docs, distances, []string{"RegNumber"}, 5)

	assert.Equal(t, "HAS REGNUMBER FIELD", ranked[0])
}

func TestRerank_MultipleConstraintsStack(t *testing.T) {
	docs := []string{"has amount", "has amount and state"}
	distances := []float64{0.0, 0.0}

	ranked := Rerank(docs, distances, []string{"amount", "state"}, 5)

	assert.Equal(t, "has amount and state", ranked[0])
}

func TestRerank_TruncatesToTopK(t *testing.T) {
	docs := []string{"a", "b", "c", "d", "e", "f"}
	distances := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}

	ranked := Rerank(docs, distances, nil, 4)

	assert.Equal(t, []string{"a", "b", "c", "d"}, ranked)
}

func TestRerank_KeepsAtLeastThree(t *testing.T) {
	docs := []string{"a", "b", "c", "d"}
	distances := []float64{0.1, 0.2, 0.3, 0.4}

	ranked := Rerank(docs, distances, nil, 1)

	assert.Len(t, ranked, 3)
}

func TestRerank_StableForEqualScores(t *testing.T) {
	docs := []string{"first", "second", "third"}
	distances := []float64{0.5, 0.5, 0.5}

	ranked := Rerank(docs, distances, nil, 3)

	assert.Equal(t, docs, ranked)
}

func TestRerank_ShortDistancesFallBackToRawOrder(t *testing.T) {
	docs := []string{"a", "b", "c", "d"}

	ranked := Rerank(docs, nil, nil, 2)

	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"a", "b", "c"}, ranked)
}

func TestRerank_EmptyInput(t *testing.T) {
	assert.Empty(t, Rerank(nil, nil, nil, 5))
}
