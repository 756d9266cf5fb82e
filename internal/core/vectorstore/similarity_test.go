package vectorstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float64{1, 0}, []float64{1, 0}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, CosineSimilarity([]float64{1, 0}, []float64{-1, 0}), 1e-9)

	// Degenerate inputs score zero instead of erroring.
	assert.Zero(t, CosineSimilarity(nil, []float64{1}))
	assert.Zero(t, CosineSimilarity([]float64{1, 2}, []float64{1}))
	assert.Zero(t, CosineSimilarity([]float64{0, 0}, []float64{1, 1}))
}

func TestLexicalSimilarity(t *testing.T) {
	// Identical text scores 1.
	assert.InDelta(t, 1.0, LexicalSimilarity("カフェ", "カフェ"), 1e-9)

	// Bigram overlap matches unsegmented Japanese substrings.
	assert.Greater(t, LexicalSimilarity("カフェ", "静かなカフェでコーヒーを飲んだ"), 0.0)
	assert.Zero(t, LexicalSimilarity("公園", "美術館の展示が良かった"))

	// Case-insensitive for latin text.
	assert.InDelta(t, 1.0, LexicalSimilarity("Blue", "blue bottle coffee"), 1e-9)

	assert.Zero(t, LexicalSimilarity("", "text"))
	assert.Zero(t, LexicalSimilarity("query", ""))
}

func TestLexicalSimilaritySingleRune(t *testing.T) {
	assert.InDelta(t, 1.0, LexicalSimilarity("茶", "茶"), 1e-9)
}
