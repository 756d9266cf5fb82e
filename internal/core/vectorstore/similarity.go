package vectorstore

import (
	"math"
	"strings"
)

// CosineSimilarity returns the cosine of the angle between two vectors, or 0
// when either vector is empty, zero, or the dimensions disagree.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// LexicalSimilarity scores how much of the query appears in the document
// text, using character bigram overlap so that unsegmented Japanese queries
// still match. Returns a value in [0, 1].
func LexicalSimilarity(query, text string) float64 {
	queryGrams := bigrams(strings.ToLower(query))
	if len(queryGrams) == 0 {
		return 0
	}
	textGrams := bigrams(strings.ToLower(text))
	if len(textGrams) == 0 {
		return 0
	}

	matched := 0
	for gram := range queryGrams {
		if _, ok := textGrams[gram]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(queryGrams))
}

func bigrams(s string) map[string]struct{} {
	runes := []rune(s)
	grams := make(map[string]struct{})
	if len(runes) == 1 {
		grams[string(runes)] = struct{}{}
		return grams
	}
	for i := 0; i+1 < len(runes); i++ {
		grams[string(runes[i:i+2])] = struct{}{}
	}
	return grams
}
