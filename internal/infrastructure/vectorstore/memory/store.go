// Package memory provides the in-process vector store implementation.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/dataplug/copilot-service/internal/core/vectorstore"
)

// Store implements vectorstore.Store with an in-process map. It backs demo
// runs and tests; mongo is the persistent backend.
type Store struct {
	mu   sync.RWMutex
	docs map[string]vectorstore.Document
}

// NewStore creates a new in-process vector store.
func NewStore() *Store {
	return &Store{docs: make(map[string]vectorstore.Document)}
}

// Upsert inserts or replaces a document.
func (s *Store) Upsert(_ context.Context, doc vectorstore.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = doc
	return nil
}

// UpsertBatch inserts or replaces several documents.
func (s *Store) UpsertBatch(_ context.Context, docs []vectorstore.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range docs {
		s.docs[doc.ID] = doc
	}
	return nil
}

// Search returns up to k documents ranked by similarity to the query.
func (s *Store) Search(_ context.Context, query string, embedding []float64, k int) ([]vectorstore.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]vectorstore.Result, 0, len(s.docs))
	for _, doc := range s.docs {
		score := vectorstore.CosineSimilarity(embedding, doc.Embedding)
		if score == 0 {
			score = vectorstore.LexicalSimilarity(query, doc.Text)
		}
		if score <= 0 {
			continue
		}
		results = append(results, vectorstore.Result{Document: doc, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Count returns the number of stored documents.
func (s *Store) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.docs)), nil
}

// DeleteByCategory removes all documents in a category.
func (s *Store) DeleteByCategory(_ context.Context, category string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for id, doc := range s.docs {
		if doc.Metadata.Category == category {
			delete(s.docs, id)
			removed++
		}
	}
	return removed, nil
}

// Reset removes every document.
func (s *Store) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = make(map[string]vectorstore.Document)
	return nil
}

// Ping always succeeds for the in-process store.
func (s *Store) Ping(_ context.Context) error {
	return nil
}

// Close discards all documents.
func (s *Store) Close(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = make(map[string]vectorstore.Document)
	return nil
}
