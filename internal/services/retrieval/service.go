// Package retrieval provides similarity search over the user's visit records.
package retrieval

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dataplug/copilot-service/internal/core/vectorstore"
	"github.com/dataplug/copilot-service/internal/domain/models"
	"github.com/dataplug/copilot-service/internal/services/embedding"
)

// Result is one retrieval hit, best matches first.
type Result struct {
	ID       string                       `json:"id"`
	Document string                       `json:"document"`
	Metadata vectorstore.DocumentMetadata `json:"metadata"`
	Score    float64                      `json:"score"`
}

// Searcher is the narrow retrieval contract the conversation layer consumes.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]Result, error)
}

// Service composes the embedding client with the vector store.
type Service struct {
	store    vectorstore.Store
	embedder embedding.Client
}

// NewService creates a new retrieval service.
func NewService(store vectorstore.Store, embedder embedding.Client) *Service {
	return &Service{store: store, embedder: embedder}
}

// Search returns up to k records similar to the query, best matches first.
// When embedding is unavailable the store falls back to lexical similarity.
func (s *Service) Search(ctx context.Context, query string, k int) ([]Result, error) {
	var queryEmbedding []float64
	if s.embedder.IsConfigured() {
		vector, err := s.embedder.Embed(ctx, query)
		if err != nil {
			log.Warn().Err(err).Msg("query embedding failed, using lexical search")
		} else {
			queryEmbedding = vector
		}
	}

	hits, err := s.store.Search(ctx, query, queryEmbedding, k)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		results = append(results, Result{
			ID:       hit.Document.ID,
			Document: hit.Document.Text,
			Metadata: hit.Document.Metadata,
			Score:    hit.Score,
		})
	}
	return results, nil
}

// AddDocument embeds and stores one record.
func (s *Service) AddDocument(ctx context.Context, id, text string, metadata vectorstore.DocumentMetadata) error {
	doc := vectorstore.Document{ID: id, Text: text, Metadata: metadata}
	if s.embedder.IsConfigured() {
		vector, err := s.embedder.Embed(ctx, text)
		if err != nil {
			log.Warn().Err(err).Str("id", id).Msg("document embedding failed, storing without vector")
		} else {
			doc.Embedding = vector
		}
	}
	return s.store.Upsert(ctx, doc)
}

// InitializeUserData seeds the store with the bundled sample corpus and
// returns the number of records stored.
func (s *Service) InitializeUserData(ctx context.Context) (int, error) {
	docs := SampleDocuments()

	if s.embedder.IsConfigured() {
		texts := make([]string, len(docs))
		for i, doc := range docs {
			texts[i] = doc.Text
		}
		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			log.Warn().Err(err).Msg("sample data embedding failed, storing without vectors")
		} else {
			for i := range docs {
				docs[i].Embedding = vectors[i]
			}
		}
	}

	if err := s.store.UpsertBatch(ctx, docs); err != nil {
		return 0, fmt.Errorf("failed to seed sample data: %w", err)
	}
	return len(docs), nil
}

// Count returns the number of stored records.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}

// DeleteByCategory removes all records in a category.
func (s *Service) DeleteByCategory(ctx context.Context, category string) (int64, error) {
	return s.store.DeleteByCategory(ctx, category)
}

// Candidates converts retrieval results into stopover candidates, keeping at
// most models.MaxSuggestions.
func Candidates(results []Result) []models.SuggestionCandidate {
	candidates := make([]models.SuggestionCandidate, 0, models.MaxSuggestions)
	for _, result := range results {
		name := result.Metadata.PlaceName
		if name == "" {
			name = result.Document
		}
		candidates = append(candidates, models.SuggestionCandidate{
			PlaceName:  name,
			Address:    result.Metadata.Address,
			Impression: result.Metadata.Impression,
		})
		if len(candidates) == models.MaxSuggestions {
			break
		}
	}
	return candidates
}
