// Package mongo provides the MongoDB vector store implementation.
package mongo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dataplug/copilot-service/internal/core/vectorstore"
)

// Config holds MongoDB connection configuration.
type Config struct {
	URI        string
	Database   string
	Collection string
}

type storedDocument struct {
	ID        string                       `bson:"_id"`
	Text      string                       `bson:"text"`
	Metadata  vectorstore.DocumentMetadata `bson:"metadata"`
	Embedding []float64                    `bson:"embedding,omitempty"`
	UpdatedAt time.Time                    `bson:"updatedAt"`
}

// Store implements vectorstore.Store on MongoDB. Similarity is computed in
// process over a full scan; the collection holds one user's visit history,
// so the scan stays small.
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewStore creates a new MongoDB vector store and verifies the connection.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongodb URI is required")
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("database name is required")
	}
	collection := cfg.Collection
	if collection == "" {
		collection = "user_data"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Store{
		client:     client,
		collection: client.Database(cfg.Database).Collection(collection),
	}, nil
}

// Upsert inserts or replaces a document.
func (s *Store) Upsert(ctx context.Context, doc vectorstore.Document) error {
	stored := storedDocument{
		ID:        doc.ID,
		Text:      doc.Text,
		Metadata:  doc.Metadata,
		Embedding: doc.Embedding,
		UpdatedAt: time.Now().UTC(),
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := s.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, stored, opts); err != nil {
		return fmt.Errorf("failed to upsert document %s: %w", doc.ID, err)
	}
	return nil
}

// UpsertBatch inserts or replaces several documents.
func (s *Store) UpsertBatch(ctx context.Context, docs []vectorstore.Document) error {
	for _, doc := range docs {
		if err := s.Upsert(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}

// Search returns up to k documents ranked by similarity to the query.
func (s *Store) Search(ctx context.Context, query string, embedding []float64, k int) ([]vectorstore.Result, error) {
	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to find documents: %w", err)
	}
	defer cursor.Close(ctx)

	var stored []storedDocument
	if err := cursor.All(ctx, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode documents: %w", err)
	}

	results := make([]vectorstore.Result, 0, len(stored))
	for _, sd := range stored {
		doc := vectorstore.Document{
			ID:        sd.ID,
			Text:      sd.Text,
			Metadata:  sd.Metadata,
			Embedding: sd.Embedding,
		}
		score := vectorstore.CosineSimilarity(embedding, sd.Embedding)
		if score == 0 {
			score = vectorstore.LexicalSimilarity(query, sd.Text)
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
func (s *Store) Count(ctx context.Context) (int64, error) {
	count, err := s.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

// DeleteByCategory removes all documents in a category.
func (s *Store) DeleteByCategory(ctx context.Context, category string) (int64, error) {
	result, err := s.collection.DeleteMany(ctx, bson.M{"metadata.category": category})
	if err != nil {
		return 0, fmt.Errorf("failed to delete documents in category %s: %w", category, err)
	}
	return result.DeletedCount, nil
}

// Reset removes every document.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to reset collection: %w", err)
	}
	return nil
}

// Ping checks if the MongoDB connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongodb ping failed: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect mongodb: %w", err)
	}
	return nil
}
