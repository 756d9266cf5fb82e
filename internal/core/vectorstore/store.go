// Package vectorstore defines the vector document store interface and factory.
package vectorstore

import "context"

// DocumentMetadata is the known shape of a stored visit record. A raw map
// only exists at the API boundary; internally every record carries this.
type DocumentMetadata struct {
	PlaceName  string   `json:"placeName,omitempty" bson:"placeName,omitempty"`
	Address    string   `json:"address,omitempty" bson:"address,omitempty"`
	Impression string   `json:"impression,omitempty" bson:"impression,omitempty"`
	Category   string   `json:"category,omitempty" bson:"category,omitempty"`
	Tags       []string `json:"tags,omitempty" bson:"tags,omitempty"`
	Rating     float64  `json:"rating,omitempty" bson:"rating,omitempty"`
}

// Document is one embedded visit record.
type Document struct {
	ID        string           `json:"id" bson:"_id"`
	Text      string           `json:"text" bson:"text"`
	Metadata  DocumentMetadata `json:"metadata" bson:"metadata"`
	Embedding []float64        `json:"-" bson:"embedding,omitempty"`
}

// Result is one search hit, best matches first.
type Result struct {
	Document Document `json:"document"`
	Score    float64  `json:"score"`
}

// Store defines the interface for vector document storage and search.
//
// The collection holds one user's visit history, so backends may answer
// Search with a full scan.
type Store interface {
	// Upsert inserts or replaces a document.
	Upsert(ctx context.Context, doc Document) error

	// UpsertBatch inserts or replaces several documents.
	UpsertBatch(ctx context.Context, docs []Document) error

	// Search returns up to k documents ranked by similarity to the query.
	// When the query embedding is empty, or stored documents carry none,
	// backends fall back to lexical similarity against the query text.
	Search(ctx context.Context, query string, embedding []float64, k int) ([]Result, error)

	// Count returns the number of stored documents.
	Count(ctx context.Context) (int64, error)

	// DeleteByCategory removes all documents in a category and returns the
	// number removed.
	DeleteByCategory(ctx context.Context, category string) (int64, error)

	// Reset removes every document.
	Reset(ctx context.Context) error

	// Ping checks whether the store is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close(ctx context.Context) error
}

// Type represents the type of vector store backend.
type Type string

const (
	// TypeMemory represents the in-process vector store.
	TypeMemory Type = "memory"
	// TypeMongo represents a MongoDB-backed vector store.
	TypeMongo Type = "mongodb"
)
