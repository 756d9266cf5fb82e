package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataplug/copilot-service/internal/core/vectorstore"
)

func TestUpsertAndCount(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, vectorstore.Document{ID: "a", Text: "静かなカフェ"}))
	require.NoError(t, store.Upsert(ctx, vectorstore.Document{ID: "a", Text: "静かなカフェ（改訂）"}))
	require.NoError(t, store.Upsert(ctx, vectorstore.Document{ID: "b", Text: "広い公園"}))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestSearchRanksByEmbedding(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.UpsertBatch(ctx, []vectorstore.Document{
		{ID: "close", Text: "x", Embedding: []float64{1, 0}},
		{ID: "far", Text: "y", Embedding: []float64{0, 1}},
	}))

	results, err := store.Search(ctx, "", []float64{0.9, 0.1}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "close", results[0].Document.ID)
}

func TestSearchFallsBackToLexical(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.UpsertBatch(ctx, []vectorstore.Document{
		{ID: "cafe", Text: "落ち着いたカフェでコーヒーを飲んだ"},
		{ID: "park", Text: "広い公園を散歩した"},
	}))

	results, err := store.Search(ctx, "カフェ", nil, 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "cafe", results[0].Document.ID)
}

func TestSearchCapsAtK(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	docs := []vectorstore.Document{
		{ID: "a", Text: "カフェ一号店"},
		{ID: "b", Text: "カフェ二号店"},
		{ID: "c", Text: "カフェ三号店"},
	}
	require.NoError(t, store.UpsertBatch(ctx, docs))

	results, err := store.Search(ctx, "カフェ", nil, 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestDeleteByCategoryAndReset(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.UpsertBatch(ctx, []vectorstore.Document{
		{ID: "a", Text: "x", Metadata: vectorstore.DocumentMetadata{Category: "favorite_spot"}},
		{ID: "b", Text: "y", Metadata: vectorstore.DocumentMetadata{Category: "preference"}},
	}))

	removed, err := store.DeleteByCategory(ctx, "favorite_spot")
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	require.NoError(t, store.Reset(ctx))
	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
