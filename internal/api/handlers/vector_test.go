package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataplug/copilot-service/internal/api/dto"
	memoryvector "github.com/dataplug/copilot-service/internal/infrastructure/vectorstore/memory"
	"github.com/dataplug/copilot-service/internal/services/embedding"
	"github.com/dataplug/copilot-service/internal/services/retrieval"
)

func setupVectorRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	retriever := retrieval.NewService(memoryvector.NewStore(), embedding.NewClient(embedding.Config{}))
	handler := NewVectorHandler(retriever)

	r := gin.New()
	r.POST("/vector/documents", handler.AddDocument)
	r.DELETE("/vector/documents/:category", handler.DeleteByCategory)
	r.POST("/vector/initialize", handler.Initialize)
	r.GET("/vector/stats", handler.Stats)
	r.POST("/vector/search", handler.Search)
	return r
}

func TestVectorInitializeAndStats(t *testing.T) {
	r := setupVectorRouter(t)

	w := postJSON(t, r, "/vector/initialize", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var init dto.InitializeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &init))
	assert.Greater(t, init.Indexed, 0)

	req := httptest.NewRequest(http.MethodGet, "/vector/stats", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var stats dto.VectorStatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.EqualValues(t, init.Indexed, stats.DocumentCount)
}

func TestVectorAddAndSearch(t *testing.T) {
	r := setupVectorRouter(t)

	w := postJSON(t, r, "/vector/documents", dto.AddDocumentRequest{
		Text:      "静かで落ち着いたカフェ。豆の種類が豊富。",
		PlaceName: "テストカフェ",
		Category:  "favorite_spot",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/vector/search", dto.SearchRequest{Query: "カフェ"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Results)
	assert.Equal(t, "テストカフェ", resp.Results[0].PlaceName)
}

func TestVectorSearchRejectsEmptyQuery(t *testing.T) {
	r := setupVectorRouter(t)

	w := postJSON(t, r, "/vector/search", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVectorDeleteByCategory(t *testing.T) {
	r := setupVectorRouter(t)

	w := postJSON(t, r, "/vector/initialize", nil)
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodDelete, "/vector/documents/favorite_spot", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.DeleteDocumentsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "favorite_spot", resp.Category)
	assert.Greater(t, resp.Removed, int64(0))
}
