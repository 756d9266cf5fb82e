package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dataplug/copilot-service/internal/api/dto"
	"github.com/dataplug/copilot-service/internal/api/middleware"
	"github.com/dataplug/copilot-service/internal/core/vectorstore"
	"github.com/dataplug/copilot-service/internal/domain/errors"
	"github.com/dataplug/copilot-service/internal/services/retrieval"
)

// defaultSearchLimit bounds a search when the caller gives no limit.
const defaultSearchLimit = 5

// VectorHandler handles vector index endpoints.
type VectorHandler struct {
	retriever *retrieval.Service
}

// NewVectorHandler creates a new VectorHandler.
func NewVectorHandler(retriever *retrieval.Service) *VectorHandler {
	return &VectorHandler{retriever: retriever}
}

// AddDocument handles POST /vector/documents
// @Summary Index a visit record
// @Description Adds one record to the similarity index
// @Tags Vector
// @Accept json
// @Produce json
// @Param request body dto.AddDocumentRequest true "Record to index"
// @Success 201 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /vector/documents [post]
func (h *VectorHandler) AddDocument(c *gin.Context) {
	var req dto.AddDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	id := req.ID
	if id == "" {
		id = uuid.New().String()
	}

	err := h.retriever.AddDocument(c.Request.Context(), id, req.Text, vectorstore.DocumentMetadata{
		PlaceName:  req.PlaceName,
		Address:    req.Address,
		Impression: req.Impression,
		Category:   req.Category,
		Tags:       req.Tags,
		Rating:     req.Rating,
	})
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to index document", err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// Initialize handles POST /vector/initialize
// @Summary Seed the similarity index
// @Description Loads the bundled sample visit records into the index
// @Tags Vector
// @Produce json
// @Success 200 {object} dto.InitializeResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /vector/initialize [post]
func (h *VectorHandler) Initialize(c *gin.Context) {
	indexed, err := h.retriever.InitializeUserData(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to initialize index", err))
		return
	}
	c.JSON(http.StatusOK, dto.InitializeResponse{Indexed: indexed})
}

// Stats handles GET /vector/stats
// @Summary Vector index statistics
// @Description Returns the number of indexed records
// @Tags Vector
// @Produce json
// @Success 200 {object} dto.VectorStatsResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /vector/stats [get]
func (h *VectorHandler) Stats(c *gin.Context) {
	count, err := h.retriever.Count(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to count documents", err))
		return
	}
	c.JSON(http.StatusOK, dto.VectorStatsResponse{DocumentCount: count})
}

// Search handles POST /vector/search
// @Summary Similarity search
// @Description Returns records similar to the query, best matches first
// @Tags Vector
// @Accept json
// @Produce json
// @Param request body dto.SearchRequest true "Search query"
// @Success 200 {object} dto.SearchResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /vector/search [post]
func (h *VectorHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	limit := req.Limit
	if limit == 0 {
		limit = defaultSearchLimit
	}

	results, err := h.retriever.Search(c.Request.Context(), req.Query, limit)
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("search failed", err))
		return
	}

	out := make([]dto.SearchResultResponse, 0, len(results))
	for _, r := range results {
		out = append(out, dto.SearchResultResponse{
			ID:         r.ID,
			Document:   r.Document,
			PlaceName:  r.Metadata.PlaceName,
			Address:    r.Metadata.Address,
			Impression: r.Metadata.Impression,
			Category:   r.Metadata.Category,
			Score:      r.Score,
		})
	}

	c.JSON(http.StatusOK, dto.SearchResponse{Results: out, Total: len(out)})
}

// DeleteByCategory handles DELETE /vector/documents/{category}
// @Summary Delete records by category
// @Description Removes all indexed records in the given category
// @Tags Vector
// @Produce json
// @Param category path string true "Record category"
// @Success 200 {object} dto.DeleteDocumentsResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /vector/documents/{category} [delete]
func (h *VectorHandler) DeleteByCategory(c *gin.Context) {
	category := c.Param("category")

	removed, err := h.retriever.DeleteByCategory(c.Request.Context(), category)
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to delete documents", err))
		return
	}

	c.JSON(http.StatusOK, dto.DeleteDocumentsResponse{Category: category, Removed: removed})
}
