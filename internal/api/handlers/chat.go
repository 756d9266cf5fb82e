package handlers

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dataplug/copilot-service/internal/api/dto"
	"github.com/dataplug/copilot-service/internal/api/middleware"
	"github.com/dataplug/copilot-service/internal/domain/errors"
	"github.com/dataplug/copilot-service/internal/domain/models"
	"github.com/dataplug/copilot-service/internal/services/conversation"
)

// ChatHandler handles conversation endpoints.
type ChatHandler struct {
	conversations *conversation.Service
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(conversations *conversation.Service) *ChatHandler {
	return &ChatHandler{conversations: conversations}
}

// StartChat handles POST /chat/start
// @Summary Start a conversation
// @Description Creates a session (or reuses the given one) and returns the opening question
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body dto.StartChatRequest false "Session seed data"
// @Success 200 {object} dto.StartChatResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /chat/start [post]
func (h *ChatHandler) StartChat(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.StartChatRequest
	// The body is optional; an empty body starts a fresh anonymous session.
	_ = c.ShouldBindJSON(&req)

	sessionID := req.SessionID
	if sessionID == "" {
		created, err := h.conversations.CreateSession(ctx, conversation.SeedData{
			Preferences:   req.Preferences,
			FavoriteSpots: req.Favorites,
			VisitHistory:  req.History,
		})
		if err != nil {
			middleware.HandleError(c, err)
			return
		}
		sessionID = created
	}

	reply, err := h.conversations.GetWelcomeMessage(ctx, sessionID)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StartChatResponse{
		SessionID: reply.SessionID,
		Message:   reply.Message,
	})
}

// SendMessage handles POST /chat/message
// @Summary Send a message
// @Description Advances the session's dialogue by one user message
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "User message"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /chat/message [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	reply, err := h.conversations.ProcessMessage(c.Request.Context(), conversation.Request{
		Message:         req.Message,
		SessionID:       req.SessionID,
		CurrentLocation: req.CurrentLocation,
		Destination:     req.Destination,
	})
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toChatResponse(reply))
}

// GetSession handles GET /chat/session/{sessionId}
// @Summary Get session state
// @Description Returns the session's phase, turn count and resolved places
// @Tags Chat
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /chat/session/{sessionId} [get]
func (h *ChatHandler) GetSession(c *gin.Context) {
	sessionID := c.Param("sessionId")

	conv, err := h.conversations.Session(c.Request.Context(), sessionID)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SessionResponse{
		SessionID:       conv.SessionID,
		Phase:           string(conv.Phase),
		TurnCount:       conv.TurnCount,
		MessageCount:    len(conv.Messages),
		CurrentLocation: conv.CurrentLocation,
		Destination:     toPlaceResponse(conv.DestinationInfo),
		Stopover:        toPlaceResponse(conv.SelectedStopoverInfo),
	})
}

// GetSessionTTL handles GET /chat/session/{sessionId}/ttl
// @Summary Get session TTL
// @Description Returns the session's remaining lifetime in seconds
// @Tags Chat
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} dto.SessionTTLResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /chat/session/{sessionId}/ttl [get]
func (h *ChatHandler) GetSessionTTL(c *gin.Context) {
	sessionID := c.Param("sessionId")

	ttl, err := h.conversations.SessionTTL(c.Request.Context(), sessionID)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SessionTTLResponse{
		SessionID:  sessionID,
		TTLSeconds: int(ttl.Seconds()),
	})
}

// ExtendSession handles POST /chat/session/{sessionId}/extend
// @Summary Extend a session
// @Description Resets the session's expiry window
// @Tags Chat
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} dto.SessionTTLResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /chat/session/{sessionId}/extend [post]
func (h *ChatHandler) ExtendSession(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.Param("sessionId")

	if err := h.conversations.ExtendSession(ctx, sessionID); err != nil {
		middleware.HandleError(c, err)
		return
	}

	ttl, err := h.conversations.SessionTTL(ctx, sessionID)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SessionTTLResponse{
		SessionID:  sessionID,
		TTLSeconds: int(ttl.Seconds()),
	})
}

// DeleteSession handles DELETE /chat/session/{sessionId}
// @Summary Delete a session
// @Description Erases the session's conversation state
// @Tags Chat
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} dto.DeleteSessionResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /chat/session/{sessionId} [delete]
func (h *ChatHandler) DeleteSession(c *gin.Context) {
	sessionID := c.Param("sessionId")

	deleted, err := h.conversations.DeleteSession(c.Request.Context(), sessionID)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DeleteSessionResponse{
		SessionID: sessionID,
		Deleted:   deleted,
	})
}

// CacheStats handles GET /chat/cache/stats
// @Summary Session cache statistics
// @Description Returns a diagnostic snapshot of the session store
// @Tags Chat
// @Produce json
// @Success 200 {object} sessionstore.Stats
// @Failure 500 {object} dto.ErrorResponse
// @Router /chat/cache/stats [get]
func (h *ChatHandler) CacheStats(c *gin.Context) {
	stats, err := h.conversations.CacheStats(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// CleanupCache handles POST /chat/cache/cleanup
// @Summary Remove expired sessions
// @Description Eagerly sweeps expired sessions from the store
// @Tags Chat
// @Produce json
// @Success 200 {object} dto.CleanupResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /chat/cache/cleanup [post]
func (h *ChatHandler) CleanupCache(c *gin.Context) {
	removed, err := h.conversations.CleanupExpiredSessions(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CleanupResponse{Removed: removed})
}

func toChatResponse(reply *conversation.Reply) dto.ChatResponse {
	resp := dto.ChatResponse{
		Message:         reply.Message,
		SessionID:       reply.SessionID,
		TurnCount:       reply.TurnCount,
		IsComplete:      reply.IsComplete,
		Suggestions:     reply.Suggestions,
		SuggestionIndex: reply.SuggestionIndex,
		SuggestionTotal: reply.SuggestionTotal,
		Destination:     toPlaceResponse(reply.Destination),
		Stopover:        toPlaceResponse(reply.Stopover),
		HasAudio:        reply.HasAudio,
	}
	if reply.HasAudio {
		resp.AudioData = base64.StdEncoding.EncodeToString(reply.AudioData)
	}
	return resp
}

func toPlaceResponse(place *models.PlaceInfo) *dto.PlaceResponse {
	if place == nil {
		return nil
	}
	return &dto.PlaceResponse{
		Name:      place.Name,
		Latitude:  place.Latitude,
		Longitude: place.Longitude,
	}
}
