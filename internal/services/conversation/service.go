// Package conversation implements the dialogue engine and its orchestrator,
// the operation surface consumed by the HTTP and websocket transports.
package conversation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dataplug/copilot-service/internal/core/sessionstore"
	"github.com/dataplug/copilot-service/internal/domain/errors"
	"github.com/dataplug/copilot-service/internal/domain/models"
	"github.com/dataplug/copilot-service/internal/services/geocoding"
	"github.com/dataplug/copilot-service/internal/services/llm"
	"github.com/dataplug/copilot-service/internal/services/retrieval"
	"github.com/dataplug/copilot-service/internal/services/speech"
)

// Request is one user message bound for a session.
type Request struct {
	Message         string
	SessionID       string
	CurrentLocation string
	Destination     string
}

// Reply is the structured outcome of one dialogue turn.
type Reply struct {
	Message         string            `json:"message"`
	SessionID       string            `json:"sessionId"`
	TurnCount       int               `json:"turnCount"`
	IsComplete      bool              `json:"isComplete"`
	Suggestions     []string          `json:"suggestions,omitempty"`
	SuggestionIndex *int              `json:"suggestionIndex,omitempty"`
	SuggestionTotal *int              `json:"suggestionTotal,omitempty"`
	Destination     *models.PlaceInfo `json:"destination,omitempty"`
	Stopover        *models.PlaceInfo `json:"stopover,omitempty"`
	AudioData       []byte            `json:"audioData,omitempty"`
	HasAudio        bool              `json:"hasAudio"`
}

// SeedData is optional per-user data supplied at session creation.
type SeedData struct {
	Preferences   map[string]string
	FavoriteSpots []map[string]string
	VisitHistory  []map[string]string
}

// Service orchestrates one dialogue turn: session resolution, history
// bookkeeping, the phase engine, geocoding and speech synthesis.
type Service struct {
	store    sessionstore.Store
	engine   *Engine
	llm      llm.Service
	synth    speech.Synthesizer
	geocoder geocoding.Resolver
}

// NewService wires the orchestrator with its collaborators.
func NewService(store sessionstore.Store, llmService llm.Service, retriever retrieval.Searcher, synth speech.Synthesizer, geocoder geocoding.Resolver) *Service {
	return &Service{
		store:    store,
		engine:   NewEngine(llmService, retriever),
		llm:      llmService,
		synth:    synth,
		geocoder: geocoder,
	}
}

// CreateSession allocates a session in the initial phase and stores it.
func (s *Service) CreateSession(ctx context.Context, seed SeedData) (string, error) {
	sessionID := uuid.New().String()
	conv := models.NewConversationContext(sessionID)
	conv.UserPreferences = seed.Preferences
	conv.FavoriteSpots = seed.FavoriteSpots
	conv.VisitHistory = seed.VisitHistory

	if err := s.store.Set(ctx, sessionID, conv); err != nil {
		return "", errors.NewInternalError("failed to store new session", err)
	}
	log.Info().Str("session_id", sessionID).Msg("session created")
	return sessionID, nil
}

// GetWelcomeMessage returns the dialogue's opening question, creating a
// session when none is given or the given one has expired.
func (s *Service) GetWelcomeMessage(ctx context.Context, sessionID string) (*Reply, error) {
	conv, err := s.resolveSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	conv.Phase = models.PhaseWaitingLocation
	conv.AppendMessage(models.RoleAssistant, welcomeMessage)
	if err := s.store.Set(ctx, conv.SessionID, conv); err != nil {
		return nil, errors.NewInternalError("failed to persist session", err)
	}

	return &Reply{
		Message:   welcomeMessage,
		SessionID: conv.SessionID,
		TurnCount: conv.TurnCount,
	}, nil
}

// ProcessMessage advances the session's dialogue by one user message.
func (s *Service) ProcessMessage(ctx context.Context, req Request) (*Reply, error) {
	if req.Message == "" {
		return nil, errors.NewValidationError("message is required", "message must not be empty")
	}

	conv, err := s.resolveSession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	// Transport-supplied overrides take precedence over stored fields.
	if req.CurrentLocation != "" {
		conv.CurrentLocation = req.CurrentLocation
	}
	if req.Destination != "" {
		conv.Destination = req.Destination
	}

	conv.AppendMessage(models.RoleUser, req.Message)
	turn := s.engine.Step(ctx, conv, req.Message)
	conv.AppendMessage(models.RoleAssistant, turn.Reply)
	conv.TurnCount++

	s.resolvePlaces(ctx, conv, turn)

	if err := s.store.Set(ctx, conv.SessionID, conv); err != nil {
		return nil, errors.NewInternalError("failed to persist session", err)
	}

	reply := s.buildReply(conv, turn)
	s.attachAudio(ctx, reply, turn)
	return reply, nil
}

// GenerateTimeoutResponse re-prompts a silent user. It does not advance the
// phase or consume a user turn, so repeated calls are safe. Returns nil when
// the session no longer exists.
func (s *Service) GenerateTimeoutResponse(ctx context.Context, sessionID string) (*Reply, error) {
	conv, ok, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, errors.NewInternalError("failed to read session", err)
	}
	if !ok {
		return nil, nil
	}

	history := append([]models.ChatMessage{}, conv.Messages...)
	history = append(history, models.NewChatMessage(models.RoleSystem, silentUserPrompt))
	message := s.llm.GenerateResponse(ctx, history)

	conv.AppendMessage(models.RoleAssistant, message)
	if err := s.store.Set(ctx, conv.SessionID, conv); err != nil {
		return nil, errors.NewInternalError("failed to persist session", err)
	}

	reply := &Reply{
		Message:   message,
		SessionID: conv.SessionID,
		TurnCount: conv.TurnCount,
	}
	s.attachAudio(ctx, reply, Turn{Generated: true})
	return reply, nil
}

// DeleteSession removes the session and reports whether it existed.
func (s *Service) DeleteSession(ctx context.Context, sessionID string) (bool, error) {
	existed, err := s.store.Delete(ctx, sessionID)
	if err != nil {
		return false, errors.NewInternalError("failed to delete session", err)
	}
	if existed {
		log.Info().Str("session_id", sessionID).Msg("session deleted")
	}
	return existed, nil
}

// SessionTTL returns the session's remaining lifetime.
func (s *Service) SessionTTL(ctx context.Context, sessionID string) (time.Duration, error) {
	ttl, ok, err := s.store.TTL(ctx, sessionID)
	if err != nil {
		return 0, errors.NewInternalError("failed to read session ttl", err)
	}
	if !ok {
		return 0, errors.NewSessionNotFoundError(sessionID)
	}
	return ttl, nil
}

// ExtendSession resets the session's expiry window.
func (s *Service) ExtendSession(ctx context.Context, sessionID string) error {
	ok, err := s.store.ExtendTTL(ctx, sessionID)
	if err != nil {
		return errors.NewInternalError("failed to extend session", err)
	}
	if !ok {
		return errors.NewSessionNotFoundError(sessionID)
	}
	return nil
}

// CacheStats returns a diagnostic snapshot of the session store.
func (s *Service) CacheStats(ctx context.Context) (sessionstore.Stats, error) {
	return s.store.Stats(ctx)
}

// CleanupExpiredSessions removes expired sessions and returns the count.
func (s *Service) CleanupExpiredSessions(ctx context.Context) (int, error) {
	return s.store.Cleanup(ctx)
}

// Session returns the session's conversation context, refreshing its TTL.
func (s *Service) Session(ctx context.Context, sessionID string) (*models.ConversationContext, error) {
	conv, ok, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, errors.NewInternalError("failed to read session", err)
	}
	if !ok {
		return nil, errors.NewSessionNotFoundError(sessionID)
	}
	return conv, nil
}

// SessionExists reports whether a live session exists.
func (s *Service) SessionExists(ctx context.Context, sessionID string) (bool, error) {
	return s.store.Exists(ctx, sessionID)
}

// resolveSession loads the session or lazily creates one. A supplied ID whose
// entry has expired gets a fresh context under the same ID.
func (s *Service) resolveSession(ctx context.Context, sessionID string) (*models.ConversationContext, error) {
	if sessionID == "" {
		sessionID = uuid.New().String()
		return models.NewConversationContext(sessionID), nil
	}

	conv, ok, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, errors.NewInternalError("failed to read session", err)
	}
	if !ok {
		log.Debug().Str("session_id", sessionID).Msg("session absent, creating fresh context")
		return models.NewConversationContext(sessionID), nil
	}
	return conv, nil
}

// resolvePlaces geocodes the destination and stopover when this turn set or
// changed them. Geocoding never fails the turn; missing coordinates are fine.
func (s *Service) resolvePlaces(ctx context.Context, conv *models.ConversationContext, turn Turn) {
	if turn.DestinationChanged && conv.Destination != "" {
		conv.DestinationInfo = s.geocoder.Resolve(ctx, conv.Destination)
	}
	if turn.StopoverChanged && conv.SelectedStopover != "" {
		conv.SelectedStopoverInfo = s.geocoder.Resolve(ctx, conv.SelectedStopover)
	}
}

func (s *Service) buildReply(conv *models.ConversationContext, turn Turn) *Reply {
	reply := &Reply{
		Message:     turn.Reply,
		SessionID:   conv.SessionID,
		TurnCount:   conv.TurnCount,
		IsComplete:  turn.IsComplete,
		Suggestions: turn.Suggestions,
		Destination: conv.DestinationInfo,
		Stopover:    conv.SelectedStopoverInfo,
	}
	if conv.Phase.IsSuggestionPhase() && len(conv.Suggestions) > 0 {
		index := conv.CurrentSuggestionIndex
		total := len(conv.Suggestions)
		reply.SuggestionIndex = &index
		reply.SuggestionTotal = &total
	}
	return reply
}

// attachAudio synthesizes speech for model-generated replies only. Scripted
// templates stay text-only. Synthesis failures just leave the reply silent.
func (s *Service) attachAudio(ctx context.Context, reply *Reply, turn Turn) {
	if !turn.Generated || s.synth == nil || !s.synth.IsAvailable() {
		return
	}
	audio, err := s.synth.Synthesize(ctx, reply.Message)
	if err != nil {
		log.Warn().Err(err).Msg("speech synthesis failed, returning text only")
		return
	}
	if len(audio) > 0 {
		reply.AudioData = audio
		reply.HasAudio = true
	}
}
