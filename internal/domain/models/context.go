// Package models contains domain models for the Data Plug Copilot service.
package models

// ConversationContext is the per-session state of one dialogue.
//
// A context is owned by the session store entry holding it and mutated only
// by the conversation service: callers read it with Get, mutate it, and write
// it back with Set. Messages are append-only and kept in arrival order.
type ConversationContext struct {
	SessionID string        `json:"sessionId"`
	Messages  []ChatMessage `json:"messages"`
	TurnCount int           `json:"turnCount"`
	Phase     Phase         `json:"phase"`

	CurrentLocation       string `json:"currentLocation,omitempty"`
	Destination           string `json:"destination,omitempty"`
	AdditionalPreferences string `json:"additionalPreferences,omitempty"`

	// Suggestions holds at most three candidates for one suggestion cycle.
	// CurrentSuggestionIndex cursors through it; it may equal len(Suggestions)
	// once every candidate has been rejected.
	Suggestions            []SuggestionCandidate `json:"suggestions,omitempty"`
	CurrentSuggestionIndex int                   `json:"currentSuggestionIndex"`

	SelectedStopover     string     `json:"selectedStopover,omitempty"`
	DestinationInfo      *PlaceInfo `json:"destinationInfo,omitempty"`
	SelectedStopoverInfo *PlaceInfo `json:"selectedStopoverInfo,omitempty"`

	// Seed data supplied at session creation; read-only afterwards.
	UserPreferences map[string]string   `json:"userPreferences,omitempty"`
	FavoriteSpots   []map[string]string `json:"favoriteSpots,omitempty"`
	VisitHistory    []map[string]string `json:"visitHistory,omitempty"`
}

// NewConversationContext creates a context in the initial dialogue phase.
func NewConversationContext(sessionID string) *ConversationContext {
	return &ConversationContext{
		SessionID: sessionID,
		Messages:  []ChatMessage{},
		Phase:     PhaseWaitingLocation,
	}
}

// AppendMessage adds a message to the history.
func (c *ConversationContext) AppendMessage(role MessageRole, content string) {
	c.Messages = append(c.Messages, NewChatMessage(role, content))
}

// CurrentSuggestion returns the candidate under the cursor, if any.
func (c *ConversationContext) CurrentSuggestion() (SuggestionCandidate, bool) {
	if c.CurrentSuggestionIndex < 0 || c.CurrentSuggestionIndex >= len(c.Suggestions) {
		return SuggestionCandidate{}, false
	}
	return c.Suggestions[c.CurrentSuggestionIndex], true
}

// SetSuggestions starts a new suggestion cycle, keeping at most three
// candidates and resetting the cursor.
func (c *ConversationContext) SetSuggestions(candidates []SuggestionCandidate) {
	if len(candidates) > MaxSuggestions {
		candidates = candidates[:MaxSuggestions]
	}
	c.Suggestions = candidates
	c.CurrentSuggestionIndex = 0
}

// MaxSuggestions bounds one suggestion cycle.
const MaxSuggestions = 3
