package dto

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components,omitempty"`
}

// PlaceResponse represents a resolved place in API responses.
type PlaceResponse struct {
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// ChatResponse represents the outcome of one conversation turn.
type ChatResponse struct {
	Message         string         `json:"message"`
	SessionID       string         `json:"sessionId"`
	TurnCount       int            `json:"turnCount"`
	IsComplete      bool           `json:"isComplete"`
	Suggestions     []string       `json:"suggestions,omitempty"`
	SuggestionIndex *int           `json:"suggestionIndex,omitempty"`
	SuggestionTotal *int           `json:"suggestionTotal,omitempty"`
	Destination     *PlaceResponse `json:"destination,omitempty"`
	Stopover        *PlaceResponse `json:"stopover,omitempty"`
	AudioData       string         `json:"audioData,omitempty"`
	HasAudio        bool           `json:"hasAudio"`
}

// StartChatResponse represents the response for starting a conversation.
type StartChatResponse struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

// SessionTTLResponse represents a session's remaining lifetime.
type SessionTTLResponse struct {
	SessionID  string `json:"sessionId"`
	TTLSeconds int    `json:"ttlSeconds"`
}

// SessionResponse describes the current state of a conversation session.
type SessionResponse struct {
	SessionID       string         `json:"sessionId"`
	Phase           string         `json:"phase"`
	TurnCount       int            `json:"turnCount"`
	MessageCount    int            `json:"messageCount"`
	CurrentLocation string         `json:"currentLocation,omitempty"`
	Destination     *PlaceResponse `json:"destination,omitempty"`
	Stopover        *PlaceResponse `json:"stopover,omitempty"`
}

// DeleteSessionResponse represents the outcome of a session deletion.
type DeleteSessionResponse struct {
	SessionID string `json:"sessionId"`
	Deleted   bool   `json:"deleted"`
}

// CleanupResponse represents the outcome of an expired-session sweep.
type CleanupResponse struct {
	Removed int `json:"removed"`
}

// SearchResultResponse represents one similarity search hit.
type SearchResultResponse struct {
	ID         string  `json:"id"`
	Document   string  `json:"document"`
	PlaceName  string  `json:"placeName"`
	Address    string  `json:"address,omitempty"`
	Impression string  `json:"impression,omitempty"`
	Category   string  `json:"category,omitempty"`
	Score      float64 `json:"score"`
}

// SearchResponse represents the response for a similarity search.
type SearchResponse struct {
	Results []SearchResultResponse `json:"results"`
	Total   int                    `json:"total"`
}

// VectorStatsResponse represents the vector index statistics.
type VectorStatsResponse struct {
	DocumentCount int64 `json:"documentCount"`
}

// InitializeResponse represents the outcome of seeding the vector index.
type InitializeResponse struct {
	Indexed int `json:"indexed"`
}

// DeleteDocumentsResponse represents the outcome of a category deletion.
type DeleteDocumentsResponse struct {
	Category string `json:"category"`
	Removed  int64  `json:"removed"`
}
