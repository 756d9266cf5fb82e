// Package models contains domain models for the Data Plug Copilot service.
package models

import "time"

// MessageRole represents the role of a message sender.
type MessageRole string

const (
	// RoleUser represents a message from the user.
	RoleUser MessageRole = "user"
	// RoleAssistant represents a message from the assistant.
	RoleAssistant MessageRole = "assistant"
	// RoleSystem represents a system message.
	RoleSystem MessageRole = "system"
)

// ChatMessage represents a single message in a conversation history.
type ChatMessage struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewChatMessage creates a new chat message with the current timestamp.
func NewChatMessage(role MessageRole, content string) ChatMessage {
	return ChatMessage{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// PlaceInfo holds a place name with its resolved coordinates.
// Latitude and Longitude are nil when geocoding did not resolve the place.
type PlaceInfo struct {
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// SuggestionCandidate is one stopover candidate returned by retrieval.
type SuggestionCandidate struct {
	PlaceName  string `json:"placeName"`
	Address    string `json:"address,omitempty"`
	Impression string `json:"impression,omitempty"`
}
