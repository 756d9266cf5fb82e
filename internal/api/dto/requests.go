// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// StartChatRequest represents the request body for starting a conversation.
type StartChatRequest struct {
	SessionID   string              `json:"sessionId"`
	Preferences map[string]string   `json:"preferences"`
	Favorites   []map[string]string `json:"favorites"`
	History     []map[string]string `json:"history"`
}

// ChatRequest represents the request body for one conversation turn.
type ChatRequest struct {
	Message         string `json:"message" binding:"required,min=1,max=4000"`
	SessionID       string `json:"sessionId"`
	CurrentLocation string `json:"currentLocation"`
	Destination     string `json:"destination"`
}

// AddDocumentRequest represents the request body for indexing a record.
type AddDocumentRequest struct {
	ID         string   `json:"id"`
	Text       string   `json:"text" binding:"required,min=1"`
	PlaceName  string   `json:"placeName" binding:"required"`
	Address    string   `json:"address"`
	Impression string   `json:"impression"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
	Rating     float64  `json:"rating"`
}

// SearchRequest represents the request body for a similarity search.
type SearchRequest struct {
	Query string `json:"query" binding:"required,min=1"`
	Limit int    `json:"limit" binding:"omitempty,min=1,max=20"`
}
