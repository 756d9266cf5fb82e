// Package ws provides the bidirectional chat and voice endpoints.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/dataplug/copilot-service/internal/services/conversation"
	"github.com/dataplug/copilot-service/internal/services/speech"
)

// TimeoutConfig controls the silent-user re-prompt.
type TimeoutConfig struct {
	// UserResponse is how long the user may stay silent before a re-prompt.
	UserResponse time.Duration
	// CheckInterval is how often silence is checked.
	CheckInterval time.Duration
}

// Handler serves the websocket endpoints.
type Handler struct {
	conversations *conversation.Service
	recognizers   *speech.Service
	timeout       TimeoutConfig
	upgrader      websocket.Upgrader
}

// NewHandler creates a websocket handler.
func NewHandler(conversations *conversation.Service, recognizers *speech.Service, timeout TimeoutConfig) *Handler {
	return &Handler{
		conversations: conversations,
		recognizers:   recognizers,
		timeout:       timeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Browser clients connect from a separate origin in development.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// clientMessage is one inbound text frame on either endpoint.
type clientMessage struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

// serverMessage is one outbound frame.
type serverMessage struct {
	Type     string              `json:"type"`
	Text     string              `json:"text,omitempty"`
	Response *conversation.Reply `json:"response,omitempty"`
	Error    string              `json:"error,omitempty"`
}

func unmarshalClientMessage(data []byte, msg *clientMessage) error {
	return json.Unmarshal(data, msg)
}

// sessionIDFromRequest resolves the session id from the path segment or,
// failing that, the session_id query parameter. Empty means a new session.
func sessionIDFromRequest(c *gin.Context) string {
	if id := c.Param("sessionId"); id != "" {
		return id
	}
	return c.Query("session_id")
}

// wsConn serializes writes to one websocket connection.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *wsConn) close() {
	c.mu.Lock()
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.mu.Unlock()
	_ = c.conn.Close()
}

// activityTracker records the time of the last user activity.
type activityTracker struct {
	mu   sync.Mutex
	last time.Time
}

func newActivityTracker() *activityTracker {
	return &activityTracker{last: time.Now()}
}

func (t *activityTracker) touch() {
	t.mu.Lock()
	t.last = time.Now()
	t.mu.Unlock()
}

func (t *activityTracker) idle() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return time.Since(t.last)
}
