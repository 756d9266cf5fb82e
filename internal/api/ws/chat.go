package ws

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dataplug/copilot-service/internal/services/conversation"
)

// Chat handles GET /ws/chat. One connection drives one session: the opening
// question is pushed on connect, each inbound message advances the dialogue,
// and prolonged silence triggers a re-prompt. The session is erased when the
// connection closes.
func (h *Handler) Chat(c *gin.Context) {
	raw, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	conn := &wsConn{conn: raw}
	defer conn.close()

	ctx := context.Background()

	welcome, err := h.conversations.GetWelcomeMessage(ctx, sessionIDFromRequest(c))
	if err != nil {
		_ = conn.writeJSON(serverMessage{Type: "error", Error: "failed to start session"})
		return
	}
	sessionID := welcome.SessionID
	if err := conn.writeJSON(serverMessage{Type: "response", Response: welcome}); err != nil {
		return
	}

	// Erase conversation state when the user leaves.
	defer func() {
		if _, err := h.conversations.DeleteSession(ctx, sessionID); err != nil {
			log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to erase session on disconnect")
		}
	}()

	activity := newActivityTracker()
	stopMonitor := h.startTimeoutMonitor(ctx, conn, sessionID, activity)
	defer stopMonitor()

	for {
		var msg clientMessage
		if err := raw.ReadJSON(&msg); err != nil {
			log.Debug().Str("session_id", sessionID).Msg("chat connection closed")
			return
		}
		switch msg.Type {
		case "ping":
			_ = conn.writeJSON(serverMessage{Type: "pong"})
			continue
		case "text", "message":
		default:
			continue
		}
		if msg.Message == "" {
			continue
		}
		activity.touch()

		reply, err := h.conversations.ProcessMessage(ctx, conversation.Request{
			Message:   msg.Message,
			SessionID: sessionID,
		})
		if err != nil {
			log.Error().Err(err).Str("session_id", sessionID).Msg("failed to process message")
			_ = conn.writeJSON(serverMessage{Type: "error", Error: "処理に失敗しました。もう一度お試しください。"})
			continue
		}
		if err := conn.writeJSON(serverMessage{Type: "response", Response: reply}); err != nil {
			return
		}
	}
}

// startTimeoutMonitor re-prompts the user after prolonged silence. Returns a
// stop function.
func (h *Handler) startTimeoutMonitor(ctx context.Context, conn *wsConn, sessionID string, activity *activityTracker) func() {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(h.timeout.CheckInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if activity.idle() < h.timeout.UserResponse {
					continue
				}
				reply, err := h.conversations.GenerateTimeoutResponse(ctx, sessionID)
				if err != nil || reply == nil {
					continue
				}
				activity.touch()
				if err := conn.writeJSON(serverMessage{Type: "timeout", Response: reply}); err != nil {
					return
				}
			}
		}
	}()
	return func() { close(done) }
}
