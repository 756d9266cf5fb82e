package ws

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dataplug/copilot-service/internal/services/conversation"
	"github.com/dataplug/copilot-service/internal/services/speech"
)

// Voice handles GET /ws/voice. Recognition is started and stopped with
// start_asr and stop_asr commands; while active, binary frames carry PCM
// audio and completed transcriptions are fed through the dialogue like typed
// messages. Typed text is accepted at any time. The session and its
// recognizer are erased when the connection closes.
func (h *Handler) Voice(c *gin.Context) {
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

	defer func() {
		h.recognizers.CloseSession(sessionID)
		if _, err := h.conversations.DeleteSession(ctx, sessionID); err != nil {
			log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to erase session on disconnect")
		}
	}()

	activity := newActivityTracker()
	stopMonitor := h.startTimeoutMonitor(ctx, conn, sessionID, activity)
	defer stopMonitor()

	// The active recognizer, nil while recognition is stopped. Only the read
	// loop touches it.
	var recognizer *speech.Recognizer

	for {
		messageType, data, err := raw.ReadMessage()
		if err != nil {
			log.Debug().Str("session_id", sessionID).Msg("voice connection closed")
			return
		}

		switch messageType {
		case websocket.BinaryMessage:
			if recognizer == nil {
				continue
			}
			if err := recognizer.SendAudio(data); err != nil {
				log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to forward audio")
				_ = conn.writeJSON(serverMessage{Type: "error", Error: "音声認識でエラーが発生しました。"})
				h.recognizers.CloseSession(sessionID)
				recognizer = nil
			}
		case websocket.TextMessage:
			var msg clientMessage
			if err := unmarshalClientMessage(data, &msg); err != nil {
				continue
			}
			switch msg.Type {
			case "start_asr":
				if recognizer != nil {
					continue
				}
				if !h.recognizers.IsAvailable() {
					_ = conn.writeJSON(serverMessage{Type: "error", Error: "音声認識は現在利用できません。"})
					continue
				}
				recognizer, err = h.recognizers.Open(sessionID)
				if err != nil {
					log.Error().Err(err).Str("session_id", sessionID).Msg("failed to open recognizer")
					_ = conn.writeJSON(serverMessage{Type: "error", Error: "音声認識を開始できませんでした。"})
					continue
				}
				go h.consumeTranscriptions(ctx, conn, sessionID, recognizer, activity)
				_ = conn.writeJSON(serverMessage{Type: "asr_started"})
			case "stop_asr":
				if recognizer == nil {
					continue
				}
				h.recognizers.CloseSession(sessionID)
				recognizer = nil
				_ = conn.writeJSON(serverMessage{Type: "asr_stopped"})
			case "commit":
				if recognizer == nil {
					continue
				}
				if err := recognizer.Commit(); err != nil {
					log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to commit audio buffer")
				}
			case "text", "message":
				if msg.Message != "" {
					activity.touch()
					h.processAndSend(ctx, conn, sessionID, msg.Message)
				}
			case "ping":
				_ = conn.writeJSON(serverMessage{Type: "pong"})
			}
		}
	}
}

// consumeTranscriptions relays recognizer events to the client, driving the
// dialogue on each completed utterance. It returns when the recognizer's
// event channel closes.
func (h *Handler) consumeTranscriptions(ctx context.Context, conn *wsConn, sessionID string, recognizer *speech.Recognizer, activity *activityTracker) {
	for event := range recognizer.Events() {
		switch event.Type {
		case speech.ASREventPartial:
			_ = conn.writeJSON(serverMessage{Type: "partial", Text: event.Text})
		case speech.ASREventFinal:
			if event.Text == "" {
				continue
			}
			activity.touch()
			_ = conn.writeJSON(serverMessage{Type: "transcript", Text: event.Text})
			h.processAndSend(ctx, conn, sessionID, event.Text)
		case speech.ASREventError:
			log.Warn().Err(event.Err).Str("session_id", sessionID).Msg("recognizer error")
			_ = conn.writeJSON(serverMessage{Type: "error", Error: "音声認識でエラーが発生しました。"})
			return
		}
	}
}

func (h *Handler) processAndSend(ctx context.Context, conn *wsConn, sessionID, text string) {
	reply, err := h.conversations.ProcessMessage(ctx, conversation.Request{
		Message:   text,
		SessionID: sessionID,
	})
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("failed to process transcription")
		_ = conn.writeJSON(serverMessage{Type: "error", Error: "処理に失敗しました。もう一度お試しください。"})
		return
	}
	_ = conn.writeJSON(serverMessage{Type: "response", Response: reply})
}
