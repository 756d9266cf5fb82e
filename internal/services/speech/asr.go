package speech

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// ASREventType identifies the kind of event a recognizer delivers.
type ASREventType string

const (
	// ASREventPartial is an interim transcription for the current utterance.
	ASREventPartial ASREventType = "partial"
	// ASREventFinal is the completed transcription for an utterance.
	ASREventFinal ASREventType = "final"
	// ASREventError reports a recognizer failure. The stream ends after it.
	ASREventError ASREventType = "error"
)

// ASREvent is a single transcription event delivered on the recognizer's
// event channel.
type ASREvent struct {
	Type ASREventType
	Text string
	Err  error
}

// ASRConfig holds the realtime speech recognition configuration.
type ASRConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	SampleRate int
	Language   string
}

// eventBuffer bounds the channel between the listener goroutine and the
// consumer. When the consumer lags, the oldest event is dropped.
const eventBuffer = 64

// Recognizer is a realtime speech recognition session over a websocket.
// Audio is streamed in with SendAudio and transcriptions arrive on Events.
type Recognizer struct {
	conn   *websocket.Conn
	events chan ASREvent

	writeMu sync.Mutex

	closeOnce sync.Once
	done      chan struct{}
}

type realtimeEvent struct {
	Type    string          `json:"type"`
	Session json.RawMessage `json:"session,omitempty"`
	Delta   string          `json:"delta,omitempty"`
	Text    string          `json:"text,omitempty"`
	Error   *realtimeError  `json:"error,omitempty"`
}

type realtimeError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// NewRecognizer dials the realtime recognition endpoint, performs the
// session handshake and starts the listener goroutine.
func NewRecognizer(cfg ASRConfig) (*Recognizer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("asr api key not set")
	}

	url := fmt.Sprintf("%s?model=%s", cfg.BaseURL, cfg.Model)
	header := http.Header{}
	header.Set("Authorization", "Bearer "+cfg.APIKey)
	header.Set("OpenAI-Beta", "realtime=v1")

	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("asr dial failed with status %d: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("asr dial failed: %w", err)
	}

	r := &Recognizer{
		conn:   conn,
		events: make(chan ASREvent, eventBuffer),
		done:   make(chan struct{}),
	}

	if err := r.configureSession(cfg); err != nil {
		conn.Close()
		return nil, err
	}

	go r.listen()
	return r, nil
}

func (r *Recognizer) configureSession(cfg ASRConfig) error {
	update := map[string]any{
		"type": "session.update",
		"session": map[string]any{
			"modalities":         []string{"text"},
			"input_audio_format": "pcm16",
			"sample_rate":        cfg.SampleRate,
			"input_audio_transcription": map[string]any{
				"model":    cfg.Model,
				"language": cfg.Language,
			},
			"turn_detection": map[string]any{
				"type": "server_vad",
			},
		},
	}
	return r.writeJSON(update)
}

// Events returns the channel on which transcription events are delivered.
// The channel is closed when the session ends.
func (r *Recognizer) Events() <-chan ASREvent {
	return r.events
}

// SendAudio streams a chunk of PCM audio to the recognizer.
func (r *Recognizer) SendAudio(pcm []byte) error {
	select {
	case <-r.done:
		return fmt.Errorf("recognizer is closed")
	default:
	}
	return r.writeJSON(map[string]any{
		"type":  "input_audio_buffer.append",
		"audio": base64.StdEncoding.EncodeToString(pcm),
	})
}

// Commit signals the end of the current audio buffer so the recognizer
// finalizes the pending utterance.
func (r *Recognizer) Commit() error {
	return r.writeJSON(map[string]any{"type": "input_audio_buffer.commit"})
}

// Close terminates the session and closes the event channel.
func (r *Recognizer) Close() error {
	var err error
	r.closeOnce.Do(func() {
		close(r.done)
		r.writeMu.Lock()
		_ = r.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		r.writeMu.Unlock()
		err = r.conn.Close()
	})
	return err
}

func (r *Recognizer) writeJSON(v any) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	return r.conn.WriteJSON(v)
}

func (r *Recognizer) listen() {
	defer close(r.events)
	for {
		_, data, err := r.conn.ReadMessage()
		if err != nil {
			select {
			case <-r.done:
			default:
				r.deliver(ASREvent{Type: ASREventError, Err: fmt.Errorf("asr connection closed: %w", err)})
			}
			return
		}

		var ev realtimeEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			log.Warn().Err(err).Msg("failed to parse asr event, skipping")
			continue
		}

		switch ev.Type {
		case "conversation.item.input_audio_transcription.delta":
			if ev.Delta != "" {
				r.deliver(ASREvent{Type: ASREventPartial, Text: ev.Delta})
			}
		case "conversation.item.input_audio_transcription.completed":
			r.deliver(ASREvent{Type: ASREventFinal, Text: ev.Text})
		case "error":
			msg := "unknown asr error"
			if ev.Error != nil {
				msg = ev.Error.Message
			}
			r.deliver(ASREvent{Type: ASREventError, Err: fmt.Errorf("asr error: %s", msg)})
		}
	}
}

// deliver pushes an event, dropping the oldest buffered event when the
// consumer is behind rather than blocking the read loop.
func (r *Recognizer) deliver(ev ASREvent) {
	select {
	case r.events <- ev:
	default:
		select {
		case dropped := <-r.events:
			log.Warn().Str("type", string(dropped.Type)).Msg("asr event buffer full, dropped oldest event")
		default:
		}
		select {
		case r.events <- ev:
		default:
		}
	}
}
