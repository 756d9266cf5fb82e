package speech

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRealtimeServer upgrades connections and replays scripted transcription
// events after the session handshake.
func fakeRealtimeServer(t *testing.T, script []map[string]any) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		// Expect the session handshake first.
		var handshake map[string]any
		require.NoError(t, conn.ReadJSON(&handshake))
		assert.Equal(t, "session.update", handshake["type"])

		for {
			var msg map[string]any
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if msg["type"] == "input_audio_buffer.commit" {
				for _, ev := range script {
					if err := conn.WriteJSON(ev); err != nil {
						return
					}
				}
			}
		}
	}))
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func testASRConfig(server *httptest.Server) ASRConfig {
	return ASRConfig{
		APIKey:     "test-key",
		BaseURL:    wsURL(server),
		Model:      "qwen3-asr-flash-realtime",
		SampleRate: 16000,
		Language:   "ja",
	}
}

func collectEvents(t *testing.T, rec *Recognizer, n int) []ASREvent {
	t.Helper()
	events := make([]ASREvent, 0, n)
	timeout := time.After(3 * time.Second)
	for len(events) < n {
		select {
		case ev, ok := <-rec.Events():
			if !ok {
				t.Fatalf("event channel closed after %d events", len(events))
			}
			events = append(events, ev)
		case <-timeout:
			t.Fatalf("timed out waiting for events, got %d", len(events))
		}
	}
	return events
}

func TestRecognizerDeliversTranscriptions(t *testing.T) {
	server := fakeRealtimeServer(t, []map[string]any{
		{"type": "conversation.item.input_audio_transcription.delta", "delta": "東京"},
		{"type": "conversation.item.input_audio_transcription.delta", "delta": "駅"},
		{"type": "conversation.item.input_audio_transcription.completed", "text": "東京駅"},
	})
	defer server.Close()

	rec, err := NewRecognizer(testASRConfig(server))
	require.NoError(t, err)
	defer rec.Close()

	require.NoError(t, rec.SendAudio([]byte{0, 1, 2, 3}))
	require.NoError(t, rec.Commit())

	events := collectEvents(t, rec, 3)
	assert.Equal(t, ASREventPartial, events[0].Type)
	assert.Equal(t, "東京", events[0].Text)
	assert.Equal(t, ASREventFinal, events[2].Type)
	assert.Equal(t, "東京駅", events[2].Text)
}

func TestRecognizerReportsServerError(t *testing.T) {
	server := fakeRealtimeServer(t, []map[string]any{
		{"type": "error", "error": map[string]any{"message": "bad audio"}},
	})
	defer server.Close()

	rec, err := NewRecognizer(testASRConfig(server))
	require.NoError(t, err)
	defer rec.Close()

	require.NoError(t, rec.Commit())

	events := collectEvents(t, rec, 1)
	assert.Equal(t, ASREventError, events[0].Type)
	require.Error(t, events[0].Err)
	assert.Contains(t, events[0].Err.Error(), "bad audio")
}

func TestRecognizerRequiresAPIKey(t *testing.T) {
	_, err := NewRecognizer(ASRConfig{})
	require.Error(t, err)
}

func TestRecognizerSendAfterClose(t *testing.T) {
	server := fakeRealtimeServer(t, nil)
	defer server.Close()

	rec, err := NewRecognizer(testASRConfig(server))
	require.NoError(t, err)
	require.NoError(t, rec.Close())

	assert.Error(t, rec.SendAudio([]byte{1}))
}

func TestServiceRegistry(t *testing.T) {
	server := fakeRealtimeServer(t, nil)
	defer server.Close()

	svc := NewService(testASRConfig(server))
	require.True(t, svc.IsAvailable())

	rec, err := svc.Open("session-1")
	require.NoError(t, err)

	got, ok := svc.Get("session-1")
	require.True(t, ok)
	assert.Same(t, rec, got)

	// Opening again replaces the previous recognizer.
	rec2, err := svc.Open("session-1")
	require.NoError(t, err)
	assert.NotSame(t, rec, rec2)

	svc.CloseSession("session-1")
	_, ok = svc.Get("session-1")
	assert.False(t, ok)

	// Closing a missing session is a no-op.
	svc.CloseSession("missing")
}

func TestServiceCloseAll(t *testing.T) {
	server := fakeRealtimeServer(t, nil)
	defer server.Close()

	svc := NewService(testASRConfig(server))
	_, err := svc.Open("a")
	require.NoError(t, err)
	_, err = svc.Open("b")
	require.NoError(t, err)

	svc.CloseAll()
	_, ok := svc.Get("a")
	assert.False(t, ok)
	_, ok = svc.Get("b")
	assert.False(t, ok)
}

func TestServiceUnavailableWithoutKey(t *testing.T) {
	svc := NewService(ASRConfig{})
	assert.False(t, svc.IsAvailable())

	_, err := svc.Open("s")
	require.Error(t, err)
}

func TestRealtimeEventParsing(t *testing.T) {
	raw := `{"type":"error","error":{"message":"boom","code":"E1"}}`
	var ev realtimeEvent
	require.NoError(t, json.Unmarshal([]byte(raw), &ev))
	require.NotNil(t, ev.Error)
	assert.Equal(t, "boom", ev.Error.Message)
}
