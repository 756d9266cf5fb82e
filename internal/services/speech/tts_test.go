package speech

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesizeDownloadsAudio(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/audio.wav", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("RIFF-audio-bytes"))
	})
	mux.HandleFunc("/generate", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req ttsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "こんにちは", req.Input.Text)
		assert.Equal(t, "Cherry", req.Input.Voice)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"output":{"audio":{"url":"` + server.URL + `/audio.wav"}}}`))
	})

	synth := NewSynthesizer(TTSConfig{
		APIKey:  "test-key",
		BaseURL: server.URL + "/generate",
		Model:   "qwen-tts-flash",
		Voice:   "Cherry",
	})
	require.True(t, synth.IsAvailable())

	audio, err := synth.Synthesize(context.Background(), "こんにちは")
	require.NoError(t, err)
	assert.Equal(t, []byte("RIFF-audio-bytes"), audio)
}

func TestSynthesizeUnconfiguredReturnsNil(t *testing.T) {
	synth := NewSynthesizer(TTSConfig{})
	assert.False(t, synth.IsAvailable())

	audio, err := synth.Synthesize(context.Background(), "こんにちは")
	require.NoError(t, err)
	assert.Nil(t, audio)
}

func TestSynthesizeEmptyText(t *testing.T) {
	synth := NewSynthesizer(TTSConfig{APIKey: "k", BaseURL: "http://unused.invalid"})

	audio, err := synth.Synthesize(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, audio)
}

func TestSynthesizeMissingAudioURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"output":{}}`))
	}))
	defer server.Close()

	synth := NewSynthesizer(TTSConfig{APIKey: "k", BaseURL: server.URL})

	_, err := synth.Synthesize(context.Background(), "テキスト")
	require.Error(t, err)
}

func TestSynthesizeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	synth := NewSynthesizer(TTSConfig{APIKey: "k", BaseURL: server.URL})

	_, err := synth.Synthesize(context.Background(), "テキスト")
	require.Error(t, err)
}
