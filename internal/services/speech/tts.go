// Package speech provides the speech synthesis and recognition collaborators.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Synthesizer defines the interface for the text-to-speech collaborator.
type Synthesizer interface {
	// Synthesize converts text to audio. It returns nil audio (not an
	// error) when the service is unconfigured or the text is empty.
	Synthesize(ctx context.Context, text string) ([]byte, error)

	// IsAvailable reports whether synthesis is configured.
	IsAvailable() bool
}

// TTSConfig holds the speech synthesis configuration.
type TTSConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Voice   string
}

type ttsClient struct {
	apiKey     string
	baseURL    string
	model      string
	voice      string
	httpClient *http.Client
}

// NewSynthesizer creates a new DashScope TTS client.
func NewSynthesizer(cfg TTSConfig) Synthesizer {
	return &ttsClient{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		voice:      cfg.Voice,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// IsAvailable reports whether synthesis is configured.
func (c *ttsClient) IsAvailable() bool {
	return c.apiKey != ""
}

type ttsRequest struct {
	Model string   `json:"model"`
	Input ttsInput `json:"input"`
}

type ttsInput struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
}

type ttsResponse struct {
	Output struct {
		Audio struct {
			URL string `json:"url"`
		} `json:"audio"`
	} `json:"output"`
	Message string `json:"message,omitempty"`
}

// Synthesize converts text to audio via the DashScope TTS endpoint: the
// generation call returns an audio URL which is then downloaded.
func (c *ttsClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if !c.IsAvailable() {
		log.Warn().Msg("tts api key not set, skipping synthesis")
		return nil, nil
	}
	if text == "" {
		return nil, nil
	}

	body, err := json.Marshal(ttsRequest{
		Model: c.model,
		Input: ttsInput{Text: text, Voice: c.voice},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tts request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build tts request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tts request returned status %d", resp.StatusCode)
	}

	var parsed ttsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode tts response: %w", err)
	}
	if parsed.Output.Audio.URL == "" {
		return nil, fmt.Errorf("tts response contained no audio url")
	}

	return c.download(ctx, parsed.Output.Audio.URL)
}

func (c *ttsClient) download(ctx context.Context, audioURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build audio download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("audio download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("audio download returned status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio body: %w", err)
	}
	log.Info().Int("bytes", len(audio)).Msg("tts synthesis complete")
	return audio, nil
}
