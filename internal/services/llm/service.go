// Package llm provides the DashScope (Qwen) language model collaborator.
package llm

import (
	"context"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog/log"

	"github.com/dataplug/copilot-service/internal/domain/models"
)

// Service defines the interface for the language model collaborator.
type Service interface {
	// GenerateResponse produces a reply for the given history. It never
	// fails: when the API is unconfigured or errors, a deterministic demo
	// reply is returned instead so the conversation can still progress.
	GenerateResponse(ctx context.Context, messages []models.ChatMessage) string

	// ClassifyAffirmation judges whether a free-form reply accepts or
	// declines a proposal. Unknown means the caller should ask again.
	ClassifyAffirmation(ctx context.Context, userText, situation string) Judgment

	// IsDemoMode reports whether the service runs without an API key.
	IsDemoMode() bool
}

// Judgment is the result of an affirmation classification.
type Judgment string

const (
	// JudgmentAffirmative means the user accepted the proposal.
	JudgmentAffirmative Judgment = "affirmative"
	// JudgmentNegative means the user declined the proposal.
	JudgmentNegative Judgment = "negative"
	// JudgmentUnknown means the reply could not be classified.
	JudgmentUnknown Judgment = "unknown"
)

// Config holds the LLM service configuration.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64

	// MaxTurns bounds how many of the most recent user/assistant exchanges
	// are sent with each generation request. Zero means the whole history.
	MaxTurns int
}

type service struct {
	client      openai.Client
	model       string
	maxTokens   int
	temperature float64
	maxTurns    int
	demoMode    bool
}

// NewService creates a new LLM service. Without an API key the service runs
// in demo mode with deterministic canned replies.
func NewService(cfg Config) Service {
	if cfg.APIKey == "" {
		log.Warn().Msg("DASHSCOPE_API_KEY not set, llm service running in demo mode")
		return &service{demoMode: true}
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = 0.7
	}

	return &service{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		maxTokens:   maxTokens,
		temperature: temperature,
		maxTurns:    cfg.MaxTurns,
	}
}

// IsDemoMode reports whether the service runs without an API key.
func (s *service) IsDemoMode() bool {
	return s.demoMode
}

// GenerateResponse produces a reply for the given history.
func (s *service) GenerateResponse(ctx context.Context, messages []models.ChatMessage) string {
	if s.demoMode {
		return demoResponse(messages)
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(s.model),
		Messages:    toOpenAIMessages(windowHistory(messages, s.maxTurns)),
		MaxTokens:   openai.Int(int64(s.maxTokens)),
		Temperature: openai.Float(s.temperature),
	}

	completion, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		log.Error().Err(err).Msg("llm request failed, falling back to demo response")
		return demoResponse(messages)
	}
	if len(completion.Choices) == 0 {
		log.Error().Msg("llm returned no choices, falling back to demo response")
		return demoResponse(messages)
	}
	return completion.Choices[0].Message.Content
}

// ClassifyAffirmation judges whether a free-form reply accepts or declines a
// proposal. With an API key the model judges; otherwise, or on any error,
// keyword matching decides.
func (s *service) ClassifyAffirmation(ctx context.Context, userText, situation string) Judgment {
	if s.demoMode {
		return classifyByKeywords(userText)
	}

	prompt := "次のユーザーの発言が提案に対して肯定か否定かを判定してください。\n" +
		"状況: " + situation + "\n" +
		"発言: " + userText + "\n" +
		"「肯定」または「否定」のどちらか一語だけで答えてください。"

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(8),
		Temperature: openai.Float(0),
	}

	completion, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil || len(completion.Choices) == 0 {
		log.Warn().Err(err).Msg("classification request failed, using keyword fallback")
		return classifyByKeywords(userText)
	}

	answer := strings.TrimSpace(completion.Choices[0].Message.Content)
	// Negation is checked first; both strategies share this priority.
	switch {
	case strings.Contains(answer, "否定"):
		return JudgmentNegative
	case strings.Contains(answer, "肯定"):
		return JudgmentAffirmative
	default:
		return classifyByKeywords(userText)
	}
}

// windowHistory trims the history to the last maxTurns exchanges. Leading
// system messages always survive the cut.
func windowHistory(messages []models.ChatMessage, maxTurns int) []models.ChatMessage {
	if maxTurns <= 0 {
		return messages
	}
	sys := 0
	for sys < len(messages) && messages[sys].Role == models.RoleSystem {
		sys++
	}
	keep := maxTurns * 2
	if len(messages)-sys <= keep {
		return messages
	}
	windowed := make([]models.ChatMessage, 0, sys+keep)
	windowed = append(windowed, messages[:sys]...)
	windowed = append(windowed, messages[len(messages)-keep:]...)
	return windowed
}

func toOpenAIMessages(messages []models.ChatMessage) []openai.ChatCompletionMessageParamUnion {
	converted := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case models.RoleSystem:
			converted = append(converted, openai.SystemMessage(m.Content))
		case models.RoleAssistant:
			converted = append(converted, openai.AssistantMessage(m.Content))
		default:
			converted = append(converted, openai.UserMessage(m.Content))
		}
	}
	return converted
}
