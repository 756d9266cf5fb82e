package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dataplug/copilot-service/internal/domain/models"
)

func TestClassifyByKeywords(t *testing.T) {
	tests := []struct {
		input    string
		expected Judgment
	}{
		{"はい", JudgmentAffirmative},
		{"うん、いいね", JudgmentAffirmative},
		{"お願いします", JudgmentAffirmative},
		{"そこに行く", JudgmentAffirmative},
		{"Yes", JudgmentAffirmative},
		{"いいえ", JudgmentNegative},
		{"いやだ", JudgmentNegative},
		{"それは違う", JudgmentNegative},
		{"やめておきます", JudgmentNegative},
		{"結構です", JudgmentNegative},
		{"No thanks", JudgmentNegative},
		{"", JudgmentUnknown},
		{"   ", JudgmentUnknown},
		{"うーんどうだろう", JudgmentUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, classifyByKeywords(tt.input), "input: %q", tt.input)
	}
}

// "いいえ" contains the affirmative cue "いい"; negative cues must win.
func TestClassifyByKeywordsNegativePriority(t *testing.T) {
	assert.Equal(t, JudgmentNegative, classifyByKeywords("いいえ"))
	assert.Equal(t, JudgmentNegative, classifyByKeywords("いいえ、やめておく"))
	assert.Equal(t, JudgmentAffirmative, classifyByKeywords("いいね"))
}

func TestDemoModeClassification(t *testing.T) {
	svc := NewService(Config{})
	assert.True(t, svc.IsDemoMode())

	ctx := context.Background()
	assert.Equal(t, JudgmentAffirmative, svc.ClassifyAffirmation(ctx, "はい", "提案への返答"))
	assert.Equal(t, JudgmentNegative, svc.ClassifyAffirmation(ctx, "いいえ", "提案への返答"))
	assert.Equal(t, JudgmentUnknown, svc.ClassifyAffirmation(ctx, "えーと", "提案への返答"))
}

func TestDemoModeGenerateResponseIsDeterministic(t *testing.T) {
	svc := NewService(Config{})
	ctx := context.Background()

	messages := []models.ChatMessage{models.NewChatMessage(models.RoleUser, "カフェに行きたい")}
	first := svc.GenerateResponse(ctx, messages)
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, svc.GenerateResponse(ctx, messages))
	}
	assert.NotEmpty(t, first)
}
