package llm

import (
	"strings"

	"github.com/dataplug/copilot-service/internal/domain/models"
)

// demoResponse builds the deterministic reply used when no API key is
// configured or a request fails. The cues mirror the offline behavior of the
// hosted model closely enough for demos and tests.
func demoResponse(messages []models.ChatMessage) string {
	userMessage := ""
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == models.RoleUser {
			userMessage = messages[i].Content
			break
		}
	}

	switch {
	case strings.Contains(userMessage, "カフェ") || strings.Contains(userMessage, "コーヒー"):
		return "静かなカフェがお好みですね！\n" +
			"あなたのお気に入りを参考に、いくつか候補があります。\n" +
			"Blue Bottle Coffee 清澄白河はいかがですか？"
	case strings.Contains(userMessage, "自然") || strings.Contains(userMessage, "公園"):
		return "自然を楽しみたいですね！\n" +
			"代々木公園がお気に入りに登録されていますね。立ち寄ってみますか？"
	case strings.Contains(userMessage, "新しい") || strings.Contains(userMessage, "探"):
		return "新しい場所を探しましょう！どんな雰囲気がいいですか？"
	default:
		return "なるほど。今日はどんな場所に行きたいですか？\n" +
			"カフェでゆっくりするのも、自然の中でリラックスするのもおすすめです。"
	}
}
