package llm

import "strings"

// Negative cues are checked before affirmative ones: "いいえ" contains the
// affirmative cue "いい", so the order of the two passes is load-bearing.
var negativeKeywords = []string{
	"いいえ", "いや", "違う", "ちがう", "やめ", "しない", "結構です",
	"なし", "無し", "パス", "no", "nope", "not", "never",
}

var affirmativeKeywords = []string{
	"はい", "うん", "ええ", "いい", "お願い", "そう", "頼む", "決まり",
	"行く", "いく", "yes", "ok", "sure", "yeah",
}

// classifyByKeywords is the offline affirmation classifier.
func classifyByKeywords(text string) Judgment {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return JudgmentUnknown
	}

	for _, keyword := range negativeKeywords {
		if strings.Contains(normalized, keyword) {
			return JudgmentNegative
		}
	}
	for _, keyword := range affirmativeKeywords {
		if strings.Contains(normalized, keyword) {
			return JudgmentAffirmative
		}
	}
	return JudgmentUnknown
}
