package conversation

import (
	"fmt"
	"strings"

	"github.com/dataplug/copilot-service/internal/domain/models"
)

// Scripted reply templates. The dialogue is deterministic: the wording of
// each phase prompt is fixed and only candidate details vary.

const (
	welcomeMessage             = "こんにちは！ドライブのご案内をします。まず、現在地を教えてください。"
	askDestinationMessage      = "ありがとうございます。目的地はどちらですか？"
	noStopoverMessage          = "ご希望に合う立ち寄り先が見つかりませんでした。そのまま目的地へご案内します。"
	askOtherPreferencesMessage = "他にご希望はありますか？別の条件があれば教えてください。なければ「ない」とお答えください。"
	directToDestinationMessage = "承知しました。寄り道せずに目的地へご案内します。"
	askNewDestinationMessage   = "新しい目的地はどちらですか？"
	stopoverUnchangedMessage   = "承知しました。立ち寄り先は変更せず、そのままご案内を続けます。"
	noReplacementMessage       = "申し訳ありません、他の候補が見つかりませんでした。そのままご案内を続けます。"
	repromptMessage            = "すみません、聞き取れませんでした。「はい」か「いいえ」でお答えいただけますか？"
	silentUserPrompt           = "ユーザーがしばらく応答していません。会話の流れに沿って、優しく声をかけてください。"
)

// yesNoSuggestions are the quick replies offered whenever the machine is
// waiting on an affirmative or negative answer.
func yesNoSuggestions() []string {
	return []string{"はい", "いいえ"}
}

func presentCandidateMessage(c models.SuggestionCandidate, index int) string {
	var lead string
	switch index {
	case 0:
		lead = "おすすめの立ち寄り先があります。"
	case 1:
		lead = "では、別の候補はいかがでしょう。"
	default:
		lead = "最後の候補です。"
	}
	var sb strings.Builder
	sb.WriteString(lead)
	sb.WriteString(fmt.Sprintf("「%s」はいかがですか？", c.PlaceName))
	if c.Impression != "" {
		sb.WriteString(fmt.Sprintf("以前は「%s」とのことでした。", c.Impression))
	}
	sb.WriteString("立ち寄りますか？")
	return sb.String()
}

func presentReplacementMessage(c models.SuggestionCandidate) string {
	return fmt.Sprintf("代わりの立ち寄り先として「%s」はいかがですか？変更しますか？", c.PlaceName)
}

func acceptStopoverMessage(placeName, destination string) string {
	return fmt.Sprintf("「%s」に立ち寄ってから%sへ向かいます。ご案内を開始します。", placeName, destination)
}

func replaceStopoverMessage(placeName string) string {
	return fmt.Sprintf("立ち寄り先を「%s」に変更しました。ご案内を続けます。", placeName)
}

func destinationChangedMessage(destination string) string {
	return fmt.Sprintf("目的地を「%s」に変更しました。ご案内を続けます。", destination)
}

func confirmPreferencesMessage(destination string) string {
	return fmt.Sprintf("%sですね。途中で立ち寄りたい場所の希望はありますか？（例：カフェ、公園など）", destination)
}
