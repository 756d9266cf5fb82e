package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataplug/copilot-service/internal/domain/models"
)

func history(n int) []models.ChatMessage {
	messages := make([]models.ChatMessage, 0, n)
	for i := 0; i < n; i++ {
		role := models.RoleUser
		if i%2 == 1 {
			role = models.RoleAssistant
		}
		messages = append(messages, models.NewChatMessage(role, "発言"))
	}
	return messages
}

func TestWindowHistoryKeepsRecentExchanges(t *testing.T) {
	messages := history(10)

	windowed := windowHistory(messages, 3)
	require.Len(t, windowed, 6)
	assert.Equal(t, messages[4:], windowed)
}

func TestWindowHistoryShortHistoryUntouched(t *testing.T) {
	messages := history(4)

	windowed := windowHistory(messages, 3)
	assert.Equal(t, messages, windowed)
}

func TestWindowHistoryZeroKeepsEverything(t *testing.T) {
	messages := history(20)

	assert.Equal(t, messages, windowHistory(messages, 0))
}

func TestWindowHistoryPreservesLeadingSystemMessages(t *testing.T) {
	messages := append([]models.ChatMessage{
		models.NewChatMessage(models.RoleSystem, "あなたは運転中のドライバーの相棒です。"),
	}, history(10)...)

	windowed := windowHistory(messages, 2)
	require.Len(t, windowed, 5)
	assert.Equal(t, models.RoleSystem, windowed[0].Role)
	assert.Equal(t, messages[len(messages)-4:], windowed[1:])
}
