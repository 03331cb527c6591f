package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopatlas/affiliate-backend/internal/config"
	"github.com/shopatlas/affiliate-backend/internal/models"
)

func newChatService(t *testing.T) *ChatService {
	t.Helper()
	// No API key configured, so completions fail and the fallback reply
	// is used
	cfg := config.AIConfig{BaseURL: "http://127.0.0.1:1", Model: "test-model", Timeout: 1}
	return NewChatService(setupTestDB(t), cfg)
}

func TestChatDegradesWithoutAPIKey(t *testing.T) {
	service := newChatService(t)

	response, err := service.Chat("", "What laptops do you recommend?")
	require.NoError(t, err)
	assert.NotEmpty(t, response.SessionID)
	assert.Contains(t, response.Reply, "currently unavailable")

	// Both sides of the exchange are persisted
	var messages []models.Message
	require.NoError(t, service.db.Order("id").Find(&messages).Error)
	require.Len(t, messages, 2)
	assert.Equal(t, models.MessageRoleUser, messages[0].Role)
	assert.Equal(t, models.MessageRoleAssistant, messages[1].Role)
}

func TestChatReusesConversationBySessionID(t *testing.T) {
	service := newChatService(t)

	first, err := service.Chat("session-abc", "Hello")
	require.NoError(t, err)
	assert.Equal(t, "session-abc", first.SessionID)

	_, err = service.Chat("session-abc", "Hello again")
	require.NoError(t, err)

	var count int64
	service.db.Model(&models.Conversation{}).Count(&count)
	assert.Equal(t, int64(1), count)

	service.db.Model(&models.Message{}).Count(&count)
	assert.Equal(t, int64(4), count)
}

func TestRecentMessagesChronologicalOrder(t *testing.T) {
	service := newChatService(t)

	conversation := &models.Conversation{SessionID: "s"}
	require.NoError(t, service.db.Create(conversation).Error)

	for i := 0; i < historyLimit+3; i++ {
		msg := &models.Message{
			ConversationID: conversation.ID,
			Role:           models.MessageRoleUser,
			Content:        string(rune('a' + i)),
		}
		require.NoError(t, service.db.Create(msg).Error)
	}

	history, err := service.recentMessages(conversation.ID)
	require.NoError(t, err)
	require.Len(t, history, historyLimit)

	// Oldest retained message first, newest last
	assert.Equal(t, "d", history[0].Content)
	assert.Equal(t, string(rune('a'+historyLimit+2)), history[len(history)-1].Content)
}

func TestBuildPromptMessagesUsesMemories(t *testing.T) {
	service := newChatService(t)

	conversation := &models.Conversation{SessionID: "s"}
	require.NoError(t, service.db.Create(conversation).Error)

	messages := service.buildPromptMessages(conversation.ID, nil)
	require.Len(t, messages, 1)
	assert.Equal(t, conciergeSystemPrompt, messages[0].Content)

	memory := &models.Memory{ConversationID: conversation.ID, Content: "prefers wireless gear", Score: 1.0}
	require.NoError(t, service.db.Create(memory).Error)

	messages = service.buildPromptMessages(conversation.ID, nil)
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0].Content, "prefers wireless gear")
}
