// internal/services/chat_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/shopatlas/affiliate-backend/internal/config"
	"github.com/shopatlas/affiliate-backend/internal/models"
)

const (
	conciergeSystemPrompt = "You are an AI shopping concierge for an affiliate eShop. Be helpful, concise, and product-focused."
	memorySystemPrompt    = "You are an AI shopping concierge for an affiliate eShop. Persist and use user preferences. Key memories: "
	memoryExtractPrompt   = "Extract up to 3 short facts about user preferences or constraints to remember. Return as bullet points."

	historyLimit = 12
	memoryLimit  = 5
)

// ChatService is the shopping concierge. Replies come from the OpenAI
// chat-completions API with recent history plus stored preference
// memories as context; API failures degrade to an apologetic reply so
// the chat widget never errors out.
type ChatService struct {
	db     *gorm.DB
	cfg    config.AIConfig
	client *resty.Client
}

type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message" validate:"required"`
}

type ChatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func NewChatService(db *gorm.DB, cfg config.AIConfig) *ChatService {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(time.Duration(cfg.Timeout) * time.Second)

	return &ChatService{db: db, cfg: cfg, client: client}
}

// Chat records the user message, produces an assistant reply, and then
// best-effort extracts preference memories from the exchange.
func (s *ChatService) Chat(sessionID, userMessage string) (*ChatResponse, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	conversation, err := s.getOrCreateConversation(sessionID)
	if err != nil {
		return nil, err
	}

	userMsg := &models.Message{
		ConversationID: conversation.ID,
		Role:           models.MessageRoleUser,
		Content:        userMessage,
	}
	if err := s.db.Create(userMsg).Error; err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	history, err := s.recentMessages(conversation.ID)
	if err != nil {
		return nil, err
	}

	messages := s.buildPromptMessages(conversation.ID, history)

	reply, err := s.complete(messages, s.cfg.Temperature)
	if err != nil {
		logrus.WithError(err).Warn("Chat completion failed")
		reply = "Sorry, the AI service is currently unavailable. Please try again later."
	}

	assistantMsg := &models.Message{
		ConversationID: conversation.ID,
		Role:           models.MessageRoleAssistant,
		Content:        reply,
	}
	if err := s.db.Create(assistantMsg).Error; err != nil {
		return nil, fmt.Errorf("failed to store reply: %w", err)
	}

	s.db.Model(conversation).Update("updated_at", time.Now().UTC())

	// Memory extraction is strictly best-effort
	if err == nil {
		s.extractMemories(conversation.ID, history, userMessage, reply)
	}

	return &ChatResponse{SessionID: sessionID, Reply: reply}, nil
}

func (s *ChatService) getOrCreateConversation(sessionID string) (*models.Conversation, error) {
	var conversation models.Conversation
	err := s.db.Where("session_id = ?", sessionID).First(&conversation).Error
	if err == nil {
		return &conversation, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	conversation = models.Conversation{SessionID: sessionID}
	if err := s.db.Create(&conversation).Error; err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return &conversation, nil
}

// recentMessages returns the last messages in chronological order.
func (s *ChatService) recentMessages(conversationID uint) ([]models.Message, error) {
	var history []models.Message
	err := s.db.Where("conversation_id = ?", conversationID).
		Order("id DESC").Limit(historyLimit).
		Find(&history).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}
	return history, nil
}

func (s *ChatService) buildPromptMessages(conversationID uint, history []models.Message) []chatMessage {
	var memories []models.Memory
	s.db.Where("conversation_id = ?", conversationID).
		Order("score DESC, created_at DESC").Limit(memoryLimit).
		Find(&memories)

	var messages []chatMessage
	if len(memories) > 0 {
		snippets := make([]string, 0, len(memories))
		for _, memory := range memories {
			snippets = append(snippets, memory.Content)
		}
		messages = append(messages, chatMessage{
			Role:    string(models.MessageRoleSystem),
			Content: memorySystemPrompt + strings.Join(snippets, "; "),
		})
	} else {
		messages = append(messages, chatMessage{
			Role:    string(models.MessageRoleSystem),
			Content: conciergeSystemPrompt,
		})
	}

	for _, msg := range history {
		messages = append(messages, chatMessage{Role: string(msg.Role), Content: msg.Content})
	}
	return messages
}

func (s *ChatService) complete(messages []chatMessage, temperature float64) (string, error) {
	if s.cfg.APIKey == "" {
		return "", errors.New("OpenAI API key missing; set OPENAI_API_KEY")
	}

	payload := chatCompletionRequest{
		Model:       s.cfg.Model,
		Messages:    messages,
		Temperature: temperature,
	}

	var response chatCompletionResponse
	resp, err := s.client.R().
		SetAuthToken(s.cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		SetResult(&response).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("chat completion returned status %d", resp.StatusCode())
	}
	if len(response.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}

// extractMemories asks the model for short preference facts from the
// latest exchange and stores them. Failures are logged and swallowed.
func (s *ChatService) extractMemories(conversationID uint, history []models.Message, userMessage, reply string) {
	var parts []string
	start := 0
	if len(history) > 6 {
		start = len(history) - 6
	}
	for _, msg := range history[start:] {
		parts = append(parts, msg.Content)
	}
	parts = append(parts, userMessage, reply)

	messages := []chatMessage{
		{Role: string(models.MessageRoleSystem), Content: memoryExtractPrompt},
		{Role: string(models.MessageRoleUser), Content: strings.Join(parts, "\n\n")},
	}

	text, err := s.complete(messages, 0.2)
	if err != nil {
		logrus.WithError(err).Debug("Memory extraction failed")
		return
	}

	for _, line := range strings.Split(text, "\n") {
		fact := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*• "))
		if fact == "" {
			continue
		}
		memory := &models.Memory{
			ConversationID: conversationID,
			Content:        fact,
			Score:          1.0,
		}
		if err := s.db.Create(memory).Error; err != nil {
			logrus.WithError(err).Debug("Failed to store memory")
		}
	}
}
