// internal/models/conversation.go
package models

import "time"

type Conversation struct {
	BaseModel
	SessionID string    `json:"session_id" gorm:"uniqueIndex;size:64;not null"`
	Summary   string    `json:"summary" gorm:"type:text"`
	UpdatedAt time.Time `json:"updated_at"`

	Messages []Message `json:"messages,omitempty" gorm:"foreignKey:ConversationID"`
	Memories []Memory  `json:"memories,omitempty" gorm:"foreignKey:ConversationID"`
}

type Message struct {
	BaseModel
	ConversationID uint        `json:"conversation_id" gorm:"not null;index"`
	Role           MessageRole `json:"role" gorm:"size:20;not null"`
	Content        string      `json:"content" gorm:"type:text;not null"`
}

// Memory is a short fact about user preferences extracted from a
// conversation, scored so retrieval can prefer the strongest ones.
type Memory struct {
	BaseModel
	ConversationID uint    `json:"conversation_id" gorm:"not null;index"`
	Content        string  `json:"content" gorm:"type:text;not null"`
	Score          float64 `json:"score" gorm:"not null;default:0"`
}
