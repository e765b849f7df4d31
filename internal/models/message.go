package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is a text message inside a conversation. Content is the only
// mutable field (sender-only edits); there is no edited marker and deletes
// are physical. The composite index backs the ordered range scans used by
// listing and polling.
type Message struct {
	ID             string    `gorm:"primaryKey;type:text" json:"id"`
	ConversationID string    `gorm:"type:text;not null;index:idx_messages_conversation_created,priority:1" json:"conversationId"`
	SenderID       string    `gorm:"type:text;not null;index" json:"senderId"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	CreatedAt      time.Time `gorm:"index:idx_messages_conversation_created,priority:2" json:"createdAt"`

	Sender User `gorm:"foreignKey:SenderID" json:"sender"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}
