package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation is a chat thread. Name is only meaningful for group
// conversations and is forced to null for direct ones.
type Conversation struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	Name      *string   `json:"name"`
	IsGroup   bool      `gorm:"default:false" json:"isGroup"`
	CreatedAt time.Time `json:"createdAt"`

	Participants []ConversationParticipant `gorm:"foreignKey:ConversationID" json:"participants,omitempty"`
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// Kind returns the authorization variant for this conversation. Group and
// direct conversations answer delete questions differently, so the rules
// live here instead of being re-derived from IsGroup at every call site.
func (c *Conversation) Kind() ConversationKind {
	if c.IsGroup {
		return groupKind{}
	}
	return directKind{}
}

// ConversationKind carries the kind-specific authorization predicates.
// isAdmin refers to the requester's admin flag within this conversation.
type ConversationKind interface {
	// CanDeleteConversation reports whether a participant with the given
	// admin standing may delete the whole conversation.
	CanDeleteConversation(isAdmin bool) bool
	// CanDeleteMessage reports whether the requester may delete a message,
	// given whether they sent it and their admin standing.
	CanDeleteMessage(isSender, isAdmin bool) bool
}

// directKind: any participant may drop the thread, only senders may remove
// their own messages. Admin rights are not meaningful outside groups.
type directKind struct{}

func (directKind) CanDeleteConversation(bool) bool        { return true }
func (directKind) CanDeleteMessage(isSender, _ bool) bool { return isSender }

// groupKind: deleting the conversation is admin-only; admins may also
// remove anyone's messages.
type groupKind struct{}

func (groupKind) CanDeleteConversation(isAdmin bool) bool      { return isAdmin }
func (groupKind) CanDeleteMessage(isSender, isAdmin bool) bool { return isSender || isAdmin }

// ConversationParticipant links a user to a conversation. The composite
// primary key enforces the one-membership-per-user invariant. The creator
// is inserted with IsAdmin=true, everyone else with false.
type ConversationParticipant struct {
	ConversationID string    `gorm:"primaryKey;type:text" json:"conversationId"`
	UserID         string    `gorm:"primaryKey;type:text" json:"userId"`
	IsAdmin        bool      `gorm:"default:false" json:"isAdmin"`
	JoinedAt       time.Time `gorm:"autoCreateTime" json:"joinedAt"`

	User User `gorm:"foreignKey:UserID" json:"user"`
}
