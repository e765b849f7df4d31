package services

import (
	"github.com/luaygitaris/appChat/internal/database"
	"github.com/luaygitaris/appChat/internal/models"
)

// Membership checks always hit the store. Participant sets change out from
// under a request (conversation deletes, future group management), so a
// cached answer would authorize against stale state.

// IsParticipant reports whether the user belongs to the conversation.
func IsParticipant(userID, conversationID string) (bool, error) {
	var count int64
	err := database.DB.Model(&models.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&count).Error
	return count > 0, err
}

// IsAdminOf reports whether the user holds admin rights in the
// conversation. Only meaningful for group conversations; direct
// conversations fall back to sender/participant rules and never ask.
func IsAdminOf(userID, conversationID string) (bool, error) {
	var count int64
	err := database.DB.Model(&models.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ? AND is_admin = ?", conversationID, userID, true).
		Count(&count).Error
	return count > 0, err
}
