package services

import (
	"errors"
	"strings"

	"github.com/luaygitaris/appChat/internal/database"
	"github.com/luaygitaris/appChat/internal/models"
	apperrors "github.com/luaygitaris/appChat/pkg/errors"
	"github.com/luaygitaris/appChat/pkg/logger"
	"gorm.io/gorm"
)

// ListMessages returns every message in the conversation, oldest first,
// with the sender profile attached. Membership is mandatory: non-members
// get NotFound, never the message list.
func ListMessages(requesterID, conversationID string) ([]models.Message, *apperrors.AppError) {
	if appErr := requireParticipant(requesterID, conversationID); appErr != nil {
		return nil, appErr
	}

	var messages []models.Message
	err := database.DB.
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Preload("Sender").
		Find(&messages).Error
	if err != nil {
		logger.Error().Err(err).Str("conversation_id", conversationID).Msg("Failed to fetch messages")
		return nil, apperrors.Internal("Failed to fetch messages")
	}
	return messages, nil
}

// CreateMessage inserts a message sent by the requester. Content must be
// non-empty and the requester's account record must still exist.
func CreateMessage(requesterID, conversationID, content string) (*models.Message, *apperrors.AppError) {
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.BadRequest("Message content must not be empty")
	}

	if appErr := requireParticipant(requesterID, conversationID); appErr != nil {
		return nil, appErr
	}

	var sender models.User
	err := database.DB.First(&sender, "id = ?", requesterID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("User not found")
	}
	if err != nil {
		logger.Error().Err(err).Msg("Sender lookup failed")
		return nil, apperrors.Internal("Failed to send message")
	}

	message := models.Message{
		ConversationID: conversationID,
		SenderID:       sender.ID,
		Content:        content,
	}
	if err := database.DB.Create(&message).Error; err != nil {
		logger.Error().Err(err).Str("conversation_id", conversationID).Msg("Failed to create message")
		return nil, apperrors.Internal("Failed to send message")
	}

	message.Sender = sender
	return &message, nil
}

// EditMessage updates the content of a message. Editing is sender-only;
// admin standing grants no edit rights. The creation timestamp is
// preserved and there is no edited marker.
func EditMessage(requesterID, conversationID, messageID, content string) (*models.Message, *apperrors.AppError) {
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.BadRequest("Message content must not be empty")
	}

	if appErr := requireParticipant(requesterID, conversationID); appErr != nil {
		return nil, appErr
	}

	message, appErr := findConversationMessage(conversationID, messageID)
	if appErr != nil {
		return nil, appErr
	}

	if message.SenderID != requesterID {
		return nil, apperrors.Forbidden("You can only edit your own messages")
	}

	// Last write wins on concurrent edits; there is no version token.
	err := database.DB.Model(&models.Message{}).
		Where("id = ?", messageID).
		Update("content", content).Error
	if err != nil {
		logger.Error().Err(err).Str("message_id", messageID).Msg("Failed to update message")
		return nil, apperrors.Internal("Failed to update message")
	}

	message.Content = content
	return message, nil
}

// DeleteMessage removes a message. Senders may always delete their own;
// in group conversations admins may delete anyone's. Deletion is physical.
func DeleteMessage(requesterID, conversationID, messageID string) *apperrors.AppError {
	var conversation models.Conversation
	err := database.DB.First(&conversation, "id = ?", conversationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound("Conversation not found")
	}
	if err != nil {
		logger.Error().Err(err).Msg("Conversation lookup failed")
		return apperrors.Internal("Failed to delete message")
	}

	if appErr := requireParticipant(requesterID, conversationID); appErr != nil {
		return appErr
	}

	message, appErr := findConversationMessage(conversationID, messageID)
	if appErr != nil {
		return appErr
	}

	isSender := message.SenderID == requesterID
	isAdmin := false
	if conversation.IsGroup {
		isAdmin, err = IsAdminOf(requesterID, conversationID)
		if err != nil {
			logger.Error().Err(err).Msg("Admin lookup failed")
			return apperrors.Internal("Failed to delete message")
		}
	}
	if !conversation.Kind().CanDeleteMessage(isSender, isAdmin) {
		return apperrors.Forbidden("You can only delete your own messages")
	}

	if err := database.DB.Delete(&models.Message{}, "id = ?", messageID).Error; err != nil {
		logger.Error().Err(err).Str("message_id", messageID).Msg("Failed to delete message")
		return apperrors.Internal("Failed to delete message")
	}
	return nil
}

// PollMessages returns the messages that arrived after the anchor message,
// oldest first. An absent anchor yields an empty result, forcing the
// client through a full list fetch. A deleted anchor also yields empty
// rather than an error; the client's periodic full refresh recovers from
// that, and erroring here would just storm on the polling cadence.
func PollMessages(requesterID, conversationID, lastMessageID string) ([]models.Message, *apperrors.AppError) {
	if appErr := requireParticipant(requesterID, conversationID); appErr != nil {
		return nil, appErr
	}

	messages := []models.Message{}
	if lastMessageID == "" {
		return messages, nil
	}

	var anchor models.Message
	err := database.DB.First(&anchor, "id = ? AND conversation_id = ?", lastMessageID, conversationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return messages, nil
	}
	if err != nil {
		logger.Error().Err(err).Str("message_id", lastMessageID).Msg("Anchor lookup failed")
		return nil, apperrors.Internal("Failed to poll messages")
	}

	// Keyset on (created_at, id): timestamp ties are broken by id so a
	// message sharing the anchor's timestamp is neither missed nor
	// returned twice across consecutive polls.
	err = database.DB.
		Where("conversation_id = ? AND (created_at > ? OR (created_at = ? AND id > ?))",
			conversationID, anchor.CreatedAt, anchor.CreatedAt, anchor.ID).
		Order("created_at ASC, id ASC").
		Preload("Sender").
		Find(&messages).Error
	if err != nil {
		logger.Error().Err(err).Str("conversation_id", conversationID).Msg("Failed to poll messages")
		return nil, apperrors.Internal("Failed to poll messages")
	}
	return messages, nil
}

// findConversationMessage loads a message and verifies it belongs to the
// conversation. A message from another conversation reads as NotFound.
func findConversationMessage(conversationID, messageID string) (*models.Message, *apperrors.AppError) {
	var message models.Message
	err := database.DB.First(&message, "id = ?", messageID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Message not found")
	}
	if err != nil {
		logger.Error().Err(err).Str("message_id", messageID).Msg("Message lookup failed")
		return nil, apperrors.Internal("Failed to fetch message")
	}
	if message.ConversationID != conversationID {
		return nil, apperrors.NotFound("Message not found")
	}
	return &message, nil
}

func requireParticipant(requesterID, conversationID string) *apperrors.AppError {
	isParticipant, err := IsParticipant(requesterID, conversationID)
	if err != nil {
		logger.Error().Err(err).Msg("Membership lookup failed")
		return apperrors.Internal("Failed to verify conversation membership")
	}
	if !isParticipant {
		return apperrors.NotFound("Conversation not found")
	}
	return nil
}
