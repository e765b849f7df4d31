package services

import (
	"errors"

	"github.com/luaygitaris/appChat/internal/database"
	"github.com/luaygitaris/appChat/internal/models"
	apperrors "github.com/luaygitaris/appChat/pkg/errors"
	"github.com/luaygitaris/appChat/pkg/logger"
	"gorm.io/gorm"
)

type CreateConversationInput struct {
	Name    *string
	IsGroup bool
	UserIDs []string
}

// ConversationDetail is the single-conversation projection, with the
// flattened display names of every participant (admins included).
type ConversationDetail struct {
	models.Conversation
	ParticipantsNames []string `json:"participantsNames"`
}

// CreateConversation creates a conversation with the requester as admin and
// every listed user as a regular participant. For a direct chat with a
// single target user, an existing direct conversation between the pair is
// returned as-is instead of creating a duplicate. The second return value
// is true when a new conversation was created.
func CreateConversation(requesterID string, in CreateConversationInput) (*models.Conversation, bool, *apperrors.AppError) {
	if len(in.UserIDs) == 0 {
		return nil, false, apperrors.BadRequest("Please select at least one user")
	}

	if !in.IsGroup && len(in.UserIDs) == 1 {
		existing, err := findDirectConversation(requesterID, in.UserIDs[0])
		if err != nil {
			logger.Error().Err(err).Msg("Failed to look up existing direct conversation")
			return nil, false, apperrors.Internal("Failed to create conversation")
		}
		if existing != nil {
			return existing, false, nil
		}
	}

	conversation := models.Conversation{
		IsGroup: in.IsGroup,
	}
	// Name only carries meaning for groups
	if in.IsGroup {
		conversation.Name = in.Name
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&conversation).Error; err != nil {
			return err
		}

		participants := []models.ConversationParticipant{
			{ConversationID: conversation.ID, UserID: requesterID, IsAdmin: true},
		}
		seen := map[string]bool{requesterID: true}
		for _, userID := range in.UserIDs {
			if seen[userID] {
				continue
			}
			seen[userID] = true
			participants = append(participants, models.ConversationParticipant{
				ConversationID: conversation.ID,
				UserID:         userID,
				IsAdmin:        false,
			})
		}
		return tx.Create(&participants).Error
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create conversation")
		return nil, false, apperrors.Internal("Failed to create conversation")
	}

	created, appErr := loadConversation(conversation.ID)
	if appErr != nil {
		return nil, false, appErr
	}
	return created, true, nil
}

// findDirectConversation returns any non-group conversation that both users
// participate in, or nil when none exists.
func findDirectConversation(userA, userB string) (*models.Conversation, error) {
	var conversation models.Conversation
	err := database.DB.
		Joins("JOIN conversation_participants a ON a.conversation_id = conversations.id AND a.user_id = ?", userA).
		Joins("JOIN conversation_participants b ON b.conversation_id = conversations.id AND b.user_id = ?", userB).
		Where("conversations.is_group = ?", false).
		Preload("Participants.User").
		First(&conversation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

// ListConversations returns every conversation the requester participates
// in, with participant user records attached. Full scan per call; there is
// no pagination at this scale.
func ListConversations(requesterID string) ([]models.Conversation, *apperrors.AppError) {
	var conversations []models.Conversation
	err := database.DB.
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id AND cp.user_id = ?", requesterID).
		Preload("Participants.User").
		Order("conversations.created_at DESC").
		Find(&conversations).Error
	if err != nil {
		logger.Error().Err(err).Str("user_id", requesterID).Msg("Failed to list conversations")
		return nil, apperrors.Internal("Failed to fetch conversations")
	}
	return conversations, nil
}

// GetConversation fetches a single conversation with participant profiles
// and the derived participantsNames list.
func GetConversation(conversationID string) (*ConversationDetail, *apperrors.AppError) {
	conversation, appErr := loadConversation(conversationID)
	if appErr != nil {
		return nil, appErr
	}

	names := make([]string, 0, len(conversation.Participants))
	for _, p := range conversation.Participants {
		names = append(names, p.User.Name)
	}

	return &ConversationDetail{
		Conversation:      *conversation,
		ParticipantsNames: names,
	}, nil
}

// DeleteConversation removes a conversation and everything it owns.
// Non-participants get NotFound rather than Forbidden so that existence is
// never confirmed to outsiders. In groups, only admins may delete.
func DeleteConversation(requesterID, conversationID string) *apperrors.AppError {
	var conversation models.Conversation
	err := database.DB.First(&conversation, "id = ?", conversationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound("Conversation not found")
	}
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load conversation for delete")
		return apperrors.Internal("Failed to delete conversation")
	}

	isParticipant, err := IsParticipant(requesterID, conversationID)
	if err != nil {
		logger.Error().Err(err).Msg("Membership lookup failed")
		return apperrors.Internal("Failed to delete conversation")
	}
	if !isParticipant {
		return apperrors.NotFound("Conversation not found")
	}

	isAdmin := false
	if conversation.IsGroup {
		isAdmin, err = IsAdminOf(requesterID, conversationID)
		if err != nil {
			logger.Error().Err(err).Msg("Admin lookup failed")
			return apperrors.Internal("Failed to delete conversation")
		}
	}
	if !conversation.Kind().CanDeleteConversation(isAdmin) {
		return apperrors.Forbidden("Only group admins can delete this conversation")
	}

	// Cascade inside one transaction: messages, then participants, then the
	// conversation row. A crash mid-cascade rolls back rather than leaving
	// orphaned messages on a live conversation id.
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", conversationID).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("conversation_id = ?", conversationID).Delete(&models.ConversationParticipant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Conversation{}, "id = ?", conversationID).Error
	})
	if err != nil {
		logger.Error().Err(err).Str("conversation_id", conversationID).Msg("Failed to delete conversation")
		return apperrors.Internal("Failed to delete conversation")
	}

	logger.Info().
		Str("conversation_id", conversationID).
		Str("user_id", requesterID).
		Msg("Conversation deleted")
	return nil
}

func loadConversation(conversationID string) (*models.Conversation, *apperrors.AppError) {
	var conversation models.Conversation
	err := database.DB.
		Preload("Participants.User").
		First(&conversation, "id = ?", conversationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Conversation not found")
	}
	if err != nil {
		logger.Error().Err(err).Str("conversation_id", conversationID).Msg("Failed to fetch conversation")
		return nil, apperrors.Internal("Failed to fetch conversation")
	}
	return &conversation, nil
}
