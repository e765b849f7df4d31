package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/luaygitaris/appChat/internal/services"
)

type CreateConversationInput struct {
	Name    *string  `json:"name"`
	IsGroup bool     `json:"isGroup"`
	UserIDs []string `json:"userIds" binding:"required,min=1"`
}

// ListConversations returns every conversation the caller participates in.
func ListConversations(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	conversations, appErr := services.ListConversations(userID)
	if appErr != nil {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	c.JSON(http.StatusOK, conversations)
}

// CreateConversation creates a conversation, or returns the existing direct
// conversation between the pair. 201 when created, 200 when it existed.
func CreateConversation(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var input CreateConversationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please select at least one user"})
		return
	}

	conversation, created, appErr := services.CreateConversation(userID, services.CreateConversationInput{
		Name:    input.Name,
		IsGroup: input.IsGroup,
		UserIDs: input.UserIDs,
	})
	if appErr != nil {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, conversation)
}

// GetConversation fetches a single conversation with participant profiles
// and the participantsNames convenience list.
func GetConversation(c *gin.Context) {
	conversationID := c.Param("conversationId")

	detail, appErr := services.GetConversation(conversationID)
	if appErr != nil {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	c.JSON(http.StatusOK, detail)
}

// DeleteConversation removes a conversation with its messages and
// participants.
func DeleteConversation(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	conversationID := c.Param("conversationId")

	if appErr := services.DeleteConversation(userID, conversationID); appErr != nil {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Conversation deleted successfully"})
}
