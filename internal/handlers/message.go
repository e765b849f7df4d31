package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/luaygitaris/appChat/internal/database"
	"github.com/luaygitaris/appChat/internal/services"
	"github.com/luaygitaris/appChat/pkg/logger"
)

type MessageContentInput struct {
	Content string `json:"content" binding:"required"`
}

// ListMessages returns the full message history of a conversation, oldest
// first.
func ListMessages(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	conversationID := c.Param("conversationId")

	messages, appErr := services.ListMessages(userID, conversationID)
	if appErr != nil {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	c.JSON(http.StatusOK, messages)
}

// SendMessage creates a message in the conversation.
func SendMessage(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	conversationID := c.Param("conversationId")

	var input MessageContentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message content must not be empty"})
		return
	}

	// Per-user send budget on top of the per-IP limiter
	ok, err := database.CheckRateLimit("send_message", userID, 30, time.Minute)
	if err != nil {
		logger.Warn().Err(err).Msg("Rate limit check failed, allowing request")
	} else if !ok {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "You are sending messages too quickly"})
		return
	}

	message, appErr := services.CreateMessage(userID, conversationID, input.Content)
	if appErr != nil {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	c.JSON(http.StatusCreated, message)
}

// PollMessages returns messages newer than the lastMessageId anchor. No
// anchor, or a deleted one, yields an empty array.
func PollMessages(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	conversationID := c.Param("conversationId")
	lastMessageID := c.Query("lastMessageId")

	messages, appErr := services.PollMessages(userID, conversationID, lastMessageID)
	if appErr != nil {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	c.JSON(http.StatusOK, messages)
}

// EditMessage replaces the content of the caller's own message.
func EditMessage(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	conversationID := c.Param("conversationId")
	messageID := c.Param("messageId")

	var input MessageContentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message content must not be empty"})
		return
	}

	message, appErr := services.EditMessage(userID, conversationID, messageID, input.Content)
	if appErr != nil {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	c.JSON(http.StatusOK, message)
}

// DeleteMessage removes a message (sender, or group admin).
func DeleteMessage(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	conversationID := c.Param("conversationId")
	messageID := c.Param("messageId")

	if appErr := services.DeleteMessage(userID, conversationID, messageID); appErr != nil {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message deleted successfully"})
}
