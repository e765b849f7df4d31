package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/luaygitaris/appChat/internal/handlers"
	"github.com/luaygitaris/appChat/internal/middleware"
)

func RegisterConversationRoutes(r gin.IRouter) {
	conversations := r.Group("/conversations")
	conversations.Use(middleware.AuthMiddleware())
	{
		conversations.GET("", handlers.ListConversations)
		conversations.POST("", handlers.CreateConversation)
		conversations.GET("/:conversationId", handlers.GetConversation)
		conversations.DELETE("/:conversationId", handlers.DeleteConversation)

		conversations.GET("/:conversationId/messages", handlers.ListMessages)
		conversations.POST("/:conversationId/messages", middleware.MessageRateLimit(), handlers.SendMessage)
		conversations.GET("/:conversationId/messages/poll", handlers.PollMessages)
		conversations.PUT("/:conversationId/messages/:messageId", handlers.EditMessage)
		conversations.DELETE("/:conversationId/messages/:messageId", handlers.DeleteMessage)
	}
}
