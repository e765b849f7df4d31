package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/luaygitaris/appChat/internal/handlers"
	"github.com/luaygitaris/appChat/internal/middleware"
)

func RegisterUserRoutes(r gin.IRouter) {
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("", handlers.SearchUsers) // ?email=...
		users.GET("/me", handlers.GetMe)
	}
}
