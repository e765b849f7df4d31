package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/luaygitaris/appChat/internal/handlers"
	"github.com/luaygitaris/appChat/internal/middleware"
)

func RegisterAuthRoutes(r gin.IRouter) {
	r.POST("/register", handlers.Register)
	r.POST("/login", handlers.Login)
	// Logout needs the claims set by AuthMiddleware for token revocation
	r.POST("/logout", middleware.AuthMiddleware(), handlers.Logout)

	// OAuth
	r.GET("/google/login", handlers.GoogleLogin)
	r.GET("/google/callback", handlers.GoogleCallback)
}
