package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/luaygitaris/appChat/internal/database"
	"github.com/luaygitaris/appChat/internal/models"
	"github.com/luaygitaris/appChat/pkg/logger"
)

// UserSummary is the public projection used by search results.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image"`
}

// GetMe returns the authenticated user's profile.
func GetMe(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// SearchUsers lists users, optionally filtered by a case-insensitive email
// fragment. Used by clients to pick conversation members.
func SearchUsers(c *gin.Context) {
	email := c.Query("email")

	query := database.DB.Model(&models.User{})
	if email != "" {
		query = query.Where("LOWER(email) LIKE ?", "%"+strings.ToLower(email)+"%")
	}

	var users []UserSummary
	if err := query.Select("id", "name", "email", "image").Find(&users).Error; err != nil {
		logger.Error().Err(err).Msg("Failed to search users")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, users)
}
