package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/luaygitaris/appChat/internal/config"
	"github.com/luaygitaris/appChat/internal/database"
	"github.com/luaygitaris/appChat/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SetupTestDB initializes an in-memory SQLite DB for testing. The shared
// cache keeps one DB per process, so tables are dropped on every call to
// isolate tests.
func SetupTestDB() {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		panic(err)
	}
	database.DB = db

	db.Migrator().DropTable(
		&models.Message{},
		&models.ConversationParticipant{},
		&models.Conversation{},
		&models.User{},
	)
	db.AutoMigrate(
		&models.User{},
		&models.Conversation{},
		&models.ConversationParticipant{},
		&models.Message{},
	)

	if config.AppConfig == nil {
		config.AppConfig = &config.Config{JWTSecret: "test-secret"}
	}
}

func seedUser(id, name, email string) models.User {
	user := models.User{ID: id, Name: name, Email: email}
	database.DB.Create(&user)
	return user
}

// seedConversation creates a conversation with the given admin flags per
// user id.
func seedConversation(id string, isGroup bool, admins map[string]bool) models.Conversation {
	conversation := models.Conversation{ID: id, IsGroup: isGroup}
	database.DB.Create(&conversation)
	for userID, isAdmin := range admins {
		database.DB.Create(&models.ConversationParticipant{
			ConversationID: id,
			UserID:         userID,
			IsAdmin:        isAdmin,
		})
	}
	return conversation
}

func seedMessage(id, conversationID, senderID, content string, createdAt time.Time) models.Message {
	message := models.Message{
		ID:             id,
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		CreatedAt:      createdAt,
	}
	database.DB.Create(&message)
	return message
}

// testContext builds a gin context with an authenticated user, optional
// JSON body, and path params.
func testContext(userID, method, target string, body interface{}, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reqBody *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	c.Request, _ = http.NewRequest(method, target, reqBody)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = params
	if userID != "" {
		c.Set("userId", userID)
	}
	return c, w
}
