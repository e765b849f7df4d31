package seeds

import (
	"log"
	"time"

	"github.com/luaygitaris/appChat/internal/database"
	"github.com/luaygitaris/appChat/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// GetOrCreateDemoUser upserts one demo account by email.
func GetOrCreateDemoUser(name, email, password string) (models.User, error) {
	var user models.User
	err := database.DB.Where("email = ?", email).First(&user).Error
	if err == nil {
		log.Printf("   Demo user found: %s", user.Email)
		return user, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user = models.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Image:    "https://api.dicebear.com/7.x/identicon/svg?seed=" + name,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		return models.User{}, err
	}
	log.Printf("   Demo user created: %s", user.Email)
	return user, nil
}

// SeedDemoConversations creates a direct chat and a group with a short
// message history, so a fresh environment has something to click on.
func SeedDemoConversations(alice, bob, carol models.User) error {
	var existing int64
	database.DB.Model(&models.Conversation{}).Count(&existing)
	if existing > 0 {
		log.Println("   Conversations already present, skipping")
		return nil
	}

	direct := models.Conversation{IsGroup: false}
	if err := database.DB.Create(&direct).Error; err != nil {
		return err
	}
	if err := database.DB.Create(&[]models.ConversationParticipant{
		{ConversationID: direct.ID, UserID: alice.ID, IsAdmin: true},
		{ConversationID: direct.ID, UserID: bob.ID, IsAdmin: false},
	}).Error; err != nil {
		return err
	}

	groupName := "demo group"
	group := models.Conversation{Name: &groupName, IsGroup: true}
	if err := database.DB.Create(&group).Error; err != nil {
		return err
	}
	if err := database.DB.Create(&[]models.ConversationParticipant{
		{ConversationID: group.ID, UserID: alice.ID, IsAdmin: true},
		{ConversationID: group.ID, UserID: bob.ID, IsAdmin: false},
		{ConversationID: group.ID, UserID: carol.ID, IsAdmin: false},
	}).Error; err != nil {
		return err
	}

	now := time.Now()
	messages := []models.Message{
		{ConversationID: direct.ID, SenderID: alice.ID, Content: "hey, are you around?", CreatedAt: now.Add(-10 * time.Minute)},
		{ConversationID: direct.ID, SenderID: bob.ID, Content: "yep, what's up?", CreatedAt: now.Add(-9 * time.Minute)},
		{ConversationID: group.ID, SenderID: alice.ID, Content: "welcome to the demo group", CreatedAt: now.Add(-5 * time.Minute)},
		{ConversationID: group.ID, SenderID: carol.ID, Content: "hello everyone", CreatedAt: now.Add(-4 * time.Minute)},
	}
	for i := range messages {
		if err := database.DB.Create(&messages[i]).Error; err != nil {
			return err
		}
	}

	log.Println("   Seeded 1 direct + 1 group conversation with messages")
	return nil
}
