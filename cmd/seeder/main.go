package main

import (
	"log"

	"github.com/luaygitaris/appChat/internal/config"
	"github.com/luaygitaris/appChat/internal/database"
	"github.com/luaygitaris/appChat/internal/models"
	"github.com/luaygitaris/appChat/internal/seeds"
)

func main() {
	log.Println("🌱 Starting database seeder...")

	config.LoadConfig()
	database.Connect()

	log.Println("📦 Running migrations...")
	if err := database.DB.AutoMigrate(
		&models.User{},
		&models.Conversation{},
		&models.ConversationParticipant{},
		&models.Message{},
	); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	log.Println("👤 Seeding demo users...")
	alice, err := seeds.GetOrCreateDemoUser("Alice", "alice@example.com", "password123")
	if err != nil {
		log.Fatalf("❌ Failed to seed user: %v", err)
	}
	bob, err := seeds.GetOrCreateDemoUser("Bob", "bob@example.com", "password123")
	if err != nil {
		log.Fatalf("❌ Failed to seed user: %v", err)
	}
	carol, err := seeds.GetOrCreateDemoUser("Carol", "carol@example.com", "password123")
	if err != nil {
		log.Fatalf("❌ Failed to seed user: %v", err)
	}

	log.Println("💬 Seeding demo conversations...")
	if err := seeds.SeedDemoConversations(alice, bob, carol); err != nil {
		log.Fatalf("❌ Failed to seed conversations: %v", err)
	}

	log.Println("✅ Seeding complete")
}
