package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/proofline/proofline/internal/domain/entities"
	"github.com/proofline/proofline/internal/infrastructure/database"
	"github.com/proofline/proofline/pkg/config"
)

func main() {
	log.Println("🚀 Starting test users creation...")

	// Load configuration from .env
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Define test users
	testUsers := []struct {
		Email string
		Name  string
	}{
		{Email: "alice@test.local", Name: "Alice"},
		{Email: "bob@test.local", Name: "Bob"},
		{Email: "charlie@test.local", Name: "Charlie"},
	}

	log.Println("🗑️  Cleaning up existing test users...")
	db.Where("email LIKE ?", "%@test.local").Delete(&entities.User{})

	log.Println("🔑 Creating test users and API keys...")

	for i, testUser := range testUsers {
		user := &entities.User{
			ID:            uuid.New(),
			Email:         testUser.Email,
			Name:          testUser.Name,
			APIKey:        newAPIKey(),
			IsActive:      true,
			APIUsageLimit: cfg.Engine.DefaultSpendCap,
		}

		if err := db.Create(user).Error; err != nil {
			log.Printf("❌ Failed to create user %s: %v", testUser.Email, err)
			continue
		}

		fmt.Printf("═══════════════════════════════════════════════════════\n")
		fmt.Printf("🟢 User %d: %s\n", i+1, testUser.Name)
		fmt.Printf("Email:        %s\n", user.Email)
		fmt.Printf("User ID:      %s\n", user.ID)
		fmt.Printf("Spend cap:    $%.2f\n", user.APIUsageLimit)
		fmt.Printf("\n📋 API Key (send as X-API-Key header):\n%s\n\n", user.APIKey)
	}

	log.Println("✅ All test users created successfully!")
	log.Println("\n💡 Usage:")
	log.Println("   1. Copy an API key above")
	log.Println("   2. Set header: X-API-Key: <key>")
	log.Println("\n🧹 To clean up test users, run: DELETE FROM users WHERE email LIKE '%@test.local'")
}

func newAPIKey() string {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		log.Fatalf("Failed to generate API key: %v", err)
	}
	return "pl_" + hex.EncodeToString(buf)
}
