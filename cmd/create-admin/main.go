package main

import (
	"flag"
	"fmt"
	"log"

	"stagepass/internal/config"
	"stagepass/internal/database"
	"stagepass/internal/models"
	"stagepass/internal/repositories"
	"stagepass/internal/utils"
)

func main() {
	var (
		email       = flag.String("email", "", "Admin email address")
		password    = flag.String("password", "", "Admin password")
		displayName = flag.String("name", "Platform Admin", "Admin display name")
	)
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("Both -email and -password are required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dbConfig := database.Config{
		URL:      cfg.Database.URL,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	}

	db, err := database.NewConnection(dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	userRepo := repositories.NewUserRepository(db.DB)

	passwordHash, err := utils.HashPassword(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	// Reset the password if the account already exists
	if existing, err := userRepo.GetByEmail(*email); err == nil {
		_, err = db.DB.Exec(
			"UPDATE users SET password_hash = $1, role = $2, is_active = TRUE, updated_at = NOW() WHERE id = $3",
			passwordHash, models.RoleAdmin, existing.ID,
		)
		if err != nil {
			log.Fatalf("Failed to update admin account: %v", err)
		}
		fmt.Printf("Updated existing admin account %s (ID %d)\n", *email, existing.ID)
		return
	}

	user, err := userRepo.Create(&models.UserCreateRequest{
		Email:       *email,
		DisplayName: *displayName,
		Role:        models.RoleAdmin,
	}, passwordHash)
	if err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}

	fmt.Printf("Created admin account %s (ID %d)\n", user.Email, user.ID)
}
