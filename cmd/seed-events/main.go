package main

import (
	"fmt"
	"log"
	"time"

	"stagepass/internal/config"
	"stagepass/internal/database"
	"stagepass/internal/models"
	"stagepass/internal/repositories"
	"stagepass/internal/utils"
)

// Seeds a demo organizer, venue, artists and a pair of published events
// with ticket tiers. Intended for local development only.
func main() {
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
	orgRepo := repositories.NewOrganizationRepository(db.DB)
	venueRepo := repositories.NewVenueRepository(db.DB)
	artistRepo := repositories.NewArtistRepository(db.DB)
	eventRepo := repositories.NewEventRepository(db.DB)
	ticketRepo := repositories.NewTicketRepository(db.DB)

	organizer, err := userRepo.GetByEmail("organizer@stagepass.dev")
	if err != nil {
		passwordHash, err := utils.HashPassword("organizer123")
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		organizer, err = userRepo.Create(&models.UserCreateRequest{
			Email:       "organizer@stagepass.dev",
			DisplayName: "Demo Organizer",
			Role:        models.RoleOrganizer,
		}, passwordHash)
		if err != nil {
			log.Fatalf("Failed to create organizer: %v", err)
		}
	}

	org, err := orgRepo.GetBySlug("midnight-collective")
	if err != nil {
		org, err = orgRepo.Create(&models.OrganizationCreateRequest{
			Name:         "Midnight Collective",
			Slug:         "midnight-collective",
			Description:  "Independent promoter for late-night shows",
			ContactEmail: "bookings@stagepass.dev",
		}, organizer.ID)
		if err != nil {
			log.Fatalf("Failed to create organization: %v", err)
		}
	}

	venue, err := venueRepo.Create(&models.VenueCreateRequest{
		Name:     "The Velvet Room",
		Address:  "12 Canal Street",
		City:     "Manchester",
		Country:  "UK",
		Capacity: 450,
	})
	if err != nil {
		log.Fatalf("Failed to create venue: %v", err)
	}

	headliner, err := artistRepo.Create(&models.ArtistCreateRequest{
		Name:  "Night Parade",
		Genre: "indie rock",
		Bio:   "Four-piece from Leeds",
	})
	if err != nil {
		log.Fatalf("Failed to create artist: %v", err)
	}

	support, err := artistRepo.Create(&models.ArtistCreateRequest{
		Name:  "Glasshouse",
		Genre: "dream pop",
	})
	if err != nil {
		log.Fatalf("Failed to create artist: %v", err)
	}

	start := time.Now().AddDate(0, 1, 0).Truncate(time.Hour)
	event, err := eventRepo.Create(&models.EventCreateRequest{
		OrganizationID: org.ID,
		VenueID:        &venue.ID,
		HeadlinerID:    &headliner.ID,
		Title:          "Night Parade: Album Launch",
		Description:    "Album launch show with full support lineup",
		StartDate:      start,
		EndDate:        start.Add(4 * time.Hour),
		Status:         models.StatusPublished,
		ArtistIDs:      []int{headliner.ID, support.ID},
	})
	if err != nil {
		log.Fatalf("Failed to create event: %v", err)
	}

	tiers := []models.TicketTierCreateRequest{
		{EventID: event.ID, Name: "General Admission", PriceCents: 2500, Total: 350, SaleStart: time.Now(), SaleEnd: start},
		{EventID: event.ID, Name: "Balcony", PriceCents: 4000, Total: 100, SaleStart: time.Now(), SaleEnd: start},
	}
	for i := range tiers {
		if _, err := ticketRepo.CreateTier(&tiers[i]); err != nil {
			log.Fatalf("Failed to create tier %q: %v", tiers[i].Name, err)
		}
	}

	fmt.Printf("Seeded event %q (ID %d) for %s at %s\n", event.Title, event.ID, org.Name, venue.Name)
}
