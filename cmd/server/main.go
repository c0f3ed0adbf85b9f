package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/sessions"

	"stagepass/internal/cache"
	"stagepass/internal/config"
	"stagepass/internal/database"
	"stagepass/internal/handlers"
	"stagepass/internal/middleware"
	"stagepass/internal/repositories"
	"stagepass/internal/services"
	"stagepass/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
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

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(db.DB)
	orgRepo := repositories.NewOrganizationRepository(db.DB)
	venueRepo := repositories.NewVenueRepository(db.DB)
	artistRepo := repositories.NewArtistRepository(db.DB)
	eventRepo := repositories.NewEventRepository(db.DB)
	ticketRepo := repositories.NewTicketRepository(db.DB)
	orderRepo := repositories.NewOrderRepository(db.DB)
	promoRepo := repositories.NewPromoRepository(db.DB)
	recordingRepo := repositories.NewRecordingRepository(db.DB)
	activityRepo := repositories.NewActivityLogRepository(db.DB)

	// Shared infrastructure
	store := cache.NewStore(time.Minute)
	sessionStore := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode
	sessionStore.Options.Secure = cfg.Server.Env == "production"

	// Services
	activityService := services.NewActivityService(activityRepo, userRepo, services.LogNotifier{})
	hashConfig := utils.NewPasswordHashConfig(cfg.Auth.HashMemoryKB, cfg.Auth.HashIterations, cfg.Auth.HashParallelism)
	authService := services.NewAuthService(userRepo, activityService, hashConfig)
	userService := services.NewUserService(userRepo, activityService)
	orgService := services.NewOrganizationService(orgRepo, activityService, store)
	venueService := services.NewVenueService(venueRepo, activityService, store)
	artistService := services.NewArtistService(artistRepo, eventRepo, activityService, store)
	eventService := services.NewEventService(eventRepo, orgService, activityService, store)
	searchService := services.NewSearchService(eventRepo, artistRepo, store)
	recordingService := services.NewRecordingService(recordingRepo, activityService, store)
	analyticsService := services.NewAnalyticsService(eventRepo, orderRepo, orgService, activityService)

	holdTTL := time.Duration(cfg.Tickets.HoldTTLMinutes) * time.Minute
	ticketService := services.NewTicketService(ticketRepo, activityService, store, holdTTL, cfg.Tickets.MaxTicketsPerHold)
	orderService := services.NewOrderService(orderRepo, ticketRepo, promoRepo, &services.MockPaymentProvider{}, activityService, store)

	storage := services.NewStorageService(cfg.R2, cfg.Storage.LocalPath, cfg.Storage.LocalURL)
	imageService := services.NewImageService(storage)

	// HTTP layer
	authMiddleware := middleware.NewAuthMiddleware(authService, sessionStore)

	router := handlers.NewRouter(handlers.RouterDeps{
		Auth:          authMiddleware,
		Activity:      activityService,
		AuthHandler:   handlers.NewAuthHandler(authService, userService, authMiddleware),
		Public:        handlers.NewPublicHandler(eventService, ticketService, artistService, venueService, searchService, recordingService),
		Events:        handlers.NewEventHandler(eventService, ticketService, orgService, analyticsService),
		Orders:        handlers.NewOrderHandler(ticketService, orderService),
		Organizations: handlers.NewOrganizationHandler(orgService),
		Recordings:    handlers.NewRecordingHandler(recordingService),
		Admin:         handlers.NewAdminHandler(eventService, ticketService, artistService, venueService, orderService, userService, analyticsService),
		Images:        handlers.NewImageHandler(imageService),
	})

	// Background hold sweeper
	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	sweepInterval := time.Duration(cfg.Tickets.SweepIntervalSeconds) * time.Second
	go ticketService.RunHoldSweeper(sweeperCtx, sweepInterval)

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	stopSweeper()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped")
}
