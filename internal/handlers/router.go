package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"stagepass/internal/middleware"
	"stagepass/internal/models"
	"stagepass/internal/services"
)

// RouterDeps bundles everything the HTTP router needs
type RouterDeps struct {
	Auth          *middleware.AuthMiddleware
	Activity      *services.ActivityService
	AuthHandler   *AuthHandler
	Public        *PublicHandler
	Events        *EventHandler
	Orders        *OrderHandler
	Organizations *OrganizationHandler
	Recordings    *RecordingHandler
	Admin         *AdminHandler
	Images        *ImageHandler
}

// NewRouter assembles the HTTP API
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.ErrorHandlingMiddleware(deps.Activity))
	r.Use(middleware.CORSMiddleware(middleware.DefaultCORSConfig()))
	r.Use(middleware.SecurityHeadersMiddleware)
	r.Use(deps.Auth.LoadUser)

	r.NotFound(middleware.NotFoundHandler().ServeHTTP)
	r.MethodNotAllowed(middleware.MethodNotAllowedHandler().ServeHTTP)

	loginLimiter := middleware.NewLoginRateLimiter(10, 5*time.Minute)

	r.Route("/api", func(r chi.Router) {
		// Auth
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.LoginRateLimit(loginLimiter)).Post("/register", deps.AuthHandler.Register)
			r.With(middleware.LoginRateLimit(loginLimiter)).Post("/login", deps.AuthHandler.Login)
			r.Post("/logout", deps.AuthHandler.Logout)

			r.Group(func(r chi.Router) {
				r.Use(deps.Auth.RequireAuth)
				r.Get("/me", deps.AuthHandler.Me)
				r.Put("/me", deps.AuthHandler.UpdateProfile)
			})
		})

		// Public catalog
		r.Get("/events", deps.Public.ListEvents)
		r.Get("/events/upcoming", deps.Public.UpcomingEvents)
		r.Get("/events/{eventID}", deps.Public.GetEvent)
		r.Get("/events/{eventID}/tiers", deps.Public.GetEventTiers)
		r.Get("/events/{eventID}/recordings", deps.Public.GetEventRecordings)
		r.Get("/artists", deps.Public.ListArtists)
		r.Get("/artists/{artistID}", deps.Public.GetArtist)
		r.Get("/artists/{artistID}/events", deps.Public.GetArtistEvents)
		r.Get("/venues", deps.Public.ListVenues)
		r.Get("/venues/{venueID}", deps.Public.GetVenue)
		r.Get("/recordings/{recordingID}", deps.Public.GetRecording)
		r.Get("/recordings/stats", deps.Public.GetRatingStats)

		// Ticket purchase flow
		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.RequireAuth)

			r.Post("/holds", deps.Orders.CreateHold)
			r.Get("/holds/{holdID}", deps.Orders.GetHold)
			r.Delete("/holds/{holdID}", deps.Orders.ReleaseHold)
			r.Post("/checkout", deps.Orders.Checkout)
			r.Post("/checkout/quote", deps.Orders.QuoteFees)
			r.Get("/orders/{orderID}", deps.Orders.GetOrder)
			r.Get("/orders/{orderID}/tickets", deps.Orders.GetOrderTickets)
			r.Get("/me/purchases", deps.Orders.PurchaseHistory)

			r.Post("/recordings/{recordingID}/ratings", deps.Recordings.RateRecording)
		})

		// Organizations
		r.Route("/organizations", func(r chi.Router) {
			r.Get("/", deps.Organizations.ListOrganizations)
			r.Get("/{orgID}", deps.Organizations.GetOrganization)

			r.Group(func(r chi.Router) {
				r.Use(deps.Auth.RequireAuth)
				r.Post("/", deps.Organizations.CreateOrganization)
				r.Put("/{orgID}", deps.Organizations.UpdateOrganization)
				r.Get("/{orgID}/staff", deps.Organizations.ListStaff)
				r.Post("/{orgID}/staff", deps.Organizations.AddStaff)
				r.Put("/{orgID}/staff/{userID}", deps.Organizations.UpdateStaffRole)
				r.Delete("/{orgID}/staff/{userID}", deps.Organizations.RemoveStaff)
			})
		})
		r.With(deps.Auth.RequireAuth).Get("/me/organizations", deps.Organizations.MyOrganizations)

		// Event management
		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.RequireAuth)
			r.Use(deps.Auth.RequireRole(models.RoleOrganizer))

			r.Post("/events", deps.Events.CreateEvent)
			r.Put("/events/{eventID}", deps.Events.UpdateEvent)
			r.Delete("/events/{eventID}", deps.Events.DeleteEvent)
			r.Post("/events/{eventID}/submit", deps.Events.SubmitForReview)
			r.Post("/events/{eventID}/cancel", deps.Events.CancelEvent)
			r.Post("/events/{eventID}/tiers", deps.Events.CreateTier)
			r.Put("/tiers/{tierID}", deps.Events.UpdateTier)
			r.Delete("/tiers/{tierID}", deps.Events.DeleteTier)
			r.Get("/events/{eventID}/dashboard", deps.Events.EventDashboard)
			r.Post("/posters", deps.Images.UploadPoster)
			r.Delete("/posters", deps.Images.DeletePoster)
		})

		// Administration
		r.Route("/admin", func(r chi.Router) {
			r.Use(deps.Auth.RequireAuth)
			r.Use(deps.Auth.RequireStaff)

			r.Get("/dashboard", deps.Admin.Dashboard)
			r.Get("/moderation", deps.Admin.ModerationQueue)
			r.Post("/moderation/{eventID}/approve", deps.Admin.ApproveEvent)
			r.Post("/moderation/{eventID}/reject", deps.Admin.RejectEvent)
			r.Get("/errors", deps.Admin.ErrorLog)
			r.Get("/users", deps.Admin.ListUsers)
			r.Put("/users/{userID}/role", deps.Admin.AssignRole)
			r.Post("/users/{userID}/deactivate", deps.Admin.DeactivateUser)
			r.Post("/promo-codes", deps.Admin.CreatePromoCode)
			r.Post("/tiers/{tierID}/sync", deps.Admin.SyncInventory)
			r.Post("/holds/expire", deps.Admin.ExpireHolds)
			r.Post("/tickets/scan", deps.Orders.ScanTicket)
			r.Post("/orders/{orderID}/refund", deps.Orders.RefundOrder)

			r.Post("/recordings", deps.Recordings.PublishRecording)
			r.Delete("/recordings/{recordingID}", deps.Recordings.DeleteRecording)

			r.Post("/artists", deps.Admin.CreateArtist)
			r.Put("/artists/{artistID}", deps.Admin.UpdateArtist)
			r.Delete("/artists/{artistID}", deps.Admin.DeleteArtist)
			r.Post("/venues", deps.Admin.CreateVenue)
			r.Put("/venues/{venueID}", deps.Admin.UpdateVenue)
			r.Delete("/venues/{venueID}", deps.Admin.DeleteVenue)
		})
	})

	return r
}
