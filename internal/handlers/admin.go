package handlers

import (
	"net/http"
	"strconv"
	"time"

	"stagepass/internal/middleware"
	"stagepass/internal/models"
	"stagepass/internal/services"
	"stagepass/internal/utils"
)

// AdminHandler handles moderation, catalog management and platform
// administration.
type AdminHandler struct {
	eventService     *services.EventService
	ticketService    *services.TicketService
	artistService    *services.ArtistService
	venueService     *services.VenueService
	orderService     *services.OrderService
	userService      *services.UserService
	analyticsService *services.AnalyticsService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	eventService *services.EventService,
	ticketService *services.TicketService,
	artistService *services.ArtistService,
	venueService *services.VenueService,
	orderService *services.OrderService,
	userService *services.UserService,
	analyticsService *services.AnalyticsService,
) *AdminHandler {
	return &AdminHandler{
		eventService:     eventService,
		ticketService:    ticketService,
		artistService:    artistService,
		venueService:     venueService,
		orderService:     orderService,
		userService:      userService,
		analyticsService: analyticsService,
	}
}

// ModerationQueue lists events awaiting review
func (h *AdminHandler) ModerationQueue(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	limit, offset := parsePagination(r)

	events, total, err := h.eventService.PendingReviewQueue(user, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, listResponse{Items: events, Total: total})
}

// ApproveEvent publishes a pending event
func (h *AdminHandler) ApproveEvent(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	id, err := urlParamID(r, "eventID")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.eventService.ApproveEvent(user, id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RejectEvent rejects a pending event with a reason
func (h *AdminHandler) RejectEvent(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	id, err := urlParamID(r, "eventID")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.eventService.RejectEvent(user, id, req.Reason); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Dashboard returns the platform-wide admin dashboard
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	dashboard, err := h.analyticsService.GetAdminDashboard(user)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, dashboard)
}

// ErrorLog returns recent error-level activity entries
func (h *AdminHandler) ErrorLog(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	limit, _ := parsePagination(r)

	since := time.Now().Add(-24 * time.Hour)
	if raw := r.URL.Query().Get("since"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.WriteError(w, http.StatusBadRequest, "invalid since timestamp")
			return
		}
		since = ts
	}

	entries, err := h.analyticsService.ErrorLog(user, since, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, listResponse{Items: entries, Total: len(entries)})
}

// ListUsers lists platform users (staff only)
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	limit, offset := parsePagination(r)

	users, total, err := h.userService.ListUsers(user, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, listResponse{Items: users, Total: total})
}

// AssignRole changes a user's platform role (admin only)
func (h *AdminHandler) AssignRole(w http.ResponseWriter, r *http.Request) {
	admin := middleware.UserFromContext(r.Context())

	userID, err := urlParamID(r, "userID")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		Role models.UserRole `json:"role"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.userService.AssignRole(admin, userID, req.Role)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, updated)
}

// DeactivateUser disables a user account (admin only)
func (h *AdminHandler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	admin := middleware.UserFromContext(r.Context())

	userID, err := urlParamID(r, "userID")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.userService.DeactivateUser(admin, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, updated)
}

// CreatePromoCode creates a promo code (staff only)
func (h *AdminHandler) CreatePromoCode(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req models.PromoCodeCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	promo, err := h.orderService.CreatePromoCode(user, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, promo)
}

// SyncInventory recomputes a tier's inventory counters from its holds
// and tickets.
func (h *AdminHandler) SyncInventory(w http.ResponseWriter, r *http.Request) {
	tierID, err := urlParamID(r, "tierID")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	tier, err := h.ticketService.SyncInventory(tierID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, tier)
}

// ExpireHolds expires lapsed holds immediately instead of waiting for
// the background sweeper.
func (h *AdminHandler) ExpireHolds(w http.ResponseWriter, r *http.Request) {
	batchSize := 100
	if raw := r.URL.Query().Get("batch_size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			batchSize = n
		}
	}

	expired, err := h.ticketService.ExpireLapsedHolds(batchSize)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]int{"expired": expired})
}

// CreateArtist adds an artist to the catalog
func (h *AdminHandler) CreateArtist(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req models.ArtistCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	artist, err := h.artistService.CreateArtist(user, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, artist)
}

// UpdateArtist updates an artist
func (h *AdminHandler) UpdateArtist(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	id, err := urlParamID(r, "artistID")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.ArtistUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	artist, err := h.artistService.UpdateArtist(user, id, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, artist)
}

// DeleteArtist removes an artist
func (h *AdminHandler) DeleteArtist(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	id, err := urlParamID(r, "artistID")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.artistService.DeleteArtist(user, id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateVenue adds a venue to the catalog
func (h *AdminHandler) CreateVenue(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req models.VenueCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	venue, err := h.venueService.CreateVenue(user, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, venue)
}

// UpdateVenue updates a venue
func (h *AdminHandler) UpdateVenue(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	id, err := urlParamID(r, "venueID")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.VenueUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	venue, err := h.venueService.UpdateVenue(user, id, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, venue)
}

// DeleteVenue removes a venue
func (h *AdminHandler) DeleteVenue(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	id, err := urlParamID(r, "venueID")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.venueService.DeleteVenue(user, id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
