package handlers

import (
	"net/http"
	"time"

	"stagepass/internal/middleware"
	"stagepass/internal/models"
	"stagepass/internal/repositories"
	"stagepass/internal/services"
	"stagepass/internal/utils"
)

// PublicHandler handles the public catalog: events, artists, venues and
// recordings.
type PublicHandler struct {
	eventService     *services.EventService
	ticketService    *services.TicketService
	artistService    *services.ArtistService
	venueService     *services.VenueService
	searchService    *services.SearchService
	recordingService *services.RecordingService
}

// NewPublicHandler creates a new public catalog handler
func NewPublicHandler(
	eventService *services.EventService,
	ticketService *services.TicketService,
	artistService *services.ArtistService,
	venueService *services.VenueService,
	searchService *services.SearchService,
	recordingService *services.RecordingService,
) *PublicHandler {
	return &PublicHandler{
		eventService:     eventService,
		ticketService:    ticketService,
		artistService:    artistService,
		venueService:     venueService,
		searchService:    searchService,
		recordingService: recordingService,
	}
}

// ListEvents lists events with optional filtering. A "q" parameter
// switches to fuzzy title search.
func (h *PublicHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	limit, offset := parsePagination(r)

	if query := r.URL.Query().Get("q"); query != "" {
		events, err := h.searchService.SearchEvents(query, limit)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, listResponse{Items: events, Total: len(events)})
		return
	}

	filters := repositories.EventSearchFilters{
		Limit:  limit,
		Offset: offset,
		SortBy: r.URL.Query().Get("sort_by"),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		filters.Status = models.EventStatus(raw)
	}
	if raw := r.URL.Query().Get("venue_id"); raw != "" {
		if id, err := urlQueryID(raw); err == nil {
			filters.VenueID = id
		}
	}
	if raw := r.URL.Query().Get("organization_id"); raw != "" {
		if id, err := urlQueryID(raw); err == nil {
			filters.OrganizationID = id
		}
	}
	if raw := r.URL.Query().Get("date_from"); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			filters.DateFrom = &ts
		}
	}
	if raw := r.URL.Query().Get("date_to"); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			filters.DateTo = &ts
		}
	}
	filters.SortDesc = r.URL.Query().Get("sort_order") == "desc"

	events, total, err := h.eventService.SearchEvents(user, filters)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, listResponse{Items: events, Total: total})
}

// UpcomingEvents lists published events starting soonest first
func (h *PublicHandler) UpcomingEvents(w http.ResponseWriter, r *http.Request) {
	limit, _ := parsePagination(r)

	events, err := h.eventService.GetUpcomingEvents(limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, listResponse{Items: events, Total: len(events)})
}

// GetEvent returns a single event
func (h *PublicHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "eventID")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	event, err := h.eventService.GetEvent(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Unpublished events are only visible to staff
	user := middleware.UserFromContext(r.Context())
	if event.Status != models.StatusPublished && (user == nil || !user.IsStaff()) {
		utils.WriteError(w, http.StatusNotFound, models.ErrEventNotFound.Error())
		return
	}

	utils.WriteJSON(w, http.StatusOK, event)
}

// GetEventTiers lists the ticket tiers of an event
func (h *PublicHandler) GetEventTiers(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "eventID")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	tiers, err := h.ticketService.GetEventTiers(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, listResponse{Items: tiers, Total: len(tiers)})
}

// ListArtists lists artists, optionally fuzzy-matched on "q"
func (h *PublicHandler) ListArtists(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	if query := r.URL.Query().Get("q"); query != "" {
		artists, err := h.searchService.SearchArtists(query, limit)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, listResponse{Items: artists, Total: len(artists)})
		return
	}

	artists, total, err := h.artistService.ListArtists(limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, listResponse{Items: artists, Total: total})
}

// GetArtist returns a single artist
func (h *PublicHandler) GetArtist(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "artistID")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	artist, err := h.artistService.GetArtist(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, artist)
}

// GetArtistEvents lists events an artist headlines or appears on
func (h *PublicHandler) GetArtistEvents(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "artistID")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	events, err := h.artistService.GetArtistEvents(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, listResponse{Items: events, Total: len(events)})
}

// ListVenues lists venues
func (h *PublicHandler) ListVenues(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	venues, total, err := h.venueService.ListVenues(limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, listResponse{Items: venues, Total: total})
}

// GetVenue returns a single venue
func (h *PublicHandler) GetVenue(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "venueID")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	venue, err := h.venueService.GetVenue(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, venue)
}

// GetEventRecordings lists the published recordings of an event
func (h *PublicHandler) GetEventRecordings(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "eventID")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	recordings, err := h.recordingService.GetEventRecordings(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, listResponse{Items: recordings, Total: len(recordings)})
}

// GetRecording returns a single recording with its ratings
func (h *PublicHandler) GetRecording(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "recordingID")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	recording, err := h.recordingService.GetRecording(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, recording)
}

// GetRatingStats returns aggregated recording rating statistics
func (h *PublicHandler) GetRatingStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.recordingService.GetRatingStats()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, stats)
}
