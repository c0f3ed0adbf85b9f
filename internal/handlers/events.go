package handlers

import (
	"net/http"

	"stagepass/internal/middleware"
	"stagepass/internal/models"
	"stagepass/internal/services"
	"stagepass/internal/utils"
)

// EventHandler handles event management for organizers
type EventHandler struct {
	eventService     *services.EventService
	ticketService    *services.TicketService
	orgService       *services.OrganizationService
	analyticsService *services.AnalyticsService
}

// NewEventHandler creates a new event management handler
func NewEventHandler(
	eventService *services.EventService,
	ticketService *services.TicketService,
	orgService *services.OrganizationService,
	analyticsService *services.AnalyticsService,
) *EventHandler {
	return &EventHandler{
		eventService:     eventService,
		ticketService:    ticketService,
		orgService:       orgService,
		analyticsService: analyticsService,
	}
}

// CreateEvent creates a draft event
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req models.EventCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	event, err := h.eventService.CreateEvent(user, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, event)
}

// UpdateEvent updates an event
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	id, err := urlParamID(r, "eventID")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.EventUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	event, err := h.eventService.UpdateEvent(user, id, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, event)
}

// SubmitForReview moves a draft event into the moderation queue
func (h *EventHandler) SubmitForReview(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	id, err := urlParamID(r, "eventID")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.eventService.SubmitForReview(user, id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CancelEvent cancels a published event
func (h *EventHandler) CancelEvent(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	id, err := urlParamID(r, "eventID")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.eventService.CancelEvent(user, id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteEvent deletes a draft event
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	id, err := urlParamID(r, "eventID")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.eventService.DeleteEvent(user, id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateTier adds a ticket tier to an event the user administers
func (h *EventHandler) CreateTier(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	eventID, err := urlParamID(r, "eventID")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.TicketTierCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.EventID = eventID

	if err := h.requireEventAdmin(user, eventID); err != nil {
		writeServiceError(w, err)
		return
	}

	tier, err := h.ticketService.CreateTier(&req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, tier)
}

// UpdateTier updates a ticket tier
func (h *EventHandler) UpdateTier(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	tierID, err := urlParamID(r, "tierID")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.TicketTierUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.requireTierAdmin(user, tierID); err != nil {
		writeServiceError(w, err)
		return
	}

	tier, err := h.ticketService.UpdateTier(tierID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, tier)
}

// DeleteTier deletes a ticket tier with no sold tickets
func (h *EventHandler) DeleteTier(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	tierID, err := urlParamID(r, "tierID")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.requireTierAdmin(user, tierID); err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.ticketService.DeleteTier(tierID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// EventDashboard returns the organizer sales dashboard for an event
func (h *EventHandler) EventDashboard(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	eventID, err := urlParamID(r, "eventID")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	dashboard, err := h.analyticsService.GetEventDashboard(user, eventID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, dashboard)
}

// requireEventAdmin verifies the user administers the event's organization
func (h *EventHandler) requireEventAdmin(user *models.User, eventID int) error {
	event, err := h.eventService.GetEvent(eventID)
	if err != nil {
		return err
	}

	admin, err := h.orgService.IsOrganizationAdmin(user, event.OrganizationID)
	if err != nil {
		return err
	}
	if !admin {
		return models.ErrUnauthorized
	}
	return nil
}

// requireTierAdmin verifies the user administers the tier's event
func (h *EventHandler) requireTierAdmin(user *models.User, tierID int) error {
	tier, err := h.ticketService.GetTier(tierID)
	if err != nil {
		return err
	}
	return h.requireEventAdmin(user, tier.EventID)
}
