package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"stagepass/internal/middleware"
	"stagepass/internal/services"
	"stagepass/internal/utils"
)

// OrderHandler handles ticket holds, checkout and purchase history
type OrderHandler struct {
	ticketService *services.TicketService
	orderService  *services.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(ticketService *services.TicketService, orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		ticketService: ticketService,
		orderService:  orderService,
	}
}

// CreateHold reserves tickets from a tier for the authenticated user
func (h *OrderHandler) CreateHold(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req struct {
		TierID   int `json:"tier_id"`
		Quantity int `json:"quantity"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	hold, err := h.ticketService.HoldTickets(req.TierID, user.ID, req.Quantity)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, hold)
}

// GetHold returns a hold owned by the requester
func (h *OrderHandler) GetHold(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	holdID := chi.URLParam(r, "holdID")

	hold, err := h.ticketService.GetHold(holdID, user)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, hold)
}

// ReleaseHold releases a hold and returns its inventory
func (h *OrderHandler) ReleaseHold(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	holdID := chi.URLParam(r, "holdID")

	if err := h.ticketService.ReleaseHold(holdID, user); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Checkout converts a hold into a completed order
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req services.CheckoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.orderService.Checkout(user, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, result)
}

// QuoteFees returns the fee breakdown for a prospective purchase
func (h *OrderHandler) QuoteFees(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UnitPriceCents int `json:"unit_price_cents"`
		Quantity       int `json:"quantity"`
		DiscountCents  int `json:"discount_cents"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.UnitPriceCents < 0 || req.Quantity <= 0 || req.DiscountCents < 0 {
		utils.WriteError(w, http.StatusBadRequest, "invalid quote request")
		return
	}

	utils.WriteJSON(w, http.StatusOK, services.ComputeFees(req.UnitPriceCents, req.Quantity, req.DiscountCents))
}

// GetOrder returns an order visible to the requester
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	id, err := urlParamID(r, "orderID")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.orderService.GetOrder(id, user)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, order)
}

// GetOrderTickets returns the tickets issued for an order
func (h *OrderHandler) GetOrderTickets(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	id, err := urlParamID(r, "orderID")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	tickets, err := h.orderService.GetOrderTickets(id, user)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, listResponse{Items: tickets, Total: len(tickets)})
}

// RefundOrder refunds a completed order (staff only)
func (h *OrderHandler) RefundOrder(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	id, err := urlParamID(r, "orderID")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.orderService.RefundOrder(id, user)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, order)
}

// PurchaseHistory returns the requester's orders grouped by event
func (h *OrderHandler) PurchaseHistory(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	history, err := h.orderService.GetPurchaseHistory(user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, history)
}

// ScanTicket marks a ticket as scanned at the door (staff only)
func (h *OrderHandler) ScanTicket(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Code == "" {
		utils.WriteError(w, http.StatusBadRequest, "ticket code is required")
		return
	}

	ticket, err := h.ticketService.ScanTicket(req.Code)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, ticket)
}
