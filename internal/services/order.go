package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"stagepass/internal/cache"
	"stagepass/internal/models"
	"stagepass/internal/repositories"
)

// OrderRepository interface for order data operations
type OrderRepository interface {
	GetByID(id int) (*models.Order, error)
	GetByOrderNumber(orderNumber string) (*models.Order, error)
	GetByUser(userID int) ([]*models.Order, error)
	GetByEvent(eventID int) ([]*models.Order, error)
	UpdateStatus(id int, req *models.OrderUpdateRequest) (*models.Order, error)
	GetEventSalesSummary(eventID int) (*repositories.EventSalesSummary, error)
	CountByUser(userID int) (int, error)
}

// PromoRepository interface for promo code data operations
type PromoRepository interface {
	Create(req *models.PromoCodeCreateRequest) (*models.PromoCode, error)
	GetByCode(code string) (*models.PromoCode, error)
	IncrementUses(id int) error
	Deactivate(id int) error
	ListByEvent(eventID int) ([]*models.PromoCode, error)
}

// Fee rates. The service fee is a percentage of the subtotal plus a flat
// amount per ticket; the processing fee approximates card processing
// costs on the amount actually charged.
const (
	serviceFeePercent     = 7
	serviceFeePerTicket   = 50  // cents
	processingFeePermille = 29  // 2.9%
	processingFeeFlat     = 30  // cents
)

// FeeBreakdown itemizes the charges on an order. All amounts are cents.
type FeeBreakdown struct {
	SubtotalCents      int `json:"subtotal_cents"`
	ServiceFeeCents    int `json:"service_fee_cents"`
	ProcessingFeeCents int `json:"processing_fee_cents"`
	DiscountCents      int `json:"discount_cents"`
	TotalCents         int `json:"total_cents"`
}

// ComputeFees derives the fee breakdown for a purchase. The discount
// applies to the subtotal only; fees are charged on the discounted
// amount. A fully discounted order still pays no fees.
func ComputeFees(unitPriceCents, quantity, discountCents int) FeeBreakdown {
	subtotal := unitPriceCents * quantity

	if discountCents > subtotal {
		discountCents = subtotal
	}

	charged := subtotal - discountCents

	var serviceFee, processingFee int
	if charged > 0 {
		serviceFee = charged*serviceFeePercent/100 + serviceFeePerTicket*quantity
		processingFee = (charged+serviceFee)*processingFeePermille/1000 + processingFeeFlat
	}

	return FeeBreakdown{
		SubtotalCents:      subtotal,
		ServiceFeeCents:    serviceFee,
		ProcessingFeeCents: processingFee,
		DiscountCents:      discountCents,
		TotalCents:         charged + serviceFee + processingFee,
	}
}

// OrderService handles checkout and purchase history business logic
type OrderService struct {
	orderRepo  OrderRepository
	ticketRepo TicketRepository
	promoRepo  PromoRepository
	payments   PaymentProvider
	activity   *ActivityService
	cache      *cache.Store
}

// NewOrderService creates a new order service. A nil payments provider
// skips charging and trusts the request's payment reference.
func NewOrderService(orderRepo OrderRepository, ticketRepo TicketRepository, promoRepo PromoRepository, payments PaymentProvider, activity *ActivityService, store *cache.Store) *OrderService {
	return &OrderService{
		orderRepo:  orderRepo,
		ticketRepo: ticketRepo,
		promoRepo:  promoRepo,
		payments:   payments,
		activity:   activity,
		cache:      store,
	}
}

// CheckoutRequest represents a request to convert a hold into a purchase
type CheckoutRequest struct {
	HoldID       string `json:"hold_id"`
	PromoCode    string `json:"promo_code,omitempty"`
	PaymentID    string `json:"payment_id"`
	BillingEmail string `json:"billing_email"`
	BillingName  string `json:"billing_name"`
}

// CheckoutResult carries the completed order and its issued tickets
type CheckoutResult struct {
	Order   *models.Order    `json:"order"`
	Tickets []*models.Ticket `json:"tickets"`
	Fees    FeeBreakdown     `json:"fees"`
}

// Checkout converts the user's active hold into a completed order with
// issued tickets. The hold must belong to the requesting user and must
// not have expired.
func (s *OrderService) Checkout(user *models.User, req *CheckoutRequest) (*CheckoutResult, error) {
	if user == nil {
		return nil, models.ErrUnauthorized
	}

	hold, err := s.ticketRepo.GetHoldByID(req.HoldID)
	if err != nil {
		return nil, err
	}

	if hold.UserID != user.ID {
		return nil, models.ErrUnauthorized
	}

	if hold.IsExpired(time.Now()) {
		// Return the inventory now instead of waiting for the sweeper.
		// If the release fails the sweeper picks the hold up later.
		if hold.IsActive() {
			_ = s.ticketRepo.ExpireHold(req.HoldID)
		}
		return nil, models.ErrHoldExpired
	}

	tier, err := s.ticketRepo.GetTierByID(hold.TierID)
	if err != nil {
		return nil, err
	}

	var promo *models.PromoCode
	var discount int
	if req.PromoCode != "" {
		promo, err = s.promoRepo.GetByCode(req.PromoCode)
		if err != nil {
			return nil, err
		}

		if !promo.IsRedeemable(time.Now()) {
			return nil, fmt.Errorf("promo code is no longer redeemable")
		}

		if promo.EventID != nil && *promo.EventID != tier.EventID {
			return nil, fmt.Errorf("promo code does not apply to this event")
		}

		discount = promo.DiscountFor(tier.PriceCents * hold.Quantity)
	}

	fees := ComputeFees(tier.PriceCents, hold.Quantity, discount)

	orderNumber := models.GenerateOrderNumber()

	paymentID := req.PaymentID
	charged := false
	if s.payments != nil {
		charge, err := s.payments.Charge(context.Background(), ChargeRequest{
			AmountCents:  fees.TotalCents,
			Currency:     "USD",
			BillingEmail: req.BillingEmail,
			BillingName:  req.BillingName,
			Reference:    orderNumber,
		})
		if err != nil {
			return nil, fmt.Errorf("payment failed: %w", err)
		}
		paymentID = charge.PaymentID
		charged = true
	}

	details := repositories.SaleDetails{
		OrderNumber:        orderNumber,
		SubtotalCents:      fees.SubtotalCents,
		ServiceFeeCents:    fees.ServiceFeeCents,
		ProcessingFeeCents: fees.ProcessingFeeCents,
		DiscountCents:      fees.DiscountCents,
		TotalCents:         fees.TotalCents,
		PaymentID:          paymentID,
		BillingEmail:       req.BillingEmail,
		BillingName:        req.BillingName,
	}
	if promo != nil {
		details.PromoCodeID = &promo.ID
	}

	order, tickets, err := s.ticketRepo.ConvertHoldToSale(req.HoldID, details)
	if err != nil {
		// The customer was already charged; the money must go back.
		if charged {
			s.voidCharge(user.ID, paymentID)
		}
		if s.activity != nil && err == models.ErrHoldExpired {
			s.activity.LogActivity(&user.ID, "checkout.hold_expired", "ticket_hold", 0, nil)
		}
		return nil, err
	}

	if promo != nil {
		if err := s.promoRepo.IncrementUses(promo.ID); err != nil {
			// The sale already committed; a failed counter bump must not
			// unwind it.
			s.logPromoError(user.ID, promo.ID)
		}
	}

	if s.activity != nil {
		s.activity.LogActivity(&user.ID, "order.create", "order", order.ID, nil)
	}

	s.invalidateOrderCaches(user.ID, tier.EventID)

	return &CheckoutResult{Order: order, Tickets: tickets, Fees: fees}, nil
}

// GetOrder retrieves an order, restricted to its owner or staff
func (s *OrderService) GetOrder(id int, requester *models.User) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if requester == nil || (order.UserID != requester.ID && !requester.IsStaff()) {
		return nil, models.ErrUnauthorized
	}

	return order, nil
}

// GetOrderTickets retrieves an order's tickets, restricted to its owner
// or staff
func (s *OrderService) GetOrderTickets(orderID int, requester *models.User) ([]*models.Ticket, error) {
	if _, err := s.GetOrder(orderID, requester); err != nil {
		return nil, err
	}

	return s.ticketRepo.GetTicketsByOrder(orderID)
}

// RefundOrder marks a completed order refunded and voids nothing else;
// inventory is not returned since the event may have passed.
func (s *OrderService) RefundOrder(orderID int, requester *models.User) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}

	if requester == nil || !requester.IsStaff() {
		return nil, models.ErrUnauthorized
	}

	if !order.CanBeRefunded() {
		return nil, fmt.Errorf("order %s cannot be refunded", order.OrderNumber)
	}

	updated, err := s.orderRepo.UpdateStatus(orderID, &models.OrderUpdateRequest{
		Status:    models.OrderRefunded,
		PaymentID: order.PaymentID,
	})
	if err != nil {
		return nil, err
	}

	if s.activity != nil {
		s.activity.LogActivity(&requester.ID, "order.refund", "order", orderID, nil)
	}

	s.invalidateOrderCaches(order.UserID, order.EventID)

	return updated, nil
}

// EventOrderGroup is a user's purchases for one event
type EventOrderGroup struct {
	Event       *models.Event   `json:"event"`
	Orders      []*models.Order `json:"orders"`
	TicketCount int             `json:"ticket_count"`
	SpentCents  int             `json:"spent_cents"`
}

// PurchaseHistory is a user's completed purchases grouped by event and
// split into upcoming and past shows.
type PurchaseHistory struct {
	Upcoming []*EventOrderGroup `json:"upcoming"`
	Past     []*EventOrderGroup `json:"past"`
}

// GetPurchaseHistory groups a user's completed orders by event. Events
// starting now or later are upcoming, soonest first; past events are
// most recent first. An event starting exactly now counts as upcoming.
func (s *OrderService) GetPurchaseHistory(userID int) (*PurchaseHistory, error) {
	key := cache.UserEventsKey(userID)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			if history, ok := cached.(*PurchaseHistory); ok {
				return history, nil
			}
		}
	}

	orders, err := s.orderRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}

	history := GroupOrdersByEvent(orders, time.Now())

	if s.cache != nil {
		s.cache.Set(key, history, time.Minute)
	}

	return history, nil
}

// GroupOrdersByEvent builds the purchase history grouping at a given
// instant. Only completed orders are counted; pending, cancelled and
// refunded orders are excluded from both the groups and the totals.
func GroupOrdersByEvent(orders []*models.Order, now time.Time) *PurchaseHistory {
	groups := make(map[int]*EventOrderGroup)
	var ordered []*EventOrderGroup

	for _, order := range orders {
		if !order.IsCompleted() || order.Event == nil {
			continue
		}

		group, ok := groups[order.EventID]
		if !ok {
			group = &EventOrderGroup{Event: order.Event}
			groups[order.EventID] = group
			ordered = append(ordered, group)
		}

		group.Orders = append(group.Orders, order)
		group.TicketCount += order.TicketCount()
		group.SpentCents += order.TotalCents
	}

	history := &PurchaseHistory{}
	for _, group := range ordered {
		if group.Event.IsUpcoming(now) {
			history.Upcoming = append(history.Upcoming, group)
		} else {
			history.Past = append(history.Past, group)
		}
	}

	sort.SliceStable(history.Upcoming, func(i, j int) bool {
		return history.Upcoming[i].Event.StartDate.Before(history.Upcoming[j].Event.StartDate)
	})
	sort.SliceStable(history.Past, func(i, j int) bool {
		return history.Past[i].Event.StartDate.After(history.Past[j].Event.StartDate)
	})

	return history
}

// CreatePromoCode creates a promo code, staff only
func (s *OrderService) CreatePromoCode(requester *models.User, req *models.PromoCodeCreateRequest) (*models.PromoCode, error) {
	if requester == nil || !requester.IsStaff() {
		return nil, models.ErrUnauthorized
	}

	return s.promoRepo.Create(req)
}

// GetEventSales aggregates completed sales figures for an event
func (s *OrderService) GetEventSales(eventID int) (*repositories.EventSalesSummary, error) {
	return s.orderRepo.GetEventSalesSummary(eventID)
}

// voidCharge reverses a collected payment after the sale failed to
// commit. A failed void lands in the error log so staff can reconcile
// the payment manually.
func (s *OrderService) voidCharge(userID int, paymentID string) {
	if err := s.payments.Void(context.Background(), paymentID); err != nil {
		if s.activity == nil {
			return
		}
		details, _ := json.Marshal(map[string]string{
			"payment_id": paymentID,
			"error":      err.Error(),
		})
		s.activity.LogError(&userID, "payment.void_failed", "order", 0, details)
	}
}

func (s *OrderService) logPromoError(userID, promoID int) {
	if s.activity == nil {
		return
	}
	s.activity.LogError(&userID, "promo.increment_failed", "promo_code", promoID, nil)
}

func (s *OrderService) invalidateOrderCaches(userID, eventID int) {
	if s.cache == nil {
		return
	}
	s.cache.Invalidate(cache.UserEventsKey(userID))
	s.cache.Invalidate(cache.EventTiersKey(eventID))
	s.cache.Invalidate(cache.OrdersKey())
}
