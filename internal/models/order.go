package models

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
	OrderRefunded  OrderStatus = "refunded"
)

// Order represents an order in the system. All monetary amounts are in
// cents.
type Order struct {
	ID                 int         `json:"id" db:"id"`
	UserID             int         `json:"user_id" db:"user_id"`
	EventID            int         `json:"event_id" db:"event_id"`
	OrderNumber        string      `json:"order_number" db:"order_number"`
	SubtotalCents      int         `json:"subtotal_cents" db:"subtotal_cents"`
	ServiceFeeCents    int         `json:"service_fee_cents" db:"service_fee_cents"`
	ProcessingFeeCents int         `json:"processing_fee_cents" db:"processing_fee_cents"`
	DiscountCents      int         `json:"discount_cents" db:"discount_cents"`
	TotalCents         int         `json:"total_cents" db:"total_cents"`
	PromoCodeID        *int        `json:"promo_code_id,omitempty" db:"promo_code_id"`
	Status             OrderStatus `json:"status" db:"status"`
	PaymentID          string      `json:"payment_id" db:"payment_id"`
	BillingEmail       string      `json:"billing_email" db:"billing_email"`
	BillingName        string      `json:"billing_name" db:"billing_name"`
	CreatedAt          time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at" db:"updated_at"`

	// Related data
	Items []*OrderItem `json:"items,omitempty"`
	Event *Event       `json:"event,omitempty"`
}

// OrderItem represents a line item within an order
type OrderItem struct {
	ID             int    `json:"id" db:"id"`
	OrderID        int    `json:"order_id" db:"order_id"`
	TierID         int    `json:"tier_id" db:"tier_id"`
	Quantity       int    `json:"quantity" db:"quantity"`
	UnitPriceCents int    `json:"unit_price_cents" db:"unit_price_cents"`
	TierName       string `json:"tier_name" db:"tier_name"`
}

// OrderUpdateRequest represents the data that can be updated for an order
type OrderUpdateRequest struct {
	Status    OrderStatus `json:"status"`
	PaymentID string      `json:"payment_id"`
}

var (
	// Order number format: ORD-YYYYMMDD-XXXXXX (e.g., ORD-20240101-123456)
	orderNumberRegex = regexp.MustCompile(`^ORD-\d{8}-\d{6}$`)
)

// GenerateOrderNumber generates a new order number in the form
// ORD-YYYYMMDD-XXXXXX where the suffix is a random six digit number.
func GenerateOrderNumber() string {
	datePart := time.Now().Format("20060102")

	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// crypto/rand failing is effectively unrecoverable; fall back to a
		// time-derived suffix so order creation still proceeds.
		n = big.NewInt(time.Now().UnixNano() % 1000000)
	}

	return fmt.Sprintf("ORD-%s-%06d", datePart, n.Int64())
}

// ValidateOrderNumber reports whether a string matches the order number format
func ValidateOrderNumber(orderNumber string) bool {
	return orderNumberRegex.MatchString(orderNumber)
}

// Validate validates order update data
func (req *OrderUpdateRequest) Validate() error {
	return validateOrderStatus(req.Status)
}

// Validate validates the order data
func (o *Order) Validate() error {
	if o.OrderNumber == "" {
		return errors.New("order number is required")
	}

	if !orderNumberRegex.MatchString(o.OrderNumber) {
		return errors.New("order number format is invalid")
	}

	if err := validateOrderAmounts(o.SubtotalCents, o.TotalCents); err != nil {
		return err
	}

	if err := validateOrderStatus(o.Status); err != nil {
		return err
	}

	return validateBillingInfo(o.BillingEmail, o.BillingName)
}

// validateOrderAmounts validates order monetary amounts
func validateOrderAmounts(subtotalCents, totalCents int) error {
	if subtotalCents < 0 {
		return errors.New("subtotal cannot be negative")
	}

	if totalCents < 0 {
		return errors.New("total amount cannot be negative")
	}

	// Maximum order amount of $100,000
	if totalCents > 10000000 {
		return errors.New("total amount cannot exceed $100,000")
	}

	return nil
}

// validateOrderStatus validates an order status
func validateOrderStatus(status OrderStatus) error {
	switch status {
	case OrderPending, OrderCompleted, OrderCancelled, OrderRefunded:
		return nil
	default:
		return errors.New("invalid order status")
	}
}

// validateBillingInfo validates order billing information
func validateBillingInfo(billingEmail, billingName string) error {
	if billingEmail == "" {
		return errors.New("billing email is required")
	}

	if err := validateEmail(billingEmail); err != nil {
		return errors.New("billing email format is invalid")
	}

	if strings.TrimSpace(billingName) == "" {
		return errors.New("billing name is required")
	}

	if len(billingName) > 255 {
		return errors.New("billing name must be less than 255 characters")
	}

	return nil
}

// TicketCount returns the total number of tickets across the order's items
func (o *Order) TicketCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

// IsCompleted returns true if the order is completed
func (o *Order) IsCompleted() bool {
	return o.Status == OrderCompleted
}

// IsPending returns true if the order is pending
func (o *Order) IsPending() bool {
	return o.Status == OrderPending
}

// CanBeRefunded returns true if the order can be refunded
func (o *Order) CanBeRefunded() bool {
	return o.Status == OrderCompleted
}
