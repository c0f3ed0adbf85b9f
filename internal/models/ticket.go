package models

import (
	"errors"
	"strings"
	"time"
)

// TicketTier represents a priced tier of tickets for an event. The
// inventory counters must always satisfy
// available + reserved + sold = total.
type TicketTier struct {
	ID         int       `json:"id" db:"id"`
	EventID    int       `json:"event_id" db:"event_id"`
	Name       string    `json:"name" db:"name"`
	PriceCents int       `json:"price_cents" db:"price_cents"`
	Total      int       `json:"total_tickets" db:"total_tickets"`
	Available  int       `json:"available_inventory" db:"available_inventory"`
	Reserved   int       `json:"reserved_inventory" db:"reserved_inventory"`
	Sold       int       `json:"sold_inventory" db:"sold_inventory"`
	SaleStart  time.Time `json:"sale_start" db:"sale_start"`
	SaleEnd    time.Time `json:"sale_end" db:"sale_end"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// TicketTierCreateRequest represents the data needed to create a ticket tier
type TicketTierCreateRequest struct {
	EventID    int       `json:"event_id"`
	Name       string    `json:"name"`
	PriceCents int       `json:"price_cents"`
	Total      int       `json:"total_tickets"`
	SaleStart  time.Time `json:"sale_start"`
	SaleEnd    time.Time `json:"sale_end"`
}

// TicketTierUpdateRequest represents the data that can be updated for a tier
type TicketTierUpdateRequest struct {
	Name       string    `json:"name"`
	PriceCents int       `json:"price_cents"`
	SaleStart  time.Time `json:"sale_start"`
	SaleEnd    time.Time `json:"sale_end"`
}

// HoldStatus represents the status of a ticket hold
type HoldStatus string

const (
	HoldActive    HoldStatus = "active"
	HoldReleased  HoldStatus = "released"
	HoldConverted HoldStatus = "converted"
	HoldExpired   HoldStatus = "expired"
)

// TicketHold represents a temporary inventory reservation with an expiry.
// While a hold is active its quantity is counted in the tier's reserved
// inventory.
type TicketHold struct {
	ID        string     `json:"id" db:"id"`
	TierID    int        `json:"tier_id" db:"tier_id"`
	UserID    int        `json:"user_id" db:"user_id"`
	Quantity  int        `json:"quantity" db:"quantity"`
	Status    HoldStatus `json:"status" db:"status"`
	ExpiresAt time.Time  `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// TicketStatus represents the status of an issued ticket
type TicketStatus string

const (
	TicketIssued  TicketStatus = "issued"
	TicketScanned TicketStatus = "scanned"
	TicketVoid    TicketStatus = "void"
)

// Ticket represents a single issued ticket
type Ticket struct {
	ID        int          `json:"id" db:"id"`
	OrderID   int          `json:"order_id" db:"order_id"`
	TierID    int          `json:"tier_id" db:"tier_id"`
	Code      string       `json:"code" db:"code"`
	Status    TicketStatus `json:"status" db:"status"`
	ScannedAt *time.Time   `json:"scanned_at,omitempty" db:"scanned_at"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
}

// Validate validates ticket tier creation data
func (req *TicketTierCreateRequest) Validate() error {
	if req.EventID <= 0 {
		return errors.New("event id is required")
	}

	if err := validateTierName(req.Name); err != nil {
		return err
	}

	if err := validateTierPrice(req.PriceCents); err != nil {
		return err
	}

	if req.Total <= 0 {
		return errors.New("ticket quantity must be greater than 0")
	}

	return validateSalePeriod(req.SaleStart, req.SaleEnd)
}

// Validate validates ticket tier update data
func (req *TicketTierUpdateRequest) Validate() error {
	if err := validateTierName(req.Name); err != nil {
		return err
	}

	if err := validateTierPrice(req.PriceCents); err != nil {
		return err
	}

	return validateSalePeriod(req.SaleStart, req.SaleEnd)
}

// validateTierName validates a ticket tier name
func validateTierName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("ticket tier name is required")
	}

	if len(name) > 255 {
		return errors.New("ticket tier name must be less than 255 characters")
	}

	return nil
}

// validateTierPrice validates a ticket tier price
func validateTierPrice(priceCents int) error {
	if priceCents < 0 {
		return errors.New("ticket price cannot be negative")
	}

	// Maximum ticket price of $10,000
	if priceCents > 1000000 {
		return errors.New("ticket price cannot exceed $10,000")
	}

	return nil
}

// validateSalePeriod validates a tier's sale window
func validateSalePeriod(saleStart, saleEnd time.Time) error {
	if saleStart.IsZero() {
		return errors.New("sale start date is required")
	}

	if saleEnd.IsZero() {
		return errors.New("sale end date is required")
	}

	if !saleStart.Before(saleEnd) {
		return errors.New("sale start date must be before sale end date")
	}

	return nil
}

// CountersConsistent reports whether the tier's inventory counters sum to
// the tier total.
func (t *TicketTier) CountersConsistent() bool {
	return t.Available+t.Reserved+t.Sold == t.Total
}

// IsSoldOut returns true if no inventory is available
func (t *TicketTier) IsSoldOut() bool {
	return t.Available <= 0
}

// SaleNotStarted returns true if the sale window has not opened yet
func (t *TicketTier) SaleNotStarted() bool {
	return time.Now().Before(t.SaleStart)
}

// SaleEnded returns true if the sale window has closed
func (t *TicketTier) SaleEnded() bool {
	return time.Now().After(t.SaleEnd)
}

// IsOnSale returns true if tickets can currently be held or purchased
func (t *TicketTier) IsOnSale() bool {
	return !t.IsSoldOut() && !t.SaleNotStarted() && !t.SaleEnded()
}

// IsActive returns true if the hold is active
func (h *TicketHold) IsActive() bool {
	return h.Status == HoldActive
}

// IsExpired reports whether the hold's expiry has passed at the given
// instant. A hold expiring exactly now is still valid.
func (h *TicketHold) IsExpired(now time.Time) bool {
	return now.After(h.ExpiresAt)
}
