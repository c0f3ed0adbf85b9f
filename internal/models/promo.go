package models

import (
	"errors"
	"strings"
	"time"
)

// PromoCode represents a discount code that can be applied to orders.
// Exactly one of PercentOff or AmountOffCents is expected to be set.
type PromoCode struct {
	ID             int        `json:"id" db:"id"`
	Code           string     `json:"code" db:"code"`
	EventID        *int       `json:"event_id,omitempty" db:"event_id"`
	PercentOff     int        `json:"percent_off" db:"percent_off"`
	AmountOffCents int        `json:"amount_off_cents" db:"amount_off_cents"`
	MaxUses        int        `json:"max_uses" db:"max_uses"`
	Uses           int        `json:"uses" db:"uses"`
	IsActive       bool       `json:"is_active" db:"is_active"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty" db:"expires_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// PromoCodeCreateRequest represents the data needed to create a promo code
type PromoCodeCreateRequest struct {
	Code           string     `json:"code"`
	EventID        *int       `json:"event_id"`
	PercentOff     int        `json:"percent_off"`
	AmountOffCents int        `json:"amount_off_cents"`
	MaxUses        int        `json:"max_uses"`
	ExpiresAt      *time.Time `json:"expires_at"`
}

// Validate validates promo code creation data
func (req *PromoCodeCreateRequest) Validate() error {
	if strings.TrimSpace(req.Code) == "" {
		return errors.New("promo code is required")
	}

	if len(req.Code) > 50 {
		return errors.New("promo code must be less than 50 characters")
	}

	if req.PercentOff < 0 || req.PercentOff > 100 {
		return errors.New("percent off must be between 0 and 100")
	}

	if req.AmountOffCents < 0 {
		return errors.New("amount off cannot be negative")
	}

	if req.PercentOff == 0 && req.AmountOffCents == 0 {
		return errors.New("promo code must discount either a percentage or an amount")
	}

	if req.PercentOff > 0 && req.AmountOffCents > 0 {
		return errors.New("promo code cannot discount both a percentage and an amount")
	}

	if req.MaxUses < 0 {
		return errors.New("max uses cannot be negative")
	}

	return nil
}

// IsRedeemable reports whether the promo code can be applied at the given
// instant.
func (p *PromoCode) IsRedeemable(now time.Time) bool {
	if !p.IsActive {
		return false
	}

	if p.MaxUses > 0 && p.Uses >= p.MaxUses {
		return false
	}

	if p.ExpiresAt != nil && now.After(*p.ExpiresAt) {
		return false
	}

	return true
}

// DiscountFor returns the discount in cents for a given subtotal. The
// discount never exceeds the subtotal.
func (p *PromoCode) DiscountFor(subtotalCents int) int {
	var discount int
	if p.PercentOff > 0 {
		discount = subtotalCents * p.PercentOff / 100
	} else {
		discount = p.AmountOffCents
	}

	if discount > subtotalCents {
		discount = subtotalCents
	}

	return discount
}
