package models

import "errors"

// Common errors used throughout the application
var (
	ErrEventNotFound         = errors.New("event not found")
	ErrVenueNotFound         = errors.New("venue not found")
	ErrArtistNotFound        = errors.New("artist not found")
	ErrOrganizationNotFound  = errors.New("organization not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrOrderNotFound         = errors.New("order not found")
	ErrTicketNotFound        = errors.New("ticket not found")
	ErrTierNotFound          = errors.New("ticket tier not found")
	ErrHoldNotFound          = errors.New("ticket hold not found")
	ErrHoldExpired           = errors.New("ticket hold has expired")
	ErrHoldNotActive         = errors.New("ticket hold is not active")
	ErrRecordingNotFound     = errors.New("recording not found")
	ErrPromoCodeNotFound     = errors.New("promo code not found")
	ErrUnauthorized          = errors.New("unauthorized access")
	ErrInvalidInput          = errors.New("invalid input")
	ErrDuplicateEntry        = errors.New("duplicate entry")
	ErrInsufficientInventory = errors.New("insufficient ticket inventory")
)
