package models

import (
	"errors"
	"strings"
	"time"
)

// Venue represents a physical venue where events are held
type Venue struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Address     string    `json:"address" db:"address"`
	City        string    `json:"city" db:"city"`
	Country     string    `json:"country" db:"country"`
	Capacity    int       `json:"capacity" db:"capacity"`
	ImageURL    string    `json:"image_url" db:"image_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// VenueCreateRequest represents the data needed to create a new venue
type VenueCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Capacity    int    `json:"capacity"`
	ImageURL    string `json:"image_url"`
}

// VenueUpdateRequest represents the data that can be updated for a venue
type VenueUpdateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Capacity    int    `json:"capacity"`
	ImageURL    string `json:"image_url"`
}

// Validate validates venue creation data
func (req *VenueCreateRequest) Validate() error {
	return validateVenueFields(req.Name, req.City, req.Capacity)
}

// Validate validates venue update data
func (req *VenueUpdateRequest) Validate() error {
	return validateVenueFields(req.Name, req.City, req.Capacity)
}

// validateVenueFields validates the required venue fields
func validateVenueFields(name, city string, capacity int) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("venue name is required")
	}

	if len(name) > 255 {
		return errors.New("venue name must be less than 255 characters")
	}

	if strings.TrimSpace(city) == "" {
		return errors.New("venue city is required")
	}

	if capacity < 0 {
		return errors.New("venue capacity cannot be negative")
	}

	if capacity > 1000000 {
		return errors.New("venue capacity cannot exceed 1,000,000")
	}

	return nil
}
