package models

import (
	"errors"
	"strings"
	"time"
)

// Artist represents a performer who can appear on event lineups
type Artist struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Genre     string    `json:"genre" db:"genre"`
	Bio       string    `json:"bio" db:"bio"`
	ImageURL  string    `json:"image_url" db:"image_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ArtistCreateRequest represents the data needed to create a new artist
type ArtistCreateRequest struct {
	Name     string `json:"name"`
	Genre    string `json:"genre"`
	Bio      string `json:"bio"`
	ImageURL string `json:"image_url"`
}

// ArtistUpdateRequest represents the data that can be updated for an artist
type ArtistUpdateRequest struct {
	Name     string `json:"name"`
	Genre    string `json:"genre"`
	Bio      string `json:"bio"`
	ImageURL string `json:"image_url"`
}

// Validate validates artist creation data
func (req *ArtistCreateRequest) Validate() error {
	return validateArtistFields(req.Name, req.Bio)
}

// Validate validates artist update data
func (req *ArtistUpdateRequest) Validate() error {
	return validateArtistFields(req.Name, req.Bio)
}

// validateArtistFields validates the required artist fields
func validateArtistFields(name, bio string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("artist name is required")
	}

	if len(name) > 255 {
		return errors.New("artist name must be less than 255 characters")
	}

	if len(bio) > 10000 {
		return errors.New("artist bio must be less than 10000 characters")
	}

	return nil
}
