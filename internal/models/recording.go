package models

import (
	"errors"
	"strings"
	"time"
)

// Recording represents a published recording of an event
type Recording struct {
	ID              int       `json:"id" db:"id"`
	EventID         int       `json:"event_id" db:"event_id"`
	Title           string    `json:"title" db:"title"`
	Description     string    `json:"description" db:"description"`
	MediaURL        string    `json:"media_url" db:"media_url"`
	MediaKey        string    `json:"media_key" db:"media_key"`
	DurationSeconds int       `json:"duration_seconds" db:"duration_seconds"`
	PublishedAt     time.Time `json:"published_at" db:"published_at"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`

	// Related data
	Ratings []*RecordingRating `json:"ratings,omitempty"`
}

// RecordingRating represents a single user rating of a recording
type RecordingRating struct {
	ID          int       `json:"id" db:"id"`
	RecordingID int       `json:"recording_id" db:"recording_id"`
	UserID      int       `json:"user_id" db:"user_id"`
	Score       int       `json:"score" db:"score"`
	Comment     string    `json:"comment" db:"comment"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// RecordingCreateRequest represents the data needed to create a recording
type RecordingCreateRequest struct {
	EventID         int    `json:"event_id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	MediaURL        string `json:"media_url"`
	MediaKey        string `json:"media_key"`
	DurationSeconds int    `json:"duration_seconds"`
}

// RatingCreateRequest represents a request to rate a recording
type RatingCreateRequest struct {
	RecordingID int    `json:"recording_id"`
	UserID      int    `json:"user_id"`
	Score       int    `json:"score"`
	Comment     string `json:"comment"`
}

// Validate validates recording creation data
func (req *RecordingCreateRequest) Validate() error {
	if req.EventID <= 0 {
		return errors.New("event id is required")
	}

	if strings.TrimSpace(req.Title) == "" {
		return errors.New("recording title is required")
	}

	if len(req.Title) > 255 {
		return errors.New("recording title must be less than 255 characters")
	}

	if req.DurationSeconds < 0 {
		return errors.New("recording duration cannot be negative")
	}

	return nil
}

// Validate validates a rating request
func (req *RatingCreateRequest) Validate() error {
	if req.RecordingID <= 0 {
		return errors.New("recording id is required")
	}

	if req.UserID <= 0 {
		return errors.New("user id is required")
	}

	if req.Score < 1 || req.Score > 5 {
		return errors.New("rating score must be between 1 and 5")
	}

	if len(req.Comment) > 2000 {
		return errors.New("rating comment must be less than 2000 characters")
	}

	return nil
}

// AverageScore returns the mean rating score and whether the recording has
// any ratings at all. A recording with zero ratings has no average rather
// than an average of zero.
func (r *Recording) AverageScore() (float64, bool) {
	if len(r.Ratings) == 0 {
		return 0, false
	}

	sum := 0
	for _, rating := range r.Ratings {
		sum += rating.Score
	}

	return float64(sum) / float64(len(r.Ratings)), true
}
