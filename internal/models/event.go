package models

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// EventStatus represents the status of an event
type EventStatus string

const (
	StatusDraft         EventStatus = "draft"
	StatusPendingReview EventStatus = "pending_review"
	StatusPublished     EventStatus = "published"
	StatusRejected      EventStatus = "rejected"
	StatusCancelled     EventStatus = "cancelled"
	StatusArchived      EventStatus = "archived"
)

// Event represents an event in the system
type Event struct {
	ID              int         `json:"id" db:"id"`
	OrganizationID  int         `json:"organization_id" db:"organization_id"`
	VenueID         *int        `json:"venue_id,omitempty" db:"venue_id"`
	HeadlinerID     *int        `json:"headliner_id,omitempty" db:"headliner_id"`
	Title           string      `json:"title" db:"title"`
	Description     string      `json:"description" db:"description"`
	StartDate       time.Time   `json:"start_date" db:"start_date"`
	EndDate         time.Time   `json:"end_date" db:"end_date"`
	Status          EventStatus `json:"status" db:"status"`
	PosterURL       string      `json:"poster_url" db:"poster_url"`
	PosterKey       string      `json:"poster_key" db:"poster_key"`
	ReviewedAt      *time.Time  `json:"reviewed_at,omitempty" db:"reviewed_at"`
	ReviewedBy      *int        `json:"reviewed_by,omitempty" db:"reviewed_by"`
	RejectionReason string      `json:"rejection_reason" db:"rejection_reason"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" db:"updated_at"`

	// Related data
	Venue        *Venue        `json:"venue,omitempty"`
	Organization *Organization `json:"organization,omitempty"`
	Lineup       []*Artist     `json:"lineup,omitempty"`
}

// EventCreateRequest represents the data needed to create a new event
type EventCreateRequest struct {
	OrganizationID int         `json:"organization_id"`
	VenueID        *int        `json:"venue_id"`
	HeadlinerID    *int        `json:"headliner_id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	StartDate      time.Time   `json:"start_date"`
	EndDate        time.Time   `json:"end_date"`
	Status         EventStatus `json:"status"`
	PosterURL      string      `json:"poster_url"`
	PosterKey      string      `json:"poster_key"`
	ArtistIDs      []int       `json:"artist_ids"`
}

// EventUpdateRequest represents the data that can be updated for an event
type EventUpdateRequest struct {
	VenueID     *int        `json:"venue_id"`
	HeadlinerID *int        `json:"headliner_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	StartDate   time.Time   `json:"start_date"`
	EndDate     time.Time   `json:"end_date"`
	Status      EventStatus `json:"status"`
	PosterURL   string      `json:"poster_url"`
	PosterKey   string      `json:"poster_key"`
	ArtistIDs   []int       `json:"artist_ids"`
}

// Validate validates event creation data
func (req *EventCreateRequest) Validate() error {
	if req.OrganizationID <= 0 {
		return errors.New("organization id is required")
	}

	return validateEventFields(req.Title, req.Description, req.StartDate, req.EndDate, req.Status, req.PosterURL)
}

// Validate validates event update data
func (req *EventUpdateRequest) Validate() error {
	return validateEventFields(req.Title, req.Description, req.StartDate, req.EndDate, req.Status, req.PosterURL)
}

// validateEventFields validates the common event fields
func validateEventFields(title, description string, startDate, endDate time.Time, status EventStatus, posterURL string) error {
	if err := validateEventTitle(title); err != nil {
		return err
	}

	if err := validateEventDates(startDate, endDate); err != nil {
		return err
	}

	if err := validateEventStatus(status); err != nil {
		return err
	}

	if len(description) > 10000 {
		return errors.New("description must be less than 10000 characters")
	}

	return validatePosterURL(posterURL)
}

// validateEventTitle validates an event title
func validateEventTitle(title string) error {
	if title == "" {
		return errors.New("title is required")
	}

	if len(title) > 255 {
		return errors.New("title must be less than 255 characters")
	}

	if strings.TrimSpace(title) == "" {
		return errors.New("title cannot be only whitespace")
	}

	return nil
}

// validateEventDates validates event start and end dates
func validateEventDates(startDate, endDate time.Time) error {
	if startDate.IsZero() {
		return errors.New("start date is required")
	}

	if endDate.IsZero() {
		return errors.New("end date is required")
	}

	if startDate.After(endDate) {
		return errors.New("start date must be before end date")
	}

	return nil
}

// validateEventStatus validates an event status
func validateEventStatus(status EventStatus) error {
	switch status {
	case StatusDraft, StatusPendingReview, StatusPublished, StatusRejected, StatusCancelled, StatusArchived:
		return nil
	default:
		return errors.New("invalid event status")
	}
}

// validatePosterURL validates an event poster URL
func validatePosterURL(posterURL string) error {
	if posterURL == "" {
		return nil
	}

	if len(posterURL) > 500 {
		return errors.New("poster URL must be less than 500 characters")
	}

	parsed, err := url.Parse(posterURL)
	if err != nil {
		return errors.New("invalid poster URL format")
	}

	if parsed.Scheme != "" && parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("poster URL must use HTTP or HTTPS protocol, or be a relative path")
	}

	return nil
}

// IsPublished returns true if the event is published
func (e *Event) IsPublished() bool {
	return e.Status == StatusPublished
}

// IsDraft returns true if the event is a draft
func (e *Event) IsDraft() bool {
	return e.Status == StatusDraft
}

// IsCancelled returns true if the event is cancelled
func (e *Event) IsCancelled() bool {
	return e.Status == StatusCancelled
}

// IsPendingReview returns true if the event is awaiting moderation
func (e *Event) IsPendingReview() bool {
	return e.Status == StatusPendingReview
}

// IsUpcoming reports whether the event starts at or after the given instant.
// The boundary is inclusive: an event starting exactly now is upcoming.
func (e *Event) IsUpcoming(now time.Time) bool {
	return !e.StartDate.Before(now)
}

// IsOngoing returns true if the event is currently happening
func (e *Event) IsOngoing(now time.Time) bool {
	return now.After(e.StartDate) && now.Before(e.EndDate)
}

// IsPast reports whether the event started before the given instant.
func (e *Event) IsPast(now time.Time) bool {
	return e.StartDate.Before(now)
}

// CanBeEdited returns true if the event can still be edited
func (e *Event) CanBeEdited() bool {
	return e.Status != StatusArchived && e.StartDate.After(time.Now())
}

// CanBeCancelled returns true if the event can be cancelled
func (e *Event) CanBeCancelled() bool {
	return e.EndDate.After(time.Now()) && e.Status != StatusCancelled
}

// Duration returns the duration of the event
func (e *Event) Duration() time.Duration {
	return e.EndDate.Sub(e.StartDate)
}
